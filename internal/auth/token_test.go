package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	codec := NewCodec("test-secret")

	token, err := codec.Sign("42", "admin@fiihub.com.br")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := codec.Verify(token)
	require.NotNil(t, claims)
	require.Equal(t, "42", claims.Subject)
	require.Equal(t, "admin@fiihub.com.br", claims.Email)
	require.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
	require.WithinDuration(t, time.Now().Add(TokenTTL), claims.ExpiresAt, 5*time.Second)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewCodec("secret-a").Sign("1", "a@fiihub.com.br")
	require.NoError(t, err)

	require.Nil(t, NewCodec("secret-b").Verify(token))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	codec := NewCodec("test-secret")

	require.Nil(t, codec.Verify(""))
	require.Nil(t, codec.Verify("not-a-token"))
	require.Nil(t, codec.Verify("aaa.bbb.ccc"))
}

func TestVerifyRejectsExpired(t *testing.T) {
	secret := []byte("test-secret")
	claims := tokenClaims{
		Email: "a@fiihub.com.br",
		Type:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	require.Nil(t, NewCodec("test-secret").Verify(token))
}

func TestVerifyRejectsWrongType(t *testing.T) {
	secret := []byte("test-secret")
	claims := tokenClaims{
		Email: "a@fiihub.com.br",
		Type:  "user",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	require.Nil(t, NewCodec("test-secret").Verify(token))
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	claims := tokenClaims{
		Email: "a@fiihub.com.br",
		Type:  "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	require.Nil(t, NewCodec("test-secret").Verify(token))
}
