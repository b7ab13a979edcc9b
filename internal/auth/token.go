package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed lifetime of an admin session token. There is no
// server-side revocation: logout only clears the cookie, so a leaked token
// stays valid until it expires.
const TokenTTL = 24 * time.Hour

// tokenType is the fixed value of the "type" claim.
const tokenType = "admin"

// Claims is the verified payload of an admin session token.
type Claims struct {
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	Email string `json:"email"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// Codec signs and verifies admin session tokens with a single symmetric
// secret loaded once at process start.
type Codec struct {
	secret []byte
}

// NewCodec returns a Codec using the given signing secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Sign issues a token for the given admin. Issued-at and expiry are set here
// unconditionally; callers cannot extend the 24h window.
func (c *Codec) Sign(subject, email string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Email: email,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}
	return token, nil
}

// Verify parses and validates a token. It returns nil for any failure
// (malformed input, signature mismatch, wrong algorithm, wrong token type,
// expiry), so callers cannot distinguish failure modes and must treat nil as
// "not authenticated".
func (c *Codec) Verify(token string) *Claims {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil
	}
	if claims.Type != tokenType || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil
	}

	return &Claims{
		Subject:   claims.Subject,
		Email:     claims.Email,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}
