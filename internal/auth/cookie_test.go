package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func recordCookie(t *testing.T, fn func(c *gin.Context)) *http.Cookie {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestWriteSetsSessionCookie(t *testing.T) {
	store := NewCookieStore(true)
	cookie := recordCookie(t, func(c *gin.Context) { store.Write(c, "tok-123") })

	require.Equal(t, CookieName, cookie.Name)
	require.Equal(t, "tok-123", cookie.Value)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, cookieMaxAge, cookie.MaxAge)
	require.True(t, cookie.HttpOnly)
	require.True(t, cookie.Secure)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestClearUsesSameAttributes(t *testing.T) {
	store := NewCookieStore(true)
	set := recordCookie(t, func(c *gin.Context) { store.Write(c, "tok-123") })
	cleared := recordCookie(t, func(c *gin.Context) { store.Clear(c) })

	require.Empty(t, cleared.Value)
	require.Negative(t, cleared.MaxAge)

	// Browsers only delete the cookie when every other attribute matches.
	require.Equal(t, set.Name, cleared.Name)
	require.Equal(t, set.Path, cleared.Path)
	require.Equal(t, set.Domain, cleared.Domain)
	require.Equal(t, set.HttpOnly, cleared.HttpOnly)
	require.Equal(t, set.Secure, cleared.Secure)
	require.Equal(t, set.SameSite, cleared.SameSite)
}

func TestSecureFlagOffInDevelopment(t *testing.T) {
	store := NewCookieStore(false)
	cookie := recordCookie(t, func(c *gin.Context) { store.Write(c, "tok") })
	require.False(t, cookie.Secure)
}

func TestReadMissingCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	require.Empty(t, NewCookieStore(false).Read(c))
}

func TestPayloadVerifiesToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	codec := NewCodec("test-secret")
	a := NewAuth(codec, NewCookieStore(false))

	token, err := codec.Sign("7", "x@fiihub.com.br")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/admin/auth/me", nil)
	c.Request.AddCookie(&http.Cookie{Name: CookieName, Value: token})

	claims := a.Payload(c)
	require.NotNil(t, claims)
	require.Equal(t, "7", claims.Subject)

	// Tampered cookie fails the cryptographic check.
	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/api/admin/auth/me", nil)
	c2.Request.AddCookie(&http.Cookie{Name: CookieName, Value: token + "x"})
	require.Nil(t, a.Payload(c2))
}
