package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName is the fixed name of the admin session cookie.
const CookieName = "admin_token"

// cookieMaxAge matches the token lifetime.
const cookieMaxAge = int(TokenTTL / time.Second)

// CookieStore reads and writes the admin session cookie. Set and delete must
// use the identical attribute set or browsers will not clear the cookie, so
// both go through the same setter.
type CookieStore struct {
	secure bool
}

// NewCookieStore returns a CookieStore. secure should be true in production
// so the cookie is only sent over HTTPS.
func NewCookieStore(secure bool) *CookieStore {
	return &CookieStore{secure: secure}
}

// Read returns the session token from the request, or "" when the cookie is
// absent. Absence is not an error.
func (s *CookieStore) Read(c *gin.Context) string {
	v, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return v
}

// Write sets the session cookie on a successful login response.
func (s *CookieStore) Write(c *gin.Context, token string) {
	s.set(c, token, cookieMaxAge)
}

// Clear deletes the session cookie using the same name and attributes used to
// set it.
func (s *CookieStore) Clear(c *gin.Context) {
	s.set(c, "", -1)
}

func (s *CookieStore) set(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAge, "/", "", s.secure, true)
}

// Auth bundles the codec and cookie store for route handlers.
type Auth struct {
	Codec   *Codec
	Cookies *CookieStore
}

// NewAuth constructs the handler-side auth accessor.
func NewAuth(codec *Codec, cookies *CookieStore) *Auth {
	return &Auth{Codec: codec, Cookies: cookies}
}

// Payload extracts and fully verifies the admin token carried by the request.
// The route guard only checks cookie presence; this is where the cryptographic
// check happens. Returns nil when the request is not an authenticated admin.
func (a *Auth) Payload(c *gin.Context) *Claims {
	token := a.Cookies.Read(c)
	if token == "" {
		return nil
	}
	return a.Codec.Verify(token)
}
