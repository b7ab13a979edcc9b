package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/fiihub/fii-portal-api/internal/auth"
	"github.com/fiihub/fii-portal-api/internal/identity"
)

type stubProvider struct {
	session *identity.Session
}

func (s stubProvider) SessionFromRequest(*gin.Context) *identity.Session { return s.session }

func guardRouter(provider identity.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewGuard(auth.NewCookieStore(false), provider).Handle())
	r.NoRoute(func(c *gin.Context) {
		c.String(http.StatusOK, "reached %s", c.Request.URL.Path)
	})
	return r
}

func doGet(r *gin.Engine, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGuardRedirectsAnonymousAdminUI(t *testing.T) {
	r := guardRouter(identity.NoProvider{})

	w := doGet(r, "/admin/reports")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/admin/login?callbackUrl="+url.QueryEscape("/admin/reports"), w.Header().Get("Location"))
}

func TestGuardDeniesAnonymousAdminAPI(t *testing.T) {
	r := guardRouter(identity.NoProvider{})

	w := doGet(r, "/api/admin/admins")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Não autenticado")
}

func TestGuardKeepsLoginEndpointsPublic(t *testing.T) {
	r := guardRouter(identity.NoProvider{})

	require.Equal(t, http.StatusOK, doGet(r, "/admin/login").Code)
	require.Equal(t, http.StatusOK, doGet(r, "/api/admin/auth/login").Code)
}

func TestGuardChecksCookiePresenceOnly(t *testing.T) {
	r := guardRouter(identity.NoProvider{})

	// Any non-empty cookie passes the guard. Token verification is the
	// handler's job, so even garbage reaches the route.
	w := doGet(r, "/admin/reports", &http.Cookie{Name: auth.CookieName, Value: "expired-or-garbage"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGuardDoesNotTreatSimilarPrefixAsAdmin(t *testing.T) {
	r := guardRouter(identity.NoProvider{})

	// "/administrators" is not under "/admin" and falls through to the
	// user policy, which redirects to sign-in instead of the admin login.
	w := doGet(r, "/administrators")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/sign-in?redirect_url="+url.QueryEscape("/administrators"), w.Header().Get("Location"))
}

func TestGuardAllowsPublicPaths(t *testing.T) {
	r := guardRouter(identity.NoProvider{})

	for _, path := range []string{
		"/",
		"/sign-in",
		"/sign-up/verify",
		"/favicon.ico",
		"/api/health",
		"/api/webhooks/stripe",
		"/api/reports/preview/3",
	} {
		require.Equal(t, http.StatusOK, doGet(r, path).Code, "path %s should be public", path)
	}
}

func TestGuardRedirectsAnonymousUserPage(t *testing.T) {
	r := guardRouter(identity.NoProvider{})

	w := doGet(r, "/reports/10")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/sign-in?redirect_url="+url.QueryEscape("/reports/10"), w.Header().Get("Location"))
}

func TestGuardDeniesAnonymousUserAPI(t *testing.T) {
	r := guardRouter(identity.NoProvider{})

	w := doGet(r, "/api/reports")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Não autenticado")
}

func TestGuardRedirectsAuthenticatedUserOffAuthPages(t *testing.T) {
	r := guardRouter(stubProvider{session: &identity.Session{UserID: "user_1", Email: "u@x.com"}})

	w := doGet(r, "/sign-in")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func TestGuardExposesUserSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewGuard(auth.NewCookieStore(false), stubProvider{
		session: &identity.Session{UserID: "user_1", Email: "u@x.com"},
	}).Handle())
	r.GET("/api/me/subscription", func(c *gin.Context) {
		c.String(http.StatusOK, "%s|%s", UserID(c), UserEmail(c))
	})

	w := doGet(r, "/api/me/subscription")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "user_1|u@x.com", w.Body.String())
}
