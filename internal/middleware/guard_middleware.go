package middleware

import (
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fiihub/fii-portal-api/internal/auth"
	"github.com/fiihub/fii-portal-api/internal/identity"
)

// Route classification states. Every request is classified exactly once, in
// order: public admin endpoints, protected admin namespaces, everything else.
type routeClass int

const (
	classUnclassified routeClass = iota
	classPublicAdmin
	classProtectedAdmin
	classNonAdmin
)

const (
	adminLoginPage = "/admin/login"
	adminLoginAPI  = "/api/admin/auth/login"

	adminUIPrefix  = "/admin"
	adminAPIPrefix = "/api/admin"
)

// publicPatterns are the non-admin paths that bypass end-user authentication.
// A pattern is matched exactly, or as a prefix when it ends in "(.*)". The
// list is compiled per request, like the portal frontend does.
var publicPatterns = []string{
	"/",
	"/sign-in(.*)",
	"/sign-up(.*)",
	"/favicon.ico",
	"/_assets(.*)",
	"/api/health",
	"/api/webhooks(.*)",
	"/api/reports/preview(.*)",
}

type guardAction int

const (
	actionAllow guardAction = iota
	actionRedirect
	actionDeny
)

// decision is the outcome of an access policy for one request.
type decision struct {
	action  guardAction
	target  string // redirect location
	message string // deny message
}

var (
	allow = decision{action: actionAllow}
)

func redirectTo(target string) decision {
	return decision{action: actionRedirect, target: target}
}

func deny(message string) decision {
	return decision{action: actionDeny, message: message}
}

// accessPolicy decides whether a classified request may proceed. Two
// implementations exist: one per identity system.
type accessPolicy interface {
	Decide(c *gin.Context) decision
}

// Guard classifies every inbound request and delegates to the matching
// access policy. For admin paths it is deliberately cheap: only cookie
// presence is checked here, full token verification happens in the handler.
// An expired-but-present cookie therefore passes the guard and is rejected
// deeper in the stack.
type Guard struct {
	admin accessPolicy
	user  accessPolicy
}

// NewGuard constructs the route guard from the admin cookie store and the
// end-user identity provider.
func NewGuard(cookies *auth.CookieStore, provider identity.Provider) *Guard {
	return &Guard{
		admin: &adminPolicy{cookies: cookies},
		user:  &userPolicy{provider: provider},
	}
}

// Handle returns the Gin middleware that runs before every handler.
func (g *Guard) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch classify(c.Request.URL.Path) {
		case classPublicAdmin:
			c.Next()
		case classProtectedAdmin:
			g.apply(c, g.admin.Decide(c))
		default:
			g.apply(c, g.user.Decide(c))
		}
	}
}

func (g *Guard) apply(c *gin.Context, d decision) {
	switch d.action {
	case actionRedirect:
		c.Redirect(http.StatusFound, d.target)
		c.Abort()
	case actionDeny:
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": d.message})
		c.Abort()
	default:
		c.Next()
	}
}

// classify maps a request path onto its route class. Order matters: the login
// endpoints live under the protected prefixes but must stay reachable.
func classify(path string) routeClass {
	if path == adminLoginPage || path == adminLoginAPI {
		return classPublicAdmin
	}
	if hasPathPrefix(path, adminUIPrefix) || hasPathPrefix(path, adminAPIPrefix) {
		return classProtectedAdmin
	}
	return classNonAdmin
}

// hasPathPrefix matches whole path segments so e.g. /administrators is not
// treated as an admin path.
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// adminPolicy protects the admin namespaces with a presence-only check of the
// session cookie.
type adminPolicy struct {
	cookies *auth.CookieStore
}

func (p *adminPolicy) Decide(c *gin.Context) decision {
	if p.cookies.Read(c) != "" {
		return allow
	}

	path := c.Request.URL.Path
	if hasPathPrefix(path, adminAPIPrefix) {
		return deny("Não autenticado")
	}
	return redirectTo(adminLoginPage + "?callbackUrl=" + url.QueryEscape(path))
}

// userPolicy arbitrates end-user access via the third-party identity
// provider.
type userPolicy struct {
	provider identity.Provider
}

func (p *userPolicy) Decide(c *gin.Context) decision {
	path := c.Request.URL.Path
	sess := p.provider.SessionFromRequest(c)

	// Authenticated users should not see the auth pages.
	if sess != nil && isAuthPage(path) {
		return redirectTo("/")
	}

	if isPublicPath(path) {
		setUserSession(c, sess)
		return allow
	}

	if sess == nil {
		if strings.HasPrefix(path, "/api/") {
			return deny("Não autenticado")
		}
		return redirectTo("/sign-in?redirect_url=" + url.QueryEscape(path))
	}

	setUserSession(c, sess)
	return allow
}

func isAuthPage(path string) bool {
	return hasPathPrefix(path, "/sign-in") || hasPathPrefix(path, "/sign-up")
}

// isPublicPath checks the allow-list. Patterns are compiled on every call;
// the list is small and correctness does not depend on caching.
func isPublicPath(path string) bool {
	for _, pattern := range publicPatterns {
		re, err := regexp.Compile("^" + pattern + "$")
		if err != nil {
			continue
		}
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
)

func setUserSession(c *gin.Context, sess *identity.Session) {
	if sess == nil {
		return
	}
	c.Set(ctxUserID, sess.UserID)
	c.Set(ctxUserEmail, sess.Email)
}

// UserID returns the authenticated end-user id from context, if any.
func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// UserEmail returns the authenticated end-user email from context, if any.
func UserEmail(c *gin.Context) string {
	return c.GetString(ctxUserEmail)
}
