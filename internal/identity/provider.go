// Package identity integrates the third-party end-user identity provider.
// The portal never manages end-user credentials: it only verifies the session
// JWT the provider's frontend SDK stores in a cookie, and reads the user id
// and email from its claims.
package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gin-gonic/gin"

	"github.com/fiihub/fii-portal-api/internal/config"
)

// Session is the end-user identity attached to a request.
type Session struct {
	UserID string
	Email  string
}

// Provider resolves the end-user identity from a request. Implemented by the
// OIDC client below; faked in middleware tests.
type Provider interface {
	SessionFromRequest(c *gin.Context) *Session
}

// NoProvider treats every request as anonymous. Used in development when no
// issuer is configured.
type NoProvider struct{}

// SessionFromRequest always returns nil.
func (NoProvider) SessionFromRequest(*gin.Context) *Session { return nil }

// OIDCProvider verifies the provider session cookie against the issuer's
// JWKS, discovered once at startup.
type OIDCProvider struct {
	cookieName string
	verifier   *oidc.IDTokenVerifier
}

// NewOIDCProvider runs OIDC discovery against the configured issuer and
// prepares a verifier for the session cookie.
func NewOIDCProvider(ctx context.Context, cfg *config.IdentityConfig) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create OIDC provider: %w", err)
	}

	oidcCfg := &oidc.Config{ClientID: cfg.ClientID}
	if cfg.ClientID == "" {
		// Some providers issue session tokens without an audience.
		oidcCfg = &oidc.Config{SkipClientIDCheck: true}
	}

	return &OIDCProvider{
		cookieName: cfg.SessionCookie,
		verifier:   provider.Verifier(oidcCfg),
	}, nil
}

// SessionFromRequest returns the verified end-user session carried by the
// request, or nil when there is none. All verification failures look the same
// to the caller.
func (p *OIDCProvider) SessionFromRequest(c *gin.Context) *Session {
	raw, err := c.Cookie(p.cookieName)
	if err != nil || raw == "" {
		return nil
	}

	token, err := p.verifier.Verify(c.Request.Context(), raw)
	if err != nil {
		return nil
	}

	var claims struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
	}
	if err := token.Claims(&claims); err != nil || claims.Sub == "" {
		return nil
	}

	return &Session{UserID: claims.Sub, Email: claims.Email}
}
