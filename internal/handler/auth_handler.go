package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fiihub/fii-portal-api/internal/auth"
	"github.com/fiihub/fii-portal-api/internal/middleware"
	"github.com/fiihub/fii-portal-api/internal/service"
	"github.com/fiihub/fii-portal-api/internal/utils"
)

// AuthHandler handles admin login, logout and session introspection.
type AuthHandler struct {
	authService *service.AdminAuthService
	auth        *auth.Auth
	rateLimiter *middleware.LoginRateLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AdminAuthService, a *auth.Auth) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		auth:        a,
		rateLimiter: middleware.NewLoginRateLimiter(),
	}
}

// Login handles POST /api/admin/auth/login. On success the session cookie is
// set exactly once on the response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Requisição inválida")
		return
	}

	ip := c.ClientIP()
	if !h.rateLimiter.Allow(ip) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Muitas tentativas de login. Tente novamente em instantes.")
		return
	}

	token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Same answer for unknown email and wrong password.
		utils.Error(c, 401, "INVALID_CREDENTIALS", "Credenciais inválidas")
		return
	}

	h.rateLimiter.Reset(ip)
	h.auth.Cookies.Write(c, token)
	utils.Success(c, 200, "Login realizado com sucesso", nil)
}

// Logout handles POST /api/admin/auth/logout. It clears the cookie
// unconditionally and always reports success; the token itself stays valid
// until expiry since there is no server-side deny-list.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Cookies.Clear(c)
	utils.Success(c, 200, "Logout realizado com sucesso", nil)
}

// Me handles GET /api/admin/auth/me and returns the verified token payload.
func (h *AuthHandler) Me(c *gin.Context) {
	payload := requireAdmin(c, h.auth)
	if payload == nil {
		return
	}

	utils.Success(c, 200, "Sessão válida", gin.H{
		"id":        payload.Subject,
		"email":     payload.Email,
		"expiresAt": payload.ExpiresAt,
	})
}

// requireAdmin performs the full cryptographic verification the route guard
// deferred. Returns nil after writing a 401 when the token is missing or
// invalid; the two cases are indistinguishable to the client.
func requireAdmin(c *gin.Context, a *auth.Auth) *auth.Claims {
	payload := a.Payload(c)
	if payload == nil {
		utils.Error(c, 401, "INVALID_TOKEN", "Token inválido")
	}
	return payload
}
