package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fiihub/fii-portal-api/internal/auth"
	"github.com/fiihub/fii-portal-api/internal/service"
	"github.com/fiihub/fii-portal-api/internal/utils"
)

// AdminHandler handles admin account management endpoints.
type AdminHandler struct {
	authService *service.AdminAuthService
	auth        *auth.Auth
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(authService *service.AdminAuthService, a *auth.Auth) *AdminHandler {
	return &AdminHandler{authService: authService, auth: a}
}

// ListAdmins handles GET /api/admin/admins
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	if requireAdmin(c, h.auth) == nil {
		return
	}

	admins, err := h.authService.ListAdmins(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao listar administradores")
		return
	}
	utils.Success(c, 200, "Administradores listados", admins)
}

// CreateAdmin handles POST /api/admin/admins
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	if requireAdmin(c, h.auth) == nil {
		return
	}

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Requisição inválida")
		return
	}

	admin, err := h.authService.CreateAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrEmailTaken) {
			utils.Error(c, 409, "EMAIL_TAKEN", "Já existe um administrador com este email")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao criar administrador")
		return
	}
	utils.Success(c, 201, "Administrador criado", admin)
}

// DeleteAdmin handles DELETE /api/admin/admins/:id. The invariants (no
// self-deletion, never delete the last admin) are rejected by the service
// before any mutation reaches the store.
func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	payload := requireAdmin(c, h.auth)
	if payload == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "ID inválido")
		return
	}

	err = h.authService.DeleteAdmin(c.Request.Context(), payload.Subject, id)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrSelfDeletion):
			utils.Error(c, 400, "SELF_DELETION", "Você não pode excluir sua própria conta")
		case errors.Is(err, utils.ErrLastAdmin):
			utils.Error(c, 400, "LAST_ADMIN", "Não é possível excluir o último administrador")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao excluir administrador")
		}
		return
	}
	utils.Success(c, 200, "Administrador excluído", nil)
}
