package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fiihub/fii-portal-api/internal/middleware"
	"github.com/fiihub/fii-portal-api/internal/service"
	"github.com/fiihub/fii-portal-api/internal/utils"
)

// SubscriptionHandler exposes the authenticated user's subscription status.
type SubscriptionHandler struct {
	subscriptions *service.SubscriptionService
}

// NewSubscriptionHandler constructs a SubscriptionHandler.
func NewSubscriptionHandler(subscriptions *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

// GetMySubscription handles GET /api/me/subscription
func (h *SubscriptionHandler) GetMySubscription(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		utils.Error(c, 401, "UNAUTHORIZED", "Não autenticado")
		return
	}

	status, err := h.subscriptions.StatusForUser(c.Request.Context(), userID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao consultar assinatura")
		return
	}

	utils.Success(c, 200, "Assinatura consultada", gin.H{
		"status": status.Status,
		"plan":   status.Plan,
	})
}
