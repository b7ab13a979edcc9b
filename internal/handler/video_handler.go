package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/fiihub/fii-portal-api/internal/middleware"
	"github.com/fiihub/fii-portal-api/internal/service"
	"github.com/fiihub/fii-portal-api/internal/utils"
)

// VideoHandler serves analysis videos to subscribers.
type VideoHandler struct {
	videos        *service.VideoService
	subscriptions *service.SubscriptionService
}

// NewVideoHandler constructs a VideoHandler.
func NewVideoHandler(videos *service.VideoService, subscriptions *service.SubscriptionService) *VideoHandler {
	return &VideoHandler{videos: videos, subscriptions: subscriptions}
}

// ListVideos handles GET /api/videos
func (h *VideoHandler) ListVideos(c *gin.Context) {
	userID := middleware.UserID(c)
	if userID == "" {
		utils.Error(c, 401, "UNAUTHORIZED", "Não autenticado")
		return
	}

	active, err := h.subscriptions.HasActiveSubscription(c.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("subscription check failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao verificar assinatura")
		return
	}
	if !active {
		utils.Error(c, 403, "SUBSCRIPTION_REQUIRED", "Assinatura ativa necessária")
		return
	}

	videos, err := h.videos.ListPublished(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao listar vídeos")
		return
	}
	utils.Success(c, 200, "Vídeos listados", videos)
}
