package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fiihub/fii-portal-api/internal/auth"
	"github.com/fiihub/fii-portal-api/internal/models"
	"github.com/fiihub/fii-portal-api/internal/service"
	"github.com/fiihub/fii-portal-api/internal/utils"
)

// VideoManagementHandler handles the admin panel's video CRUD.
type VideoManagementHandler struct {
	videos *service.VideoService
	auth   *auth.Auth
}

// NewVideoManagementHandler constructs a VideoManagementHandler.
func NewVideoManagementHandler(videos *service.VideoService, a *auth.Auth) *VideoManagementHandler {
	return &VideoManagementHandler{videos: videos, auth: a}
}

type videoRequest struct {
	Title       string `json:"title" binding:"required"`
	YoutubeID   string `json:"youtubeId" binding:"required"`
	Description string `json:"description"`
	Published   bool   `json:"published"`
}

// ListVideos handles GET /api/admin/videos
func (h *VideoManagementHandler) ListVideos(c *gin.Context) {
	if requireAdmin(c, h.auth) == nil {
		return
	}

	videos, err := h.videos.List(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao listar vídeos")
		return
	}
	utils.Success(c, 200, "Vídeos listados", videos)
}

// CreateVideo handles POST /api/admin/videos
func (h *VideoManagementHandler) CreateVideo(c *gin.Context) {
	if requireAdmin(c, h.auth) == nil {
		return
	}

	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Requisição inválida")
		return
	}

	video := &models.Video{
		Title:       req.Title,
		YoutubeID:   req.YoutubeID,
		Description: req.Description,
		Published:   req.Published,
	}
	if err := h.videos.Create(c.Request.Context(), video); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao criar vídeo")
		return
	}
	utils.Success(c, 201, "Vídeo criado", video)
}

// UpdateVideo handles PUT /api/admin/videos/:id
func (h *VideoManagementHandler) UpdateVideo(c *gin.Context) {
	if requireAdmin(c, h.auth) == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "ID inválido")
		return
	}

	var req videoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Requisição inválida")
		return
	}

	video := &models.Video{
		ID:          id,
		Title:       req.Title,
		YoutubeID:   req.YoutubeID,
		Description: req.Description,
		Published:   req.Published,
	}
	if err := h.videos.Update(c.Request.Context(), video); err != nil {
		if errors.Is(err, utils.ErrVideoNotFound) {
			utils.Error(c, 404, "VIDEO_NOT_FOUND", "Vídeo não encontrado")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao atualizar vídeo")
		return
	}
	utils.Success(c, 200, "Vídeo atualizado", video)
}

// DeleteVideo handles DELETE /api/admin/videos/:id
func (h *VideoManagementHandler) DeleteVideo(c *gin.Context) {
	if requireAdmin(c, h.auth) == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "ID inválido")
		return
	}

	if err := h.videos.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, utils.ErrVideoNotFound) {
			utils.Error(c, 404, "VIDEO_NOT_FOUND", "Vídeo não encontrado")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao excluir vídeo")
		return
	}
	utils.Success(c, 200, "Vídeo excluído", nil)
}
