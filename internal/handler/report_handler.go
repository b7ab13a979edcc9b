package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/fiihub/fii-portal-api/internal/middleware"
	"github.com/fiihub/fii-portal-api/internal/service"
	"github.com/fiihub/fii-portal-api/internal/utils"
)

// ReportHandler serves fund reports to end users. Listing and full access
// require an active subscription; previews are public.
type ReportHandler struct {
	reports       *service.ReportService
	subscriptions *service.SubscriptionService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reports *service.ReportService, subscriptions *service.SubscriptionService) *ReportHandler {
	return &ReportHandler{reports: reports, subscriptions: subscriptions}
}

// ListReports handles GET /api/reports
func (h *ReportHandler) ListReports(c *gin.Context) {
	if !h.requireSubscriber(c) {
		return
	}

	reports, err := h.reports.ListPublished(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao listar relatórios")
		return
	}
	utils.Success(c, 200, "Relatórios listados", reports)
}

// GetReport handles GET /api/reports/:id and returns the report with a
// short-lived PDF download URL.
func (h *ReportHandler) GetReport(c *gin.Context) {
	if !h.requireSubscriber(c) {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "ID inválido")
		return
	}

	report, downloadURL, err := h.reports.GetForSubscriber(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrReportNotFound) {
			utils.Error(c, 404, "REPORT_NOT_FOUND", "Relatório não encontrado")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao carregar relatório")
		return
	}

	utils.Success(c, 200, "Relatório carregado", gin.H{
		"report":      report,
		"downloadUrl": downloadURL,
	})
}

// PreviewReport handles GET /api/reports/preview/:id. The route is on the
// public allow-list: anyone sees the metadata, nobody gets the PDF here.
func (h *ReportHandler) PreviewReport(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "ID inválido")
		return
	}

	report, err := h.reports.Preview(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrReportNotFound) {
			utils.Error(c, 404, "REPORT_NOT_FOUND", "Relatório não encontrado")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao carregar relatório")
		return
	}
	utils.Success(c, 200, "Prévia do relatório", report)
}

// requireSubscriber checks that the request carries an authenticated end user
// with an active subscription. Writes the error response on failure.
func (h *ReportHandler) requireSubscriber(c *gin.Context) bool {
	userID := middleware.UserID(c)
	if userID == "" {
		utils.Error(c, 401, "UNAUTHORIZED", "Não autenticado")
		return false
	}

	active, err := h.subscriptions.HasActiveSubscription(c.Request.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("subscription check failed")
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao verificar assinatura")
		return false
	}
	if !active {
		utils.Error(c, 403, "SUBSCRIPTION_REQUIRED", "Assinatura ativa necessária")
		return false
	}
	return true
}
