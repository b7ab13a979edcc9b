package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fiihub/fii-portal-api/internal/auth"
	"github.com/fiihub/fii-portal-api/internal/models"
	"github.com/fiihub/fii-portal-api/internal/service"
	"github.com/fiihub/fii-portal-api/internal/utils"
)

// maxPDFSize caps report uploads at 25 MB.
const maxPDFSize = 25 << 20

// ReportManagementHandler handles the admin panel's report CRUD.
type ReportManagementHandler struct {
	reports *service.ReportService
	auth    *auth.Auth
}

// NewReportManagementHandler constructs a ReportManagementHandler.
func NewReportManagementHandler(reports *service.ReportService, a *auth.Auth) *ReportManagementHandler {
	return &ReportManagementHandler{reports: reports, auth: a}
}

type reportRequest struct {
	FundTicker     string `json:"fundTicker" binding:"required"`
	Title          string `json:"title" binding:"required"`
	Summary        string `json:"summary"`
	ReferenceMonth string `json:"referenceMonth" binding:"required"`
	Published      bool   `json:"published"`
}

// ListReports handles GET /api/admin/reports
func (h *ReportManagementHandler) ListReports(c *gin.Context) {
	if requireAdmin(c, h.auth) == nil {
		return
	}

	reports, err := h.reports.List(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao listar relatórios")
		return
	}
	utils.Success(c, 200, "Relatórios listados", reports)
}

// CreateReport handles POST /api/admin/reports
func (h *ReportManagementHandler) CreateReport(c *gin.Context) {
	if requireAdmin(c, h.auth) == nil {
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Requisição inválida")
		return
	}

	report := &models.Report{
		FundTicker:     req.FundTicker,
		Title:          req.Title,
		Summary:        req.Summary,
		ReferenceMonth: req.ReferenceMonth,
		Published:      req.Published,
	}
	if err := h.reports.Create(c.Request.Context(), report); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao criar relatório")
		return
	}
	utils.Success(c, 201, "Relatório criado", report)
}

// UpdateReport handles PUT /api/admin/reports/:id
func (h *ReportManagementHandler) UpdateReport(c *gin.Context) {
	if requireAdmin(c, h.auth) == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "ID inválido")
		return
	}

	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Requisição inválida")
		return
	}

	report := &models.Report{
		ID:             id,
		FundTicker:     req.FundTicker,
		Title:          req.Title,
		Summary:        req.Summary,
		ReferenceMonth: req.ReferenceMonth,
		Published:      req.Published,
	}
	if err := h.reports.Update(c.Request.Context(), report); err != nil {
		if errors.Is(err, utils.ErrReportNotFound) {
			utils.Error(c, 404, "REPORT_NOT_FOUND", "Relatório não encontrado")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao atualizar relatório")
		return
	}
	utils.Success(c, 200, "Relatório atualizado", report)
}

// UploadPDF handles POST /api/admin/reports/:id/pdf. The body is the raw PDF.
func (h *ReportManagementHandler) UploadPDF(c *gin.Context) {
	if requireAdmin(c, h.auth) == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "ID inválido")
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPDFSize+1))
	if err != nil || len(data) == 0 {
		utils.Error(c, 400, "INVALID_FILE", "Arquivo inválido")
		return
	}
	if len(data) > maxPDFSize {
		utils.Error(c, 413, "FILE_TOO_LARGE", "Arquivo excede o tamanho máximo")
		return
	}

	key, err := h.reports.AttachPDF(c.Request.Context(), id, data)
	if err != nil {
		if errors.Is(err, utils.ErrReportNotFound) {
			utils.Error(c, 404, "REPORT_NOT_FOUND", "Relatório não encontrado")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao enviar arquivo")
		return
	}
	utils.Success(c, 200, "Arquivo enviado", gin.H{"pdfKey": key})
}

// DeleteReport handles DELETE /api/admin/reports/:id
func (h *ReportManagementHandler) DeleteReport(c *gin.Context) {
	if requireAdmin(c, h.auth) == nil {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "ID inválido")
		return
	}

	if err := h.reports.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, utils.ErrReportNotFound) {
			utils.Error(c, 404, "REPORT_NOT_FOUND", "Relatório não encontrado")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Erro ao excluir relatório")
		return
	}
	utils.Success(c, 200, "Relatório excluído", nil)
}
