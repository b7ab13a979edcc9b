package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/fiihub/fii-portal-api/internal/database"
	"github.com/fiihub/fii-portal-api/internal/models"
	"github.com/fiihub/fii-portal-api/internal/utils"
)

// ReportStore is the subset of the report repository used by this service.
type ReportStore interface {
	ListPublished(ctx context.Context) ([]models.Report, error)
	List(ctx context.Context) ([]models.Report, error)
	GetByID(ctx context.Context, id int) (*models.Report, error)
	Create(ctx context.Context, report *models.Report) error
	Update(ctx context.Context, report *models.Report) error
	SetPDFKey(ctx context.Context, id int, key string) error
	Delete(ctx context.Context, id int) error
}

// PDFStorage stores report PDFs and issues presigned download URLs.
type PDFStorage interface {
	UploadReportPDF(ctx context.Context, fundTicker, referenceMonth string, data []byte) (string, error)
	PresignGetURL(key string) (string, error)
}

// ReportService serves fund reports to subscribers and manages them for the
// admin panel.
type ReportService struct {
	reports ReportStore
	storage PDFStorage
	exec    *database.Executor
}

// NewReportService constructs a ReportService.
func NewReportService(reports ReportStore, storage PDFStorage, exec *database.Executor) *ReportService {
	return &ReportService{reports: reports, storage: storage, exec: exec}
}

// ListPublished returns the published reports shown to subscribers.
func (s *ReportService) ListPublished(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		reports, err = s.reports.ListPublished(ctx)
		return err
	})
	return reports, err
}

// List returns every report for the admin panel.
func (s *ReportService) List(ctx context.Context) ([]models.Report, error) {
	var reports []models.Report
	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		reports, err = s.reports.List(ctx)
		return err
	})
	return reports, err
}

// GetForSubscriber returns a published report plus a short-lived download URL
// for its PDF. Unpublished or unknown ids both surface as not found.
func (s *ReportService) GetForSubscriber(ctx context.Context, id int) (*models.Report, string, error) {
	report, err := s.get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !report.Published {
		return nil, "", utils.ErrReportNotFound
	}

	downloadURL := ""
	if report.PDFKey != "" {
		downloadURL, err = s.storage.PresignGetURL(report.PDFKey)
		if err != nil {
			log.Error().Err(err).Int("report_id", id).Msg("failed to presign report PDF")
			return nil, "", err
		}
	}
	return report, downloadURL, nil
}

// Preview returns the public preview of a published report: metadata only,
// no download URL. Used by the ungated preview route.
func (s *ReportService) Preview(ctx context.Context, id int) (*models.Report, error) {
	report, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !report.Published {
		return nil, utils.ErrReportNotFound
	}
	return report, nil
}

// Get returns a report by id for the admin panel.
func (s *ReportService) Get(ctx context.Context, id int) (*models.Report, error) {
	return s.get(ctx, id)
}

// Create inserts a new report.
func (s *ReportService) Create(ctx context.Context, report *models.Report) error {
	return s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.reports.Create(ctx, report)
	})
}

// Update saves report metadata changes.
func (s *ReportService) Update(ctx context.Context, report *models.Report) error {
	if _, err := s.get(ctx, report.ID); err != nil {
		return err
	}
	return s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.reports.Update(ctx, report)
	})
}

// AttachPDF uploads the report PDF to storage and records its key.
func (s *ReportService) AttachPDF(ctx context.Context, id int, data []byte) (string, error) {
	report, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}

	key, err := s.storage.UploadReportPDF(ctx, report.FundTicker, report.ReferenceMonth, data)
	if err != nil {
		return "", err
	}

	err = s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.reports.SetPDFKey(ctx, id, key)
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Delete removes a report.
func (s *ReportService) Delete(ctx context.Context, id int) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	return s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.reports.Delete(ctx, id)
	})
}

func (s *ReportService) get(ctx context.Context, id int) (*models.Report, error) {
	var report *models.Report
	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		report, err = s.reports.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}
