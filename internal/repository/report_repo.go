package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fiihub/fii-portal-api/internal/models"
)

// ReportRepository provides data access methods for the reports table.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, fund_ticker, title, summary, reference_month, pdf_key,
	published, created_at, updated_at`

// ListPublished returns published reports, newest reference month first.
func (r *ReportRepository) ListPublished(ctx context.Context) ([]models.Report, error) {
	reports := []models.Report{}
	err := r.db.SelectContext(ctx, &reports, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE published = TRUE
		ORDER BY reference_month DESC, fund_ticker ASC
	`)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// List returns all reports for the admin panel.
func (r *ReportRepository) List(ctx context.Context) ([]models.Report, error) {
	reports := []models.Report{}
	err := r.db.SelectContext(ctx, &reports, `
		SELECT `+reportColumns+`
		FROM reports
		ORDER BY reference_month DESC, fund_ticker ASC
	`)
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// GetByID finds a report by id.
func (r *ReportRepository) GetByID(ctx context.Context, id int) (*models.Report, error) {
	var report models.Report
	err := r.db.GetContext(ctx, &report, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// Create inserts a new report.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (fund_ticker, title, summary, reference_month, pdf_key, published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		report.FundTicker,
		report.Title,
		report.Summary,
		report.ReferenceMonth,
		report.PDFKey,
		report.Published,
	).Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt)
}

// Update updates an existing report's metadata.
func (r *ReportRepository) Update(ctx context.Context, report *models.Report) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reports
		SET fund_ticker = $1, title = $2, summary = $3, reference_month = $4,
		    published = $5, updated_at = NOW()
		WHERE id = $6
	`, report.FundTicker, report.Title, report.Summary, report.ReferenceMonth,
		report.Published, report.ID)
	return err
}

// SetPDFKey records the storage key after a PDF upload.
func (r *ReportRepository) SetPDFKey(ctx context.Context, id int, key string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reports SET pdf_key = $1, updated_at = NOW() WHERE id = $2
	`, key, id)
	return err
}

// Delete removes a report by id.
func (r *ReportRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = $1`, id)
	return err
}
