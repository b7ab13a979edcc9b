package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/fiihub/fii-portal-api/internal/models"
)

// AdminRepository provides data access methods for the admins table.
// Emails are stored lowercase; uniqueness is enforced by the store.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

const adminColumns = `id, email, password_hash, last_verified, created_at, updated_at`

// GetByEmail finds an admin by email (case-insensitive).
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.GetContext(ctx, &admin, `
		SELECT `+adminColumns+`
		FROM admins
		WHERE email = $1
	`, strings.ToLower(email))
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByID finds an admin by numeric id.
func (r *AdminRepository) GetByID(ctx context.Context, id int) (*models.Admin, error) {
	var admin models.Admin
	err := r.db.GetContext(ctx, &admin, `
		SELECT `+adminColumns+`
		FROM admins
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// List returns all admins ordered by creation time.
func (r *AdminRepository) List(ctx context.Context) ([]models.Admin, error) {
	admins := []models.Admin{}
	err := r.db.SelectContext(ctx, &admins, `
		SELECT `+adminColumns+`
		FROM admins
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	return admins, nil
}

// Count returns the number of admin records.
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM admins`); err != nil {
		return 0, err
	}
	return n, nil
}

// Create inserts a new admin. The email is lowercased before insert.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query, strings.ToLower(admin.Email), admin.PasswordHash).
		Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
}

// Delete removes an admin by id.
func (r *AdminRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	return err
}

// TouchLastVerified stamps a successful credential verification.
func (r *AdminRepository) TouchLastVerified(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admins SET last_verified = NOW(), updated_at = NOW() WHERE id = $1
	`, id)
	return err
}
