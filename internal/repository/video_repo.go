package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/fiihub/fii-portal-api/internal/models"
)

// VideoRepository provides data access methods for the videos table.
type VideoRepository struct {
	db *sqlx.DB
}

// NewVideoRepository creates a new VideoRepository.
func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

const videoColumns = `id, title, youtube_id, description, published, created_at, updated_at`

// ListPublished returns published videos, newest first.
func (r *VideoRepository) ListPublished(ctx context.Context) ([]models.Video, error) {
	videos := []models.Video{}
	err := r.db.SelectContext(ctx, &videos, `
		SELECT `+videoColumns+`
		FROM videos
		WHERE published = TRUE
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// List returns all videos for the admin panel.
func (r *VideoRepository) List(ctx context.Context) ([]models.Video, error) {
	videos := []models.Video{}
	err := r.db.SelectContext(ctx, &videos, `
		SELECT `+videoColumns+`
		FROM videos
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// GetByID finds a video by id.
func (r *VideoRepository) GetByID(ctx context.Context, id int) (*models.Video, error) {
	var video models.Video
	err := r.db.GetContext(ctx, &video, `
		SELECT `+videoColumns+`
		FROM videos
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// Create inserts a new video.
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	query := `
		INSERT INTO videos (title, youtube_id, description, published)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		video.Title,
		video.YoutubeID,
		video.Description,
		video.Published,
	).Scan(&video.ID, &video.CreatedAt, &video.UpdatedAt)
}

// Update updates an existing video.
func (r *VideoRepository) Update(ctx context.Context, video *models.Video) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE videos
		SET title = $1, youtube_id = $2, description = $3, published = $4, updated_at = NOW()
		WHERE id = $5
	`, video.Title, video.YoutubeID, video.Description, video.Published, video.ID)
	return err
}

// Delete removes a video by id.
func (r *VideoRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, id)
	return err
}
