package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fiihub/fii-portal-api/internal/database"
	"github.com/fiihub/fii-portal-api/internal/models"
	"github.com/fiihub/fii-portal-api/internal/utils"
)

// VideoStore is the subset of the video repository used by this service.
type VideoStore interface {
	ListPublished(ctx context.Context) ([]models.Video, error)
	List(ctx context.Context) ([]models.Video, error)
	GetByID(ctx context.Context, id int) (*models.Video, error)
	Create(ctx context.Context, video *models.Video) error
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id int) error
}

// VideoService serves analysis videos to subscribers and manages them for the
// admin panel.
type VideoService struct {
	videos VideoStore
	exec   *database.Executor
}

// NewVideoService constructs a VideoService.
func NewVideoService(videos VideoStore, exec *database.Executor) *VideoService {
	return &VideoService{videos: videos, exec: exec}
}

// ListPublished returns the published videos shown to subscribers.
func (s *VideoService) ListPublished(ctx context.Context) ([]models.Video, error) {
	var videos []models.Video
	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		videos, err = s.videos.ListPublished(ctx)
		return err
	})
	return videos, err
}

// List returns every video for the admin panel.
func (s *VideoService) List(ctx context.Context) ([]models.Video, error) {
	var videos []models.Video
	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		videos, err = s.videos.List(ctx)
		return err
	})
	return videos, err
}

// Create inserts a new video.
func (s *VideoService) Create(ctx context.Context, video *models.Video) error {
	return s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.videos.Create(ctx, video)
	})
}

// Update saves video changes.
func (s *VideoService) Update(ctx context.Context, video *models.Video) error {
	if _, err := s.get(ctx, video.ID); err != nil {
		return err
	}
	return s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.videos.Update(ctx, video)
	})
}

// Delete removes a video.
func (s *VideoService) Delete(ctx context.Context, id int) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	return s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.videos.Delete(ctx, id)
	})
}

func (s *VideoService) get(ctx context.Context, id int) (*models.Video, error) {
	var video *models.Video
	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		video, err = s.videos.GetByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.ErrVideoNotFound
		}
		return nil, err
	}
	return video, nil
}
