package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/fiihub/fii-portal-api/internal/auth"
	"github.com/fiihub/fii-portal-api/internal/database"
	"github.com/fiihub/fii-portal-api/internal/models"
	"github.com/fiihub/fii-portal-api/internal/utils"
)

// AdminStore is the subset of the admin repository used by this service.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	GetByID(ctx context.Context, id int) (*models.Admin, error)
	List(ctx context.Context) ([]models.Admin, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, admin *models.Admin) error
	Delete(ctx context.Context, id int) error
	TouchLastVerified(ctx context.Context, id int) error
}

// AdminAuthService implements admin login and account management. All store
// access goes through the retry executor so a recycled pooled connection does
// not fail a login.
type AdminAuthService struct {
	admins AdminStore
	codec  *auth.Codec
	exec   *database.Executor
}

// NewAdminAuthService constructs an AdminAuthService.
func NewAdminAuthService(admins AdminStore, codec *auth.Codec, exec *database.Executor) *AdminAuthService {
	return &AdminAuthService{admins: admins, codec: codec, exec: exec}
}

// Login verifies credentials and returns a signed session token. Every
// failure maps to ErrInvalidCredentials so the response does not reveal
// whether the email exists.
func (s *AdminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	var admin *models.Admin
	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		admin, err = s.admins.GetByEmail(ctx, email)
		return err
	})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Msg("admin lookup failed")
		}
		return "", utils.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", admin.Email).Msg("password verification failed")
		return "", utils.ErrInvalidCredentials
	}

	// Best effort: a failed stamp must not block the login.
	if err := s.admins.TouchLastVerified(ctx, admin.ID); err != nil {
		log.Warn().Err(err).Int("admin_id", admin.ID).Msg("failed to stamp last_verified")
	}

	token, err := s.codec.Sign(strconv.Itoa(admin.ID), admin.Email)
	if err != nil {
		return "", err
	}

	log.Info().Str("email", admin.Email).Msg("admin login successful")
	return token, nil
}

// CreateAdmin registers a new admin account.
func (s *AdminAuthService) CreateAdmin(ctx context.Context, email, password string) (*models.Admin, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	err = s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.admins.Create(ctx, admin)
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, utils.ErrEmailTaken
		}
		return nil, err
	}
	return admin, nil
}

// ListAdmins returns all admin accounts.
func (s *AdminAuthService) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		admins, err = s.admins.List(ctx)
		return err
	})
	return admins, err
}

// DeleteAdmin removes an admin account. Two invariants are checked before any
// mutation: an admin cannot delete itself (requesterSubject is the token
// subject), and the last remaining admin cannot be deleted.
func (s *AdminAuthService) DeleteAdmin(ctx context.Context, requesterSubject string, targetID int) error {
	if requesterSubject == strconv.Itoa(targetID) {
		return utils.ErrSelfDeletion
	}

	var count int
	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		count, err = s.admins.Count(ctx)
		return err
	})
	if err != nil {
		return err
	}
	if count <= 1 {
		return utils.ErrLastAdmin
	}

	return s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.admins.Delete(ctx, targetID)
	})
}
