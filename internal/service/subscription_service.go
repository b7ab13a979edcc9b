package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fiihub/fii-portal-api/internal/cache"
	"github.com/fiihub/fii-portal-api/internal/database"
	"github.com/fiihub/fii-portal-api/internal/models"
)

// SubscriptionStatusNone is reported for users with no subscription row.
const SubscriptionStatusNone = "none"

// SubscriptionStore is the subset of the subscription repository used here.
type SubscriptionStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Subscription, error)
	GetByStripeSubscriptionID(ctx context.Context, stripeID string) (*models.Subscription, error)
	Upsert(ctx context.Context, sub *models.Subscription) error
	Cancel(ctx context.Context, stripeID string, canceledAt time.Time) error
}

// StatusCache caches subscription statuses for the gating path.
type StatusCache interface {
	Get(ctx context.Context, userID string) (*cache.SubscriptionStatus, error)
	Set(ctx context.Context, status *cache.SubscriptionStatus) error
	Invalidate(ctx context.Context, userID string) error
}

// SubscriptionService reads subscription status for content gating and
// applies billing webhook events. It is the only writer of subscription rows.
type SubscriptionService struct {
	subs  SubscriptionStore
	cache StatusCache
	exec  *database.Executor
}

// NewSubscriptionService constructs a SubscriptionService.
func NewSubscriptionService(subs SubscriptionStore, statusCache StatusCache, exec *database.Executor) *SubscriptionService {
	return &SubscriptionService{subs: subs, cache: statusCache, exec: exec}
}

// StatusForUser returns the user's subscription status, from cache when
// possible. Users without a subscription row get SubscriptionStatusNone.
func (s *SubscriptionService) StatusForUser(ctx context.Context, userID string) (*cache.SubscriptionStatus, error) {
	if s.cache != nil {
		if status, err := s.cache.Get(ctx, userID); err == nil {
			return status, nil
		}
	}

	var sub *models.Subscription
	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		sub, err = s.subs.GetByUserID(ctx, userID)
		return err
	})

	status := &cache.SubscriptionStatus{UserID: userID, Status: SubscriptionStatusNone}
	switch {
	case err == nil:
		status.Status = sub.Status
		status.Plan = sub.Plan
	case errors.Is(err, sql.ErrNoRows):
		// no row: leave status as "none"
	default:
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, status); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("failed to cache subscription status")
		}
	}
	return status, nil
}

// HasActiveSubscription reports whether the user may access gated content.
func (s *SubscriptionService) HasActiveSubscription(ctx context.Context, userID string) (bool, error) {
	status, err := s.StatusForUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return status.Status == models.SubscriptionActive, nil
}

// ApplyInvoicePaid activates (or refreshes) the subscription for a user after
// the billing provider confirms payment.
func (s *SubscriptionService) ApplyInvoicePaid(ctx context.Context, userID, email, plan, stripeSubID, stripeCustID string) error {
	sub := &models.Subscription{
		UserID:               userID,
		Email:                email,
		Status:               models.SubscriptionActive,
		Plan:                 plan,
		StripeSubscriptionID: stripeSubID,
		StripeCustomerID:     stripeCustID,
	}

	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.subs.Upsert(ctx, sub)
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	log.Info().Str("user_id", userID).Str("plan", plan).Msg("subscription activated")
	return nil
}

// ApplySubscriptionDeleted cancels the subscription identified by the billing
// provider id.
func (s *SubscriptionService) ApplySubscriptionDeleted(ctx context.Context, stripeSubID string) error {
	var sub *models.Subscription
	err := s.exec.Execute(ctx, func(ctx context.Context) error {
		var err error
		sub, err = s.subs.GetByStripeSubscriptionID(ctx, stripeSubID)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Nothing to cancel; the provider may replay old events.
			log.Warn().Str("stripe_subscription_id", stripeSubID).Msg("cancel event for unknown subscription")
			return nil
		}
		return err
	}

	err = s.exec.Execute(ctx, func(ctx context.Context) error {
		return s.subs.Cancel(ctx, stripeSubID, time.Now())
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, sub.UserID)
	log.Info().Str("user_id", sub.UserID).Msg("subscription canceled")
	return nil
}

func (s *SubscriptionService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate subscription cache")
	}
}
