package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fiihub/fii-portal-api/internal/models"
)

// SubscriptionRepository provides data access methods for the subscriptions
// table. Rows are written only from the billing webhook path.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, user_id, email, status, plan, stripe_subscription_id,
	stripe_customer_id, canceled_at, created_at, updated_at`

// GetByUserID finds a subscription by the identity provider user id.
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.GetContext(ctx, &sub, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetByStripeSubscriptionID finds a subscription by the billing provider id.
func (r *SubscriptionRepository) GetByStripeSubscriptionID(ctx context.Context, stripeID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.GetContext(ctx, &sub, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE stripe_subscription_id = $1
	`, stripeID)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert activates or refreshes the subscription row for a user. Used when
// the billing provider reports a paid invoice.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *models.Subscription) error {
	query := `
		INSERT INTO subscriptions (user_id, email, status, plan, stripe_subscription_id, stripe_customer_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET email = EXCLUDED.email,
		    status = EXCLUDED.status,
		    plan = EXCLUDED.plan,
		    stripe_subscription_id = EXCLUDED.stripe_subscription_id,
		    stripe_customer_id = EXCLUDED.stripe_customer_id,
		    canceled_at = NULL,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		sub.UserID,
		sub.Email,
		sub.Status,
		sub.Plan,
		sub.StripeSubscriptionID,
		sub.StripeCustomerID,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

// Cancel marks the subscription identified by the billing provider id as
// canceled.
func (r *SubscriptionRepository) Cancel(ctx context.Context, stripeID string, canceledAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions
		SET status = $1, canceled_at = $2, updated_at = NOW()
		WHERE stripe_subscription_id = $3
	`, models.SubscriptionCanceled, canceledAt, stripeID)
	return err
}
