package models

import (
	"database/sql"
	"time"
)

// Subscription status values mirror the billing provider's lifecycle.
const (
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionPastDue  = "past_due"
)

// Subscription links an end user (owned by the identity provider) to a
// billing provider subscription. Rows are mutated only by the webhook
// handler; the gating path just reads them.
type Subscription struct {
	ID                   int            `db:"id" json:"id"`
	UserID               string         `db:"user_id" json:"userId"`
	Email                string         `db:"email" json:"email"`
	Status               string         `db:"status" json:"status"`
	Plan                 string         `db:"plan" json:"plan"`
	StripeSubscriptionID string         `db:"stripe_subscription_id" json:"stripeSubscriptionId"`
	StripeCustomerID     string         `db:"stripe_customer_id" json:"stripeCustomerId"`
	CanceledAt           sql.NullTime   `db:"canceled_at" json:"canceledAt,omitempty"`
	CreatedAt            time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time      `db:"updated_at" json:"updatedAt"`
}

// IsActive reports whether the subscription grants access to gated content.
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionActive
}
