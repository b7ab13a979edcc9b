package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// subscriptionTTL bounds how stale a cached subscription status may be.
// Webhook mutations invalidate eagerly, so the TTL only covers missed events.
const subscriptionTTL = 5 * time.Minute

// SubscriptionStatus is the cached view of a user's subscription used by the
// content-gating path.
type SubscriptionStatus struct {
	UserID   string    `json:"userId"`
	Status   string    `json:"status"`
	Plan     string    `json:"plan"`
	CachedAt time.Time `json:"cachedAt"`
}

// SubscriptionCache keeps subscription statuses in Redis so the gating check
// on every content request does not hit Postgres.
type SubscriptionCache struct {
	redis *RedisClient
}

// NewSubscriptionCache creates a new SubscriptionCache.
func NewSubscriptionCache(redis *RedisClient) *SubscriptionCache {
	return &SubscriptionCache{redis: redis}
}

func (c *SubscriptionCache) key(userID string) string {
	return fmt.Sprintf("subscription:user:%s", userID)
}

// Set stores the subscription status for a user.
func (c *SubscriptionCache) Set(ctx context.Context, status *SubscriptionStatus) error {
	status.CachedAt = time.Now()

	jsonData, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription status: %w", err)
	}

	if err := c.redis.Set(ctx, c.key(status.UserID), string(jsonData), subscriptionTTL); err != nil {
		return fmt.Errorf("failed to cache subscription status: %w", err)
	}
	return nil
}

// Get retrieves the cached subscription status for a user. A cache miss
// surfaces as the underlying redis error.
func (c *SubscriptionCache) Get(ctx context.Context, userID string) (*SubscriptionStatus, error) {
	jsonData, err := c.redis.Get(ctx, c.key(userID))
	if err != nil {
		return nil, err
	}

	var status SubscriptionStatus
	if err := json.Unmarshal([]byte(jsonData), &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subscription status: %w", err)
	}
	return &status, nil
}

// Invalidate drops the cached status after a webhook mutation.
func (c *SubscriptionCache) Invalidate(ctx context.Context, userID string) error {
	return c.redis.Delete(ctx, c.key(userID))
}
