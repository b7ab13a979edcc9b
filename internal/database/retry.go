package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// DefaultMaxRetries is the number of retries applied after the first attempt.
const DefaultMaxRetries = 3

// defaultBackoffBase is the wait before the first retry; it doubles on each
// subsequent one (1s, 2s, 4s). No jitter.
const defaultBackoffBase = time.Second

// Executor retries store operations that fail with the transient
// pooled-connection-closed signal. Any other error, or exhaustion of the
// retry budget, propagates to the caller unchanged.
//
// Operations are retried as-is: a non-idempotent write that committed before
// the connection dropped can be applied twice. Callers passing writes must
// guarantee idempotence themselves.
type Executor struct {
	backoffBase time.Duration
}

// NewExecutor returns an Executor with the production backoff schedule.
func NewExecutor() *Executor {
	return &Executor{backoffBase: defaultBackoffBase}
}

// Execute runs op with the default retry budget.
func (e *Executor) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	return e.ExecuteN(ctx, op, DefaultMaxRetries)
}

// ExecuteN runs op, retrying up to maxRetries times on transient connection
// failures. The backoff before retry i is backoffBase * 2^i. The wait is a
// cooperative suspension: it observes ctx so an abandoned request does not
// keep a goroutine parked.
func (e *Executor) ExecuteN(ctx context.Context, op func(ctx context.Context) error, maxRetries int) error {
	for attempt := 0; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) || attempt >= maxRetries {
			return err
		}

		delay := e.backoffBase << attempt
		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("transient store error, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// IsTransient reports whether err carries the pooled-connection-closed signal:
// the driver marked the connection bad, or Postgres answered with a
// connection_exception (class 08) or admin_shutdown (57P01) before dropping
// the session. Constraint violations, not-found and every other failure are
// permanent.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == "57P01" {
			return true
		}
		if pqErr.Code.Class() == "08" {
			return true
		}
	}
	return false
}
