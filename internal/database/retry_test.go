package database

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func testExecutor() *Executor {
	return &Executor{backoffBase: time.Millisecond}
}

// flaky fails with err the first n times it is called, then succeeds.
func flaky(n int, err error) (op func(ctx context.Context) error, calls *int) {
	calls = new(int)
	op = func(ctx context.Context) error {
		*calls++
		if *calls <= n {
			return err
		}
		return nil
	}
	return op, calls
}

func TestExecuteSucceedsFirstTry(t *testing.T) {
	op, calls := flaky(0, nil)
	require.NoError(t, testExecutor().Execute(context.Background(), op))
	require.Equal(t, 1, *calls)
}

func TestExecuteRetriesTransient(t *testing.T) {
	for failures := 1; failures <= DefaultMaxRetries; failures++ {
		op, calls := flaky(failures, driver.ErrBadConn)
		require.NoError(t, testExecutor().Execute(context.Background(), op),
			"should recover from %d transient failures", failures)
		require.Equal(t, failures+1, *calls)
	}
}

func TestExecuteExhaustsBudget(t *testing.T) {
	op, calls := flaky(DefaultMaxRetries+1, driver.ErrBadConn)
	err := testExecutor().Execute(context.Background(), op)
	require.ErrorIs(t, err, driver.ErrBadConn)
	require.Equal(t, DefaultMaxRetries+1, *calls)
}

func TestExecuteDoesNotRetryPermanent(t *testing.T) {
	permanent := &pq.Error{Code: "23505"}
	op, calls := flaky(5, permanent)
	err := testExecutor().Execute(context.Background(), op)
	require.ErrorIs(t, err, permanent)
	require.Equal(t, 1, *calls)
}

func TestExecuteBackoffDoubles(t *testing.T) {
	e := &Executor{backoffBase: 10 * time.Millisecond}
	op, _ := flaky(2, driver.ErrBadConn)

	start := time.Now()
	require.NoError(t, e.Execute(context.Background(), op))

	// Two retries: 10ms + 20ms.
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestExecuteObservesContextDuringBackoff(t *testing.T) {
	e := &Executor{backoffBase: 10 * time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	op, _ := flaky(1, driver.ErrBadConn)

	done := make(chan error, 1)
	go func() { done <- e.Execute(ctx, op) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Execute did not return after context cancellation")
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", driver.ErrBadConn, true},
		{"wrapped bad conn", fmt.Errorf("query: %w", driver.ErrBadConn), true},
		{"admin shutdown", &pq.Error{Code: "57P01"}, true},
		{"connection failure", &pq.Error{Code: "08006"}, true},
		{"unique violation", &pq.Error{Code: "23505"}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, IsTransient(tc.err))
		})
	}
}
