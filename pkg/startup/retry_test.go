package startup

import (
	"context"
	"errors"
	"testing"
	"time"

	ucerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	}

	if err := Retry(context.Background(), 10*time.Second, op, nil, "database"); err != nil {
		t.Fatalf("retryStartup: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryExhaustionIsFatal(t *testing.T) {
	op := func() error { return errors.New("connection refused") }

	err := Retry(context.Background(), 200*time.Millisecond, op, nil, "database")
	if err == nil {
		t.Fatal("expected error after exhaustion")
	}
	if !errors.Is(err, ucerrors.ErrFatalConfig) {
		t.Errorf("expected ErrFatalConfig, got %v", err)
	}
	if ucerrors.KindOf(err) != ucerrors.KindFatal {
		t.Errorf("KindOf = %s, want %s", ucerrors.KindOf(err), ucerrors.KindFatal)
	}
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, time.Minute, func() error {
		calls++
		return errors.New("connection refused")
	}, nil, "redis")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if calls > 1 {
		t.Errorf("calls = %d, want at most 1", calls)
	}
}
