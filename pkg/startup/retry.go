// Package startup holds helpers for bringing external dependencies up.
package startup

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	ucerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
)

// Retry runs op with exponential backoff until it succeeds or maxElapsed passes.
// Exhaustion is wrapped in ucerrors.ErrFatalConfig.
func Retry(ctx context.Context, maxElapsed time.Duration, op func() error, log *zap.Logger, target string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxElapsed

	notify := func(err error, wait time.Duration) {
		if log != nil {
			log.Warn("⏳ Dependency not reachable yet, retrying",
				zap.String("target", target),
				zap.Duration("wait", wait),
				zap.Error(err),
			)
		}
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("%w: %s unreachable: %w", ucerrors.ErrFatalConfig, target, err)
	}
	return nil
}
