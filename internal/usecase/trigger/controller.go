// Package trigger decides when the reconciler runs: on request, on change
// notification or on a timer, with spacing and a circuit breaker over failures.
package trigger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	ucerrors "github.com/johnquangdev/meeting-digest/internal/usecase/errors"
)

// Source identifies what asked for a run
type Source string

const (
	SourceManual       Source = "manual"
	SourceNotification Source = "notification"
	SourceTimer        Source = "timer"
)

// State of the controller
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// SuppressReason explains why a request did not start a run
type SuppressReason string

const (
	ReasonAlreadyRunning SuppressReason = "already_running"
	ReasonCircuitOpen    SuppressReason = "circuit_open"
	ReasonAutoDisabled   SuppressReason = "auto_disabled"
	ReasonTooSoon        SuppressReason = "too_soon"
	ReasonNothingPending SuppressReason = "nothing_pending"
)

// Defaults used when Options fields are left zero
const (
	DefaultMinSpacing       = 2 * time.Minute
	DefaultInterval         = 5 * time.Minute
	DefaultFailureThreshold = 3
)

// SuppressedError is returned by Request when no run was started
type SuppressedError struct {
	Reason SuppressReason
	Source Source
}

func (e *SuppressedError) Error() string {
	return fmt.Sprintf("trigger suppressed (%s): %s", e.Source, e.Reason)
}

// Is matches ucerrors.ErrTriggerSuppressed, and ucerrors.ErrCircuitOpen when the circuit is open
func (e *SuppressedError) Is(target error) bool {
	if target == ucerrors.ErrTriggerSuppressed {
		return true
	}
	return target == ucerrors.ErrCircuitOpen && e.Reason == ReasonCircuitOpen
}

// IsSuppressed reports whether err is a suppression and returns its reason
func IsSuppressed(err error) (SuppressReason, bool) {
	var s *SuppressedError
	if errors.As(err, &s) {
		return s.Reason, true
	}
	return "", false
}

// Runner is the reconciliation pipeline as seen by the controller
type Runner interface {
	Reconcile(ctx context.Context) (*entities.ProcessingOutcome, error)
	Pending(ctx context.Context) (int, error)
}

// Options tunes a Controller
type Options struct {
	MinSpacing       time.Duration
	Interval         time.Duration
	FailureThreshold int
	AutoEnabled      bool
}

// DefaultOptions returns the production defaults
func DefaultOptions() Options {
	return Options{
		MinSpacing:       DefaultMinSpacing,
		Interval:         DefaultInterval,
		FailureThreshold: DefaultFailureThreshold,
		AutoEnabled:      true,
	}
}

// Status is a point-in-time snapshot of the controller
type Status struct {
	State               State                       `json:"state"`
	ConsecutiveFailures int                         `json:"consecutive_failures"`
	FailureThreshold    int                         `json:"failure_threshold"`
	AutoEnabled         bool                        `json:"auto_enabled"`
	CircuitOpen         bool                        `json:"circuit_open"`
	LastAttempt         *time.Time                  `json:"last_attempt,omitempty"`
	LastOutcome         *entities.ProcessingOutcome `json:"last_outcome,omitempty"`
	LastError           string                      `json:"last_error,omitempty"`
	MinSpacing          string                      `json:"min_spacing"`
	Interval            string                      `json:"interval"`
}

// Controller owns the trigger state machine. Instances are independent.
type Controller struct {
	mu                  sync.Mutex
	state               State
	consecutiveFailures int
	lastAttempt         time.Time
	autoEnabled         bool
	lastOutcome         *entities.ProcessingOutcome
	lastError           string

	runner  Runner
	alerter Alerter
	opts    Options
	logger  *zap.Logger
	now     func() time.Time
	notify  chan struct{}
}

// NewController creates a new Controller
func NewController(runner Runner, alerter Alerter, opts Options, logger *zap.Logger) *Controller {
	if opts.MinSpacing < 0 {
		opts.MinSpacing = 0
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.FailureThreshold <= 0 {
		opts.FailureThreshold = DefaultFailureThreshold
	}
	if alerter == nil {
		alerter = NewLogAlerter(logger)
	}
	return &Controller{
		state:       StateIdle,
		autoEnabled: opts.AutoEnabled,
		runner:      runner,
		alerter:     alerter,
		opts:        opts,
		logger:      logger,
		now:         time.Now,
		notify:      make(chan struct{}, 1),
	}
}

// Request asks for a reconciliation run. It returns the run outcome, a
// *SuppressedError when no run was started, or the run's listing error.
func (c *Controller) Request(ctx context.Context, source Source) (*entities.ProcessingOutcome, error) {
	if reason, ok := c.admit(source); !ok {
		if c.logger != nil {
			c.logger.Debug("⏭️ Trigger suppressed",
				zap.String("source", string(source)),
				zap.String("reason", string(reason)),
			)
		}
		return nil, &SuppressedError{Reason: reason, Source: source}
	}

	if source != SourceManual {
		pending, err := c.runner.Pending(ctx)
		if err == nil && pending == 0 {
			c.release()
			return nil, &SuppressedError{Reason: ReasonNothingPending, Source: source}
		}
		if err != nil && c.logger != nil {
			c.logger.Warn("⚠️ Pending count failed, running anyway", zap.Error(err))
		}
	}

	c.mu.Lock()
	c.lastAttempt = c.now()
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info("🚀 Reconciliation triggered", zap.String("source", string(source)))
	}

	outcome, err := c.runner.Reconcile(ctx)
	c.complete(ctx, outcome, err)
	return outcome, err
}

// Notify signals that the store changed. It never blocks; bursts coalesce.
func (c *Controller) Notify() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// Reset clears the failure counter and restores the configured auto-trigger setting
func (c *Controller) Reset() {
	c.mu.Lock()
	c.consecutiveFailures = 0
	c.autoEnabled = c.opts.AutoEnabled
	c.lastError = ""
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info("🔄 Trigger controller reset", zap.Bool("auto_enabled", c.opts.AutoEnabled))
	}
}

// Status returns a snapshot of the controller state
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Status{
		State:               c.state,
		ConsecutiveFailures: c.consecutiveFailures,
		FailureThreshold:    c.opts.FailureThreshold,
		AutoEnabled:         c.autoEnabled,
		CircuitOpen:         c.consecutiveFailures >= c.opts.FailureThreshold,
		LastOutcome:         c.lastOutcome,
		LastError:           c.lastError,
		MinSpacing:          c.opts.MinSpacing.String(),
		Interval:            c.opts.Interval.String(),
	}
	if !c.lastAttempt.IsZero() {
		at := c.lastAttempt
		s.LastAttempt = &at
	}
	return s
}

// Start runs the timer loop and drains change notifications until ctx is done
func (c *Controller) Start(ctx context.Context) {
	ticker := time.NewTicker(c.opts.Interval)
	defer ticker.Stop()

	if c.logger != nil {
		c.logger.Info("⏰ Trigger loop started",
			zap.Duration("interval", c.opts.Interval),
			zap.Duration("min_spacing", c.opts.MinSpacing),
		)
	}

	for {
		select {
		case <-ctx.Done():
			if c.logger != nil {
				c.logger.Info("🛑 Trigger loop stopped")
			}
			return
		case <-ticker.C:
			c.fire(ctx, SourceTimer)
		case <-c.notify:
			c.fire(ctx, SourceNotification)
		}
	}
}

func (c *Controller) fire(ctx context.Context, source Source) {
	_, err := c.Request(ctx, source)
	if err == nil {
		return
	}
	if _, suppressed := IsSuppressed(err); suppressed {
		return
	}
	if c.logger != nil {
		c.logger.Error("❌ Automatic reconciliation failed",
			zap.String("source", string(source)),
			zap.Error(err),
		)
	}
}

// admit checks suppression rules and reserves the running state
func (c *Controller) admit(source Source) (SuppressReason, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateRunning {
		return ReasonAlreadyRunning, false
	}
	if c.consecutiveFailures >= c.opts.FailureThreshold {
		return ReasonCircuitOpen, false
	}
	if source != SourceManual && !c.autoEnabled {
		return ReasonAutoDisabled, false
	}
	if !c.lastAttempt.IsZero() && c.now().Sub(c.lastAttempt) < c.opts.MinSpacing {
		return ReasonTooSoon, false
	}

	c.state = StateRunning
	return "", true
}

func (c *Controller) release() {
	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()
}

// complete applies the run result to the failure counter and fires the alert
// when the threshold is first reached
func (c *Controller) complete(ctx context.Context, outcome *entities.ProcessingOutcome, runErr error) {
	var alert *Alert

	c.mu.Lock()
	c.state = StateIdle
	if outcome != nil {
		c.lastOutcome = outcome
	}

	// Runs cut short by the caller do not count toward the circuit.
	aborted := errors.Is(ctx.Err(), context.Canceled)

	failed := false
	switch {
	case aborted:
	case runErr != nil:
		failed = true
		c.lastError = runErr.Error()
	case outcome == nil:
	case outcome.Processed > 0:
		c.consecutiveFailures = 0
		c.lastError = ""
	case outcome.OwnedCandidates() > 0:
		failed = true
		if len(outcome.Errors) > 0 {
			c.lastError = outcome.Errors[0]
		} else {
			c.lastError = "no transcripts processed"
		}
	}
	if failed {
		c.consecutiveFailures++
	}

	if failed && c.consecutiveFailures == c.opts.FailureThreshold {
		c.autoEnabled = false
		alert = &Alert{
			Failures:  c.consecutiveFailures,
			Threshold: c.opts.FailureThreshold,
			LastError: c.lastError,
			At:        c.now(),
		}
	}
	failures := c.consecutiveFailures
	c.mu.Unlock()

	if c.logger != nil && aborted {
		c.logger.Info("🛑 Reconciliation aborted by caller, failure counter unchanged",
			zap.Int("consecutive_failures", failures),
		)
	}
	if c.logger != nil && failed {
		c.logger.Warn("⚠️ Reconciliation made no progress",
			zap.Int("consecutive_failures", failures),
			zap.Int("threshold", c.opts.FailureThreshold),
		)
	}

	if alert != nil {
		if err := c.alerter.CircuitOpened(ctx, *alert); err != nil && c.logger != nil {
			c.logger.Error("❌ Failed to deliver circuit alert", zap.Error(err))
		}
	}
}
