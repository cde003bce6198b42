package trigger

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Alert describes the circuit opening after repeated failed runs
type Alert struct {
	Failures  int       `json:"failures"`
	Threshold int       `json:"threshold"`
	LastError string    `json:"last_error,omitempty"`
	At        time.Time `json:"at"`
}

// Alerter surfaces the circuit-open event to operators
type Alerter interface {
	CircuitOpened(ctx context.Context, alert Alert) error
}

// LogAlerter reports alerts through the logger
type LogAlerter struct {
	logger *zap.Logger
}

// NewLogAlerter creates a new LogAlerter
func NewLogAlerter(logger *zap.Logger) *LogAlerter {
	return &LogAlerter{logger: logger}
}

func (a *LogAlerter) CircuitOpened(_ context.Context, alert Alert) error {
	if a.logger != nil {
		a.logger.Error("🚨 Auto-processing disabled after repeated failures, operator reset required",
			zap.Int("failures", alert.Failures),
			zap.Int("threshold", alert.Threshold),
			zap.String("last_error", alert.LastError),
		)
	}
	return nil
}

// MultiAlerter fans an alert out to several alerters and returns the first error
type MultiAlerter []Alerter

func (m MultiAlerter) CircuitOpened(ctx context.Context, alert Alert) error {
	var first error
	for _, a := range m {
		if a == nil {
			continue
		}
		if err := a.CircuitOpened(ctx, alert); err != nil && first == nil {
			first = err
		}
	}
	return first
}
