package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	"github.com/johnquangdev/meeting-digest/internal/usecase/trigger"
)

// OutcomeResponse summarizes one reconciliation run
type OutcomeResponse struct {
	RunID          uuid.UUID      `json:"run_id"`
	Considered     int            `json:"considered"`
	AlreadyLinked  int            `json:"already_linked"`
	Candidates     int            `json:"candidates"`
	ProcessedCount int            `json:"processed_count"`
	SkippedCount   int            `json:"skipped_count"`
	SkipReasons    map[string]int `json:"skip_reasons"`
	ConflictCount  int            `json:"conflict_count"`
	FailedCount    int            `json:"failed_count"`
	Errors         []string       `json:"errors"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
	DurationMS     int64          `json:"duration_ms"`
}

// NewOutcomeResponse converts a ProcessingOutcome for the API
func NewOutcomeResponse(o *entities.ProcessingOutcome) *OutcomeResponse {
	if o == nil {
		return nil
	}
	reasons := make(map[string]int, len(o.SkipReasons))
	for reason, n := range o.SkipReasons {
		reasons[string(reason)] = n
	}
	errs := o.Errors
	if errs == nil {
		errs = []string{}
	}
	return &OutcomeResponse{
		RunID:          o.RunID,
		Considered:     o.Considered,
		AlreadyLinked:  o.AlreadyLinked,
		Candidates:     o.Candidates,
		ProcessedCount: o.Processed,
		SkippedCount:   o.Skipped,
		SkipReasons:    reasons,
		ConflictCount:  o.Conflicts,
		FailedCount:    o.Failed,
		Errors:         errs,
		StartedAt:      o.StartedAt,
		FinishedAt:     o.FinishedAt,
		DurationMS:     o.Duration().Milliseconds(),
	}
}

// StatusResponse is the controller snapshot plus the current pending count
type StatusResponse struct {
	State               trigger.State    `json:"state"`
	AutoEnabled         bool             `json:"auto_enabled"`
	CircuitOpen         bool             `json:"circuit_open"`
	ConsecutiveFailures int              `json:"consecutive_failures"`
	FailureThreshold    int              `json:"failure_threshold"`
	MinSpacing          string           `json:"min_spacing"`
	Interval            string           `json:"interval"`
	LastAttempt         *time.Time       `json:"last_attempt,omitempty"`
	LastError           string           `json:"last_error,omitempty"`
	LastOutcome         *OutcomeResponse `json:"last_outcome,omitempty"`
	Pending             *int             `json:"pending,omitempty"`
	PendingError        string           `json:"pending_error,omitempty"`
}

// NewStatusResponse converts a controller snapshot for the API
func NewStatusResponse(s trigger.Status) *StatusResponse {
	return &StatusResponse{
		State:               s.State,
		AutoEnabled:         s.AutoEnabled,
		CircuitOpen:         s.CircuitOpen,
		ConsecutiveFailures: s.ConsecutiveFailures,
		FailureThreshold:    s.FailureThreshold,
		MinSpacing:          s.MinSpacing,
		Interval:            s.Interval,
		LastAttempt:         s.LastAttempt,
		LastError:           s.LastError,
		LastOutcome:         NewOutcomeResponse(s.LastOutcome),
	}
}
