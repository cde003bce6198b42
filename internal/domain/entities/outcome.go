package entities

import (
	"time"

	"github.com/google/uuid"
)

// SkipReason explains why a transcript was left out of a run
type SkipReason string

// ProcessingOutcome aggregates one reconciliation run. It is never persisted.
type ProcessingOutcome struct {
	RunID         uuid.UUID          `json:"run_id"`
	Considered    int                `json:"considered"`
	AlreadyLinked int                `json:"already_linked"`
	Candidates    int                `json:"candidates"`
	Skipped       int                `json:"skipped_count"`
	SkipReasons   map[SkipReason]int `json:"skip_reasons,omitempty"`
	Processed     int                `json:"processed_count"`
	Conflicts     int                `json:"conflict_count"`
	Failed        int                `json:"failed_count"`
	Errors        []string           `json:"errors"`
	StartedAt     time.Time          `json:"started_at"`
	FinishedAt    time.Time          `json:"finished_at"`
}

// NewProcessingOutcome starts an empty outcome for a run
func NewProcessingOutcome(startedAt time.Time) *ProcessingOutcome {
	return &ProcessingOutcome{
		RunID:       uuid.New(),
		SkipReasons: make(map[SkipReason]int),
		Errors:      make([]string, 0),
		StartedAt:   startedAt,
	}
}

// RecordSkip counts a transcript rejected by the validity classifier
func (o *ProcessingOutcome) RecordSkip(reason SkipReason) {
	o.Skipped++
	o.SkipReasons[reason]++
}

// OwnedCandidates counts candidates this run was responsible for, excluding those
// another run converted first
func (o *ProcessingOutcome) OwnedCandidates() int {
	return o.Candidates - o.Conflicts
}

// Duration returns how long the run took
func (o *ProcessingOutcome) Duration() time.Duration {
	if o.FinishedAt.IsZero() {
		return 0
	}
	return o.FinishedAt.Sub(o.StartedAt)
}
