package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyRunID        KeyContext = "run_id"
	keyTranscriptID KeyContext = "transcript_id"
	keySequence     KeyContext = "sequence"
	keyStartTime    KeyContext = "candidate_start_time"
)

// CandidateMetadata holds metadata for one candidate inside a reconciliation run
type CandidateMetadata struct {
	RunID        uuid.UUID
	TranscriptID uuid.UUID
	Sequence     int
	StartTime    time.Time
}

// CandidateBegin derives a candidate context carrying run metadata and its own deadline
func CandidateBegin(parentCtx context.Context, runID, transcriptID uuid.UUID, sequence int, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parentCtx, timeout)

	ctx = context.WithValue(ctx, keyRunID, runID)
	ctx = context.WithValue(ctx, keyTranscriptID, transcriptID)
	ctx = context.WithValue(ctx, keySequence, sequence)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())

	return ctx, cancel
}

// CandidateRun executes fn exactly once with panic recovery.
// A failed candidate is not retried within the run; the next trigger picks it up again.
func CandidateRun(ctx context.Context, fn func(context.Context) error) (err error) {
	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before candidate execution: %w", ctx.Err())
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()

	return fn(ctx)
}

// GetRunID extracts the run ID from context
func GetRunID(ctx context.Context) (uuid.UUID, bool) {
	runID, ok := ctx.Value(keyRunID).(uuid.UUID)
	return runID, ok
}

// GetTranscriptID extracts the candidate transcript ID from context
func GetTranscriptID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyTranscriptID).(uuid.UUID)
	return id, ok
}

// GetSequence extracts the candidate position within the run
func GetSequence(ctx context.Context) int {
	seq, ok := ctx.Value(keySequence).(int)
	if !ok {
		return -1
	}
	return seq
}

// GetStartTime extracts candidate start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyStartTime).(time.Time)
	return startTime, ok
}

// GetCandidateMetadata extracts all candidate metadata from context
func GetCandidateMetadata(ctx context.Context) *CandidateMetadata {
	runID, _ := GetRunID(ctx)
	transcriptID, _ := GetTranscriptID(ctx)
	startTime, _ := GetStartTime(ctx)

	return &CandidateMetadata{
		RunID:        runID,
		TranscriptID: transcriptID,
		Sequence:     GetSequence(ctx),
		StartTime:    startTime,
	}
}

// IsRetryableError checks whether an error is transient: a later run may succeed.
// Transient errors include timeouts, network errors, deadlocks and server overload.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	// Context errors (timeout, cancelled)
	if strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "context canceled") {
		return true
	}

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Database deadlock/lock errors (Postgres)
	if strings.Contains(errStr, "deadlock") ||
		strings.Contains(errStr, "40001") || // serialization_failure
		strings.Contains(errStr, "40p01") || // deadlock_detected
		strings.Contains(errStr, "57p01") || // admin_shutdown
		strings.Contains(errStr, "53300") { // too_many_connections
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") ||
		strings.Contains(errStr, "service unavailable") {
		return true
	}

	return false
}
