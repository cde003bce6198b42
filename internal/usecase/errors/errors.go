package errors

import (
	"errors"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
	"github.com/johnquangdev/meeting-digest/pkg/jobcontext"
)

// Pipeline error taxonomy
var (
	// ErrValidationSkip marks a transcript rejected by the validity classifier. Expected, not a failure.
	ErrValidationSkip = errors.New("transcript skipped by validation")
	// ErrTransientStore marks network/timeout failures; the next natural trigger retries.
	ErrTransientStore = errors.New("transient store error")
	// ErrConflictSkip marks a candidate another run converted first. Benign.
	ErrConflictSkip = errors.New("transcript already processed")
	// ErrFatalConfig marks startup failures that halt triggering.
	ErrFatalConfig = errors.New("fatal configuration error")
)

// Trigger errors
var (
	ErrTriggerSuppressed = errors.New("trigger suppressed")
	ErrCircuitOpen       = errors.New("auto-processing disabled after repeated failures")
)

// Kind names an error class of the pipeline taxonomy
type Kind string

const (
	KindNone       Kind = ""
	KindValidation Kind = "validation_skip"
	KindTransient  Kind = "transient_store"
	KindConflict   Kind = "conflict_skip"
	KindFatal      Kind = "fatal_config"
	KindPermanent  Kind = "permanent"
)

// KindOf classifies err into the pipeline taxonomy
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrValidationSkip):
		return KindValidation
	case errors.Is(err, ErrConflictSkip), errors.Is(err, entities.ErrMeetingConflict):
		return KindConflict
	case errors.Is(err, ErrFatalConfig):
		return KindFatal
	case errors.Is(err, ErrTransientStore), jobcontext.IsRetryableError(err):
		return KindTransient
	default:
		return KindPermanent
	}
}
