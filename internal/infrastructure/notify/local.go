package notify

import "context"

// Local delivers change events straight to an in-process target. Used when
// Redis is not configured.
type Local struct {
	target Target
}

// NewLocal creates a new Local notifier
func NewLocal(target Target) *Local {
	return &Local{target: target}
}

// TranscriptChanged signals the target
func (l *Local) TranscriptChanged(_ context.Context, _ ChangeEvent) error {
	if l.target != nil {
		l.target.Notify()
	}
	return nil
}
