package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindNone},
		{"validation", fmt.Errorf("transcript x: %w", ErrValidationSkip), KindValidation},
		{"meeting conflict", fmt.Errorf("insert: %w", entities.ErrMeetingConflict), KindConflict},
		{"fatal", fmt.Errorf("ping: %w", ErrFatalConfig), KindFatal},
		{"timeout", fmt.Errorf("list transcripts: %w", context.DeadlineExceeded), KindTransient},
		{"wrapped transient", fmt.Errorf("x: %w", ErrTransientStore), KindTransient},
		{"permanent", errors.New("summarizer exploded"), KindPermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
