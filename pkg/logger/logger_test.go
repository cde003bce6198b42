package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		env   string
		level string
		want  zapcore.Level
	}{
		{"production", "info", zapcore.InfoLevel},
		{"development", "debug", zapcore.DebugLevel},
		{"test", "warn", zapcore.WarnLevel},
	}

	for _, tt := range tests {
		log, err := New(tt.env, tt.level)
		if err != nil {
			t.Fatalf("New(%q, %q): %v", tt.env, tt.level, err)
		}
		if !log.Core().Enabled(tt.want) {
			t.Errorf("%s/%s: level %v should be enabled", tt.env, tt.level, tt.want)
		}
		if tt.want > zapcore.DebugLevel && log.Core().Enabled(tt.want-1) {
			t.Errorf("%s/%s: level %v should be disabled", tt.env, tt.level, tt.want-1)
		}
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("production", "chatty"); err == nil {
		t.Error("expected error for unknown level")
	}
}
