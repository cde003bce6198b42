package config

import (
	"strings"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}

	p := cfg.Pipeline
	if p.MinSpacing != 2*time.Minute {
		t.Errorf("MinSpacing = %v, want 2m", p.MinSpacing)
	}
	if p.Interval != 5*time.Minute {
		t.Errorf("Interval = %v, want 5m", p.Interval)
	}
	if p.FailureThreshold != 3 {
		t.Errorf("FailureThreshold = %d, want 3", p.FailureThreshold)
	}
	if !p.AutoEnabled {
		t.Error("AutoEnabled should default to true")
	}
	if p.Workers != 4 || p.MaxSentences != 3 || p.MaxKeyPoints != 5 || p.MinSentenceLength != 15 {
		t.Errorf("unexpected pipeline defaults: %+v", p)
	}
	if p.CandidateTimeout != 30*time.Second || p.StoreTimeout != 10*time.Second || p.RunTimeout != 5*time.Minute {
		t.Errorf("unexpected timeouts: %+v", p)
	}
	if cfg.Redis.ChangeChannel != "meetings:transcripts:changed" {
		t.Errorf("ChangeChannel = %q", cfg.Redis.ChangeChannel)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PIPELINE_MIN_SPACING", "90s")
	t.Setenv("PIPELINE_FAILURE_THRESHOLD", "5")
	t.Setenv("PIPELINE_AUTO_ENABLED", "false")
	t.Setenv("RECONCILE_WORKERS", "8")
	t.Setenv("DB_NAME", "digest_test")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Pipeline.MinSpacing != 90*time.Second {
		t.Errorf("MinSpacing = %v", cfg.Pipeline.MinSpacing)
	}
	if cfg.Pipeline.FailureThreshold != 5 || cfg.Pipeline.AutoEnabled || cfg.Pipeline.Workers != 8 {
		t.Errorf("overrides not applied: %+v", cfg.Pipeline)
	}
	if !strings.Contains(cfg.GetDatabaseDSN(), "dbname=digest_test") {
		t.Errorf("DSN = %q", cfg.GetDatabaseDSN())
	}
}

func TestFromEnvRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero workers", "RECONCILE_WORKERS", "0"},
		{"threshold below one", "PIPELINE_FAILURE_THRESHOLD", "0"},
		{"sentence length out of range", "SUMMARY_MIN_SENTENCE_LENGTH", "40"},
		{"unknown environment", "ENVIRONMENT", "moon"},
		{"malformed duration", "PIPELINE_INTERVAL", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestValidateConnectionBounds(t *testing.T) {
	t.Setenv("DB_MIN_CONNS", "30")
	t.Setenv("DB_MAX_CONNS", "10")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error when min conns exceed max conns")
	}
}
