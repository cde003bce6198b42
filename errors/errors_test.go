package errors

import (
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"testing"
)

func TestAppErrorWrapsRaw(t *testing.T) {
	raw := stdErrors.New("connection reset")
	err := ErrStoreUnavailable(raw)

	if !stdErrors.Is(err, raw) {
		t.Error("AppError should unwrap to its raw error")
	}
	if err.HTTPCode != http.StatusServiceUnavailable {
		t.Errorf("HTTPCode = %d", err.HTTPCode)
	}
	if got := err.Error(); got != "[STORE_UNAVAILABLE] Store temporarily unavailable: connection reset" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWithDetailDoesNotMutateOriginal(t *testing.T) {
	base := ErrTriggerSuppressed("too_soon")
	extended := base.WithDetail("source", "manual")

	if _, ok := base.Details["source"]; ok {
		t.Error("WithDetail mutated the original error")
	}
	if extended.Details["reason"] != "too_soon" || extended.Details["source"] != "manual" {
		t.Errorf("unexpected details: %v", extended.Details)
	}
}

func TestErrorCodeJSON(t *testing.T) {
	body, err := json.Marshal(map[string]ErrorCode{"code": ErrorCode_CIRCUIT_OPEN})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(body) != `{"code":"CIRCUIT_OPEN"}` {
		t.Errorf("body = %s", body)
	}
	if ErrorCode(42).String() != "ErrorCode(42)" {
		t.Errorf("unknown code String() = %s", ErrorCode(42).String())
	}
}
