package validity

import (
	"strings"
	"testing"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		valid  bool
		reason entities.SkipReason
	}{
		{name: "empty", text: "", reason: ReasonEmpty},
		{name: "whitespace only", text: " \n\t  ", reason: ReasonEmpty},
		{name: "punctuation only", text: "   .,;", reason: ReasonNoMeaningfulContent},
		{name: "dashes and dots", text: "- - - . . . ! ! ? ? ; ; : :", reason: ReasonNoMeaningfulContent},
		{name: "test phrase", text: "testing", reason: ReasonTestPhrase},
		{name: "test phrase mixed case", text: "  Mic Test  ", reason: ReasonTestPhrase},
		{name: "test phrase with punctuation", text: "One, two, three!", reason: ReasonTestPhrase},
		{name: "too short", text: "Budget is approved", reason: ReasonTooShort},
		{name: "valid sentence", text: "We discussed the Q3 roadmap and budget allocation for next sprint.", valid: true},
		{name: "long text containing test", text: "This is a test of the quarterly planning process with the whole team.", valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.text)
			if got.Valid != tt.valid {
				t.Fatalf("Classify(%q).Valid = %v, want %v", tt.text, got.Valid, tt.valid)
			}
			if got.Reason != tt.reason {
				t.Fatalf("Classify(%q).Reason = %q, want %q", tt.text, got.Reason, tt.reason)
			}
		})
	}
}

func TestClassifyTestPhraseLengthBound(t *testing.T) {
	text := "testing" + strings.Repeat(" ", 60) + "."
	// interior padding pushes the trimmed length past the phrase bound
	got := Classify(text)
	if got.Reason != ReasonNoMeaningfulContent {
		t.Fatalf("expected %q, got %q", ReasonNoMeaningfulContent, got.Reason)
	}
}

func TestClassifyTranscriptNullText(t *testing.T) {
	tr := entities.NewTranscript("client-1", nil, nil, nil)
	if got := ClassifyTranscript(tr); got.Valid || got.Reason != ReasonEmpty {
		t.Fatalf("expected empty verdict for NULL text, got %+v", got)
	}
	if got := ClassifyTranscript(nil); got.Reason != ReasonEmpty {
		t.Fatalf("expected empty verdict for nil transcript, got %+v", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	text := "Hello test"
	first := Classify(text)
	for i := 0; i < 10; i++ {
		if got := Classify(text); got != first {
			t.Fatalf("classification changed between calls: %+v vs %+v", first, got)
		}
	}
}
