// Package validity decides whether a transcript carries enough content to be summarized.
package validity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/johnquangdev/meeting-digest/internal/domain/entities"
)

// Skip reasons reported for invalid transcripts
const (
	ReasonEmpty               entities.SkipReason = "empty"
	ReasonTooShort            entities.SkipReason = "too_short"
	ReasonNoMeaningfulContent entities.SkipReason = "no_meaningful_content"
	ReasonTestPhrase          entities.SkipReason = "test_phrase"
)

const (
	// MinLength is the minimum trimmed length, in characters, of a valid transcript
	MinLength = 20
	// MinMeaningfulLength is the minimum number of characters left after removing
	// whitespace and punctuation
	MinMeaningfulLength = 10
	// TestPhraseMaxLength bounds the test-phrase rule; longer texts are never test recordings
	TestPhraseMaxLength = 50
)

const punctuation = ".,!?;:-"

var testPhrases = []string{
	"test",
	"testing",
	"hello test",
	"mic test",
	"one two three",
}

var (
	foldedPhrases = make(map[string]struct{}, len(testPhrases))
	letterPhrases = make(map[string]struct{}, len(testPhrases))
)

func init() {
	for _, p := range testPhrases {
		folded := fold(p)
		foldedPhrases[folded] = struct{}{}
		letterPhrases[lettersOnly(folded)] = struct{}{}
	}
}

// Verdict is the classification result for one transcript text
type Verdict struct {
	Valid  bool                `json:"valid"`
	Reason entities.SkipReason `json:"reason,omitempty"`
}

// Classify applies the validity rules in order; the first matching rule wins.
func Classify(text string) Verdict {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return invalid(ReasonEmpty)
	}

	length := utf8.RuneCountInString(trimmed)

	if length < TestPhraseMaxLength && isTestPhrase(trimmed) {
		return invalid(ReasonTestPhrase)
	}

	if meaningfulLength(trimmed) < MinMeaningfulLength {
		return invalid(ReasonNoMeaningfulContent)
	}

	if length < MinLength {
		return invalid(ReasonTooShort)
	}

	return Verdict{Valid: true}
}

// ClassifyTranscript classifies a stored transcript; NULL text is empty
func ClassifyTranscript(t *entities.Transcript) Verdict {
	if t == nil {
		return invalid(ReasonEmpty)
	}
	return Classify(t.TextValue())
}

func invalid(reason entities.SkipReason) Verdict {
	return Verdict{Valid: false, Reason: reason}
}

func isTestPhrase(trimmed string) bool {
	folded := fold(trimmed)
	if _, ok := foldedPhrases[folded]; ok {
		return true
	}
	letters := lettersOnly(folded)
	if letters == "" {
		return false
	}
	_, ok := letterPhrases[letters]
	return ok
}

func meaningfulLength(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsSpace(r) || strings.ContainsRune(punctuation, r) {
			continue
		}
		n++
	}
	return n
}

// fold lower-cases for caseless comparison. Casers keep state, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func lettersOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
