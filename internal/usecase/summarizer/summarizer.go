// Package summarizer implements the deterministic, frequency-based extractive
// summary used to turn transcripts into meetings.
package summarizer

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMinSentenceLength drops sentence candidates at or below this length
	DefaultMinSentenceLength = 15
	// DefaultShortWordLength drops tokens at or below this length from the frequency table
	DefaultShortWordLength = 2
	// DefaultExcerptLength bounds synthetic excerpts used when nothing can be ranked
	DefaultExcerptLength = 200

	minSentenceLengthFloor   = 10
	minSentenceLengthCeiling = 20

	// fallbackKeyPoint is used only when the input has no text at all
	fallbackKeyPoint = "No discussion content captured."
)

var (
	sentenceSplitter = regexp.MustCompile(`[.!?]+`)
	nonWordChars     = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
)

// followUps is a fixed placeholder list. Follow-ups are not derived from the text.
var followUps = []string{
	"Follow up on action items.",
}

// Options tunes the summarizer
type Options struct {
	MinSentenceLength int
	ShortWordLength   int
	ExcerptLength     int
}

// DefaultOptions returns the production defaults
func DefaultOptions() Options {
	return Options{
		MinSentenceLength: DefaultMinSentenceLength,
		ShortWordLength:   DefaultShortWordLength,
		ExcerptLength:     DefaultExcerptLength,
	}
}

// Digest bundles everything the summarizer produces for one transcript
type Digest struct {
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	FollowUps []string `json:"followup_points"`
}

// Summarizer is stateless and safe for concurrent use
type Summarizer struct {
	opts Options
}

// New creates a Summarizer. MinSentenceLength is clamped to [10, 20].
func New(opts Options) *Summarizer {
	if opts.MinSentenceLength <= 0 {
		opts.MinSentenceLength = DefaultMinSentenceLength
	}
	if opts.MinSentenceLength < minSentenceLengthFloor {
		opts.MinSentenceLength = minSentenceLengthFloor
	}
	if opts.MinSentenceLength > minSentenceLengthCeiling {
		opts.MinSentenceLength = minSentenceLengthCeiling
	}
	if opts.ShortWordLength <= 0 {
		opts.ShortWordLength = DefaultShortWordLength
	}
	if opts.ExcerptLength <= 0 {
		opts.ExcerptLength = DefaultExcerptLength
	}
	return &Summarizer{opts: opts}
}

// Digest runs Summarize, ExtractKeyPoints and FollowUps over text
func (s *Summarizer) Digest(text string, maxSentences, maxPoints int) Digest {
	return Digest{
		Summary:   s.Summarize(text, maxSentences),
		KeyPoints: s.ExtractKeyPoints(text, maxPoints),
		FollowUps: FollowUps(),
	}
}

// Summarize returns the maxSentences highest-scoring sentences of text.
// When there is nothing to rank the candidates are returned in input order.
func (s *Summarizer) Summarize(text string, maxSentences int) string {
	if maxSentences < 1 {
		maxSentences = 1
	}

	candidates := s.sentences(text)
	if len(candidates) == 0 {
		return excerpt(text, s.opts.ExcerptLength)
	}
	if len(candidates) <= maxSentences {
		return strings.Join(candidates, ". ")
	}

	freq := s.wordFrequencies(text)

	scores := make([]int, len(candidates))
	for i, sentence := range candidates {
		for _, tok := range tokenize(sentence) {
			scores[i] += freq[tok]
		}
	}

	order := rankStable(len(candidates), func(i, j int) bool { return scores[i] > scores[j] })

	top := make([]string, 0, maxSentences)
	for _, idx := range order[:maxSentences] {
		top = append(top, candidates[idx])
	}
	return strings.Join(top, ". ") + "."
}

// ExtractKeyPoints scores sentences by importance keywords plus a brevity bonus
// and returns the best maxPoints. The result is never empty.
func (s *Summarizer) ExtractKeyPoints(text string, maxPoints int) []string {
	if maxPoints < 1 {
		maxPoints = 1
	}

	candidates := s.sentences(text)
	if len(candidates) == 0 {
		point := excerpt(text, s.opts.ExcerptLength)
		if point == "" {
			point = fallbackKeyPoint
		}
		return []string{point}
	}

	scores := make([]float64, len(candidates))
	for i, sentence := range candidates {
		tokens := tokenize(sentence)
		hits := 0
		for _, tok := range tokens {
			if _, ok := importanceKeywords[tok]; ok {
				hits++
			}
		}
		scores[i] = 2*float64(hits) + brevityBonus(len(tokens))
	}

	order := rankStable(len(candidates), func(i, j int) bool { return scores[i] > scores[j] })
	if len(order) > maxPoints {
		order = order[:maxPoints]
	}

	points := make([]string, 0, len(order))
	for _, idx := range order {
		points = append(points, candidates[idx])
	}
	return points
}

// FollowUps returns the canned follow-up list
func FollowUps() []string {
	out := make([]string, len(followUps))
	copy(out, followUps)
	return out
}

// sentences splits text on runs of . ! ? and drops short fragments
func (s *Summarizer) sentences(text string) []string {
	parts := sentenceSplitter.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) <= s.opts.MinSentenceLength {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Summarizer) wordFrequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range tokenize(text) {
		if utf8.RuneCountInString(tok) <= s.opts.ShortWordLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		freq[tok]++
	}
	return freq
}

func tokenize(text string) []string {
	return strings.Fields(nonWordChars.ReplaceAllString(strings.ToLower(text), ""))
}

// rankStable returns indexes 0..n-1 ordered by less; equal elements keep input order
func rankStable(n int, less func(i, j int) bool) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return less(order[a], order[b]) })
	return order
}

func brevityBonus(words int) float64 {
	switch {
	case words <= 20:
		return 1.0
	case words <= 35:
		return 0.5
	default:
		return 0
	}
}

func excerpt(text string, limit int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(collapsed) <= limit {
		return collapsed
	}
	runes := []rune(collapsed)
	return strings.TrimSpace(string(runes[:limit])) + "..."
}
