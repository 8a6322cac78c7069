package surfacing

import (
	"strings"
	"unicode"
)

const (
	// DefaultFragmentLength is how many leading characters of an item's
	// content the fragment matcher looks for in the output.
	DefaultFragmentLength = 30

	// DefaultOverlapScore is the minimum normalized word overlap the
	// overlap matcher accepts as a use of the item.
	DefaultOverlapScore = 0.4
)

// Matcher decides whether an offered item's content was incorporated into
// the consumer's output. Matching quality is a tunable policy: swapping the
// matcher never changes the rest of the pipeline.
type Matcher interface {
	Matches(content, output string) bool
}

// FragmentMatcher matches by case-insensitive containment of a fixed-length
// leading fragment of the item content.
type FragmentMatcher struct {
	FragmentLength int
}

// NewFragmentMatcher creates a fragment matcher. Non-positive lengths fall
// back to DefaultFragmentLength.
func NewFragmentMatcher(fragmentLength int) FragmentMatcher {
	if fragmentLength <= 0 {
		fragmentLength = DefaultFragmentLength
	}
	return FragmentMatcher{FragmentLength: fragmentLength}
}

func (m FragmentMatcher) Matches(content, output string) bool {
	content = strings.TrimSpace(content)
	if content == "" || output == "" {
		return false
	}

	fragment := strings.ToLower(content)
	if runes := []rune(fragment); len(runes) > m.FragmentLength {
		fragment = string(runes[:m.FragmentLength])
	}
	return strings.Contains(strings.ToLower(output), fragment)
}

// WordOverlapMatcher matches when enough of the item's words appear in the
// output. The score is the fraction of the item's distinct normalized words
// found in the output.
type WordOverlapMatcher struct {
	MinScore float64
}

// NewWordOverlapMatcher creates an overlap matcher. Non-positive scores
// fall back to DefaultOverlapScore.
func NewWordOverlapMatcher(minScore float64) WordOverlapMatcher {
	if minScore <= 0 {
		minScore = DefaultOverlapScore
	}
	return WordOverlapMatcher{MinScore: minScore}
}

func (m WordOverlapMatcher) Matches(content, output string) bool {
	return m.Score(content, output) >= m.MinScore
}

// Score computes the normalized word overlap between content and output.
func (m WordOverlapMatcher) Score(content, output string) float64 {
	contentWords := normalizeWords(content)
	if len(contentWords) == 0 {
		return 0
	}

	outputSet := make(map[string]struct{})
	for _, w := range normalizeWords(output) {
		outputSet[w] = struct{}{}
	}

	seen := make(map[string]struct{}, len(contentWords))
	matched := 0
	total := 0
	for _, w := range contentWords {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		total++
		if _, ok := outputSet[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(total)
}

func normalizeWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
