package dedupe

import (
	"math"
	"regexp"
	"strings"
)

// tokenSplitPattern matches non-letter, non-digit sequences for tokenization.
// \p{L} keeps accented French characters intact.
var tokenSplitPattern = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// textVector is a term-frequency vector used for similarity comparison.
type textVector struct {
	tokens map[string]float64
	norm   float64
}

// newTextVector builds a vector from the provided text.
// Returns nil when the text produces no usable tokens; callers treat a nil
// vector as similarity 0 so malformed text degrades instead of aborting.
func newTextVector(text string) *textVector {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	counts := make(map[string]float64, len(tokens))
	for _, token := range tokens {
		counts[token]++
	}
	var norm float64
	for _, count := range counts {
		norm += count * count
	}
	return &textVector{tokens: counts, norm: math.Sqrt(norm)}
}

// tokenize splits text into lowercase tokens, dropping tokens shorter than
// three runes (articles, single letters, feed noise).
func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := tokenSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		if len([]rune(token)) < 3 {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// cosine computes cosine similarity between two vectors, bounded to [0,1].
// Either side nil yields 0.
func cosine(a, b *textVector) float64 {
	if a == nil || b == nil || a.norm == 0 || b.norm == 0 {
		return 0
	}
	// Iterate over the smaller vector.
	small, large := a, b
	if len(b.tokens) < len(a.tokens) {
		small, large = b, a
	}
	var dot float64
	for token, count := range small.tokens {
		if other, ok := large.tokens[token]; ok {
			dot += count * other
		}
	}
	sim := dot / (a.norm * b.norm)
	if sim > 1 {
		return 1
	}
	if sim < 0 {
		return 0
	}
	return sim
}
