package service

import (
	"strconv"
	"strings"
	"unicode"
)

// AnswerValidator maps free-text quiz answers to answer options, tolerating
// typos and letter case.
type AnswerValidator struct {
	threshold float64 // Similarity threshold (0.0 - 1.0)
}

// NewAnswerValidator creates a new AnswerValidator.
func NewAnswerValidator() *AnswerValidator {
	return &AnswerValidator{
		threshold: 0.8, // 80% similarity required
	}
}

// Match returns the index of the option the answer refers to. The answer is
// either the 1-based option number or text close enough to one option.
func (v *AnswerValidator) Match(answer string, options []string) (int, bool) {
	if n, err := strconv.Atoi(strings.TrimSpace(answer)); err == nil {
		if n >= 1 && n <= len(options) {
			return n - 1, true
		}
		return 0, false
	}

	user := v.normalize(answer)
	if user == "" {
		return 0, false
	}

	best, bestScore := -1, 0.0
	for i, option := range options {
		score := v.similarity(user, v.normalize(option))
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	if best < 0 || bestScore < v.threshold {
		return 0, false
	}
	return best, true
}

// normalize lowercases s, drops punctuation and collapses whitespace.
func (v *AnswerValidator) normalize(s string) string {
	s = strings.ToLower(s)

	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) {
			return -1
		}
		return r
	}, s)

	return strings.Join(strings.Fields(s), " ")
}

// similarity calculates the similarity between two strings using Levenshtein distance.
func (v *AnswerValidator) similarity(s1, s2 string) float64 {
	distance := levenshteinDistance(s1, s2)
	maxLen := max(len([]rune(s1)), len([]rune(s2)))

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	rows := len(r1) + 1
	cols := len(r2) + 1

	// Two rows instead of the full matrix.
	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i < rows; i++ {
		curr[0] = i

		for j := 1; j < cols; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			curr[j] = min(
				curr[j-1]+1,    // Insertion
				prev[j]+1,      // Deletion
				prev[j-1]+cost, // Substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[cols-1]
}
