package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswerValidator_Match(t *testing.T) {
	options := []string{"A school", "A fire station", "A church", "A railway station"}
	v := NewAnswerValidator()

	tests := []struct {
		name   string
		answer string
		want   int
		wantOK bool
	}{
		{name: "option number", answer: "2", want: 1, wantOK: true},
		{name: "option number with spaces", answer: " 4 ", want: 3, wantOK: true},
		{name: "number out of range", answer: "5", wantOK: false},
		{name: "exact text", answer: "A church", want: 2, wantOK: true},
		{name: "case and punctuation", answer: "a FIRE station!", want: 1, wantOK: true},
		{name: "typo", answer: "a fire staton", want: 1, wantOK: true},
		{name: "unrelated", answer: "a windmill", wantOK: false},
		{name: "empty", answer: "  ?", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := v.Match(tt.answer, options)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("fen", "fen"))
	assert.Equal(t, 1, levenshteinDistance("fen", "fan"))
	assert.Equal(t, 3, levenshteinDistance("", "fen"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}
