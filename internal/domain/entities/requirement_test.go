package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequirement(t *testing.T) {
	tests := []struct {
		name string
		spec RequirementSpec
		want Requirement
	}{
		{"visit locations", RequirementSpec{Type: "visit_locations", Value: 5}, VisitLocations{Count: 5}},
		{"visit category", RequirementSpec{Type: "visit_category", Value: 3, Category: "history"}, VisitCategory{Count: 3, Category: CategoryHistory}},
		{"complete challenge", RequirementSpec{Type: "complete_challenge", Value: 2}, CompleteChallenges{Count: 2}},
		{"legacy photo challenge", RequirementSpec{Type: "complete_photo_challenge", Value: 3}, CompleteChallenges{Count: 3}},
		{"take photos", RequirementSpec{Type: "take_photos", Value: 5}, TakePhotos{Count: 5}},
		{"share locations", RequirementSpec{Type: "share_locations", Value: 10}, ShareLocations{Count: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequirement(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRequirement_Errors(t *testing.T) {
	_, err := ParseRequirement(RequirementSpec{Type: "collect_stamps", Value: 1})
	assert.ErrorIs(t, err, ErrUnknownRequirement)

	_, err = ParseRequirement(RequirementSpec{Type: "visit_locations", Value: 0})
	assert.ErrorIs(t, err, ErrInvalidRequirement)

	_, err = ParseRequirement(RequirementSpec{Type: "visit_category", Value: 1, Category: "nightlife"})
	assert.ErrorIs(t, err, ErrInvalidRequirement)
}

func TestSpecOf_RoundTrip(t *testing.T) {
	reqs := []Requirement{
		VisitLocations{Count: 1},
		VisitCategory{Count: 3, Category: CategoryPeace},
		CompleteChallenges{Count: 3},
		TakePhotos{Count: 5},
		ShareLocations{Count: 10},
	}

	for _, r := range reqs {
		got, err := ParseRequirement(SpecOf(r))
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
}

func TestRequirement_MetBy(t *testing.T) {
	facts := ProgressFacts{
		VisitedLocations:    4,
		VisitedByCategory:   map[Category]int{CategoryHistory: 3, CategoryPeace: 1},
		CompletedChallenges: 2,
		CompletedPhotos:     1,
		Shares:              9,
	}

	assert.True(t, VisitLocations{Count: 4}.MetBy(facts))
	assert.False(t, VisitLocations{Count: 5}.MetBy(facts))
	assert.True(t, VisitCategory{Count: 3, Category: CategoryHistory}.MetBy(facts))
	assert.False(t, VisitCategory{Count: 3, Category: CategoryPeace}.MetBy(facts))
	assert.False(t, VisitCategory{Count: 1, Category: CategoryLiveliness}.MetBy(facts))
	assert.True(t, CompleteChallenges{Count: 2}.MetBy(facts))
	assert.False(t, TakePhotos{Count: 2}.MetBy(facts))
	assert.False(t, ShareLocations{Count: 10}.MetBy(facts))
	assert.True(t, ShareLocations{Count: 9}.MetBy(facts))
}
