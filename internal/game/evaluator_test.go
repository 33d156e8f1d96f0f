package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tLat87/VisitTours/internal/domain/entities"
)

func TestEvaluator_Facts(t *testing.T) {
	s := newTestState()
	s.Progress.VisitedLocations = entities.NewStringSet("1", "4", "5", "elsewhere")
	s.Progress.CompletedChallenges = entities.NewStringSet("pc1", "q1")
	s.Progress.SharesCount = 3
	s.Challenges[0].Completed = true // pc1
	s.Challenges[6].Completed = true // q1

	facts := NewEvaluator(testLocations()).Facts(s)

	assert.Equal(t, 4, facts.VisitedLocations)
	assert.Equal(t, 2, facts.VisitedByCategory[entities.CategoryHistory])
	assert.Equal(t, 1, facts.VisitedByCategory[entities.CategoryPeace])
	assert.Zero(t, facts.VisitedByCategory[entities.CategoryLiveliness])
	assert.Equal(t, 2, facts.CompletedChallenges)
	assert.Equal(t, 1, facts.CompletedPhotos)
	assert.Equal(t, 3, facts.Shares)
}

func TestEvaluator_NilLookup(t *testing.T) {
	s := newTestState()
	s.Progress.VisitedLocations = entities.NewStringSet("4", "5", "6")

	facts := NewEvaluator(nil).Facts(s)

	assert.Equal(t, 3, facts.VisitedLocations)
	assert.Empty(t, facts.VisitedByCategory)
}

func TestEvaluator_Evaluate(t *testing.T) {
	e := NewEvaluator(testLocations())
	earlier := testNow.Add(-time.Hour)

	s := newTestState()
	s.Progress.VisitedLocations = entities.NewStringSet("1")
	s.Progress.Achievements[0].Unlock(earlier)

	unlocked := e.Evaluate(&s, testNow)
	assert.Empty(t, unlocked, "first_visit already unlocked")
	assert.Equal(t, earlier, *s.Progress.Achievements[0].UnlockedAt)

	s.Progress.VisitedLocations = entities.NewStringSet("1", "2", "3", "7", "8")
	unlocked = e.Evaluate(&s, testNow)

	require.Len(t, unlocked, 2)
	assert.Equal(t, "explorer", unlocked[0].ID)
	assert.Equal(t, "nature_lover", unlocked[1].ID)
	for _, a := range unlocked {
		assert.Equal(t, testNow, *a.UnlockedAt)
	}
	assert.False(t, achievementByID(t, s, "social_butterfly").Unlocked)
}

func TestEvaluator_SkipsAchievementsWithoutRequirement(t *testing.T) {
	s := NewState([]entities.Achievement{{ID: "orphan"}}, nil)
	s.Progress.VisitedLocations = entities.NewStringSet("1")

	unlocked := NewEvaluator(testLocations()).Evaluate(&s, testNow)

	assert.Empty(t, unlocked)
	assert.False(t, s.Progress.Achievements[0].Unlocked)
}
