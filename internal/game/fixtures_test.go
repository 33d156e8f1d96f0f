package game

import (
	"time"

	"github.com/tLat87/VisitTours/internal/domain/entities"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type categoryMap map[string]entities.Category

func (m categoryMap) CategoryOf(id string) (entities.Category, bool) {
	c, ok := m[id]
	return c, ok
}

func testLocations() categoryMap {
	return categoryMap{
		"1": entities.CategoryPeace,
		"2": entities.CategoryPeace,
		"3": entities.CategoryPeace,
		"4": entities.CategoryHistory,
		"5": entities.CategoryHistory,
		"6": entities.CategoryHistory,
		"7": entities.CategoryLiveliness,
		"8": entities.CategoryLiveliness,
		"9": entities.CategoryLiveliness,
	}
}

func testAchievements() []entities.Achievement {
	return []entities.Achievement{
		{ID: "first_visit", Title: "First Steps", Points: 10, Requirement: entities.VisitLocations{Count: 1}},
		{ID: "explorer", Title: "Explorer", Points: 50, Requirement: entities.VisitLocations{Count: 5}},
		{ID: "historian", Title: "Historian", Points: 100, Requirement: entities.VisitCategory{Count: 3, Category: entities.CategoryHistory}},
		{ID: "nature_lover", Title: "Nature Lover", Points: 100, Requirement: entities.VisitCategory{Count: 3, Category: entities.CategoryPeace}},
		{ID: "social_butterfly", Title: "Social Butterfly", Points: 100, Requirement: entities.VisitCategory{Count: 3, Category: entities.CategoryLiveliness}},
		{ID: "photo_master", Title: "Photo Master", Points: 75, Requirement: entities.CompleteChallenges{Count: 3}},
		{ID: "photographer", Title: "Photographer", Points: 80, Requirement: entities.TakePhotos{Count: 5}},
		{ID: "influencer", Title: "Influencer", Points: 60, Requirement: entities.ShareLocations{Count: 10}},
	}
}

func testChallenges() []entities.Challenge {
	return []entities.Challenge{
		{ID: "pc1", Kind: entities.ChallengePhoto, LocationID: "1", Points: 15},
		{ID: "pc2", Kind: entities.ChallengePhoto, LocationID: "4", Points: 15},
		{ID: "pc3", Kind: entities.ChallengePhoto, LocationID: "7", Points: 20},
		{ID: "pc4", Kind: entities.ChallengePhoto, LocationID: "5", Points: 15},
		{ID: "pc5", Kind: entities.ChallengePhoto, LocationID: "3", Points: 20},
		{ID: "ag1", Kind: entities.ChallengeAudioGuide, LocationID: "1", Points: 25},
		{ID: "q1", Kind: entities.ChallengeQuiz, LocationID: "5", Points: 10},
	}
}

func newTestState() State {
	return NewState(testAchievements(), testChallenges())
}

func newTestReducer(rules Rules) *Reducer {
	return NewReducer(rules, testLocations(), WithClock(func() time.Time { return testNow }))
}

func achievementByID(t interface{ Fatalf(string, ...any) }, s State, id string) entities.Achievement {
	for _, a := range s.Progress.Achievements {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %q not in state", id)
	return entities.Achievement{}
}
