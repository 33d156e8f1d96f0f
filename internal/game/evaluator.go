package game

import (
	"time"

	"github.com/tLat87/VisitTours/internal/domain/entities"
)

// CategoryLookup resolves the catalog category of a location.
type CategoryLookup interface {
	CategoryOf(locationID string) (entities.Category, bool)
}

// Evaluator decides which locked achievements are satisfied by a progress
// snapshot.
type Evaluator struct {
	locations CategoryLookup
}

// NewEvaluator creates an evaluator. A nil lookup makes every
// category requirement unreachable.
func NewEvaluator(locations CategoryLookup) *Evaluator {
	return &Evaluator{locations: locations}
}

// Facts computes the counters requirements are checked against.
func (e *Evaluator) Facts(s State) entities.ProgressFacts {
	facts := entities.ProgressFacts{
		VisitedLocations:    s.Progress.VisitedLocations.Len(),
		VisitedByCategory:   make(map[entities.Category]int),
		CompletedChallenges: s.Progress.CompletedChallenges.Len(),
		CompletedPhotos:     s.CompletedPhotos(),
		Shares:              s.Progress.SharesCount,
	}

	if e.locations != nil {
		for _, id := range s.Progress.VisitedLocations.Items() {
			if category, ok := e.locations.CategoryOf(id); ok {
				facts.VisitedByCategory[category]++
			}
		}
	}

	return facts
}

// Evaluate unlocks, in catalog order, every locked achievement of s whose
// requirement is met, stamping it with now. It modifies s.Progress.Achievements
// in place and returns the newly unlocked achievements.
func (e *Evaluator) Evaluate(s *State, now time.Time) []entities.Achievement {
	facts := e.Facts(*s)

	var unlocked []entities.Achievement
	for i := range s.Progress.Achievements {
		a := &s.Progress.Achievements[i]
		if a.Unlocked || a.Requirement == nil {
			continue
		}
		if a.Requirement.MetBy(facts) && a.Unlock(now) {
			unlocked = append(unlocked, *a)
		}
	}

	return unlocked
}
