// Package game implements the progress engine: a closed set of actions
// applied by a pure reducer to per-user gamification state.
package game

import "github.com/tLat87/VisitTours/internal/domain/entities"

// State is everything the engine tracks for one user.
type State struct {
	Progress entities.UserProgress

	// Challenges is the per-user projection of the challenge catalog, in
	// catalog order.
	Challenges []entities.Challenge

	// Pending holds unlocked achievements waiting to be announced, oldest
	// first. The head is the notification currently shown.
	Pending []entities.Achievement
}

// NewState builds the default state for a fresh install from the catalogs.
func NewState(achievements []entities.Achievement, challenges []entities.Challenge) State {
	projection := make([]entities.Challenge, len(challenges))
	for i, c := range challenges {
		projection[i] = c.Reset()
	}

	return State{
		Progress:   entities.NewUserProgress(achievements),
		Challenges: projection,
	}
}

// Notification returns the achievement currently awaiting dismissal.
func (s State) Notification() (entities.Achievement, bool) {
	if len(s.Pending) == 0 {
		return entities.Achievement{}, false
	}
	return s.Pending[0], true
}

// Challenge looks up a challenge of the projection by id.
func (s State) Challenge(id string) (entities.Challenge, bool) {
	for _, c := range s.Challenges {
		if c.ID == id {
			return c, true
		}
	}
	return entities.Challenge{}, false
}

// CompletedPhotos counts photo challenges marked completed.
func (s State) CompletedPhotos() int {
	n := 0
	for _, c := range s.Challenges {
		if c.Kind == entities.ChallengePhoto && c.Completed {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{
		Progress:   s.Progress.Clone(),
		Challenges: make([]entities.Challenge, len(s.Challenges)),
	}
	copy(out.Challenges, s.Challenges)
	if len(s.Pending) > 0 {
		out.Pending = make([]entities.Achievement, len(s.Pending))
		copy(out.Pending, s.Pending)
	}
	return out
}
