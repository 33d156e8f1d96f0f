package game

import (
	"fmt"
	"time"
)

// Rules are the point rewards of the actions that have a fixed reward.
type Rules struct {
	VisitReward int // points per visit
	ShareReward int // points per share

	// CreditRepeatVisits credits VisitReward on every visit. When false,
	// only the first visit of a location is credited.
	CreditRepeatVisits bool

	// CreditRepeatCompletions credits the challenge reward on every
	// completion. When false, a repeated completion only replaces the evidence.
	CreditRepeatCompletions bool
}

// DefaultRules returns the reward model of the touring app.
func DefaultRules() Rules {
	return Rules{
		VisitReward:             5,
		ShareReward:             2,
		CreditRepeatVisits:      true,
		CreditRepeatCompletions: true,
	}
}

// Reducer applies actions to states. It holds no state of its own;
// Reduce never modifies the state it is given.
type Reducer struct {
	rules     Rules
	evaluator *Evaluator
	now       func() time.Time
}

// ReducerOption configures a Reducer.
type ReducerOption func(*Reducer)

// WithClock overrides the time source used for visit dates and unlock times.
func WithClock(now func() time.Time) ReducerOption {
	return func(r *Reducer) {
		r.now = now
	}
}

// NewReducer creates a reducer with the given rules and location lookup.
func NewReducer(rules Rules, locations CategoryLookup, opts ...ReducerOption) *Reducer {
	r := &Reducer{
		rules:     rules,
		evaluator: NewEvaluator(locations),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rules returns the reward model in use.
func (r *Reducer) Rules() Rules {
	return r.rules
}

// Reduce returns the state produced by applying a to s.
// On error the returned state is s itself.
func (r *Reducer) Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case VisitLocation:
		return r.visitLocation(s, a), nil
	case CompleteChallenge:
		return r.completeChallenge(s, a)
	case ShareLocation:
		return r.shareLocation(s), nil
	case DismissAchievementNotification:
		return dismissNotification(s), nil
	case Load:
		return a.Snapshot.Clone(), nil
	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
}

func (r *Reducer) visitLocation(s State, a VisitLocation) State {
	next := s.Clone()
	now := r.now()

	visited, added := next.Progress.VisitedLocations.With(a.LocationID)
	next.Progress.VisitedLocations = visited

	if added || r.rules.CreditRepeatVisits {
		next.Progress.AddPoints(r.rules.VisitReward)
	}
	next.Progress.LastVisitDate = &now

	return r.unlockAchievements(next, now)
}

func (r *Reducer) completeChallenge(s State, a CompleteChallenge) (State, error) {
	idx := -1
	for i, c := range s.Challenges {
		if c.ID == a.ChallengeID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, fmt.Errorf("challenge %q: %w", a.ChallengeID, ErrNotFound)
	}

	next := s.Clone()
	challenge := &next.Challenges[idx]

	if first := challenge.Complete(a.EvidenceRef); first || r.rules.CreditRepeatCompletions {
		next.Progress.AddPoints(challenge.Points)
	}
	next.Progress.CompletedChallenges, _ = next.Progress.CompletedChallenges.With(challenge.ID)

	return r.unlockAchievements(next, r.now()), nil
}

func (r *Reducer) shareLocation(s State) State {
	next := s.Clone()

	next.Progress.AddPoints(r.rules.ShareReward)
	next.Progress.SharesCount++

	return r.unlockAchievements(next, r.now())
}

func dismissNotification(s State) State {
	if len(s.Pending) == 0 {
		return s
	}

	next := s.Clone()
	next.Pending = next.Pending[1:]
	if len(next.Pending) == 0 {
		next.Pending = nil
	}
	return next
}

// unlockAchievements evaluates s and queues every newly unlocked
// achievement for announcement.
func (r *Reducer) unlockAchievements(s State, now time.Time) State {
	unlocked := r.evaluator.Evaluate(&s, now)
	if len(unlocked) > 0 {
		s.Pending = append(s.Pending, unlocked...)
	}
	return s
}
