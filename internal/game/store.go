package game

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/tLat87/VisitTours/internal/domain/entities"
)

// Recorder receives engine events, typically to export metrics.
type Recorder interface {
	ObserveTransition(action string, err error)
	ObserveUnlock(achievementID string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTransition(string, error) {}
func (nopRecorder) ObserveUnlock(string)            {}

type subscriber struct {
	id int
	fn func(State)
}

// Store owns the state of one user and applies actions to it one at a time.
type Store struct {
	mu       sync.Mutex
	reducer  *Reducer
	state    State
	started  bool
	subs     []subscriber
	nextSub  int
	logger   *zap.Logger
	recorder Recorder
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithRecorder attaches a recorder to the store.
func WithRecorder(r Recorder) StoreOption {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewStore creates a store holding initial.
func NewStore(reducer *Reducer, initial State, logger *zap.Logger, opts ...StoreOption) *Store {
	s := &Store{
		reducer:  reducer,
		state:    initial.Clone(),
		logger:   logger,
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch applies a and notifies subscribers with the resulting state.
//
// Subscribers run synchronously, in subscription order, before Dispatch
// returns. They must not call Dispatch themselves.
func (s *Store) Dispatch(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := "unknown"
	if a != nil {
		name = a.Name()
	}

	if _, ok := a.(Load); ok && s.started {
		s.recorder.ObserveTransition(name, ErrAlreadyStarted)
		return ErrAlreadyStarted
	}

	next, err := s.reducer.Reduce(s.state, a)
	s.recorder.ObserveTransition(name, err)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("action ignored", zap.String("action", name), zap.Error(err))
		} else {
			s.logger.Error("action rejected", zap.String("action", name), zap.Error(err))
		}
		return err
	}

	if _, restored := a.(Load); !restored {
		for _, ach := range newlyUnlocked(s.state, next) {
			s.recorder.ObserveUnlock(ach.ID)
			s.logger.Info("achievement unlocked",
				zap.String("achievement_id", ach.ID),
				zap.Int("total_points", next.Progress.TotalPoints),
			)
		}
	}

	s.state = next
	s.started = true

	for _, sub := range s.subs {
		sub.fn(next.Clone())
	}

	return nil
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Notification returns the achievement currently awaiting dismissal.
func (s *Store) Notification() (entities.Achievement, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Notification()
}

// Subscribe registers fn to be called after every applied action.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Load replaces the state with a restored snapshot. It must be the first action.
func (s *Store) Load(snapshot State) error {
	return s.Dispatch(Load{Snapshot: snapshot})
}

// VisitLocation dispatches a VisitLocation action.
func (s *Store) VisitLocation(locationID string) error {
	return s.Dispatch(VisitLocation{LocationID: locationID})
}

// CompleteChallenge dispatches a CompleteChallenge action.
func (s *Store) CompleteChallenge(challengeID, evidenceRef string) error {
	return s.Dispatch(CompleteChallenge{ChallengeID: challengeID, EvidenceRef: evidenceRef})
}

// ShareLocation dispatches a ShareLocation action.
func (s *Store) ShareLocation(locationID string) error {
	return s.Dispatch(ShareLocation{LocationID: locationID})
}

// DismissAchievementNotification dispatches a DismissAchievementNotification action.
func (s *Store) DismissAchievementNotification() error {
	return s.Dispatch(DismissAchievementNotification{})
}

func newlyUnlocked(prev, next State) []entities.Achievement {
	was := make(map[string]bool, len(prev.Progress.Achievements))
	for _, a := range prev.Progress.Achievements {
		was[a.ID] = a.Unlocked
	}

	var out []entities.Achievement
	for _, a := range next.Progress.Achievements {
		if a.Unlocked && !was[a.ID] {
			out = append(out, a)
		}
	}
	return out
}
