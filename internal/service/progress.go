package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/tLat87/VisitTours/internal/domain/entities"
	"github.com/tLat87/VisitTours/internal/game"
	"github.com/tLat87/VisitTours/internal/persistence"
)

var (
	ErrUnknownLocation = errors.New("unknown location")
	ErrNotAQuiz        = errors.New("challenge is not a quiz")
	ErrServiceClosed   = errors.New("progress service closed")
)

// ProgressConfig controls session keys and lifetime.
type ProgressConfig struct {
	KeyPrefix     string        // storage key prefix, the user id is appended
	IdleTTL       time.Duration // sessions unused for longer are evicted
	EvictSchedule string        // cron spec of the eviction job
}

type session struct {
	mu          sync.Mutex // held while dispatching; guards closed
	closed      bool
	store       *game.Store
	gateway     *persistence.Gateway
	unsubscribe func()
	lastUsed    time.Time // guarded by ProgressService.mu
}

// ProgressService keeps one progress store per user. Sessions are loaded
// from storage on first use, persisted after every change and dropped from
// memory after a period of inactivity.
type ProgressService struct {
	kv       persistence.KV
	catalog  Catalog
	reducer  *game.Reducer
	codec    *persistence.Codec
	cfg      ProgressConfig
	logger   *zap.Logger
	recorder SessionRecorder
	answers  *AnswerValidator
	now      func() time.Time

	mu         sync.Mutex
	sessions   map[int64]*session
	resets     map[int64]chan struct{} // closed when the reset of a user is done
	resetEpoch uint64                  // bumped by every Reset
	closed     bool
	loading    singleflight.Group
}

// ProgressOption configures a ProgressService.
type ProgressOption func(*ProgressService)

// WithSessionRecorder attaches a recorder to the service and every session it opens.
func WithSessionRecorder(r SessionRecorder) ProgressOption {
	return func(s *ProgressService) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithNow overrides the clock used for idle tracking.
func WithNow(now func() time.Time) ProgressOption {
	return func(s *ProgressService) {
		s.now = now
	}
}

// NewProgressService creates a new progress service.
func NewProgressService(
	kv persistence.KV,
	catalog Catalog,
	reducer *game.Reducer,
	cfg ProgressConfig,
	logger *zap.Logger,
	opts ...ProgressOption,
) *ProgressService {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = persistence.DefaultKey
	}

	s := &ProgressService{
		kv:       kv,
		catalog:  catalog,
		reducer:  reducer,
		codec:    persistence.NewCodec(catalog.Achievements(), catalog.Challenges()),
		cfg:      cfg,
		logger:   logger,
		recorder: nopSessionRecorder{},
		answers:  NewAnswerValidator(),
		now:      time.Now,
		sessions: make(map[int64]*session),
		resets:   make(map[int64]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// KeyFor returns the storage key holding the progress of userID.
func KeyFor(prefix string, userID int64) string {
	return prefix + ":" + strconv.FormatInt(userID, 10)
}

// State returns the current state of a user.
func (s *ProgressService) State(ctx context.Context, userID int64) (game.State, error) {
	var state game.State
	err := s.withSession(ctx, userID, func(store *game.Store) error {
		state = store.State()
		return nil
	})
	return state, err
}

// VisitLocation records a visit to a catalog location.
func (s *ProgressService) VisitLocation(ctx context.Context, userID int64, locationID string) (game.State, error) {
	if _, ok := s.catalog.CategoryOf(locationID); !ok {
		return game.State{}, fmt.Errorf("%w: %q", ErrUnknownLocation, locationID)
	}
	return s.dispatch(ctx, userID, game.VisitLocation{LocationID: locationID})
}

// ShareLocation credits the user for sharing a catalog location.
func (s *ProgressService) ShareLocation(ctx context.Context, userID int64, locationID string) (game.State, error) {
	if _, ok := s.catalog.CategoryOf(locationID); !ok {
		return game.State{}, fmt.Errorf("%w: %q", ErrUnknownLocation, locationID)
	}
	return s.dispatch(ctx, userID, game.ShareLocation{LocationID: locationID})
}

// CompleteChallenge completes a challenge with the given evidence.
func (s *ProgressService) CompleteChallenge(ctx context.Context, userID int64, challengeID, evidenceRef string) (game.State, error) {
	return s.dispatch(ctx, userID, game.CompleteChallenge{ChallengeID: challengeID, EvidenceRef: evidenceRef})
}

// AnswerQuiz checks an answer to a quiz challenge and completes the
// challenge when it is correct.
func (s *ProgressService) AnswerQuiz(ctx context.Context, userID int64, challengeID string, option int) (bool, game.State, error) {
	challenge, err := s.catalog.Challenge(challengeID)
	if err != nil {
		return false, game.State{}, fmt.Errorf("challenge %q: %w", challengeID, game.ErrNotFound)
	}
	if challenge.Kind != entities.ChallengeQuiz || challenge.Question == nil {
		return false, game.State{}, fmt.Errorf("%w: %q", ErrNotAQuiz, challengeID)
	}

	q := challenge.Question
	if !q.Correct(option) {
		state, err := s.State(ctx, userID)
		return false, state, err
	}

	state, err := s.CompleteChallenge(ctx, userID, challengeID, q.Options[q.Answer])
	return err == nil, state, err
}

// AnswerQuizText is AnswerQuiz for a typed answer: an option number or
// text close to one of the options. Unrecognized text counts as wrong.
func (s *ProgressService) AnswerQuizText(ctx context.Context, userID int64, challengeID, answer string) (bool, game.State, error) {
	challenge, err := s.catalog.Challenge(challengeID)
	if err != nil {
		return false, game.State{}, fmt.Errorf("challenge %q: %w", challengeID, game.ErrNotFound)
	}
	if challenge.Question == nil {
		return false, game.State{}, fmt.Errorf("%w: %q", ErrNotAQuiz, challengeID)
	}

	option, ok := s.answers.Match(answer, challenge.Question.Options)
	if !ok {
		option = -1
	}
	return s.AnswerQuiz(ctx, userID, challengeID, option)
}

// DismissNotification dismisses the achievement notification currently shown.
func (s *ProgressService) DismissNotification(ctx context.Context, userID int64) (game.State, error) {
	return s.dispatch(ctx, userID, game.DismissAchievementNotification{})
}

// Reset drops the session of a user and deletes their stored progress.
// Requests for the user wait until the stored progress is gone.
func (s *ProgressService) Reset(ctx context.Context, userID int64) error {
	done := make(chan struct{})

	s.mu.Lock()
	for {
		wait, busy := s.resets[userID]
		if !busy {
			break
		}
		s.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
	}
	s.resets[userID] = done
	s.resetEpoch++
	sess, ok := s.sessions[userID]
	if ok {
		delete(s.sessions, userID)
	}
	n := len(s.sessions)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.resets, userID)
		s.mu.Unlock()
		close(done)
	}()

	if ok {
		s.closeSession(sess)
		s.recorder.SetActiveSessions(n)
	}

	key := KeyFor(s.cfg.KeyPrefix, userID)
	deleter, ok := s.kv.(persistence.Deleter)
	if !ok {
		return s.kv.Set(ctx, key, "{}")
	}
	return deleter.Delete(ctx, key)
}

// Start runs the idle-session eviction job until ctx is done.
func (s *ProgressService) Start(ctx context.Context) error {
	s.logger.Info("progress service started")

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.cfg.EvictSchedule, func() {
		if n := s.EvictIdle(); n > 0 {
			s.logger.Info("evicted idle sessions", zap.Int("count", n))
		}
	})
	if err != nil {
		return fmt.Errorf("add eviction job: %w", err)
	}

	c.Start()

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("progress service stopped")
	return nil
}

// EvictIdle closes sessions unused for longer than the idle TTL, flushing
// their last snapshot. It returns the number of evicted sessions.
func (s *ProgressService) EvictIdle() int {
	cutoff := s.now().Add(-s.cfg.IdleTTL)

	s.mu.Lock()
	var idle []*session
	for userID, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			idle = append(idle, sess)
			delete(s.sessions, userID)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range idle {
		s.closeSession(sess)
	}
	if len(idle) > 0 {
		s.recorder.SetActiveSessions(n)
	}
	return len(idle)
}

// ActiveSessions returns the number of sessions held in memory.
func (s *ProgressService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close flushes and drops every session. Later calls fail with ErrServiceClosed.
func (s *ProgressService) Close() {
	s.mu.Lock()
	s.closed = true
	sessions := s.sessions
	s.sessions = make(map[int64]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		s.closeSession(sess)
	}
	s.recorder.SetActiveSessions(0)
}

func (s *ProgressService) dispatch(ctx context.Context, userID int64, a game.Action) (game.State, error) {
	var state game.State
	err := s.withSession(ctx, userID, func(store *game.Store) error {
		if err := store.Dispatch(a); err != nil {
			return err
		}
		state = store.State()
		return nil
	})
	return state, err
}

// withSession runs fn against the store of userID. fn runs under the
// session lock, so a concurrent eviction cannot drop its snapshot.
func (s *ProgressService) withSession(ctx context.Context, userID int64, fn func(*game.Store) error) error {
	for {
		sess, err := s.session(ctx, userID)
		if err != nil {
			return err
		}

		sess.mu.Lock()
		if sess.closed {
			// Evicted between lookup and lock.
			sess.mu.Unlock()
			continue
		}
		err = fn(sess.store)
		sess.mu.Unlock()
		return err
	}
}

// session returns the open session of userID, loading it on first use.
// A session whose stored progress could not be read is not kept, so the
// next request reads it again.
func (s *ProgressService) session(ctx context.Context, userID int64) (*session, error) {
	for {
		sess, resetting, err := s.lookup(userID)
		if err != nil || sess != nil {
			return sess, err
		}
		if resetting != nil {
			select {
			case <-resetting:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		v, err, _ := s.loading.Do(strconv.FormatInt(userID, 10), func() (any, error) {
			return s.load(ctx, userID)
		})
		if err != nil {
			return nil, err
		}
		if sess, ok := v.(*session); ok {
			return sess, nil
		}
		// A reset ran while loading.
	}
}

// load opens and caches the session of userID. It returns a nil session
// when a reset of any user started after the read began.
func (s *ProgressService) load(ctx context.Context, userID int64) (any, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrServiceClosed
	}
	if sess, ok := s.sessions[userID]; ok {
		sess.lastUsed = s.now()
		s.mu.Unlock()
		return sess, nil
	}
	if _, resetting := s.resets[userID]; resetting {
		s.mu.Unlock()
		return nil, nil
	}
	epoch := s.resetEpoch
	s.mu.Unlock()

	sess, err := s.openSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.closeSession(sess)
		return nil, ErrServiceClosed
	}
	if s.resetEpoch != epoch {
		s.mu.Unlock()
		s.closeSession(sess)
		return nil, nil
	}
	sess.lastUsed = s.now()
	s.sessions[userID] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	s.recorder.SetActiveSessions(n)
	return sess, nil
}

// lookup returns the cached session of userID, or the channel to wait on
// while the user is being reset.
func (s *ProgressService) lookup(userID int64) (*session, <-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, ErrServiceClosed
	}
	if wait, ok := s.resets[userID]; ok {
		return nil, wait, nil
	}
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, nil, nil
	}
	sess.lastUsed = s.now()
	return sess, nil, nil
}

func (s *ProgressService) openSession(ctx context.Context, userID int64) (*session, error) {
	key := KeyFor(s.cfg.KeyPrefix, userID)
	logger := s.logger.With(zap.Int64("user_id", userID))

	gateway := persistence.NewGateway(s.kv, key, s.codec, logger, persistence.WithRecorder(s.recorder))

	snapshot, err := gateway.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("open session of user %d: %w", userID, err)
	}

	store := game.NewStore(s.reducer, s.codec.Default(), logger, game.WithRecorder(s.recorder))
	// A fresh store accepts Load, so this cannot fail.
	_ = store.Load(snapshot)

	sess := &session{
		store:       store,
		gateway:     gateway,
		unsubscribe: store.Subscribe(gateway.Observe),
	}
	gateway.Start(context.WithoutCancel(ctx))

	logger.Debug("session opened")
	return sess, nil
}

func (s *ProgressService) closeSession(sess *session) {
	sess.mu.Lock()
	sess.closed = true
	sess.unsubscribe()
	sess.mu.Unlock()

	sess.gateway.Close()
}
