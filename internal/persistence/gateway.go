package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tLat87/VisitTours/internal/game"
)

// DefaultKey is the storage key of a single-user deployment.
const DefaultKey = "gameData"

// Load outcomes reported to the Recorder.
const (
	LoadRestored = "restored"
	LoadMissing  = "missing"
	LoadInvalid  = "invalid"
	LoadFailed   = "failed"
)

const defaultWriteTimeout = 5 * time.Second

// ErrLoadFailed is returned by Load when the KV could not be read.
var ErrLoadFailed = errors.New("load progress failed")

// Recorder receives persistence events, typically to export metrics.
type Recorder interface {
	ObserveSave(err error)
	ObserveLoad(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSave(error)   {}
func (nopRecorder) ObserveLoad(string) {}

// Gateway moves the state of one store in and out of a KV.
//
// Snapshots handed to Observe are written by a background writer started with
// Start. At most one snapshot waits for the writer; a newer one replaces it.
// Each snapshot gets a single write attempt and failures are only logged.
type Gateway struct {
	kv           KV
	key          string
	codec        *Codec
	logger       *zap.Logger
	recorder     Recorder
	writeTimeout time.Duration

	mu      sync.Mutex
	pending chan game.State
	started bool
	closed  bool
	stop    chan struct{}
	done    chan struct{}
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithRecorder attaches a recorder to the gateway.
func WithRecorder(r Recorder) Option {
	return func(g *Gateway) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithWriteTimeout bounds every write issued by the gateway.
func WithWriteTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.writeTimeout = d
		}
	}
}

// NewGateway creates a gateway storing snapshots under key.
func NewGateway(kv KV, key string, codec *Codec, logger *zap.Logger, opts ...Option) *Gateway {
	if key == "" {
		key = DefaultKey
	}

	g := &Gateway{
		kv:           kv,
		key:          key,
		codec:        codec,
		logger:       logger.With(zap.String("key", key)),
		recorder:     nopRecorder{},
		writeTimeout: defaultWriteTimeout,
		pending:      make(chan game.State, 1),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Key returns the storage key.
func (g *Gateway) Key() string {
	return g.key
}

// Load reads the stored snapshot. A missing key or an unusable record yield
// the default state. A read failure yields the default state together with
// an error wrapping ErrLoadFailed: the stored snapshot may still be valid and
// must not be overwritten with that state.
func (g *Gateway) Load(ctx context.Context) (game.State, error) {
	raw, err := g.kv.Get(ctx, g.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			g.recorder.ObserveLoad(LoadMissing)
			g.logger.Debug("no stored progress, starting fresh")
			return g.codec.Default(), nil
		}
		g.recorder.ObserveLoad(LoadFailed)
		g.logger.Error("failed to read progress", zap.Error(err))
		return g.codec.Default(), fmt.Errorf("%w: %s: %w", ErrLoadFailed, g.key, err)
	}

	s, err := g.codec.Unmarshal([]byte(raw))
	if err != nil {
		g.recorder.ObserveLoad(LoadInvalid)
		g.logger.Warn("stored progress is unusable, starting fresh", zap.Error(err))
		return g.codec.Default(), nil
	}

	g.recorder.ObserveLoad(LoadRestored)
	return s, nil
}

// Save writes s synchronously.
func (g *Gateway) Save(ctx context.Context, s game.State) error {
	data, err := g.codec.Marshal(s)
	if err == nil {
		err = g.kv.Set(ctx, g.key, string(data))
	}
	g.recorder.ObserveSave(err)
	if err != nil {
		return fmt.Errorf("save %s: %w", g.key, err)
	}
	return nil
}

// Observe queues s for writing, replacing any snapshot not yet written.
// It never blocks and has the signature of a store subscriber.
func (g *Gateway) Observe(s game.State) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}

	select {
	case <-g.pending:
	default:
	}
	g.pending <- s
}

// Start launches the background writer. It returns immediately; the writer
// runs until Close is called or ctx is done, writing the last queued snapshot
// before it exits.
func (g *Gateway) Start(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started || g.closed {
		return
	}
	g.started = true

	go g.run(ctx)
}

// Close stops accepting snapshots and waits until the queued one is written.
func (g *Gateway) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	started := g.started
	close(g.stop)
	g.mu.Unlock()

	if started {
		<-g.done
	}
	// The writer may have exited on context cancellation before the last Observe.
	g.flush(context.Background())
}

func (g *Gateway) run(ctx context.Context) {
	defer close(g.done)

	for {
		select {
		case s := <-g.pending:
			g.write(ctx, s)
		case <-g.stop:
			g.flush(ctx)
			return
		case <-ctx.Done():
			g.flush(ctx)
			return
		}
	}
}

func (g *Gateway) flush(ctx context.Context) {
	select {
	case s := <-g.pending:
		g.write(ctx, s)
	default:
	}
}

func (g *Gateway) write(ctx context.Context, s game.State) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.writeTimeout)
	defer cancel()

	if err := g.Save(ctx, s); err != nil {
		g.logger.Error("failed to save progress", zap.Error(err))
	}
}
