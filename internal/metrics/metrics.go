// Package metrics exports progress engine activity to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricTransitionsTotal          = "game_transitions_total"
	MetricAchievementsUnlockedTotal = "game_achievements_unlocked_total"
	MetricSnapshotSavesTotal        = "game_snapshot_saves_total"
	MetricSnapshotLoadsTotal        = "game_snapshot_loads_total"
	MetricActiveSessions            = "game_active_sessions"
)

// Status constants for labeling.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics contains Prometheus metrics for the progress engine.
// It satisfies the recorder interfaces of the game and persistence packages.
// All operations are thread-safe.
type Metrics struct {
	transitions    *prometheus.CounterVec
	unlocks        *prometheus.CounterVec
	saves          *prometheus.CounterVec
	loads          *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

// NewMetrics creates and returns a new Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricTransitionsTotal,
				Help: "Total number of dispatched actions by action and status",
			},
			[]string{"action", "status"},
		),
		unlocks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricAchievementsUnlockedTotal,
				Help: "Total number of achievement unlocks by achievement id",
			},
			[]string{"achievement"},
		),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSnapshotSavesTotal,
				Help: "Total number of snapshot writes by status",
			},
			[]string{"status"},
		),
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSnapshotLoadsTotal,
				Help: "Total number of snapshot loads by outcome",
			},
			[]string{"outcome"},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: MetricActiveSessions,
				Help: "Number of user sessions currently held in memory",
			},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all Prometheus collectors.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.transitions,
		m.unlocks,
		m.saves,
		m.loads,
		m.activeSessions,
	}
}

// ObserveTransition counts one dispatched action.
func (m *Metrics) ObserveTransition(action string, err error) {
	m.transitions.WithLabelValues(action, status(err)).Inc()
}

// ObserveUnlock counts one achievement unlock.
func (m *Metrics) ObserveUnlock(achievementID string) {
	m.unlocks.WithLabelValues(achievementID).Inc()
}

// ObserveSave counts one snapshot write.
func (m *Metrics) ObserveSave(err error) {
	m.saves.WithLabelValues(status(err)).Inc()
}

// ObserveLoad counts one snapshot load.
func (m *Metrics) ObserveLoad(outcome string) {
	m.loads.WithLabelValues(outcome).Inc()
}

// SetActiveSessions records the number of live sessions.
func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

func status(err error) string {
	if err != nil {
		return StatusFailure
	}
	return StatusSuccess
}
