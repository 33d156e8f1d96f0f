package service

import (
	"github.com/tLat87/VisitTours/internal/domain/entities"
	"github.com/tLat87/VisitTours/internal/game"
	"github.com/tLat87/VisitTours/internal/persistence"
)

// Catalog is the read-only reference data the service needs.
type Catalog interface {
	game.CategoryLookup
	Achievements() []entities.Achievement
	Challenges() []entities.Challenge
	Challenge(id string) (entities.Challenge, error)
}

// SessionRecorder receives engine, persistence and session events.
type SessionRecorder interface {
	game.Recorder
	persistence.Recorder
	SetActiveSessions(n int)
}

type nopSessionRecorder struct{}

func (nopSessionRecorder) ObserveTransition(string, error) {}
func (nopSessionRecorder) ObserveUnlock(string)            {}
func (nopSessionRecorder) ObserveSave(error)               {}
func (nopSessionRecorder) ObserveLoad(string)              {}
func (nopSessionRecorder) SetActiveSessions(int)           {}
