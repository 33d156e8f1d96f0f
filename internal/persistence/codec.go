// Package persistence saves and restores engine state through a key-value store.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tLat87/VisitTours/internal/domain/entities"
	"github.com/tLat87/VisitTours/internal/game"
)

// SchemaVersion is the record version written by Serialize.
const SchemaVersion = 1

// ErrSchemaMismatch is returned when a record cannot describe a valid state.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Record is the JSON document stored under the gateway key.
type Record struct {
	Version             int               `json:"version"`
	UserProgress        ProgressRecord    `json:"userProgress"`
	Challenges          []ChallengeRecord `json:"challenges"`
	PendingAchievements []string          `json:"pendingAchievements"`

	// Fields written by older app versions, read only.
	PhotoChallenges []ChallengeRecord  `json:"photoChallenges,omitempty"`
	ShowAchievement *AchievementRecord `json:"showAchievement,omitempty"`
}

// ProgressRecord is the serialized form of entities.UserProgress.
type ProgressRecord struct {
	TotalPoints         int                 `json:"totalPoints"`
	Level               int                 `json:"level"`
	VisitedLocations    []string            `json:"visitedLocations"`
	CompletedChallenges []string            `json:"completedChallenges"`
	Achievements        []AchievementRecord `json:"achievements"`
	Streak              int                 `json:"streak"`
	SharesCount         int                 `json:"sharesCount"`
	LastVisitDate       *time.Time          `json:"lastVisitDate,omitempty"`

	CompletedPhotoChallenges []string `json:"completedPhotoChallenges,omitempty"`
}

// AchievementRecord holds the per-user part of an achievement.
type AchievementRecord struct {
	ID         string     `json:"id"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt,omitempty"`
}

// ChallengeRecord holds the per-user part of a challenge.
type ChallengeRecord struct {
	ID          string `json:"id"`
	Completed   bool   `json:"completed"`
	EvidenceRef string `json:"evidenceRef,omitempty"`

	PhotoURI string `json:"photoUri,omitempty"`
}

// Codec converts states to records and back. Catalog data is not stored:
// records carry ids and per-user fields only, and are reconciled against the
// catalogs the codec was built with.
type Codec struct {
	achievements []entities.Achievement
	challenges   []entities.Challenge
}

// NewCodec creates a codec for the given catalogs.
func NewCodec(achievements []entities.Achievement, challenges []entities.Challenge) *Codec {
	return &Codec{achievements: achievements, challenges: challenges}
}

// Default returns the state of a fresh install.
func (c *Codec) Default() game.State {
	return game.NewState(c.achievements, c.challenges)
}

// Serialize converts s into a record. Sets become arrays in insertion order.
func (c *Codec) Serialize(s game.State) Record {
	p := s.Progress

	rec := Record{
		Version: SchemaVersion,
		UserProgress: ProgressRecord{
			TotalPoints:         p.TotalPoints,
			Level:               p.Level,
			VisitedLocations:    p.VisitedLocations.Items(),
			CompletedChallenges: p.CompletedChallenges.Items(),
			Achievements:        make([]AchievementRecord, 0, len(p.Achievements)),
			Streak:              p.Streak,
			SharesCount:         p.SharesCount,
			LastVisitDate:       p.LastVisitDate,
		},
		Challenges:          make([]ChallengeRecord, 0, len(s.Challenges)),
		PendingAchievements: make([]string, 0, len(s.Pending)),
	}

	for _, a := range p.Achievements {
		rec.UserProgress.Achievements = append(rec.UserProgress.Achievements, AchievementRecord{
			ID:         a.ID,
			Unlocked:   a.Unlocked,
			UnlockedAt: a.UnlockedAt,
		})
	}
	for _, ch := range s.Challenges {
		rec.Challenges = append(rec.Challenges, ChallengeRecord{
			ID:          ch.ID,
			Completed:   ch.Completed,
			EvidenceRef: ch.EvidenceRef,
		})
	}
	for _, a := range s.Pending {
		rec.PendingAchievements = append(rec.PendingAchievements, a.ID)
	}

	return rec
}

// Deserialize rebuilds a state from rec.
//
// Arrays are deduplicated into sets, absent fields default to empty and the
// level is recomputed from the points. Achievements and challenges follow the
// catalog: records for unknown ids are dropped, catalog entries without a
// record start locked or incomplete.
func (c *Codec) Deserialize(rec Record) (game.State, error) {
	if rec.Version > SchemaVersion {
		return game.State{}, fmt.Errorf("%w: version %d is newer than %d", ErrSchemaMismatch, rec.Version, SchemaVersion)
	}
	if rec.UserProgress.TotalPoints < 0 {
		return game.State{}, fmt.Errorf("%w: negative total points %d", ErrSchemaMismatch, rec.UserProgress.TotalPoints)
	}

	s := c.Default()
	p := &s.Progress
	rp := rec.UserProgress

	p.AddPoints(rp.TotalPoints)
	p.VisitedLocations = entities.NewStringSet(rp.VisitedLocations...)
	p.CompletedChallenges = entities.NewStringSet(rp.CompletedChallenges...)
	for _, id := range rp.CompletedPhotoChallenges {
		p.CompletedChallenges, _ = p.CompletedChallenges.With(id)
	}
	p.Streak = rp.Streak
	p.SharesCount = max(rp.SharesCount, 0)
	p.LastVisitDate = rp.LastVisitDate

	unlocked := make(map[string]AchievementRecord, len(rp.Achievements))
	for _, a := range rp.Achievements {
		if a.Unlocked {
			unlocked[a.ID] = a
		}
	}
	for i := range p.Achievements {
		a := &p.Achievements[i]
		if r, ok := unlocked[a.ID]; ok {
			a.Unlocked = true
			a.UnlockedAt = r.UnlockedAt
		}
	}

	completed := make(map[string]ChallengeRecord)
	for _, records := range [][]ChallengeRecord{rec.PhotoChallenges, rec.Challenges} {
		for _, r := range records {
			if !r.Completed {
				continue
			}
			if r.EvidenceRef == "" {
				r.EvidenceRef = r.PhotoURI
			}
			completed[r.ID] = r
		}
	}
	for i := range s.Challenges {
		ch := &s.Challenges[i]
		if r, ok := completed[ch.ID]; ok {
			ch.Complete(r.EvidenceRef)
		}
	}

	pending := rec.PendingAchievements
	if pending == nil && rec.ShowAchievement != nil {
		pending = []string{rec.ShowAchievement.ID}
	}
	seen := make(map[string]bool, len(pending))
	for _, id := range pending {
		if seen[id] {
			continue
		}
		seen[id] = true
		for _, a := range p.Achievements {
			if a.ID == id && a.Unlocked {
				s.Pending = append(s.Pending, a)
				break
			}
		}
	}

	return s, nil
}

// Marshal serializes s to JSON.
func (c *Codec) Marshal(s game.State) ([]byte, error) {
	data, err := json.Marshal(c.Serialize(s))
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return data, nil
}

// Unmarshal parses a JSON record and rebuilds the state it describes.
func (c *Codec) Unmarshal(data []byte) (game.State, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return game.State{}, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return c.Deserialize(rec)
}
