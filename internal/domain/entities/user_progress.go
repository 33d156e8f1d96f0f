package entities

import "time"

// PointsPerLevel is the number of points between two consecutive levels.
const PointsPerLevel = 100

// LevelFor returns the level reached with the given cumulative points.
// Level 1 covers 0-99 points, level 2 covers 100-199 and so on.
func LevelFor(points int) int {
	if points < 0 {
		points = 0
	}
	return points/PointsPerLevel + 1
}

// UserProgress is the per-user gamification aggregate.
type UserProgress struct {
	TotalPoints int // never decreases
	Level       int // always LevelFor(TotalPoints)

	VisitedLocations    StringSet // insertion-only
	CompletedChallenges StringSet // insertion-only

	// Achievements has one entry per catalog achievement, in catalog order.
	Achievements []Achievement

	Streak        int        // carried through unchanged
	SharesCount   int        // number of share transitions
	LastVisitDate *time.Time // time of the most recent visit
}

// NewUserProgress creates a zero progress with every catalog achievement locked.
func NewUserProgress(catalog []Achievement) UserProgress {
	achievements := make([]Achievement, len(catalog))
	for i, a := range catalog {
		achievements[i] = a.Locked()
	}

	return UserProgress{
		TotalPoints:         0,
		Level:               LevelFor(0),
		VisitedLocations:    NewStringSet(),
		CompletedChallenges: NewStringSet(),
		Achievements:        achievements,
	}
}

// AddPoints credits points and keeps Level in sync. Negative amounts are ignored.
func (p *UserProgress) AddPoints(points int) {
	if points > 0 {
		p.TotalPoints += points
	}
	p.Level = LevelFor(p.TotalPoints)
}

// PointsIntoLevel returns how many points were earned inside the current level.
func (p UserProgress) PointsIntoLevel() int {
	return p.TotalPoints % PointsPerLevel
}

// PointsToNextLevel returns how many points are missing to reach the next level.
func (p UserProgress) PointsToNextLevel() int {
	return PointsPerLevel - p.PointsIntoLevel()
}

// UnlockedCount returns the number of unlocked achievements.
func (p UserProgress) UnlockedCount() int {
	n := 0
	for _, a := range p.Achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// Clone returns a copy that shares no mutable memory with p.
func (p UserProgress) Clone() UserProgress {
	out := p
	out.Achievements = make([]Achievement, len(p.Achievements))
	copy(out.Achievements, p.Achievements)
	if p.LastVisitDate != nil {
		t := *p.LastVisitDate
		out.LastVisitDate = &t
	}
	return out
}
