package entities

import "time"

// Achievement is a named milestone with a static unlock condition.
// Catalog entries are templates; the per-user copy carries the unlock state.
type Achievement struct {
	ID          string      // unique within the catalog
	Title       string      // display title
	Description string      // what the user has to do
	Icon        string      // emoji or asset reference
	Points      int         // reward shown to the user
	Requirement Requirement // unlock condition

	Unlocked   bool       // false -> true only
	UnlockedAt *time.Time // set once, when Unlocked flips
}

// Unlock marks the achievement as unlocked at now.
// It reports false and changes nothing if the achievement was already unlocked.
func (a *Achievement) Unlock(now time.Time) bool {
	if a.Unlocked {
		return false
	}

	a.Unlocked = true
	a.UnlockedAt = &now
	return true
}

// Locked returns a copy of the template with the unlock state cleared.
func (a Achievement) Locked() Achievement {
	a.Unlocked = false
	a.UnlockedAt = nil
	return a
}
