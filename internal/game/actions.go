package game

// Action is one of the transitions the engine accepts.
// The set is closed: only the types declared in this file implement it.
type Action interface {
	// Name identifies the action in logs and metrics.
	Name() string

	action()
}

// VisitLocation records a visit to a location.
type VisitLocation struct {
	LocationID string
}

// CompleteChallenge completes a catalog challenge with the given evidence.
type CompleteChallenge struct {
	ChallengeID string
	EvidenceRef string
}

// ShareLocation credits the user for sharing a location.
type ShareLocation struct {
	LocationID string
}

// DismissAchievementNotification clears the notification currently shown.
type DismissAchievementNotification struct{}

// Load replaces the whole state with a restored snapshot.
type Load struct {
	Snapshot State
}

func (VisitLocation) Name() string                  { return "visit_location" }
func (CompleteChallenge) Name() string              { return "complete_challenge" }
func (ShareLocation) Name() string                  { return "share_location" }
func (DismissAchievementNotification) Name() string { return "dismiss_notification" }
func (Load) Name() string                           { return "load" }

func (VisitLocation) action()                  {}
func (CompleteChallenge) action()              {}
func (ShareLocation) action()                  {}
func (DismissAchievementNotification) action() {}
func (Load) action()                           {}
