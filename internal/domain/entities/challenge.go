package entities

// ChallengeKind distinguishes the activities a user can complete at a location.
type ChallengeKind string

const (
	ChallengePhoto      ChallengeKind = "photo"       // take a photo
	ChallengeQuiz       ChallengeKind = "quiz"        // answer a question
	ChallengeAudioGuide ChallengeKind = "audio_guide" // listen to a guide
)

// Valid reports whether k is a known challenge kind.
func (k ChallengeKind) Valid() bool {
	switch k {
	case ChallengePhoto, ChallengeQuiz, ChallengeAudioGuide:
		return true
	default:
		return false
	}
}

// Challenge is a completable activity tied to a location.
// Catalog entries are templates with Completed unset; the per-user copy
// records completion and the evidence the user provided.
type Challenge struct {
	ID          string
	Kind        ChallengeKind
	LocationID  string
	Title       string
	Description string
	Points      int       // reward credited on first completion
	Question    *Question // quiz challenges only

	Completed   bool
	EvidenceRef string // photo reference, quiz answer or playback marker
}

// Complete marks the challenge completed and records the evidence.
// It reports whether this was the first completion.
func (c *Challenge) Complete(evidenceRef string) bool {
	first := !c.Completed
	c.Completed = true
	c.EvidenceRef = evidenceRef
	return first
}

// Reset returns a copy of the template with the completion state cleared.
func (c Challenge) Reset() Challenge {
	c.Completed = false
	c.EvidenceRef = ""
	return c
}

// Question is the multiple-choice question of a quiz challenge.
type Question struct {
	Text        string
	Options     []string
	Answer      int // index into Options
	Explanation string
}

// Correct reports whether option is the index of the right answer.
func (q Question) Correct(option int) bool {
	return option == q.Answer
}
