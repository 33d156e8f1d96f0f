package telegram

import (
	"fmt"
	"strings"

	"github.com/tLat87/VisitTours/internal/domain/entities"
	"github.com/tLat87/VisitTours/internal/game"
)

const progressBarLength = 20

func categoryIcon(c entities.Category) string {
	switch c {
	case entities.CategoryPeace:
		return "🌿"
	case entities.CategoryHistory:
		return "🏛"
	case entities.CategoryLiveliness:
		return "🎉"
	default:
		return "📍"
	}
}

func challengeIcon(k entities.ChallengeKind) string {
	switch k {
	case entities.ChallengePhoto:
		return "📷"
	case entities.ChallengeQuiz:
		return "❓"
	case entities.ChallengeAudioGuide:
		return "🎧"
	default:
		return "🎯"
	}
}

func checkmark(done bool) string {
	if done {
		return "✅"
	}
	return "⬜"
}

// buildProgressBar creates an ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total <= 0 || current < 0 {
		current = 0
	}

	filled := 0
	if total > 0 {
		filled = int(float64(current) / float64(total) * float64(length))
	}
	if filled > length {
		filled = length
	}

	empty := length - filled
	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	return fmt.Sprintf("[%s]", bar)
}

// formatLocations lists the catalog locations, marking the visited ones.
func formatLocations(locations []entities.Location, visited entities.StringSet) string {
	var sb strings.Builder
	sb.WriteString(bold(fmt.Sprintf("📍 Locations (%d/%d visited)", countVisited(locations, visited), len(locations))))

	for _, l := range locations {
		sb.WriteString("\n\n")
		sb.WriteString(md(fmt.Sprintf("%s %s %s. ", checkmark(visited.Has(l.ID)), categoryIcon(l.Category), l.ID)))
		sb.WriteString(bold(l.Title))
		if l.Description != "" {
			sb.WriteString("\n")
			sb.WriteString(italic(l.Description))
		}
	}

	return sb.String()
}

func countVisited(locations []entities.Location, visited entities.StringSet) int {
	n := 0
	for _, l := range locations {
		if visited.Has(l.ID) {
			n++
		}
	}
	return n
}

// formatChallenges lists challenges with their per-user completion state.
func formatChallenges(title string, challenges []entities.Challenge) string {
	var sb strings.Builder
	sb.WriteString(bold(title))

	if len(challenges) == 0 {
		sb.WriteString("\n\n")
		sb.WriteString(md("No challenges here."))
		return sb.String()
	}

	for _, c := range challenges {
		sb.WriteString("\n\n")
		sb.WriteString(md(fmt.Sprintf("%s %s %s ", checkmark(c.Completed), challengeIcon(c.Kind), c.ID)))
		sb.WriteString(bold(c.Title))
		sb.WriteString(md(fmt.Sprintf(" (+%d)", c.Points)))
		if c.Description != "" {
			sb.WriteString("\n")
			sb.WriteString(italic(c.Description))
		}
	}

	return sb.String()
}

// formatProgress renders the progress summary of a user.
func formatProgress(s game.State, totalLocations int) string {
	p := s.Progress

	return fmt.Sprintf(
		"%s\n\n%s\n%s\n\n%s\n%s\n%s\n%s\n%s",
		bold(fmt.Sprintf("📊 Level %d", p.Level)),
		md(buildProgressBar(p.PointsIntoLevel(), entities.PointsPerLevel, progressBarLength)),
		md(fmt.Sprintf("%d points to level %d", p.PointsToNextLevel(), p.Level+1)),
		md(fmt.Sprintf("⭐ Total points: %d", p.TotalPoints)),
		md(fmt.Sprintf("📍 Locations visited: %d/%d", p.VisitedLocations.Len(), totalLocations)),
		md(fmt.Sprintf("🎯 Challenges completed: %d/%d", p.CompletedChallenges.Len(), len(s.Challenges))),
		md(fmt.Sprintf("🏆 Achievements: %d/%d", p.UnlockedCount(), len(p.Achievements))),
		md(fmt.Sprintf("📤 Shares: %d", p.SharesCount)),
	)
}

// formatAchievements lists unlocked achievements first, then locked ones.
func formatAchievements(achievements []entities.Achievement) string {
	var unlocked, locked []entities.Achievement
	for _, a := range achievements {
		if a.Unlocked {
			unlocked = append(unlocked, a)
		} else {
			locked = append(locked, a)
		}
	}

	var sb strings.Builder
	sb.WriteString(bold(fmt.Sprintf("🏆 Achievements (%d/%d)", len(unlocked), len(achievements))))

	for _, a := range unlocked {
		sb.WriteString("\n\n")
		sb.WriteString(md(a.Icon + " "))
		sb.WriteString(bold(a.Title))
		if a.UnlockedAt != nil {
			sb.WriteString(md(" · " + a.UnlockedAt.Format("2 Jan 2006")))
		}
		sb.WriteString("\n")
		sb.WriteString(italic(a.Description))
	}

	for _, a := range locked {
		sb.WriteString("\n\n")
		sb.WriteString(md("🔒 " + a.Title))
		sb.WriteString("\n")
		sb.WriteString(italic(a.Description))
	}

	return sb.String()
}

// formatUnlocked renders the notification of an unlocked achievement.
func formatUnlocked(a entities.Achievement) string {
	return fmt.Sprintf(
		"%s\n\n%s %s\n%s\n\n%s",
		bold("🎉 Achievement unlocked!"),
		md(a.Icon),
		bold(a.Title),
		italic(a.Description),
		md(fmt.Sprintf("+%d points", a.Points)),
	)
}

// formatQuiz renders a quiz question with numbered options.
func formatQuiz(c entities.Challenge) string {
	var sb strings.Builder
	sb.WriteString(bold("❓ " + c.Title))
	sb.WriteString("\n\n")
	sb.WriteString(md(c.Question.Text))

	for i, option := range c.Question.Options {
		sb.WriteString("\n")
		sb.WriteString(md(fmt.Sprintf("%d. %s", i+1, option)))
	}

	if c.Completed {
		sb.WriteString("\n\n")
		sb.WriteString(italic("Already answered."))
	}

	return sb.String()
}

// formatQuizResult renders the outcome of a quiz answer.
func formatQuizResult(c entities.Challenge, correct bool, s game.State) string {
	var sb strings.Builder
	if correct {
		sb.WriteString(bold("✅ Correct!"))
	} else {
		sb.WriteString(bold("❌ Not quite."))
		sb.WriteString("\n")
		sb.WriteString(md("The answer is: " + c.Question.Options[c.Question.Answer]))
	}

	if c.Question.Explanation != "" {
		sb.WriteString("\n\n")
		sb.WriteString(italic(c.Question.Explanation))
	}

	sb.WriteString("\n\n")
	sb.WriteString(formatTotals(s))
	return sb.String()
}

func formatVisit(l entities.Location, s game.State) string {
	return fmt.Sprintf("%s\n\n%s",
		bold(fmt.Sprintf("%s Checked in at %s", categoryIcon(l.Category), l.Title)),
		formatTotals(s),
	)
}

func formatShare(l entities.Location, s game.State) string {
	return fmt.Sprintf("%s\n\n%s",
		bold("📤 Thanks for sharing "+l.Title+"!"),
		formatTotals(s),
	)
}

func formatCompleted(c entities.Challenge, s game.State) string {
	return fmt.Sprintf("%s\n\n%s",
		bold(fmt.Sprintf("%s Challenge completed: %s", challengeIcon(c.Kind), c.Title)),
		formatTotals(s),
	)
}

func formatTotals(s game.State) string {
	return md(fmt.Sprintf("⭐ %d points · Level %d", s.Progress.TotalPoints, s.Progress.Level))
}
