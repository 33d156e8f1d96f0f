package telegram

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tLat87/VisitTours/internal/domain/entities"
	"github.com/tLat87/VisitTours/internal/game"
)

// audioGuideEvidence is stored as evidence of a finished audio guide.
const audioGuideEvidence = "listened"

func (h *Handler) handleStart() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		return h.send(newMessage(chatID, welcomeMarkdownV2()))
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		return h.send(newMessage(chatID, helpMarkdownV2()))
	}
}

// handleLocations lists locations with visit and share buttons.
func (h *Handler) handleLocations(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		s, err := h.progress.State(ctx, userID)
		if err != nil {
			return err
		}

		locations := h.catalog.Locations()
		msg := newMessage(chatID, formatLocations(locations, s.Progress.VisitedLocations))
		msg.ReplyMarkup = buildLocationsKeyboard(locations)
		return h.send(msg)
	}
}

// handleVisit checks the user in at a location.
func (h *Handler) handleVisit(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id := strings.TrimSpace(args)
		if id == "" {
			return h.send(newPlainMessage(chatID, msgUseVisit))
		}

		loc, err := h.catalog.Location(id)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUnknownLocation))
		}

		return h.transition(ctx, chatID, userID,
			func(ctx context.Context) (game.State, error) {
				return h.progress.VisitLocation(ctx, userID, id)
			},
			func(s game.State) string { return formatVisit(loc, s) },
		)
	}
}

// handleShare credits the user for sharing a location.
func (h *Handler) handleShare(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id := strings.TrimSpace(args)
		if id == "" {
			return h.send(newPlainMessage(chatID, msgUseShare))
		}

		loc, err := h.catalog.Location(id)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUnknownLocation))
		}

		return h.transition(ctx, chatID, userID,
			func(ctx context.Context) (game.State, error) {
				return h.progress.ShareLocation(ctx, userID, id)
			},
			func(s game.State) string { return formatShare(loc, s) },
		)
	}
}

// handleChallenges lists all challenges, or those of one location.
func (h *Handler) handleChallenges(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		s, err := h.progress.State(ctx, userID)
		if err != nil {
			return err
		}

		locationID := strings.TrimSpace(args)
		if locationID == "" {
			done := 0
			for _, c := range s.Challenges {
				if c.Completed {
					done++
				}
			}
			title := fmt.Sprintf("🎯 Challenges (%d/%d)", done, len(s.Challenges))
			return h.send(newMessage(chatID, formatChallenges(title, s.Challenges)))
		}

		loc, err := h.catalog.Location(locationID)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUnknownLocation))
		}

		var at []entities.Challenge
		for _, c := range s.Challenges {
			if c.LocationID == locationID {
				at = append(at, c)
			}
		}
		return h.send(newMessage(chatID, formatChallenges("🎯 "+loc.Title, at)))
	}
}

// handleComplete completes an audio guide. Photos and quizzes have their own flows.
func (h *Handler) handleComplete(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id := strings.TrimSpace(args)
		if id == "" {
			return h.send(newPlainMessage(chatID, msgUseComplete))
		}

		c, err := h.catalog.Challenge(id)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUnknownChallenge))
		}

		switch c.Kind {
		case entities.ChallengePhoto:
			return h.send(newPlainMessage(chatID, msgSendPhoto))
		case entities.ChallengeQuiz:
			return h.send(newPlainMessage(chatID, msgAnswerQuiz+c.ID))
		}

		return h.completeChallenge(ctx, chatID, userID, c, audioGuideEvidence)
	}
}

// handlePhoto completes the photo challenge named in the caption.
func (h *Handler) handlePhoto(userID int64, caption, fileID string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id := strings.TrimSpace(caption)
		if id == "" {
			return h.send(newPlainMessage(chatID, msgPhotoNoCaption))
		}

		c, err := h.catalog.Challenge(id)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUnknownChallenge))
		}
		if c.Kind != entities.ChallengePhoto {
			return h.send(newPlainMessage(chatID, msgPhotoNoCaption))
		}

		h.logger.Debug("photo received",
			zap.Int64("user_id", userID),
			zap.String("challenge_id", c.ID),
		)

		return h.completeChallenge(ctx, chatID, userID, c, fileID)
	}
}

func (h *Handler) completeChallenge(ctx context.Context, chatID, userID int64, c entities.Challenge, evidenceRef string) error {
	return h.transition(ctx, chatID, userID,
		func(ctx context.Context) (game.State, error) {
			return h.progress.CompleteChallenge(ctx, userID, c.ID, evidenceRef)
		},
		func(s game.State) string { return formatCompleted(c, s) },
	)
}

// handleQuiz shows a quiz question with one button per option.
func (h *Handler) handleQuiz(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id := strings.TrimSpace(args)
		if id == "" {
			return h.send(newPlainMessage(chatID, msgUseQuiz))
		}

		c, err := h.catalog.Challenge(id)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUnknownChallenge))
		}
		if c.Question == nil {
			return h.send(newPlainMessage(chatID, msgNotAQuiz))
		}

		s, err := h.progress.State(ctx, userID)
		if err != nil {
			return err
		}
		if own, ok := s.Challenge(id); ok {
			c.Completed = own.Completed
		}

		msg := newMessage(chatID, formatQuiz(c))
		if !c.Completed {
			msg.ReplyMarkup = buildQuizKeyboard(c)
		}
		return h.send(msg)
	}
}

// handleAnswer answers a quiz with free text: "/answer q2 a fire station".
func (h *Handler) handleAnswer(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		id, answer, _ := strings.Cut(strings.TrimSpace(args), " ")
		if id == "" || strings.TrimSpace(answer) == "" {
			return h.send(newPlainMessage(chatID, msgUseAnswer))
		}

		c, err := h.catalog.Challenge(id)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUnknownChallenge))
		}

		var correct bool
		return h.transition(ctx, chatID, userID,
			func(ctx context.Context) (game.State, error) {
				var s game.State
				correct, s, err = h.progress.AnswerQuizText(ctx, userID, id, answer)
				return s, err
			},
			func(s game.State) string { return formatQuizResult(c, correct, s) },
		)
	}
}

// handleProgress displays user progress.
func (h *Handler) handleProgress(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.logger.Debug("rendering progress", zap.Int64("user_id", userID))

		s, err := h.progress.State(ctx, userID)
		if err != nil {
			h.logger.Error("failed to load progress",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return h.send(newPlainMessage(chatID, msgProgressUnavail))
		}

		msg := newMessage(chatID, formatProgress(s, len(h.catalog.Locations())))
		msg.ReplyMarkup = buildProgressKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleAchievements(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		s, err := h.progress.State(ctx, userID)
		if err != nil {
			return err
		}
		return h.send(newMessage(chatID, formatAchievements(s.Progress.Achievements)))
	}
}

func (h *Handler) handleReset() HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		msg := newPlainMessage(chatID, "Reset all your points, visits and achievements?")
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}

// transition runs a state-changing call, sends its rendered result and then
// the achievement notification if the call queued new achievements.
func (h *Handler) transition(
	ctx context.Context,
	chatID, userID int64,
	call func(ctx context.Context) (game.State, error),
	render func(game.State) string,
) error {
	prev, err := h.progress.State(ctx, userID)
	if err != nil {
		return err
	}

	next, err := call(ctx)
	if err != nil {
		return err
	}

	if err = h.send(newMessage(chatID, render(next))); err != nil {
		return err
	}

	if len(next.Pending) > len(prev.Pending) {
		return h.sendNotification(chatID, next)
	}
	return nil
}

// sendNotification shows the head of the notification queue.
func (h *Handler) sendNotification(chatID int64, s game.State) error {
	text, ok := notificationText(s)
	if !ok {
		return nil
	}

	msg := newMessage(chatID, text)
	msg.ReplyMarkup = buildNotificationKeyboard()
	return h.send(msg)
}

func notificationText(s game.State) (string, bool) {
	a, ok := s.Notification()
	if !ok {
		return "", false
	}

	text := formatUnlocked(a)
	if more := len(s.Pending) - 1; more > 0 {
		text += "\n\n" + italic(fmt.Sprintf("and %d more", more))
	}
	return text, true
}
