package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/tLat87/VisitTours/internal/game"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Remove the user's "clock".
	defer h.request(tgbotapi.NewCallback(cb.ID, ""))

	if cb.Message == nil || cb.From == nil {
		return
	}

	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	userID := cb.From.ID
	data := decodeCallback(cb.Data)

	var fn HandlerFunc

	switch data.Action {
	case actionVisit:
		fn = h.handleVisit(userID, data.param(0))
	case actionShare:
		fn = h.handleShare(userID, data.param(0))
	case actionQuiz:
		fn = h.handleQuizAnswerCallback(userID, msgID, data)
	case actionAchievement:
		if data.param(0) == achievementDismiss {
			fn = h.handleDismissCallback(userID, msgID)
		}
	case actionProgress:
		fn = h.handleProgressCallback(userID, msgID)
	case actionReset:
		fn = h.handleResetCallback(userID, msgID, data.param(0))
	}

	if fn == nil {
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

// handleQuizAnswerCallback answers a quiz and replaces the question with the result.
func (h *Handler) handleQuizAnswerCallback(userID int64, msgID int, data callbackData) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		challengeID := data.param(0)
		option, err := strconv.Atoi(data.param(1))
		if err != nil {
			h.logger.Debug("invalid quiz callback", zap.String("data", data.Raw))
			return nil
		}

		c, err := h.catalog.Challenge(challengeID)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUnknownChallenge))
		}

		prev, err := h.progress.State(ctx, userID)
		if err != nil {
			return err
		}

		correct, next, err := h.progress.AnswerQuiz(ctx, userID, challengeID, option)
		if err != nil {
			return err
		}

		if err = h.send(newEdit(chatID, msgID, formatQuizResult(c, correct, next))); err != nil {
			return err
		}

		if len(next.Pending) > len(prev.Pending) {
			return h.sendNotification(chatID, next)
		}
		return nil
	}
}

// handleDismissCallback dismisses the shown achievement and shows the next one
// in the same message, or removes the message when the queue is empty.
func (h *Handler) handleDismissCallback(userID int64, msgID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		s, err := h.progress.DismissNotification(ctx, userID)
		if err != nil {
			return err
		}

		return h.showNotification(chatID, msgID, s)
	}
}

func (h *Handler) showNotification(chatID int64, msgID int, s game.State) error {
	text, ok := notificationText(s)
	if !ok {
		h.request(tgbotapi.NewDeleteMessage(chatID, msgID))
		return nil
	}

	kb := buildNotificationKeyboard()
	edit := newEdit(chatID, msgID, text)
	edit.ReplyMarkup = &kb
	return h.send(edit)
}

func (h *Handler) handleProgressCallback(userID int64, msgID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		s, err := h.progress.State(ctx, userID)
		if err != nil {
			return err
		}

		kb := buildProgressKeyboard()
		edit := newEdit(chatID, msgID, formatProgress(s, len(h.catalog.Locations())))
		edit.ReplyMarkup = &kb
		// Telegram rejects edits that change nothing.
		_, _ = h.bot.Send(edit)
		return nil
	}
}

func (h *Handler) handleResetCallback(userID int64, msgID int, choice string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch choice {
		case resetConfirm:
			if err := h.progress.Reset(ctx, userID); err != nil {
				return err
			}
			h.logger.Info("progress reset", zap.Int64("user_id", userID))
			return h.send(tgbotapi.NewEditMessageText(chatID, msgID, msgResetDone))
		case resetCancel:
			return h.send(tgbotapi.NewEditMessageText(chatID, msgID, msgResetCancelled))
		default:
			return nil
		}
	}
}
