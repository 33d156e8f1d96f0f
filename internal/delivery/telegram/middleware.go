package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/tLat87/VisitTours/internal/game"
	"github.com/tLat87/VisitTours/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling logs handler errors and answers the user. Errors caused
// by bad input get a specific hint, anything else a generic apology.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		if text, ok := userErrorText(err); ok {
			h.logger.Debug("rejected input",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			_ = h.send(newPlainMessage(chatID, text))
			return nil
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		_ = h.send(newPlainMessage(chatID, msgInternalError))
		return nil
	}
}

func userErrorText(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrUnknownLocation):
		return msgUnknownLocation, true
	case errors.Is(err, game.ErrNotFound):
		return msgUnknownChallenge, true
	case errors.Is(err, service.ErrNotAQuiz):
		return msgNotAQuiz, true
	default:
		return "", false
	}
}
