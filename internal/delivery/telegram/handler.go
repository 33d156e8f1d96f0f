package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot      Bot
	logger   *zap.Logger
	progress ProgressService
	catalog  Catalog
}

func NewHandler(
	bot Bot,
	logger *zap.Logger,
	progress ProgressService,
	catalog Catalog,
) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		progress: progress,
		catalog:  catalog,
	}
}

// Run receives updates until ctx is done. Updates are handled one at a time.
func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	message := update.Message
	chatID := message.Chat.ID
	userID := message.From.ID

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", message.Text),
	)

	var fn HandlerFunc

	switch {
	case message.IsCommand():
		args := message.CommandArguments()

		switch message.Command() {
		case "start":
			fn = h.handleStart()
		case "help":
			fn = h.handleHelp()
		case "locations":
			fn = h.handleLocations(userID)
		case "visit":
			fn = h.handleVisit(userID, args)
		case "share":
			fn = h.handleShare(userID, args)
		case "challenges":
			fn = h.handleChallenges(userID, args)
		case "complete":
			fn = h.handleComplete(userID, args)
		case "quiz":
			fn = h.handleQuiz(userID, args)
		case "answer":
			fn = h.handleAnswer(userID, args)
		case "progress":
			fn = h.handleProgress(userID)
		case "achievements":
			fn = h.handleAchievements(userID)
		case "reset":
			fn = h.handleReset()
		default:
			fn = h.reply(msgUnknownCommand)
		}

	case len(message.Photo) > 0:
		// Sizes are ordered from smallest to largest.
		photo := message.Photo[len(message.Photo)-1]
		fn = h.handlePhoto(userID, message.Caption, photo.FileID)

	default:
		fn = h.reply(msgUnknownCommand)
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) reply(text string) HandlerFunc {
	return func(_ context.Context, chatID int64) error {
		return h.send(newPlainMessage(chatID, text))
	}
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// request performs calls whose result is not a message, such as deletes
// and callback answers.
func (h *Handler) request(c tgbotapi.Chattable) {
	if _, err := h.bot.Request(c); err != nil {
		h.logger.Warn("telegram request failed", zap.Error(err))
	}
}
