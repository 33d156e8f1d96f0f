package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/tLat87/VisitTours/internal/domain/entities"
	"github.com/tLat87/VisitTours/internal/game"
)

// Bot is the part of the Telegram Bot API client the handler uses.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type ProgressService interface {
	State(ctx context.Context, userID int64) (game.State, error)
	VisitLocation(ctx context.Context, userID int64, locationID string) (game.State, error)
	ShareLocation(ctx context.Context, userID int64, locationID string) (game.State, error)
	CompleteChallenge(ctx context.Context, userID int64, challengeID, evidenceRef string) (game.State, error)
	AnswerQuiz(ctx context.Context, userID int64, challengeID string, option int) (bool, game.State, error)
	AnswerQuizText(ctx context.Context, userID int64, challengeID, answer string) (bool, game.State, error)
	DismissNotification(ctx context.Context, userID int64) (game.State, error)
	Reset(ctx context.Context, userID int64) error
}

type Catalog interface {
	Locations() []entities.Location
	Location(id string) (entities.Location, error)
	Challenge(id string) (entities.Challenge, error)
	ChallengesAt(locationID string) []entities.Challenge
}
