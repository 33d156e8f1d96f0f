package telegram

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tLat87/VisitTours/internal/domain/entities"
	"github.com/tLat87/VisitTours/internal/game"
	"github.com/tLat87/VisitTours/internal/infra/memory"
	"github.com/tLat87/VisitTours/internal/repository"
	"github.com/tLat87/VisitTours/internal/service"
)

const testUser = 10

type fakeBot struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	updates  chan tgbotapi.Update
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, nil
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func (b *fakeBot) StopReceivingUpdates() {}

// texts returns the text of every sent message and edit.
func (b *fakeBot) texts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []string
	for _, c := range b.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (b *fakeBot) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = nil
	b.requests = nil
}

type fixture struct {
	bot      *fakeBot
	progress *service.ProgressService
	handler  *Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalog, err := repository.NewCatalogRepository("")
	require.NoError(t, err)

	progress := service.NewProgressService(
		memory.NewKV(),
		catalog,
		game.NewReducer(game.DefaultRules(), catalog),
		service.ProgressConfig{IdleTTL: time.Hour, EvictSchedule: "@every 1m"},
		zap.NewNop(),
	)
	t.Cleanup(progress.Close)

	bot := &fakeBot{updates: make(chan tgbotapi.Update)}
	return &fixture{
		bot:      bot,
		progress: progress,
		handler:  NewHandler(bot, zap.NewNop(), progress, catalog),
	}
}

func command(text string) tgbotapi.Update {
	cmd, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: testUser},
		From:     &tgbotapi.User{ID: testUser},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func callback(data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: testUser},
		Message: &tgbotapi.Message{MessageID: 5, Chat: &tgbotapi.Chat{ID: testUser}},
		Data:    data,
	}}
}

func (f *fixture) state(t *testing.T) game.State {
	t.Helper()
	s, err := f.progress.State(context.Background(), testUser)
	require.NoError(t, err)
	return s
}

func TestHandler_Visit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.handler.handleUpdate(ctx, command("/visit 1"))

	texts := f.bot.texts()
	require.Len(t, texts, 2, "result and achievement notification")
	assert.Contains(t, texts[0], "Checked in at")
	assert.Contains(t, texts[1], "First Steps")

	f.bot.mu.Lock()
	notification, ok := f.bot.sent[1].(tgbotapi.MessageConfig)
	f.bot.mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, buildNotificationKeyboard(), notification.ReplyMarkup)

	f.bot.reset()
	f.handler.handleUpdate(ctx, command("/visit 1"))
	assert.Len(t, f.bot.texts(), 1, "no new achievement on a repeat visit")

	assert.Equal(t, 10, f.state(t).Progress.TotalPoints)
}

func TestHandler_BadInput(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "visit without id", text: "/visit", want: msgUseVisit},
		{name: "unknown location", text: "/visit 42", want: msgUnknownLocation},
		{name: "share unknown location", text: "/share nope", want: msgUnknownLocation},
		{name: "complete photo challenge", text: "/complete pc1", want: msgSendPhoto},
		{name: "complete quiz", text: "/complete q1", want: msgAnswerQuiz + "q1"},
		{name: "complete unknown", text: "/complete zz", want: msgUnknownChallenge},
		{name: "quiz on photo challenge", text: "/quiz pc1", want: msgNotAQuiz},
		{name: "answer without text", text: "/answer q1", want: msgUseAnswer},
		{name: "answer non quiz", text: "/answer ag1 yes", want: msgNotAQuiz},
		{name: "unknown command", text: "/teleport", want: msgUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.handler.handleUpdate(context.Background(), command(tt.text))

			assert.Equal(t, []string{tt.want}, f.bot.texts())
			assert.Zero(t, f.state(t).Progress.TotalPoints)
		})
	}
}

func TestHandler_PhotoChallenge(t *testing.T) {
	f := newFixture(t)

	f.handler.handleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		Caption: " pc1 ",
		Chat:    &tgbotapi.Chat{ID: testUser},
		From:    &tgbotapi.User{ID: testUser},
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", Width: 90},
			{FileID: "large", Width: 1280},
		},
	}})

	s := f.state(t)
	pc1, ok := s.Challenge("pc1")
	require.True(t, ok)
	assert.True(t, pc1.Completed)
	assert.Equal(t, "large", pc1.EvidenceRef)
	assert.Equal(t, 15, s.Progress.TotalPoints)
}

func TestHandler_AudioGuide(t *testing.T) {
	f := newFixture(t)

	f.handler.handleUpdate(context.Background(), command("/complete ag1"))

	ag1, _ := f.state(t).Challenge("ag1")
	assert.True(t, ag1.Completed)
	assert.Equal(t, audioGuideEvidence, ag1.EvidenceRef)
}

func TestHandler_QuizCallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.handler.handleUpdate(ctx, command("/quiz q1"))
	require.Len(t, f.bot.sent, 1)
	question := f.bot.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, buildQuizKeyboard(mustChallenge(t, "q1")), question.ReplyMarkup)

	f.bot.reset()
	f.handler.handleUpdate(ctx, callback(buildQuizAnswerCallback("q1", 2)))

	require.NotEmpty(t, f.bot.sent)
	edit, ok := f.bot.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 5, edit.MessageID)
	assert.Contains(t, edit.Text, "Not quite")
	require.Len(t, f.bot.requests, 1, "callback answered")

	f.bot.reset()
	f.handler.handleUpdate(ctx, callback(buildQuizAnswerCallback("q1", 0)))
	assert.Contains(t, f.bot.texts()[0], "Correct")

	q1, _ := f.state(t).Challenge("q1")
	assert.True(t, q1.Completed)
	assert.Equal(t, 10, f.state(t).Progress.TotalPoints)
}

func TestHandler_AnswerText(t *testing.T) {
	f := newFixture(t)

	f.handler.handleUpdate(context.Background(), command("/answer q2 A fire staton"))

	texts := f.bot.texts()
	require.NotEmpty(t, texts)
	assert.Contains(t, texts[0], "Correct")

	q2, _ := f.state(t).Challenge("q2")
	assert.True(t, q2.Completed)
}

func TestHandler_DismissCallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.handler.handleUpdate(ctx, command("/visit 1"))
	f.handler.handleUpdate(ctx, command("/complete ag1"))
	require.Len(t, f.state(t).Pending, 1)

	f.bot.reset()
	f.handler.handleUpdate(ctx, callback(buildDismissCallback()))

	assert.Empty(t, f.state(t).Pending)
	assert.Empty(t, f.bot.sent)

	f.bot.mu.Lock()
	defer f.bot.mu.Unlock()
	require.Len(t, f.bot.requests, 2, "message deleted and callback answered")
	assert.IsType(t, tgbotapi.DeleteMessageConfig{}, f.bot.requests[0])
}

func TestHandler_ResetCallback(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.handler.handleUpdate(ctx, command("/share 7"))
	require.Equal(t, 2, f.state(t).Progress.TotalPoints)

	f.handler.handleUpdate(ctx, callback(buildResetCancelCallback()))
	assert.Equal(t, 2, f.state(t).Progress.TotalPoints)

	f.handler.handleUpdate(ctx, callback(buildResetConfirmCallback()))
	assert.Zero(t, f.state(t).Progress.TotalPoints)
}

func TestHandler_Run(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.handler.Run(ctx) }()

	f.bot.updates <- command("/share 3")
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	assert.Equal(t, 2, f.state(t).Progress.TotalPoints)
}

func mustChallenge(t *testing.T, id string) entities.Challenge {
	t.Helper()

	catalog, err := repository.NewCatalogRepository("")
	require.NoError(t, err)

	c, err := catalog.Challenge(id)
	require.NoError(t, err)
	return c
}
