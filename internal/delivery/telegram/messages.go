// messages.go contains message templates and formatting helpers for Telegram.

package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Error messages.
const (
	msgUnknownLocation   = "Unknown location. Use /locations to see the list."
	msgUnknownChallenge  = "Unknown challenge. Use /challenges to see the list."
	msgNotAQuiz          = "That challenge is not a quiz."
	msgUseVisit          = "Use: /visit 4"
	msgUseShare          = "Use: /share 4"
	msgUseComplete       = "Use: /complete ag1"
	msgUseQuiz           = "Use: /quiz q1"
	msgUseAnswer         = "Use: /answer q1 your answer"
	msgSendPhoto         = "Photo challenges are completed by sending a photo with the challenge id as caption, e.g. pc1."
	msgAnswerQuiz        = "Quiz challenges are completed by answering them. Try /quiz "
	msgPhotoNoCaption    = "Add the challenge id as caption to your photo, e.g. pc1."
	msgProgressUnavail   = "Could not load your progress. Please try again later."
	msgInternalError     = "Something went wrong. Please try again later."
	msgResetDone         = "Your progress has been reset."
	msgResetCancelled    = "Reset cancelled."
	msgUnknownCommand    = "Unknown command. Use /help to see what I can do."
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

// welcomeMarkdownV2 builds the /start message.
func welcomeMarkdownV2() string {
	var sb strings.Builder

	sb.WriteString(bold("Welcome to Downham Market!"))
	sb.WriteString("\n\n")
	sb.WriteString(md("Explore the town, complete challenges and unlock achievements on the way."))
	sb.WriteString("\n\n")
	sb.WriteString(helpMarkdownV2())

	return sb.String()
}

// helpMarkdownV2 lists the available commands.
func helpMarkdownV2() string {
	commands := []struct{ cmd, desc string }{
		{"/locations", "places to visit"},
		{"/visit ID", "check in at a location"},
		{"/share ID", "share a location with friends"},
		{"/challenges [ID]", "challenges, optionally for one location"},
		{"/complete ID", "finish an audio guide"},
		{"/quiz ID", "answer a quiz"},
		{"/answer ID TEXT", "answer a quiz in your own words"},
		{"/progress", "points and level"},
		{"/achievements", "unlocked and locked achievements"},
		{"/reset", "start over"},
	}

	var sb strings.Builder
	sb.WriteString(bold("Commands"))
	sb.WriteString("\n")
	for _, c := range commands {
		sb.WriteString("\n")
		sb.WriteString(md(c.cmd + " - " + c.desc))
	}
	sb.WriteString("\n\n")
	sb.WriteString(md("Photo challenges: send a photo with the challenge id as caption."))

	return sb.String()
}
