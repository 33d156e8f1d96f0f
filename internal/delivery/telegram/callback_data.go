package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionVisit       = "visit"
	actionShare       = "share"
	actionQuiz        = "quiz"
	actionAchievement = "achievement"
	actionProgress    = "progress"
	actionReset       = "reset"
)

// Achievement sub-actions.
const (
	achievementDismiss = "dismiss"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or "" when it is missing.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildVisitCallback(locationID string) string {
	return callbackData{Action: actionVisit, Params: []string{locationID}}.encode()
}

func buildShareCallback(locationID string) string {
	return callbackData{Action: actionShare, Params: []string{locationID}}.encode()
}

// buildQuizAnswerCallback builds callback data for answering a quiz challenge.
func buildQuizAnswerCallback(challengeID string, option int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{challengeID, strconv.Itoa(option)},
	}.encode()
}

func buildDismissCallback() string {
	return callbackData{Action: actionAchievement, Params: []string{achievementDismiss}}.encode()
}

// buildProgressCallback builds callback data for refreshing the progress view.
func buildProgressCallback() string {
	return actionProgress
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
