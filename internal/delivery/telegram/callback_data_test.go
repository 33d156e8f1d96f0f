package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeCallback(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantAction string
		wantParams []string
	}{
		{name: "quiz answer", data: buildQuizAnswerCallback("q1", 3), wantAction: actionQuiz, wantParams: []string{"q1", "3"}},
		{name: "visit", data: buildVisitCallback("7"), wantAction: actionVisit, wantParams: []string{"7"}},
		{name: "dismiss", data: buildDismissCallback(), wantAction: actionAchievement, wantParams: []string{achievementDismiss}},
		{name: "no params", data: buildProgressCallback(), wantAction: actionProgress, wantParams: []string{}},
		{name: "empty", data: "", wantAction: "", wantParams: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cd := decodeCallback(tt.data)
			assert.Equal(t, tt.wantAction, cd.Action)
			assert.Equal(t, tt.wantParams, cd.Params)
			assert.Equal(t, tt.data, cd.Raw)
		})
	}
}

func TestCallbackData_Param(t *testing.T) {
	cd := decodeCallback("reset:confirm")
	assert.Equal(t, resetConfirm, cd.param(0))
	assert.Empty(t, cd.param(1))
	assert.Empty(t, cd.param(-1))
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	assert.LessOrEqual(t, len(buildQuizAnswerCallback("some_long_challenge_id", 12)), 64)
}
