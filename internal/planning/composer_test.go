package planning

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
)

func TestComposeRoadmapPromptIncludesHardScheduleWarning(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	note := "Thi cuối kỳ"
	events := []*entities.Event{
		{Title: "Thi IELTS", Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Description: &note},
	}
	messages := []ConversationMessage{
		{Role: RoleModel, Content: "Chào bạn, mục tiêu của bạn là gì?"},
		{Role: RoleUser, Content: "Mình muốn đạt IELTS 7.0"},
	}

	prompt := ComposeRoadmapPrompt(messages, events, today)

	assert.Contains(t, prompt, "01/06/2025")
	assert.Contains(t, prompt, "2025-06-01")
	assert.Contains(t, prompt, hardEventsWarningHeader)
	assert.Contains(t, prompt, "1. Ngày 2025-06-10: Thi IELTS (Thi cuối kỳ)")
	assert.Contains(t, prompt, hardEventsWarningFooter)

	// The transcript keeps conversational order with speaker labels.
	coachIdx := strings.Index(prompt, "AI Coach: Chào bạn")
	userIdx := strings.Index(prompt, "User: Mình muốn đạt IELTS 7.0")
	require.GreaterOrEqual(t, coachIdx, 0)
	require.GreaterOrEqual(t, userIdx, 0)
	assert.Less(t, coachIdx, userIdx)
}

func TestComposeRoadmapPromptWithoutEvents(t *testing.T) {
	prompt := ComposeRoadmapPrompt(nil, nil, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	assert.Contains(t, prompt, noHardEventsContext)
	assert.NotContains(t, prompt, hardEventsWarningHeader)
}

func TestIntensityDirectiveBands(t *testing.T) {
	tests := []struct {
		avg  float64
		want string
	}{
		{1.0, replanDirectiveLow},
		{2.0, replanDirectiveLow},
		{2.5, replanDirectiveMedium},
		{3.0, replanDirectiveMedium},
		{3.5, replanDirectiveMedium},
		{4.0, replanDirectiveHigh},
		{5.0, replanDirectiveHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IntensityDirective(tt.avg), "avg=%.1f", tt.avg)
	}
}

func TestComposeReplanPromptCarriesHistoryAndDirective(t *testing.T) {
	deadline := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	rc := ReplanContext{
		GoalTitle:       "Đạt IELTS 7.0",
		GoalDeadline:    &deadline,
		CompletedTitles: []string{"Học 30 từ vựng"},
		PendingTitles:   []string{"Luyện Listening Part 1", "Viết essay đầu tiên"},
		AverageEnergy:   2.0,
		EnergyNotes:     []string{"2025-06-05: 2/5 (mệt)", "2025-06-06: 2/5 (ổn) | [08:00] morning: 2/5"},
		Today:           time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC),
	}

	prompt := ComposeReplanPrompt(rc)

	assert.Contains(t, prompt, "Đạt IELTS 7.0")
	assert.Contains(t, prompt, "NGÀY HẠN CHÓT: 2025-09-01")
	assert.Contains(t, prompt, "ĐÃ HOÀN THÀNH: 1 task")
	assert.Contains(t, prompt, "- Học 30 từ vựng")
	assert.Contains(t, prompt, "CÒN DANG DỞ: 2 task")
	assert.Contains(t, prompt, "- Luyện Listening Part 1")
	assert.Contains(t, prompt, "[08:00] morning: 2/5")
	assert.Contains(t, prompt, "2.0/5")
	assert.Contains(t, prompt, replanDirectiveLow)
	assert.Contains(t, prompt, `"coach_note"`)

	high := rc
	high.AverageEnergy = 4.0
	assert.Contains(t, ComposeReplanPrompt(high), replanDirectiveHigh)
}
