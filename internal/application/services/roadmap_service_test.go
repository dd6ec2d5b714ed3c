package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/llm"
	"github.com/Qu4nh/AI-Life-Coach/internal/planning"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

func newRoadmapFixture(stub *stubLLM, limiter *stubLimiter) (*RoadmapService, *fakeGoalRepo, *fakeTaskRepo, *fakeEventRepo, *fakeLogRepo) {
	taskRepo := &fakeTaskRepo{}
	goalRepo := &fakeGoalRepo{taskSink: taskRepo}
	eventRepo := &fakeEventRepo{}
	logRepo := &fakeLogRepo{}

	svc := NewRoadmapService(
		goalRepo, taskRepo, eventRepo, logRepo,
		planning.NewExtractor(stub, 0.7),
		limiter,
		logger.NewNop(),
		time.UTC,
	)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return svc, goalRepo, taskRepo, eventRepo, logRepo
}

func taskContents(tasks []*entities.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Content)
	}
	return out
}

func onboardingMessages() []planning.ConversationMessage {
	return []planning.ConversationMessage{
		{Role: planning.RoleModel, Content: "Mục tiêu của bạn là gì?"},
		{Role: planning.RoleUser, Content: "Mình muốn chạy được 10km trong 2 tháng"},
	}
}

func TestGeneratePersistsGoalAndOrderedTasks(t *testing.T) {
	stub := &stubLLM{text: `{
		"is_nonsense": false,
		"title": "Chạy 10km",
		"description": "Lộ trình 2 tháng tăng dần quãng đường",
		"target_date": "2025-08-01",
		"tasks": [
			{"date": "2025-06-02", "title": "Chạy nhẹ 2km", "description": "Bắt đầu: 06:00 | Thời lượng: 30 phút\nChi tiết: Giữ nhịp thở đều", "energy_required": 2},
			{"date": "2025-06-03", "title": "Tập bổ trợ chân", "description": "Chi tiết: Squat và lunge", "energy_required": 4},
			{"date": "2025-06-04", "title": "Đi bộ phục hồi", "description": "", "energy_required": 1}
		]
	}`}
	limiter := &stubLimiter{allowed: true}
	svc, goalRepo, taskRepo, _, _ := newRoadmapFixture(stub, limiter)
	userID := uuid.New()

	resp, err := svc.Generate(context.Background(), userID, ports.GenerateRoadmapRequest{Messages: onboardingMessages()})
	require.NoError(t, err)
	require.False(t, resp.Nonsense)

	require.Len(t, goalRepo.goals, 1)
	goal := goalRepo.goals[0]
	assert.Equal(t, "Chạy 10km", goal.Title)
	assert.Equal(t, entities.GoalTypeLongTerm, goal.Type)
	require.NotNil(t, goal.Deadline)
	assert.Equal(t, "2025-08-01", goal.Deadline.Format("2006-01-02"))

	require.Len(t, taskRepo.tasks, 3)
	for i, task := range taskRepo.tasks {
		assert.Equal(t, i, task.Priority, "initial save uses the plan index as priority")
		assert.Equal(t, entities.TaskStatusPending, task.Status)
		assert.Equal(t, userID, task.UserID)
		assert.Equal(t, goal.ID, task.GoalID)
	}
	assert.Equal(t, []int{2, 4, 1}, []int{
		taskRepo.tasks[0].EnergyRequired,
		taskRepo.tasks[1].EnergyRequired,
		taskRepo.tasks[2].EnergyRequired,
	})

	// Content round-trips through the display codec.
	display := entities.ParseTaskContent(taskRepo.tasks[0].Content)
	assert.Equal(t, "Chạy nhẹ 2km", display.Title)
	assert.Equal(t, "06:00", display.Time)
	assert.Equal(t, "Giữ nhịp thở đều", display.Note)
}

func TestGenerateDeniedByQuotaSkipsModelCall(t *testing.T) {
	stub := &stubLLM{text: `{}`}
	limiter := &stubLimiter{allowed: false}
	svc, goalRepo, _, _, _ := newRoadmapFixture(stub, limiter)

	_, err := svc.Generate(context.Background(), uuid.New(), ports.GenerateRoadmapRequest{Messages: onboardingMessages()})
	assert.ErrorIs(t, err, entities.ErrRateLimited)
	assert.Empty(t, stub.last.UserPrompt, "the model must not be called when quota is exhausted")
	assert.Empty(t, goalRepo.goals)
}

func TestGenerateNonsensePersistsNothing(t *testing.T) {
	stub := &stubLLM{text: `{"is_nonsense": true, "message": "Bạn ơi, mình cần một mục tiêu thật sự nè!"}`}
	svc, goalRepo, taskRepo, _, _ := newRoadmapFixture(stub, &stubLimiter{allowed: true})

	resp, err := svc.Generate(context.Background(), uuid.New(), ports.GenerateRoadmapRequest{Messages: onboardingMessages()})
	require.NoError(t, err)
	assert.True(t, resp.Nonsense)
	assert.Equal(t, "Bạn ơi, mình cần một mục tiêu thật sự nè!", resp.Message)
	assert.Empty(t, goalRepo.goals)
	assert.Empty(t, taskRepo.tasks)
}

func TestGenerateMovesTasksOffHardDates(t *testing.T) {
	stub := &stubLLM{text: `{
		"is_nonsense": false,
		"title": "Chạy 10km",
		"tasks": [{"date": "2025-06-10", "title": "Chạy dài 5km", "description": "", "energy_required": 3}]
	}`}
	svc, _, taskRepo, eventRepo, _ := newRoadmapFixture(stub, &stubLimiter{allowed: true})
	userID := uuid.New()
	eventRepo.events = []*entities.Event{{
		ID: uuid.New(), UserID: userID, Title: "Thi cuối kỳ",
		Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), IsHardDeadline: true,
	}}

	_, err := svc.Generate(context.Background(), userID, ports.GenerateRoadmapRequest{Messages: onboardingMessages()})
	require.NoError(t, err)
	require.Len(t, taskRepo.tasks, 1)
	assert.Equal(t, "2025-06-11", taskRepo.tasks[0].DueDateString(), "tasks shift off hard-deadline days")
}

func TestRegenerateReplacesPendingOnly(t *testing.T) {
	stub := &stubLLM{text: `{
		"tasks": [
			{"date": "2025-06-02", "title": "Chạy nhẹ lại 2km", "description": "", "energy_required": 2},
			{"date": "2025-06-03", "title": "Nghỉ chủ động", "description": "", "energy_required": 1}
		],
		"coach_note": "Tuần này mình giảm cường độ để hồi phục nhé."
	}`}
	svc, goalRepo, taskRepo, _, logRepo := newRoadmapFixture(stub, &stubLimiter{allowed: true})
	userID := uuid.New()

	goal := &entities.Goal{ID: uuid.New(), UserID: userID, Title: "Chạy 10km", CreatedAt: time.Now()}
	goalRepo.goals = []*entities.Goal{goal}
	done := &entities.Task{ID: uuid.New(), UserID: userID, GoalID: goal.ID,
		Content: "Chạy 1km", Status: entities.TaskStatusCompleted}
	pending := &entities.Task{ID: uuid.New(), UserID: userID, GoalID: goal.ID,
		Content: "Chạy 8km liên tục", Status: entities.TaskStatusPending}
	taskRepo.tasks = []*entities.Task{done, pending}

	logRepo.logs = []*entities.DailyLog{{
		ID: uuid.New(), UserID: userID,
		Date: time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC), EnergyLevel: 2, Mood: "mệt",
	}}

	resp, err := svc.Regenerate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "Tuần này mình giảm cường độ để hồi phục nhé.", resp.CoachNote)

	// The prompt carried the history and the low-energy directive.
	assert.Contains(t, stub.last.UserPrompt, "Chạy 1km")
	assert.Contains(t, stub.last.UserPrompt, "Chạy 8km liên tục")
	assert.Contains(t, stub.last.UserPrompt, "2.0/5")

	// Completed task survives, pending plan is replaced, priorities start at 1.
	require.Len(t, taskRepo.tasks, 3)
	assert.Equal(t, done.ID, taskRepo.tasks[0].ID)
	assert.Equal(t, 1, taskRepo.tasks[1].Priority)
	assert.Equal(t, 2, taskRepo.tasks[2].Priority)
}

func TestGenerateProviderQuotaSurfacesAsRateLimited(t *testing.T) {
	stub := &stubLLM{err: fmt.Errorf("gemini: %w", llm.ErrRateLimited)}
	svc, goalRepo, _, _, _ := newRoadmapFixture(stub, &stubLimiter{allowed: true})

	_, err := svc.Generate(context.Background(), uuid.New(), ports.GenerateRoadmapRequest{Messages: onboardingMessages()})
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrRateLimited, "a provider 429 is a quota rejection, not an outage")
	assert.NotErrorIs(t, err, entities.ErrUpstreamUnavailable)
	assert.Empty(t, goalRepo.goals)
}

func TestRegeneratePromptCarriesCheckinNotesAndDeadline(t *testing.T) {
	stub := &stubLLM{text: `{
		"tasks": [{"date": "2025-06-02", "title": "Chạy nhẹ", "description": "", "energy_required": 2}],
		"coach_note": "ok"
	}`}
	svc, goalRepo, taskRepo, _, logRepo := newRoadmapFixture(stub, &stubLimiter{allowed: true})
	userID := uuid.New()

	deadline := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	goal := &entities.Goal{ID: uuid.New(), UserID: userID, Title: "Chạy 10km",
		Deadline: &deadline, CreatedAt: time.Now()}
	goalRepo.goals = []*entities.Goal{goal}
	taskRepo.tasks = []*entities.Task{{ID: uuid.New(), UserID: userID, GoalID: goal.ID,
		Content: "Chạy 8km liên tục", Status: entities.TaskStatusPending}}
	logRepo.logs = []*entities.DailyLog{{
		ID: uuid.New(), UserID: userID,
		Date: time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC), EnergyLevel: 2, Mood: "mệt",
		Notes: "[08:00] morning: 2/5\n[21:00] evening: 1/5",
	}}

	_, err := svc.Regenerate(context.Background(), userID)
	require.NoError(t, err)

	assert.Contains(t, stub.last.UserPrompt, "NGÀY HẠN CHÓT: 2025-08-01")
	assert.Contains(t, stub.last.UserPrompt,
		"2025-05-30: 2/5 (mệt) | [08:00] morning: 2/5; [21:00] evening: 1/5")
}

func TestRegenerateSkippedTasksStayOutOfPendingList(t *testing.T) {
	stub := &stubLLM{text: `{
		"tasks": [{"date": "2025-06-02", "title": "Chạy nhẹ", "description": "", "energy_required": 2}],
		"coach_note": "ok"
	}`}
	svc, goalRepo, taskRepo, _, _ := newRoadmapFixture(stub, &stubLimiter{allowed: true})
	userID := uuid.New()
	goal := &entities.Goal{ID: uuid.New(), UserID: userID, Title: "Chạy 10km", CreatedAt: time.Now()}
	goalRepo.goals = []*entities.Goal{goal}
	skipped := &entities.Task{ID: uuid.New(), UserID: userID, GoalID: goal.ID,
		Content: "Bơi 500m", Status: entities.TaskStatusSkipped}
	taskRepo.tasks = []*entities.Task{
		skipped,
		{ID: uuid.New(), UserID: userID, GoalID: goal.ID,
			Content: "Chạy 8km liên tục", Status: entities.TaskStatusPending},
	}

	_, err := svc.Regenerate(context.Background(), userID)
	require.NoError(t, err)

	// Skipped tasks survive ReplacePending, so the model must not be told
	// they are up for replacement.
	assert.Contains(t, stub.last.UserPrompt, "Chạy 8km liên tục")
	assert.NotContains(t, stub.last.UserPrompt, "Bơi 500m")
	assert.Contains(t, taskContents(taskRepo.tasks), "Bơi 500m")
}

func TestRegenerateDefaultsEnergyWithoutTelemetry(t *testing.T) {
	stub := &stubLLM{text: `{
		"tasks": [{"date": "2025-06-02", "title": "Chạy nhẹ", "description": "", "energy_required": 2}],
		"coach_note": "ok"
	}`}
	svc, goalRepo, taskRepo, _, _ := newRoadmapFixture(stub, &stubLimiter{allowed: true})
	userID := uuid.New()
	goal := &entities.Goal{ID: uuid.New(), UserID: userID, Title: "Chạy 10km", CreatedAt: time.Now()}
	goalRepo.goals = []*entities.Goal{goal}
	taskRepo.tasks = []*entities.Task{{ID: uuid.New(), UserID: userID, GoalID: goal.ID,
		Content: "Chạy 1km", Status: entities.TaskStatusPending}}

	_, err := svc.Regenerate(context.Background(), userID)
	require.NoError(t, err)
	assert.Contains(t, stub.last.UserPrompt, "3.0/5", "missing telemetry averages to the neutral default")
}

func TestRegenerateParseFailureDeletesNothing(t *testing.T) {
	stub := &stubLLM{text: "mô hình trả về văn xuôi thay vì JSON"}
	svc, goalRepo, taskRepo, _, _ := newRoadmapFixture(stub, &stubLimiter{allowed: true})
	userID := uuid.New()
	goal := &entities.Goal{ID: uuid.New(), UserID: userID, Title: "Chạy 10km", CreatedAt: time.Now()}
	goalRepo.goals = []*entities.Goal{goal}
	pending := &entities.Task{ID: uuid.New(), UserID: userID, GoalID: goal.ID,
		Content: "Chạy 8km liên tục", Status: entities.TaskStatusPending}
	taskRepo.tasks = []*entities.Task{pending}

	_, err := svc.Regenerate(context.Background(), userID)
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrParseFailure)
	assert.Zero(t, taskRepo.replacePendingCall, "no deletion may happen before a valid plan exists")
	require.Len(t, taskRepo.tasks, 1)
	assert.Equal(t, pending.ID, taskRepo.tasks[0].ID)
}

func TestRegenerateWithoutGoal(t *testing.T) {
	svc, _, _, _, _ := newRoadmapFixture(&stubLLM{text: `{}`}, &stubLimiter{allowed: true})

	_, err := svc.Regenerate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entities.ErrNoActiveGoal)
}
