package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

func newTaskFixture() (*TaskService, *fakeGoalRepo, *fakeTaskRepo) {
	taskRepo := &fakeTaskRepo{}
	goalRepo := &fakeGoalRepo{taskSink: taskRepo}
	svc := NewTaskService(taskRepo, goalRepo, logger.NewNop(), time.UTC)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return svc, goalRepo, taskRepo
}

func TestQuickAddCreatesFallbackGoal(t *testing.T) {
	svc, goalRepo, _ := newTaskFixture()
	userID := uuid.New()

	task, err := svc.QuickAdd(context.Background(), userID, ports.QuickAddTaskRequest{
		Title:     "Đọc sách 20 phút",
		StartTime: "21:00",
		Duration:  "20 phút",
		Detail:    "Đọc trước khi ngủ",
	})
	require.NoError(t, err)

	require.Len(t, goalRepo.goals, 1)
	assert.Equal(t, "Mục tiêu cá nhân", goalRepo.goals[0].Title)
	assert.Equal(t, goalRepo.goals[0].ID, task.GoalID)
	assert.Equal(t, "2025-06-01", task.DueDateString(), "missing date defaults to today")

	display := entities.ParseTaskContent(task.Content)
	assert.Equal(t, "Đọc sách 20 phút", display.Title)
	assert.Equal(t, "21:00", display.Time)
	assert.Equal(t, "20 phút", display.Duration)
	assert.Equal(t, "Đọc trước khi ngủ", display.Note)
}

func TestQuickAddReusesExistingGoal(t *testing.T) {
	svc, goalRepo, _ := newTaskFixture()
	userID := uuid.New()
	goal := &entities.Goal{ID: uuid.New(), UserID: userID, Title: "Chạy 10km", CreatedAt: time.Now()}
	goalRepo.goals = []*entities.Goal{goal}

	task, err := svc.QuickAdd(context.Background(), userID, ports.QuickAddTaskRequest{
		Title: "Giãn cơ", Date: "2025-06-05",
	})
	require.NoError(t, err)
	assert.Equal(t, goal.ID, task.GoalID)
	assert.Len(t, goalRepo.goals, 1)
	assert.Equal(t, "2025-06-05", task.DueDateString())
}

func TestCompleteAndSkip(t *testing.T) {
	svc, _, taskRepo := newTaskFixture()
	userID := uuid.New()
	task := &entities.Task{ID: uuid.New(), UserID: userID, Content: "Chạy 2km",
		Status: entities.TaskStatusPending}
	taskRepo.tasks = []*entities.Task{task}

	updated, err := svc.CompleteTask(context.Background(), userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusCompleted, updated.Status)

	updated, err = svc.SkipTask(context.Background(), userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TaskStatusSkipped, updated.Status)
}

func TestRescheduleToTomorrowReopensTask(t *testing.T) {
	svc, _, taskRepo := newTaskFixture()
	userID := uuid.New()
	due := time.Date(2025, 5, 28, 0, 0, 0, 0, time.UTC)
	task := &entities.Task{ID: uuid.New(), UserID: userID, Content: "Chạy 2km",
		Status: entities.TaskStatusSkipped, DueDate: &due}
	taskRepo.tasks = []*entities.Task{task}

	updated, err := svc.RescheduleToTomorrow(context.Background(), userID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", updated.DueDateString())
	assert.Equal(t, entities.TaskStatusPending, updated.Status)
}

func TestUpdateTaskReencodesContent(t *testing.T) {
	svc, _, taskRepo := newTaskFixture()
	userID := uuid.New()
	task := &entities.Task{ID: uuid.New(), UserID: userID,
		Content:        "Chạy 2km - Bắt đầu: 06:00 | Thời lượng: 30 phút\nChi tiết: Giữ nhịp thở đều",
		EnergyRequired: 2, Status: entities.TaskStatusPending}
	taskRepo.tasks = []*entities.Task{task}

	newTitle := "Chạy 3km"
	energy := 9
	updated, err := svc.UpdateTask(context.Background(), userID, task.ID, ports.UpdateTaskRequest{
		Title:          &newTitle,
		EnergyRequired: &energy,
	})
	require.NoError(t, err)

	display := entities.ParseTaskContent(updated.Content)
	assert.Equal(t, "Chạy 3km", display.Title)
	assert.Equal(t, "06:00", display.Time, "untouched fields survive the re-encode")
	assert.Equal(t, "Giữ nhịp thở đều", display.Note)
	assert.Equal(t, 5, updated.EnergyRequired, "energy edits clamp to the valid band")
}

func TestTaskOwnershipEnforced(t *testing.T) {
	svc, _, taskRepo := newTaskFixture()
	owner := uuid.New()
	task := &entities.Task{ID: uuid.New(), UserID: owner, Content: "Chạy 2km",
		Status: entities.TaskStatusPending}
	taskRepo.tasks = []*entities.Task{task}

	_, err := svc.CompleteTask(context.Background(), uuid.New(), task.ID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)

	err = svc.DeleteTask(context.Background(), uuid.New(), task.ID)
	assert.ErrorIs(t, err, entities.ErrTaskNotFound)
	assert.Len(t, taskRepo.tasks, 1)
}
