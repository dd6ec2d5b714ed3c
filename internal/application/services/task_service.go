package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

// Title of the catch-all goal that owns quick-added tasks created before any
// roadmap exists.
const fallbackGoalTitle = "Mục tiêu cá nhân"

// TaskService handles task management operations
type TaskService struct {
	taskRepo ports.TaskRepository
	goalRepo ports.GoalRepository
	logger   *logger.Logger
	location *time.Location
	now      func() time.Time
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, goalRepo ports.GoalRepository, logger *logger.Logger, location *time.Location) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		goalRepo: goalRepo,
		logger:   logger,
		location: location,
		now:      time.Now,
	}
}

// ListTasks returns the user's tasks, scoped by the filter.
func (s *TaskService) ListTasks(ctx context.Context, userID uuid.UUID, filter ports.TaskFilter) ([]*entities.Task, error) {
	filter.UserID = &userID
	return s.taskRepo.List(ctx, filter)
}

// QuickAdd creates a manual task. When the user has no goal yet, a catch-all
// personal goal is created to own it.
func (s *TaskService) QuickAdd(ctx context.Context, userID uuid.UUID, req ports.QuickAddTaskRequest) (*entities.Task, error) {
	goal, err := s.goalRepo.GetOldestByUser(ctx, userID)
	if err == entities.ErrNoActiveGoal {
		goal = &entities.Goal{
			UserID: userID,
			Title:  fallbackGoalTitle,
			Type:   entities.GoalTypeLongTerm,
		}
		if err := s.goalRepo.Create(ctx, goal); err != nil {
			return nil, fmt.Errorf("create fallback goal: %w", err)
		}
		s.logger.Infow("Created fallback goal for quick-add", "user_id", userID, "goal_id", goal.ID)
	} else if err != nil {
		return nil, err
	}

	description := entities.ComposeTaskDescription(req.StartTime, req.Duration, req.Detail)

	task := &entities.Task{
		UserID:         userID,
		GoalID:         goal.ID,
		Content:        entities.ComposeTaskContent(req.Title, description),
		EnergyRequired: entities.ClampEnergy(req.EnergyRequired),
		Status:         entities.TaskStatusPending,
	}
	if due, ok := s.parseDate(req.Date); ok {
		task.DueDate = &due
	} else {
		today := s.today()
		task.DueDate = &today
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// CompleteTask marks the task done.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error) {
	return s.setStatus(ctx, userID, taskID, entities.TaskStatusCompleted)
}

// SkipTask marks the task skipped without deleting it, so re-planning still
// sees it as unfinished work.
func (s *TaskService) SkipTask(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error) {
	return s.setStatus(ctx, userID, taskID, entities.TaskStatusSkipped)
}

// RescheduleToTomorrow pushes a task to tomorrow and reopens it.
func (s *TaskService) RescheduleToTomorrow(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	tomorrow := s.today().AddDate(0, 0, 1)
	task.DueDate = &tomorrow
	task.Status = entities.TaskStatusPending

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("reschedule task: %w", err)
	}

	return task, nil
}

// UpdateTask edits task fields. Title and detail edits are re-encoded
// through the content codec so the display parser keeps working.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	display := entities.ParseTaskContent(task.Content)
	title := display.Title
	startTime := display.Time
	duration := display.Duration
	detail := display.Note

	if req.Title != nil {
		title = *req.Title
	}
	if req.StartTime != nil {
		startTime = *req.StartTime
	}
	if req.Duration != nil {
		duration = *req.Duration
	}
	if req.Detail != nil {
		detail = *req.Detail
	}

	task.Content = entities.ComposeTaskContent(title, entities.ComposeTaskDescription(startTime, duration, detail))

	if req.EnergyRequired != nil {
		task.EnergyRequired = entities.ClampEnergy(*req.EnergyRequired)
	}
	if req.DueDate != nil {
		if due, ok := s.parseDate(*req.DueDate); ok {
			task.DueDate = &due
		} else {
			return nil, fmt.Errorf("%w: due date %q", entities.ErrInvalidInput, *req.DueDate)
		}
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task owned by the user.
func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, taskID)
}

func (s *TaskService) setStatus(ctx context.Context, userID, taskID uuid.UUID, status entities.TaskStatus) (*entities.Task, error) {
	task, err := s.ownedTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	task.Status = status
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task status: %w", err)
	}

	return task, nil
}

// ownedTask loads the task and enforces ownership. Tasks of other users are
// reported as not found rather than forbidden, to avoid leaking existence.
func (s *TaskService) ownedTask(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, entities.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) today() time.Time {
	now := s.now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
}

func (s *TaskService) parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, s.location)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
