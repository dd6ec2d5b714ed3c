package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

// TaskHandler handles task endpoints
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{taskService: taskService, logger: logger}
}

// ListTasks returns the user's tasks, filtered by query parameters
func (h *TaskHandler) ListTasks(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var filter ports.TaskFilter
	if raw := c.QueryParam("goal_id"); raw != "" {
		goalID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid goal_id")
		}
		filter.GoalID = &goalID
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := entities.TaskStatus(raw)
		filter.Status = &status
	}
	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		filter.DueAfter = &from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		filter.DueBefore = &to
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), userID, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

// QuickAdd creates a manual task
func (h *TaskHandler) QuickAdd(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req ports.QuickAddTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.QuickAdd(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

// CompleteTask marks a task done
func (h *TaskHandler) CompleteTask(c echo.Context) error {
	return h.withTask(c, h.taskService.CompleteTask)
}

// SkipTask marks a task skipped
func (h *TaskHandler) SkipTask(c echo.Context) error {
	return h.withTask(c, h.taskService.SkipTask)
}

// RescheduleTask pushes a task to tomorrow
func (h *TaskHandler) RescheduleTask(c echo.Context) error {
	return h.withTask(c, h.taskService.RescheduleToTomorrow)
}

// UpdateTask edits a task
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), userID, taskID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), userID, taskID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "task deleted"})
}

func (h *TaskHandler) withTask(c echo.Context, op func(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error)) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task id")
	}

	task, err := op(c.Request().Context(), userID, taskID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}
