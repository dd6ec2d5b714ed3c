package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

// CalendarHandler handles event and goal endpoints
type CalendarHandler struct {
	eventService ports.EventService
	goalService  ports.GoalService
	logger       *logger.Logger
}

// NewCalendarHandler creates a new calendar handler
func NewCalendarHandler(eventService ports.EventService, goalService ports.GoalService, logger *logger.Logger) *CalendarHandler {
	return &CalendarHandler{eventService: eventService, goalService: goalService, logger: logger}
}

// CreateEvent records a calendar entry
func (h *CalendarHandler) CreateEvent(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req ports.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	event, err := h.eventService.CreateEvent(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, event)
}

// ListEvents returns the user's events
func (h *CalendarHandler) ListEvents(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var filter ports.EventFilter
	if raw := c.QueryParam("hard"); raw != "" {
		hard := raw == "true"
		filter.HardDeadline = &hard
	}
	if raw := c.QueryParam("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		filter.DateAfter = &from
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		filter.DateBefore = &to
	}

	events, err := h.eventService.ListEvents(c.Request().Context(), userID, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, events)
}

// UpdateEvent edits an event
func (h *CalendarHandler) UpdateEvent(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	var req ports.UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	event, err := h.eventService.UpdateEvent(c.Request().Context(), userID, eventID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, event)
}

// DeleteEvent removes an event
func (h *CalendarHandler) DeleteEvent(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	if err := h.eventService.DeleteEvent(c.Request().Context(), userID, eventID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "event deleted"})
}

// ListGoals returns the user's goals
func (h *CalendarHandler) ListGoals(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	goals, err := h.goalService.ListGoals(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, goals)
}

// DeleteGoal removes a goal and its tasks
func (h *CalendarHandler) DeleteGoal(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid goal id")
	}

	if err := h.goalService.DeleteGoal(c.Request().Context(), userID, goalID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "goal deleted"})
}
