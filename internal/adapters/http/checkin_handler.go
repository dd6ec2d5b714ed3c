package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

// CheckinHandler handles daily energy check-in endpoints
type CheckinHandler struct {
	checkinService ports.CheckinService
	logger         *logger.Logger
}

// NewCheckinHandler creates a new check-in handler
func NewCheckinHandler(checkinService ports.CheckinService, logger *logger.Logger) *CheckinHandler {
	return &CheckinHandler{checkinService: checkinService, logger: logger}
}

// CheckIn records today's energy level
func (h *CheckinHandler) CheckIn(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req ports.CheckinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	log, err := h.checkinService.CheckIn(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, log)
}

// Today returns the current date's check-in, or 404 when none exists
func (h *CheckinHandler) Today(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	log, err := h.checkinService.Today(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, log)
}

// EnergyTrend returns the last week of check-ins and their average
func (h *CheckinHandler) EnergyTrend(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	trend, err := h.checkinService.EnergyTrend(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trend)
}
