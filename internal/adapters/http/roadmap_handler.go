package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

// RoadmapHandler handles roadmap generation endpoints
type RoadmapHandler struct {
	roadmapService ports.RoadmapService
	chatService    ports.ChatService
	logger         *logger.Logger
}

// NewRoadmapHandler creates a new roadmap handler
func NewRoadmapHandler(roadmapService ports.RoadmapService, chatService ports.ChatService, logger *logger.Logger) *RoadmapHandler {
	return &RoadmapHandler{roadmapService: roadmapService, chatService: chatService, logger: logger}
}

// Chat answers one turn of the onboarding conversation
func (h *RoadmapHandler) Chat(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req ports.ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reply, err := h.chatService.Reply(c.Request().Context(), userID, req.Messages)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ports.ChatResponse{Reply: reply})
}

// Generate turns the onboarding conversation into a persisted roadmap
func (h *RoadmapHandler) Generate(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req ports.GenerateRoadmapRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.roadmapService.Generate(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}

	// A nonsense verdict is a successful call carrying a nudge, not an error.
	if resp.Nonsense {
		return c.JSON(http.StatusUnprocessableEntity, resp)
	}

	return c.JSON(http.StatusCreated, resp)
}

// Regenerate rebuilds the pending plan from history and telemetry
func (h *RoadmapHandler) Regenerate(c echo.Context) error {
	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	resp, err := h.roadmapService.Regenerate(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}
