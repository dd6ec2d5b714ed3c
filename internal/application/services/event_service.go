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

// EventService handles calendar event operations. Events are user-entered
// scheduling facts; the planner reads them but never writes them.
type EventService struct {
	eventRepo ports.EventRepository
	logger    *logger.Logger
	location  *time.Location
}

// NewEventService creates a new event service
func NewEventService(eventRepo ports.EventRepository, logger *logger.Logger, location *time.Location) *EventService {
	return &EventService{eventRepo: eventRepo, logger: logger, location: location}
}

// CreateEvent records a calendar entry for the user.
func (s *EventService) CreateEvent(ctx context.Context, userID uuid.UUID, req ports.CreateEventRequest) (*entities.Event, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: event date %q", entities.ErrInvalidInput, req.Date)
	}

	event := &entities.Event{
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		Date:           date,
		IsHardDeadline: req.IsHardDeadline,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	return event, nil
}

// ListEvents returns the user's events, scoped by the filter.
func (s *EventService) ListEvents(ctx context.Context, userID uuid.UUID, filter ports.EventFilter) ([]*entities.Event, error) {
	filter.UserID = &userID
	return s.eventRepo.List(ctx, filter)
}

// UpdateEvent edits an event owned by the user.
func (s *EventService) UpdateEvent(ctx context.Context, userID, eventID uuid.UUID, req ports.UpdateEventRequest) (*entities.Event, error) {
	event, err := s.ownedEvent(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Date != nil {
		date, err := time.ParseInLocation("2006-01-02", *req.Date, s.location)
		if err != nil {
			return nil, fmt.Errorf("%w: event date %q", entities.ErrInvalidInput, *req.Date)
		}
		event.Date = date
	}
	if req.IsHardDeadline != nil {
		event.IsHardDeadline = *req.IsHardDeadline
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	return event, nil
}

// DeleteEvent removes an event owned by the user.
func (s *EventService) DeleteEvent(ctx context.Context, userID, eventID uuid.UUID) error {
	if _, err := s.ownedEvent(ctx, userID, eventID); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, eventID)
}

func (s *EventService) ownedEvent(ctx context.Context, userID, eventID uuid.UUID) (*entities.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, entities.ErrEventNotFound
	}
	return event, nil
}
