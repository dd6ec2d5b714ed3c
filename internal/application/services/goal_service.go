package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

// GoalService handles goal management operations
type GoalService struct {
	goalRepo ports.GoalRepository
	logger   *logger.Logger
}

// NewGoalService creates a new goal service
func NewGoalService(goalRepo ports.GoalRepository, logger *logger.Logger) *GoalService {
	return &GoalService{goalRepo: goalRepo, logger: logger}
}

// ListGoals returns the user's goals, oldest first.
func (s *GoalService) ListGoals(ctx context.Context, userID uuid.UUID) ([]*entities.Goal, error) {
	return s.goalRepo.ListByUser(ctx, userID)
}

// DeleteGoal removes the goal and every task under it.
func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	goal, err := s.goalRepo.GetByID(ctx, goalID)
	if err != nil {
		return err
	}
	if goal.UserID != userID {
		return entities.ErrGoalNotFound
	}

	if err := s.goalRepo.Delete(ctx, goalID); err != nil {
		return err
	}

	s.logger.Infow("Goal deleted", "user_id", userID, "goal_id", goalID)
	return nil
}
