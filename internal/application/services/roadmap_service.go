package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/llm"
	"github.com/Qu4nh/AI-Life-Coach/internal/planning"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
	"github.com/Qu4nh/AI-Life-Coach/internal/ratelimit"
)

var generationCalls = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lifecoach_generation_calls_total",
		Help: "Roadmap generation calls by kind and outcome",
	},
	[]string{"kind", "outcome"},
)

// RoadmapService turns onboarding conversations into persisted plans and
// rebuilds pending plans from completion history and energy telemetry.
type RoadmapService struct {
	goalRepo  ports.GoalRepository
	taskRepo  ports.TaskRepository
	eventRepo ports.EventRepository
	logRepo   ports.DailyLogRepository
	extractor *planning.Extractor
	limiter   ratelimit.Limiter
	logger    *logger.Logger
	location  *time.Location
	now       func() time.Time
}

// NewRoadmapService creates a new roadmap service
func NewRoadmapService(
	goalRepo ports.GoalRepository,
	taskRepo ports.TaskRepository,
	eventRepo ports.EventRepository,
	logRepo ports.DailyLogRepository,
	extractor *planning.Extractor,
	limiter ratelimit.Limiter,
	logger *logger.Logger,
	location *time.Location,
) *RoadmapService {
	return &RoadmapService{
		goalRepo:  goalRepo,
		taskRepo:  taskRepo,
		eventRepo: eventRepo,
		logRepo:   logRepo,
		extractor: extractor,
		limiter:   limiter,
		logger:    logger,
		location:  location,
		now:       time.Now,
	}
}

// Generate builds a roadmap from a finished onboarding conversation, persists
// it as a goal plus its tasks and returns the stored plan. The quota check
// happens before any model call so denied requests cost nothing.
func (s *RoadmapService) Generate(ctx context.Context, userID uuid.UUID, req ports.GenerateRoadmapRequest) (*ports.RoadmapResponse, error) {
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("%w: conversation is empty", entities.ErrInvalidInput)
	}

	decision, err := s.limiter.Allow(ctx, userID.String())
	if err != nil {
		return nil, fmt.Errorf("quota check: %w", err)
	}
	if !decision.Allowed {
		generationCalls.WithLabelValues("generate", "rate_limited").Inc()
		return nil, entities.ErrRateLimited
	}

	today := s.today()
	hardEvents, err := s.hardEvents(ctx, userID)
	if err != nil {
		return nil, err
	}

	prompt := planning.ComposeRoadmapPrompt(req.Messages, hardEvents, today)
	roadmap, err := s.extractor.ExtractRoadmap(ctx, prompt, today)
	if err != nil {
		generationCalls.WithLabelValues("generate", "error").Inc()
		return nil, mapGenerationError(err)
	}

	if roadmap.IsNonsense {
		generationCalls.WithLabelValues("generate", "nonsense").Inc()
		s.logger.Infow("Onboarding conversation judged nonsense", "user_id", userID)
		return &ports.RoadmapResponse{Nonsense: true, Message: roadmap.Message}, nil
	}

	planned := planning.RepairPlan(roadmap.Tasks, hardDateSet(hardEvents), today)
	if planning.HasHeavyStreak(planned) {
		s.logger.Warnw("Plan carries three consecutive heavy days", "user_id", userID)
	}

	goal := &entities.Goal{
		UserID: userID,
		Title:  roadmap.Title,
		Type:   entities.GoalTypeLongTerm,
	}
	if roadmap.Description != "" {
		goal.Description = &roadmap.Description
	}
	if roadmap.TargetDate != nil {
		if deadline, err := time.ParseInLocation("2006-01-02", *roadmap.TargetDate, s.location); err == nil {
			goal.Deadline = &deadline
		}
	}

	tasks, err := s.tasksFromPlan(userID, planned, 0)
	if err != nil {
		return nil, err
	}

	if err := s.goalRepo.CreateWithTasks(ctx, goal, tasks); err != nil {
		generationCalls.WithLabelValues("generate", "storage_error").Inc()
		return nil, fmt.Errorf("%w: %v", entities.ErrStorageFailure, err)
	}

	generationCalls.WithLabelValues("generate", "ok").Inc()
	s.logger.Infow("Roadmap generated", "user_id", userID, "goal_id", goal.ID, "tasks", len(tasks))

	return &ports.RoadmapResponse{Goal: goal, Tasks: tasks}, nil
}

// Regenerate rebuilds the pending portion of the user's plan around what was
// actually completed and the last week of energy telemetry. Completed tasks
// are never touched, and nothing is deleted until the model's replacement
// plan has parsed and validated.
func (s *RoadmapService) Regenerate(ctx context.Context, userID uuid.UUID) (*ports.ReplanResponse, error) {
	decision, err := s.limiter.Allow(ctx, userID.String())
	if err != nil {
		return nil, fmt.Errorf("quota check: %w", err)
	}
	if !decision.Allowed {
		generationCalls.WithLabelValues("replan", "rate_limited").Inc()
		return nil, entities.ErrRateLimited
	}

	goal, err := s.goalRepo.GetOldestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.taskRepo.List(ctx, ports.TaskFilter{GoalID: &goal.ID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStorageFailure, err)
	}

	// Only pending tasks get replaced; skipped ones survive ReplacePending, so
	// advertising them as replaceable would invite duplicates.
	var completedTitles, pendingTitles []string
	for _, t := range existing {
		display := entities.ParseTaskContent(t.Content)
		switch t.Status {
		case entities.TaskStatusCompleted:
			completedTitles = append(completedTitles, display.Title)
		case entities.TaskStatusPending:
			pendingTitles = append(pendingTitles, display.Title)
		}
	}

	today := s.today()
	avgEnergy, energyNotes, err := s.energyHistory(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	hardEvents, err := s.hardEvents(ctx, userID)
	if err != nil {
		return nil, err
	}

	rc := planning.ReplanContext{
		GoalTitle:       goal.Title,
		GoalDeadline:    goal.Deadline,
		CompletedTitles: completedTitles,
		PendingTitles:   pendingTitles,
		AverageEnergy:   avgEnergy,
		EnergyNotes:     energyNotes,
		HardEvents:      hardEvents,
		Today:           today,
	}
	if goal.Description != nil {
		rc.GoalDescription = *goal.Description
	}

	result, err := s.extractor.ExtractReplan(ctx, planning.ComposeReplanPrompt(rc), today)
	if err != nil {
		generationCalls.WithLabelValues("replan", "error").Inc()
		return nil, mapGenerationError(err)
	}

	planned := planning.RepairPlan(result.Tasks, hardDateSet(hardEvents), today)

	tasks, err := s.tasksFromPlan(userID, planned, 1)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.ReplacePending(ctx, goal.ID, tasks); err != nil {
		generationCalls.WithLabelValues("replan", "storage_error").Inc()
		return nil, fmt.Errorf("%w: %v", entities.ErrStorageFailure, err)
	}

	generationCalls.WithLabelValues("replan", "ok").Inc()
	s.logger.Infow("Roadmap regenerated", "user_id", userID, "goal_id", goal.ID,
		"avg_energy", avgEnergy, "tasks", len(tasks))

	return &ports.ReplanResponse{Goal: goal, Tasks: tasks, CoachNote: result.CoachNote}, nil
}

func (s *RoadmapService) today() time.Time {
	now := s.now().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
}

func (s *RoadmapService) hardEvents(ctx context.Context, userID uuid.UUID) ([]*entities.Event, error) {
	hard := true
	events, err := s.eventRepo.List(ctx, ports.EventFilter{UserID: &userID, HardDeadline: &hard})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStorageFailure, err)
	}
	return events, nil
}

// energyHistory averages the last seven days of check-ins, defaulting to the
// neutral 3.0 when no telemetry exists, and renders chronological note lines
// for the prompt.
func (s *RoadmapService) energyHistory(ctx context.Context, userID uuid.UUID, today time.Time) (float64, []string, error) {
	since := today.AddDate(0, 0, -7)
	logs, err := s.logRepo.ListRecent(ctx, userID, since)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", entities.ErrStorageFailure, err)
	}

	if len(logs) == 0 {
		return float64(entities.DefaultEnergy), nil, nil
	}

	sum := 0
	notes := make([]string, 0, len(logs))
	for _, log := range logs {
		sum += log.EnergyLevel
		line := fmt.Sprintf("%s: %d/5", log.DateString(), log.EnergyLevel)
		if log.Mood != "" {
			line += " (" + log.Mood + ")"
		}
		if log.Notes != "" {
			// Snapshots are newline-separated; keep each log on one line.
			line += " | " + strings.ReplaceAll(log.Notes, "\n", "; ")
		}
		notes = append(notes, line)
	}

	return float64(sum) / float64(len(logs)), notes, nil
}

func (s *RoadmapService) tasksFromPlan(userID uuid.UUID, planned []planning.PlannedTask, basePriority int) ([]*entities.Task, error) {
	tasks := make([]*entities.Task, 0, len(planned))
	for i, p := range planned {
		dueDate, err := time.ParseInLocation("2006-01-02", p.Date, s.location)
		if err != nil {
			return nil, fmt.Errorf("%w: task date %q", entities.ErrParseFailure, p.Date)
		}

		tasks = append(tasks, &entities.Task{
			UserID:         userID,
			Content:        entities.ComposeTaskContent(p.Title, p.Description),
			Priority:       basePriority + i,
			EnergyRequired: p.EnergyRequired,
			Status:         entities.TaskStatusPending,
			DueDate:        &dueDate,
		})
	}
	return tasks, nil
}

func hardDateSet(events []*entities.Event) map[string]bool {
	dates := make(map[string]bool, len(events))
	for _, ev := range events {
		dates[ev.DateString()] = true
	}
	return dates
}

// mapGenerationError folds provider and parse failures into the service
// error taxonomy.
func mapGenerationError(err error) error {
	switch {
	case errors.Is(err, llm.ErrInvalidOutput):
		return fmt.Errorf("%w: %v", entities.ErrParseFailure, err)
	case errors.Is(err, llm.ErrRateLimited):
		return fmt.Errorf("%w: %v", entities.ErrRateLimited, err)
	case errors.Is(err, llm.ErrTimeout),
		errors.Is(err, llm.ErrUnavailable):
		return fmt.Errorf("%w: %v", entities.ErrUpstreamUnavailable, err)
	default:
		return err
	}
}
