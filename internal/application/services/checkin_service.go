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

// CheckinService records daily energy check-ins. Each user keeps one log row
// per calendar date; repeated check-ins on the same day update the level and
// append a timestamped snapshot line to the notes.
type CheckinService struct {
	logRepo  ports.DailyLogRepository
	cache    ports.CacheRepository
	logger   *logger.Logger
	location *time.Location
	now      func() time.Time
}

// NewCheckinService creates a new check-in service. The cache is optional;
// when nil every trend request goes straight to the database.
func NewCheckinService(logRepo ports.DailyLogRepository, cache ports.CacheRepository, logger *logger.Logger, location *time.Location) *CheckinService {
	return &CheckinService{
		logRepo:  logRepo,
		cache:    cache,
		logger:   logger,
		location: location,
		now:      time.Now,
	}
}

const trendCacheTTL = 10 * time.Minute

func trendCacheKey(userID uuid.UUID) string {
	return "trend:" + userID.String()
}

// CheckIn upserts today's log for the user.
func (s *CheckinService) CheckIn(ctx context.Context, userID uuid.UUID, req ports.CheckinRequest) (*entities.DailyLog, error) {
	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)

	level := entities.ClampEnergy(req.EnergyLevel)
	trigger := req.Trigger
	if trigger == "" {
		trigger = "manual"
	}
	snapshot := fmt.Sprintf("[%s] %s: %d/5", now.Format("15:04"), trigger, level)

	log, err := s.logRepo.GetByUserAndDate(ctx, userID, today)
	switch err {
	case nil:
		log.EnergyLevel = level
		if req.Mood != "" {
			log.Mood = req.Mood
		}
		log.Notes = log.Notes + "\n" + snapshot
	case entities.ErrDailyLogNotFound:
		log = &entities.DailyLog{
			UserID:      userID,
			Date:        today,
			EnergyLevel: level,
			Mood:        req.Mood,
			Notes:       snapshot,
		}
	default:
		return nil, fmt.Errorf("load daily log: %w", err)
	}

	if err := s.logRepo.Upsert(ctx, log); err != nil {
		return nil, fmt.Errorf("save daily log: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, trendCacheKey(userID)); err != nil {
			s.logger.Warnw("Failed to invalidate trend cache", "user_id", userID, "error", err)
		}
	}

	s.logger.Infow("Check-in recorded", "user_id", userID, "date", log.DateString(), "energy", level)
	return log, nil
}

// Today returns the user's check-in for the current date, or
// entities.ErrDailyLogNotFound when they have not checked in yet.
func (s *CheckinService) Today(ctx context.Context, userID uuid.UUID) (*entities.DailyLog, error) {
	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	return s.logRepo.GetByUserAndDate(ctx, userID, today)
}

// EnergyTrend reports the last seven days of check-ins and their average.
// With no telemetry the average is the neutral 3.0.
func (s *CheckinService) EnergyTrend(ctx context.Context, userID uuid.UUID) (*ports.EnergyTrendResponse, error) {
	if s.cache != nil {
		var cached ports.EnergyTrendResponse
		if err := s.cache.Get(ctx, trendCacheKey(userID), &cached); err == nil {
			return &cached, nil
		}
	}

	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	since := today.AddDate(0, 0, -7)

	logs, err := s.logRepo.ListRecent(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list daily logs: %w", err)
	}

	avg := float64(entities.DefaultEnergy)
	if len(logs) > 0 {
		sum := 0
		for _, log := range logs {
			sum += log.EnergyLevel
		}
		avg = float64(sum) / float64(len(logs))
	}

	trend := &ports.EnergyTrendResponse{
		AverageEnergy: avg,
		Days:          7,
		Logs:          logs,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, trendCacheKey(userID), trend, trendCacheTTL); err != nil {
			s.logger.Warnw("Failed to cache trend", "user_id", userID, "error", err)
		}
	}

	return trend, nil
}
