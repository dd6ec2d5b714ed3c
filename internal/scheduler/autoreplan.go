// Package scheduler runs the nightly automatic re-plan for opted-in users.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

// AutoReplanScheduler wakes up once a minute and, at the configured hour,
// regenerates the roadmap of every active user who opted into automatic
// re-planning. One pass per calendar day.
type AutoReplanScheduler struct {
	userRepo ports.UserRepository
	authRepo ports.AuthRepository
	roadmap  ports.RoadmapService
	logger   *logger.Logger
	location *time.Location
	hour     int

	mu      sync.Mutex
	held    map[uuid.UUID]bool
	lastRun string
	running bool

	stopChan chan struct{}
	now      func() time.Time
}

// New creates a new auto-replan scheduler
func New(userRepo ports.UserRepository, authRepo ports.AuthRepository, roadmap ports.RoadmapService, logger *logger.Logger, location *time.Location, hour int) *AutoReplanScheduler {
	return &AutoReplanScheduler{
		userRepo: userRepo,
		authRepo: authRepo,
		roadmap:  roadmap,
		logger:   logger,
		location: location,
		hour:     hour,
		held:     make(map[uuid.UUID]bool),
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Start launches the scheduler loop.
func (s *AutoReplanScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go s.loop(ctx)
	s.logger.Infow("Auto-replan scheduler started", "hour", s.hour)
}

// Stop halts the scheduler loop.
func (s *AutoReplanScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopChan)
	s.logger.Infow("Auto-replan scheduler stopped")
}

func (s *AutoReplanScheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// tick runs one pass when the local clock enters the configured hour for the
// first time that day.
func (s *AutoReplanScheduler) tick(ctx context.Context) {
	now := s.now().In(s.location)
	if now.Hour() != s.hour {
		return
	}

	today := now.Format("2006-01-02")
	s.mu.Lock()
	if s.lastRun == today {
		s.mu.Unlock()
		return
	}
	s.lastRun = today
	s.mu.Unlock()

	s.RunOnce(ctx)
}

// RunOnce regenerates plans for every opted-in user, sequentially. A user
// already being processed is skipped, so overlapping passes never run the
// same user twice.
func (s *AutoReplanScheduler) RunOnce(ctx context.Context) {
	if s.authRepo != nil {
		if err := s.authRepo.CleanupExpiredTokens(ctx); err != nil {
			s.logger.Warnw("Expired token cleanup failed", "error", err)
		}
	}

	users, err := s.userRepo.ListAutoReplanUsers(ctx)
	if err != nil {
		s.logger.Errorw("Auto-replan pass failed to list users", "error", err)
		return
	}

	replanned := 0
	for _, user := range users {
		if !s.acquire(user.ID) {
			continue
		}

		_, err := s.roadmap.Regenerate(ctx, user.ID)
		s.release(user.ID)

		switch {
		case err == nil:
			replanned++
		case errors.Is(err, entities.ErrNoActiveGoal):
			// Nothing to replan for this user.
		case errors.Is(err, entities.ErrRateLimited):
			s.logger.Warnw("Auto-replan skipped, user quota exhausted", "user_id", user.ID)
		default:
			s.logger.Errorw("Auto-replan failed for user", "user_id", user.ID, "error", err)
		}

		if ctx.Err() != nil {
			return
		}
	}

	s.logger.Infow("Auto-replan pass finished", "users", len(users), "replanned", replanned)
}

func (s *AutoReplanScheduler) acquire(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held[userID] {
		return false
	}
	s.held[userID] = true
	return true
}

func (s *AutoReplanScheduler) release(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, userID)
}
