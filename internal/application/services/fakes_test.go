package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/llm"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
	"github.com/Qu4nh/AI-Life-Coach/internal/ratelimit"
)

// stubLLM implements llm.Client, returning a canned payload and capturing
// the last request for prompt assertions.
type stubLLM struct {
	text string
	err  error
	last llm.GenerateRequest
}

func (s *stubLLM) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	return &llm.GenerateResponse{Text: s.text, Model: "stub"}, nil
}

// stubLimiter implements ratelimit.Limiter.
type stubLimiter struct {
	allowed bool
	calls   int
}

func (s *stubLimiter) Allow(context.Context, string) (ratelimit.Decision, error) {
	s.calls++
	return ratelimit.Decision{Allowed: s.allowed, ResetAt: time.Now().Add(15 * time.Minute)}, nil
}

// fakeGoalRepo is an in-memory ports.GoalRepository.
type fakeGoalRepo struct {
	goals     []*entities.Goal
	taskSink  *fakeTaskRepo
	createErr error
}

func (f *fakeGoalRepo) Create(_ context.Context, goal *entities.Goal) error {
	if f.createErr != nil {
		return f.createErr
	}
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	goal.CreatedAt = time.Now()
	f.goals = append(f.goals, goal)
	return nil
}

func (f *fakeGoalRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Goal, error) {
	for _, g := range f.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, entities.ErrGoalNotFound
}

func (f *fakeGoalRepo) GetOldestByUser(_ context.Context, userID uuid.UUID) (*entities.Goal, error) {
	var oldest *entities.Goal
	for _, g := range f.goals {
		if g.UserID != userID {
			continue
		}
		if oldest == nil || g.CreatedAt.Before(oldest.CreatedAt) {
			oldest = g
		}
	}
	if oldest == nil {
		return nil, entities.ErrNoActiveGoal
	}
	return oldest, nil
}

func (f *fakeGoalRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*entities.Goal, error) {
	var out []*entities.Goal
	for _, g := range f.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoalRepo) Update(_ context.Context, goal *entities.Goal) error { return nil }

func (f *fakeGoalRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, g := range f.goals {
		if g.ID == id {
			f.goals = append(f.goals[:i], f.goals[i+1:]...)
			if f.taskSink != nil {
				f.taskSink.deleteByGoal(id)
			}
			return nil
		}
	}
	return entities.ErrGoalNotFound
}

func (f *fakeGoalRepo) CreateWithTasks(ctx context.Context, goal *entities.Goal, tasks []*entities.Task) error {
	if err := f.Create(ctx, goal); err != nil {
		return err
	}
	for _, t := range tasks {
		t.GoalID = goal.ID
		t.UserID = goal.UserID
		if err := f.taskSink.Create(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// fakeTaskRepo is an in-memory ports.TaskRepository.
type fakeTaskRepo struct {
	tasks              []*entities.Task
	replacePendingErr  error
	replacePendingCall int
}

func (f *fakeTaskRepo) Create(_ context.Context, task *entities.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.Status == "" {
		task.Status = entities.TaskStatusPending
	}
	f.tasks = append(f.tasks, task)
	return nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Task, error) {
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, entities.ErrTaskNotFound
}

func (f *fakeTaskRepo) Update(_ context.Context, task *entities.Task) error {
	for i, t := range f.tasks {
		if t.ID == task.ID {
			f.tasks[i] = task
			return nil
		}
	}
	return entities.ErrTaskNotFound
}

func (f *fakeTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return entities.ErrTaskNotFound
}

func (f *fakeTaskRepo) List(_ context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	var out []*entities.Task
	for _, t := range f.tasks {
		if filter.UserID != nil && t.UserID != *filter.UserID {
			continue
		}
		if filter.GoalID != nil && t.GoalID != *filter.GoalID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTaskRepo) ReplacePending(_ context.Context, goalID uuid.UUID, tasks []*entities.Task) error {
	f.replacePendingCall++
	if f.replacePendingErr != nil {
		return f.replacePendingErr
	}
	kept := f.tasks[:0]
	for _, t := range f.tasks {
		if t.GoalID == goalID && t.Status == entities.TaskStatusPending {
			continue
		}
		kept = append(kept, t)
	}
	f.tasks = kept
	for _, t := range tasks {
		t.GoalID = goalID
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		f.tasks = append(f.tasks, t)
	}
	return nil
}

func (f *fakeTaskRepo) deleteByGoal(goalID uuid.UUID) {
	kept := f.tasks[:0]
	for _, t := range f.tasks {
		if t.GoalID != goalID {
			kept = append(kept, t)
		}
	}
	f.tasks = kept
}

// fakeEventRepo is an in-memory ports.EventRepository.
type fakeEventRepo struct {
	events []*entities.Event
}

func (f *fakeEventRepo) Create(_ context.Context, event *entities.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID) (*entities.Event, error) {
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, entities.ErrEventNotFound
}

func (f *fakeEventRepo) Update(_ context.Context, event *entities.Event) error {
	for i, e := range f.events {
		if e.ID == event.ID {
			f.events[i] = event
			return nil
		}
	}
	return entities.ErrEventNotFound
}

func (f *fakeEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, e := range f.events {
		if e.ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return entities.ErrEventNotFound
}

func (f *fakeEventRepo) List(_ context.Context, filter ports.EventFilter) ([]*entities.Event, error) {
	var out []*entities.Event
	for _, e := range f.events {
		if filter.UserID != nil && e.UserID != *filter.UserID {
			continue
		}
		if filter.HardDeadline != nil && e.IsHardDeadline != *filter.HardDeadline {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// fakeLogRepo is an in-memory ports.DailyLogRepository.
type fakeLogRepo struct {
	logs []*entities.DailyLog
}

func (f *fakeLogRepo) Upsert(_ context.Context, log *entities.DailyLog) error {
	for i, l := range f.logs {
		if l.UserID == log.UserID && l.Date.Equal(log.Date) {
			log.ID = l.ID
			f.logs[i] = log
			return nil
		}
	}
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeLogRepo) GetByUserAndDate(_ context.Context, userID uuid.UUID, date time.Time) (*entities.DailyLog, error) {
	for _, l := range f.logs {
		if l.UserID == userID && l.Date.Equal(date) {
			return l, nil
		}
	}
	return nil, entities.ErrDailyLogNotFound
}

func (f *fakeLogRepo) ListRecent(_ context.Context, userID uuid.UUID, since time.Time) ([]*entities.DailyLog, error) {
	var out []*entities.DailyLog
	for _, l := range f.logs {
		if l.UserID == userID && !l.Date.Before(since) {
			out = append(out, l)
		}
	}
	return out, nil
}
