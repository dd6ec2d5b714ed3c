package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrGoalNotFound     = errors.New("goal not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrDailyLogNotFound = errors.New("daily log not found")

	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInvalidInput        = errors.New("invalid input")
	ErrRateLimited         = errors.New("rate limited")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrParseFailure        = errors.New("failed to parse model output")
	ErrStorageFailure      = errors.New("storage failure")
	ErrNoActiveGoal        = errors.New("no active goal")
)

// Enums and types
type GoalType string

const (
	GoalTypeLongTerm GoalType = "long_term"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusSkipped   TaskStatus = "skipped"
)

// Energy levels are a 1-5 scale everywhere in the system.
const (
	MinEnergy     = 1
	MaxEnergy     = 5
	DefaultEnergy = 3
)

// ClampEnergy forces an energy value into the [1,5] range. Zero (absent)
// becomes the default of 3.
func ClampEnergy(v int) int {
	if v == 0 {
		return DefaultEnergy
	}
	if v < MinEnergy {
		return MinEnergy
	}
	if v > MaxEnergy {
		return MaxEnergy
	}
	return v
}

// User represents an account in the system
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	DisplayName  *string    `json:"display_name" db:"display_name"`
	Timezone     string     `json:"timezone" db:"timezone"`
	AutoReplan   bool       `json:"auto_replan" db:"auto_replan"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" db:"deleted_at"`
}

// Goal represents a long-term goal owned by a user. Deleting a goal cascades
// to its tasks.
type Goal struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Type        GoalType   `json:"type" db:"type"`
	Deadline    *time.Time `json:"deadline" db:"deadline"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Task belongs to exactly one goal and one user. Content carries the
// "title - header\ndetail" encoding (see taskcontent.go).
type Task struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	GoalID         uuid.UUID  `json:"goal_id" db:"goal_id"`
	Content        string     `json:"content" db:"content"`
	Priority       int        `json:"priority" db:"priority"`
	EnergyRequired int        `json:"energy_required" db:"energy_required"`
	Status         TaskStatus `json:"status" db:"status"`
	DueDate        *time.Time `json:"due_date" db:"due_date"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// DueDateString renders the due date in the YYYY-MM-DD convention used on the
// wire, or "" when the task is unscheduled.
func (t *Task) DueDateString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.Format("2006-01-02")
}

// Event is a calendar entry owned directly by a user. Hard-deadline events are
// fed to the planner as scheduling constraints; events are never AI-generated.
type Event struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"user_id" db:"user_id"`
	Title          string    `json:"title" db:"title"`
	Description    *string   `json:"description" db:"description"`
	Date           time.Time `json:"date" db:"date"`
	IsHardDeadline bool      `json:"is_hard_deadline" db:"is_hard_deadline"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// DateString renders the event date as YYYY-MM-DD.
func (e *Event) DateString() string {
	return e.Date.Format("2006-01-02")
}

// DailyLog holds one check-in row per user per calendar date. Notes accumulate
// newline-appended energy snapshots over the day.
type DailyLog struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Date        time.Time `json:"date" db:"date"`
	EnergyLevel int       `json:"energy_level" db:"energy_level"`
	Mood        string    `json:"mood" db:"mood"`
	Notes       string    `json:"notes" db:"notes"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DateString renders the log date as YYYY-MM-DD.
func (l *DailyLog) DateString() string {
	return l.Date.Format("2006-01-02")
}
