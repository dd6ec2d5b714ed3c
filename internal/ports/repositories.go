package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	Update(ctx context.Context, user *entities.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListAutoReplanUsers(ctx context.Context) ([]*entities.User, error)
}

// GoalRepository defines the interface for goal data operations
type GoalRepository interface {
	Create(ctx context.Context, goal *entities.Goal) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Goal, error)
	GetOldestByUser(ctx context.Context, userID uuid.UUID) (*entities.Goal, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Goal, error)
	Update(ctx context.Context, goal *entities.Goal) error
	// Delete removes the goal and all of its tasks.
	Delete(ctx context.Context, id uuid.UUID) error
	// CreateWithTasks inserts a goal and its initial tasks atomically.
	CreateWithTasks(ctx context.Context, goal *entities.Goal, tasks []*entities.Task) error
}

// TaskRepository defines the interface for task data operations
type TaskRepository interface {
	Create(ctx context.Context, task *entities.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error)
	Update(ctx context.Context, task *entities.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter TaskFilter) ([]*entities.Task, error)
	// ReplacePending deletes the goal's pending tasks and inserts the
	// replacements in a single transaction.
	ReplacePending(ctx context.Context, goalID uuid.UUID, tasks []*entities.Task) error
}

// EventRepository defines the interface for calendar event data operations
type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Event, error)
	Update(ctx context.Context, event *entities.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter EventFilter) ([]*entities.Event, error)
}

// DailyLogRepository defines the interface for check-in data operations
type DailyLogRepository interface {
	// Upsert creates the user's log row for the date or updates it in place.
	Upsert(ctx context.Context, log *entities.DailyLog) error
	GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*entities.DailyLog, error)
	ListRecent(ctx context.Context, userID uuid.UUID, since time.Time) ([]*entities.DailyLog, error)
}

// AuthRepository defines the interface for authentication operations
type AuthRepository interface {
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
	CleanupExpiredTokens(ctx context.Context) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
}

// Filter types for repository queries
type TaskFilter struct {
	UserID    *uuid.UUID
	GoalID    *uuid.UUID
	Status    *entities.TaskStatus
	DueAfter  *time.Time
	DueBefore *time.Time
	Limit     int
	Offset    int
}

type EventFilter struct {
	UserID       *uuid.UUID
	HardDeadline *bool
	DateAfter    *time.Time
	DateBefore   *time.Time
	Limit        int
	Offset       int
}

// RefreshToken represents a refresh token record
type RefreshToken struct {
	ID        int        `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	TokenHash string     `json:"token_hash" db:"token_hash"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	RevokedAt *time.Time `json:"revoked_at" db:"revoked_at"`
}

// IsExpired checks if the refresh token is expired
func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// IsRevoked checks if the refresh token is revoked
func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

// IsValid checks if the refresh token is valid
func (rt *RefreshToken) IsValid() bool {
	return !rt.IsExpired() && !rt.IsRevoked()
}
