package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/planning"
)

// AuthService interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ValidateToken(tokenString string) (*Claims, error)
}

// ChatService runs the onboarding interview conversation
type ChatService interface {
	Reply(ctx context.Context, userID uuid.UUID, messages []planning.ConversationMessage) (string, error)
}

// RoadmapService turns onboarding conversations into persisted plans and
// rebuilds them from completion history and energy telemetry
type RoadmapService interface {
	Generate(ctx context.Context, userID uuid.UUID, req GenerateRoadmapRequest) (*RoadmapResponse, error)
	Regenerate(ctx context.Context, userID uuid.UUID) (*ReplanResponse, error)
}

// TaskService interface for task management operations
type TaskService interface {
	ListTasks(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]*entities.Task, error)
	QuickAdd(ctx context.Context, userID uuid.UUID, req QuickAddTaskRequest) (*entities.Task, error)
	CompleteTask(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error)
	SkipTask(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error)
	RescheduleToTomorrow(ctx context.Context, userID, taskID uuid.UUID) (*entities.Task, error)
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, req UpdateTaskRequest) (*entities.Task, error)
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

// GoalService interface for goal management operations
type GoalService interface {
	ListGoals(ctx context.Context, userID uuid.UUID) ([]*entities.Goal, error)
	DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error
}

// EventService interface for calendar event operations
type EventService interface {
	CreateEvent(ctx context.Context, userID uuid.UUID, req CreateEventRequest) (*entities.Event, error)
	ListEvents(ctx context.Context, userID uuid.UUID, filter EventFilter) ([]*entities.Event, error)
	UpdateEvent(ctx context.Context, userID, eventID uuid.UUID, req UpdateEventRequest) (*entities.Event, error)
	DeleteEvent(ctx context.Context, userID, eventID uuid.UUID) error
}

// CheckinService records daily energy check-ins and reports the recent trend
type CheckinService interface {
	CheckIn(ctx context.Context, userID uuid.UUID, req CheckinRequest) (*entities.DailyLog, error)
	Today(ctx context.Context, userID uuid.UUID) (*entities.DailyLog, error)
	EnergyTrend(ctx context.Context, userID uuid.UUID) (*EnergyTrendResponse, error)
}

// Request/Response Types

// Auth related types
type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	Timezone    string  `json:"timezone" validate:"omitempty,max=64"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	TokenType    string         `json:"token_type"`
	ExpiresIn    int64          `json:"expires_in"`
	User         *entities.User `json:"user"`
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Chat and roadmap related types
type ChatRequest struct {
	Messages []planning.ConversationMessage `json:"messages" validate:"required,min=1,dive"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

type GenerateRoadmapRequest struct {
	Messages []planning.ConversationMessage `json:"messages" validate:"required,min=1,dive"`
}

// RoadmapResponse is the result of an initial generation. When the
// conversation was judged nonsense, Nonsense is set, Message carries the
// model's nudge and no goal or tasks exist.
type RoadmapResponse struct {
	Nonsense bool             `json:"nonsense"`
	Message  string           `json:"message,omitempty"`
	Goal     *entities.Goal   `json:"goal,omitempty"`
	Tasks    []*entities.Task `json:"tasks,omitempty"`
}

type ReplanResponse struct {
	Goal      *entities.Goal   `json:"goal"`
	Tasks     []*entities.Task `json:"tasks"`
	CoachNote string           `json:"coach_note"`
}

// Task related types
type QuickAddTaskRequest struct {
	Title          string `json:"title" validate:"required,max=500"`
	Detail         string `json:"detail" validate:"omitempty,max=2000"`
	StartTime      string `json:"start_time" validate:"omitempty"`
	Duration       string `json:"duration" validate:"omitempty,max=50"`
	Date           string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	EnergyRequired int    `json:"energy_required" validate:"omitempty,min=1,max=5"`
}

type UpdateTaskRequest struct {
	Title          *string `json:"title" validate:"omitempty,max=500"`
	Detail         *string `json:"detail" validate:"omitempty,max=2000"`
	StartTime      *string `json:"start_time"`
	Duration       *string `json:"duration" validate:"omitempty,max=50"`
	DueDate        *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	EnergyRequired *int    `json:"energy_required" validate:"omitempty,min=1,max=5"`
}

// Event related types
type CreateEventRequest struct {
	Title          string  `json:"title" validate:"required,max=200"`
	Description    *string `json:"description" validate:"omitempty,max=1000"`
	Date           string  `json:"date" validate:"required,datetime=2006-01-02"`
	IsHardDeadline bool    `json:"is_hard_deadline"`
}

type UpdateEventRequest struct {
	Title          *string `json:"title" validate:"omitempty,max=200"`
	Description    *string `json:"description" validate:"omitempty,max=1000"`
	Date           *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	IsHardDeadline *bool   `json:"is_hard_deadline"`
}

// Check-in related types
type CheckinRequest struct {
	EnergyLevel int    `json:"energy_level" validate:"required,min=1,max=5"`
	Mood        string `json:"mood" validate:"omitempty,max=100"`
	Trigger     string `json:"trigger" validate:"omitempty,max=100"`
}

type EnergyTrendResponse struct {
	AverageEnergy float64              `json:"average_energy"`
	Days          int                  `json:"days"`
	Logs          []*entities.DailyLog `json:"logs"`
}

// Response types for common structures
type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
