package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

// EventRepositoryImpl implements the EventRepository interface
type EventRepositoryImpl struct {
	db *sqlx.DB
}

// NewEventRepository creates a new calendar event repository
func NewEventRepository(db *sqlx.DB) ports.EventRepository {
	return &EventRepositoryImpl{db: db}
}

const eventColumns = `id, user_id, title, description, date, is_hard_deadline, created_at`

func (r *EventRepositoryImpl) Create(ctx context.Context, event *entities.Event) error {
	query := `
		INSERT INTO events (id, user_id, title, description, date, is_hard_deadline)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	err := r.db.QueryRowContext(ctx, query,
		event.ID, event.UserID, event.Title, event.Description,
		event.Date, event.IsHardDeadline,
	).Scan(&event.CreatedAt)

	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

func (r *EventRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entities.Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}

	return &event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, event *entities.Event) error {
	query := `
		UPDATE events
		SET title = $2, description = $3, date = $4, is_hard_deadline = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		event.ID, event.Title, event.Description, event.Date, event.IsHardDeadline,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update event rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrEventNotFound
	}

	return nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrEventNotFound
	}

	return nil
}

func (r *EventRepositoryImpl) List(ctx context.Context, filter ports.EventFilter) ([]*entities.Event, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argCount := 0

	if filter.UserID != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argCount))
		args = append(args, *filter.UserID)
	}
	if filter.HardDeadline != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("is_hard_deadline = $%d", argCount))
		args = append(args, *filter.HardDeadline)
	}
	if filter.DateAfter != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argCount))
		args = append(args, *filter.DateAfter)
	}
	if filter.DateBefore != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argCount))
		args = append(args, *filter.DateBefore)
	}

	query := `SELECT ` + eventColumns + ` FROM events WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY date ASC`

	if filter.Limit > 0 {
		argCount++
		query += fmt.Sprintf(" LIMIT $%d", argCount)
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		argCount++
		query += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	events := []*entities.Event{}
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}
