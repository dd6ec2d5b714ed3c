package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

// GoalRepositoryImpl implements the GoalRepository interface
type GoalRepositoryImpl struct {
	db *sqlx.DB
}

// NewGoalRepository creates a new goal repository
func NewGoalRepository(db *sqlx.DB) ports.GoalRepository {
	return &GoalRepositoryImpl{db: db}
}

const goalColumns = `id, user_id, title, description, type, deadline, created_at, updated_at`

func (r *GoalRepositoryImpl) Create(ctx context.Context, goal *entities.Goal) error {
	return createGoalTx(ctx, r.db, goal)
}

func (r *GoalRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	var goal entities.Goal
	err := r.db.GetContext(ctx, &goal, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrGoalNotFound
		}
		return nil, fmt.Errorf("get goal by id: %w", err)
	}

	return &goal, nil
}

func (r *GoalRepositoryImpl) GetOldestByUser(ctx context.Context, userID uuid.UUID) (*entities.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at ASC
		LIMIT 1`

	var goal entities.Goal
	err := r.db.GetContext(ctx, &goal, query, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNoActiveGoal
		}
		return nil, fmt.Errorf("get oldest goal: %w", err)
	}

	return &goal, nil
}

func (r *GoalRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at ASC`

	goals := []*entities.Goal{}
	if err := r.db.SelectContext(ctx, &goals, query, userID); err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	return goals, nil
}

func (r *GoalRepositoryImpl) Update(ctx context.Context, goal *entities.Goal) error {
	query := `
		UPDATE goals
		SET title = $2, description = $3, deadline = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		goal.ID, goal.Title, goal.Description, goal.Deadline,
	).Scan(&goal.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrGoalNotFound
		}
		return fmt.Errorf("update goal: %w", err)
	}

	return nil
}

// Delete removes the goal together with its tasks. The tasks table carries
// ON DELETE CASCADE but the explicit delete keeps the intent visible and
// works on databases restored without constraints.
func (r *GoalRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete goal: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE goal_id = $1`, id); err != nil {
		return fmt.Errorf("delete goal tasks: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete goal rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrGoalNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete goal: %w", err)
	}
	return nil
}

// CreateWithTasks inserts the goal and its initial tasks in one transaction
// so a failed task insert leaves no orphaned goal behind.
func (r *GoalRepositoryImpl) CreateWithTasks(ctx context.Context, goal *entities.Goal, tasks []*entities.Task) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create goal with tasks: %w", err)
	}
	defer tx.Rollback()

	if err := createGoalTx(ctx, tx, goal); err != nil {
		return err
	}

	for _, task := range tasks {
		task.GoalID = goal.ID
		task.UserID = goal.UserID
		if err := createTaskTx(ctx, tx, task); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create goal with tasks: %w", err)
	}
	return nil
}

func createGoalTx(ctx context.Context, q sqlx.QueryerContext, goal *entities.Goal) error {
	query := `
		INSERT INTO goals (id, user_id, title, description, type, deadline)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	if goal.Type == "" {
		goal.Type = entities.GoalTypeLongTerm
	}

	err := q.QueryRowxContext(ctx, query,
		goal.ID, goal.UserID, goal.Title, goal.Description, goal.Type, goal.Deadline,
	).Scan(&goal.CreatedAt, &goal.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create goal: %w", err)
	}

	return nil
}
