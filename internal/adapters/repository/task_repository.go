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

// TaskRepositoryImpl implements the TaskRepository interface
type TaskRepositoryImpl struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

const taskColumns = `id, user_id, goal_id, content, priority, energy_required, status, due_date, created_at, updated_at`

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *entities.Task) error {
	return createTaskTx(ctx, r.db, task)
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	var task entities.Task
	err := r.db.GetContext(ctx, &task, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTaskNotFound
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	return &task, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *entities.Task) error {
	query := `
		UPDATE tasks
		SET content = $2, priority = $3, energy_required = $4, status = $5,
			due_date = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.Content, task.Priority, task.EnergyRequired,
		task.Status, task.DueDate,
	).Scan(&task.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return entities.ErrTaskNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task rows affected: %w", err)
	}
	if rows == 0 {
		return entities.ErrTaskNotFound
	}

	return nil
}

func (r *TaskRepositoryImpl) List(ctx context.Context, filter ports.TaskFilter) ([]*entities.Task, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argCount := 0

	if filter.UserID != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argCount))
		args = append(args, *filter.UserID)
	}
	if filter.GoalID != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("goal_id = $%d", argCount))
		args = append(args, *filter.GoalID)
	}
	if filter.Status != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filter.Status)
	}
	if filter.DueAfter != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("due_date >= $%d", argCount))
		args = append(args, *filter.DueAfter)
	}
	if filter.DueBefore != nil {
		argCount++
		conditions = append(conditions, fmt.Sprintf("due_date <= $%d", argCount))
		args = append(args, *filter.DueBefore)
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY due_date ASC NULLS LAST, priority ASC`

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

	tasks := []*entities.Task{}
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// ReplacePending swaps a goal's pending tasks for a new plan atomically, so
// a mid-flight failure never leaves the plan half-replaced.
func (r *TaskRepositoryImpl) ReplacePending(ctx context.Context, goalID uuid.UUID, tasks []*entities.Task) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace pending: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM tasks WHERE goal_id = $1 AND status = $2`,
		goalID, entities.TaskStatusPending,
	)
	if err != nil {
		return fmt.Errorf("delete pending tasks: %w", err)
	}

	for _, task := range tasks {
		task.GoalID = goalID
		if err := createTaskTx(ctx, tx, task); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace pending: %w", err)
	}
	return nil
}

func createTaskTx(ctx context.Context, q sqlx.QueryerContext, task *entities.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, goal_id, content, priority, energy_required, status, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.Status == "" {
		task.Status = entities.TaskStatusPending
	}
	task.EnergyRequired = entities.ClampEnergy(task.EnergyRequired)

	err := q.QueryRowxContext(ctx, query,
		task.ID, task.UserID, task.GoalID, task.Content, task.Priority,
		task.EnergyRequired, task.Status, task.DueDate,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}
