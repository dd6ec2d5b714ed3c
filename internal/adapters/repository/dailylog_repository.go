package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

// DailyLogRepositoryImpl implements the DailyLogRepository interface
type DailyLogRepositoryImpl struct {
	db *sqlx.DB
}

// NewDailyLogRepository creates a new daily log repository
func NewDailyLogRepository(db *sqlx.DB) ports.DailyLogRepository {
	return &DailyLogRepositoryImpl{db: db}
}

const dailyLogColumns = `id, user_id, date, energy_level, mood, notes, created_at, updated_at`

// Upsert relies on the UNIQUE(user_id, date) constraint to keep exactly one
// check-in row per user per calendar date.
func (r *DailyLogRepositoryImpl) Upsert(ctx context.Context, log *entities.DailyLog) error {
	query := `
		INSERT INTO daily_logs (id, user_id, date, energy_level, mood, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, date) DO UPDATE
		SET energy_level = EXCLUDED.energy_level,
			mood = EXCLUDED.mood,
			notes = EXCLUDED.notes,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at`

	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	log.EnergyLevel = entities.ClampEnergy(log.EnergyLevel)

	err := r.db.QueryRowContext(ctx, query,
		log.ID, log.UserID, log.Date, log.EnergyLevel, log.Mood, log.Notes,
	).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert daily log: %w", err)
	}

	return nil
}

func (r *DailyLogRepositoryImpl) GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*entities.DailyLog, error) {
	query := `SELECT ` + dailyLogColumns + ` FROM daily_logs WHERE user_id = $1 AND date = $2`

	var log entities.DailyLog
	err := r.db.GetContext(ctx, &log, query, userID, date)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrDailyLogNotFound
		}
		return nil, fmt.Errorf("get daily log: %w", err)
	}

	return &log, nil
}

func (r *DailyLogRepositoryImpl) ListRecent(ctx context.Context, userID uuid.UUID, since time.Time) ([]*entities.DailyLog, error) {
	query := `
		SELECT ` + dailyLogColumns + `
		FROM daily_logs
		WHERE user_id = $1 AND date >= $2
		ORDER BY date ASC`

	logs := []*entities.DailyLog{}
	if err := r.db.SelectContext(ctx, &logs, query, userID, since); err != nil {
		return nil, fmt.Errorf("list recent daily logs: %w", err)
	}

	return logs, nil
}
