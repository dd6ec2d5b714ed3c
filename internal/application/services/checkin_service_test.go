package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qu4nh/AI-Life-Coach/internal/domain/entities"
	"github.com/Qu4nh/AI-Life-Coach/internal/infrastructure/logger"
	"github.com/Qu4nh/AI-Life-Coach/internal/ports"
)

func newCheckinFixture() (*CheckinService, *fakeLogRepo) {
	logRepo := &fakeLogRepo{}
	svc := NewCheckinService(logRepo, nil, logger.NewNop(), time.UTC)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC) }
	return svc, logRepo
}

func TestCheckInCreatesDailyLog(t *testing.T) {
	svc, logRepo := newCheckinFixture()
	userID := uuid.New()

	log, err := svc.CheckIn(context.Background(), userID, ports.CheckinRequest{
		EnergyLevel: 4, Mood: "hứng khởi", Trigger: "morning",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", log.DateString())
	assert.Equal(t, 4, log.EnergyLevel)
	assert.Equal(t, "[08:30] morning: 4/5", log.Notes)
	assert.Len(t, logRepo.logs, 1)
}

func TestCheckInAppendsSnapshotSameDay(t *testing.T) {
	svc, logRepo := newCheckinFixture()
	userID := uuid.New()

	_, err := svc.CheckIn(context.Background(), userID, ports.CheckinRequest{EnergyLevel: 4, Trigger: "morning"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2025, 6, 1, 20, 15, 0, 0, time.UTC) }
	log, err := svc.CheckIn(context.Background(), userID, ports.CheckinRequest{EnergyLevel: 2, Trigger: "evening"})
	require.NoError(t, err)

	assert.Equal(t, 2, log.EnergyLevel, "latest level wins")
	assert.Equal(t, "[08:30] morning: 4/5\n[20:15] evening: 2/5", log.Notes)
	assert.Len(t, logRepo.logs, 1, "one row per user per day")
}

func TestCheckInClampsEnergy(t *testing.T) {
	svc, _ := newCheckinFixture()

	log, err := svc.CheckIn(context.Background(), uuid.New(), ports.CheckinRequest{EnergyLevel: 11})
	require.NoError(t, err)
	assert.Equal(t, 5, log.EnergyLevel)
	assert.Equal(t, "[08:30] manual: 5/5", log.Notes)
}

func TestTodayReportsCheckinState(t *testing.T) {
	svc, _ := newCheckinFixture()
	userID := uuid.New()

	_, err := svc.Today(context.Background(), userID)
	assert.ErrorIs(t, err, entities.ErrDailyLogNotFound)

	_, err = svc.CheckIn(context.Background(), userID, ports.CheckinRequest{EnergyLevel: 3})
	require.NoError(t, err)

	log, err := svc.Today(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", log.DateString())
}

func TestEnergyTrend(t *testing.T) {
	svc, logRepo := newCheckinFixture()
	userID := uuid.New()
	logRepo.logs = []*entities.DailyLog{
		{ID: uuid.New(), UserID: userID, Date: time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC), EnergyLevel: 2},
		{ID: uuid.New(), UserID: userID, Date: time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), EnergyLevel: 4},
		// Too old to count.
		{ID: uuid.New(), UserID: userID, Date: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), EnergyLevel: 5},
	}

	trend, err := svc.EnergyTrend(context.Background(), userID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, trend.AverageEnergy, 0.001)
	assert.Len(t, trend.Logs, 2)
}

func TestEnergyTrendDefaultsWithoutLogs(t *testing.T) {
	svc, _ := newCheckinFixture()

	trend, err := svc.EnergyTrend(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.InDelta(t, 3.0, trend.AverageEnergy, 0.001)
	assert.Empty(t, trend.Logs)
}
