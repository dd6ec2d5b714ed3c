package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(date string, energy int) PlannedTask {
	return PlannedTask{Date: date, Title: "task", EnergyRequired: energy}
}

func TestCheckPlanFindsViolations(t *testing.T) {
	tasks := []PlannedTask{
		task("2025-06-02", 2), task("2025-06-02", 3), task("2025-06-02", 2), task("2025-06-02", 1),
		task("2025-06-10", 3),
	}
	hard := map[string]bool{"2025-06-10": true}

	violations := CheckPlan(tasks, hard)
	require.Len(t, violations, 2)
	assert.Equal(t, Violation{Code: ViolationDayOverload, Date: "2025-06-02"}, violations[0])
	assert.Equal(t, Violation{Code: ViolationHardConflict, Date: "2025-06-10"}, violations[1])
}

func TestCheckPlanCleanPlan(t *testing.T) {
	tasks := []PlannedTask{task("2025-06-02", 2), task("2025-06-03", 3)}
	assert.Empty(t, CheckPlan(tasks, map[string]bool{"2025-06-10": true}))
}

func TestRepairPlanMovesConflictsForward(t *testing.T) {
	today := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	hard := map[string]bool{"2025-06-10": true}
	tasks := []PlannedTask{
		task("2025-06-10", 3),                                               // hard date
		task("2025-06-02", 1), task("2025-06-02", 2), task("2025-06-02", 3), // full day
		task("2025-06-02", 2), // overflow
		task("2025-05-20", 1), // in the past
	}

	repaired := RepairPlan(tasks, hard, today)

	assert.Equal(t, "2025-06-11", repaired[0].Date)
	assert.Equal(t, "2025-06-02", repaired[1].Date)
	assert.Equal(t, "2025-06-03", repaired[4].Date, "fourth task on a full day moves to the next day")
	assert.Equal(t, "2025-06-01", repaired[5].Date, "past dates move up to today")
	assert.Empty(t, CheckPlan(repaired, hard))
}

func TestHasHeavyStreak(t *testing.T) {
	heavy := []PlannedTask{
		task("2025-06-02", 3), task("2025-06-02", 4),
		task("2025-06-03", 3), task("2025-06-03", 5),
		task("2025-06-04", 4), task("2025-06-04", 3),
	}
	assert.True(t, HasHeavyStreak(heavy))

	// A rest day in between breaks the streak.
	spaced := []PlannedTask{
		task("2025-06-02", 3), task("2025-06-02", 4),
		task("2025-06-03", 1),
		task("2025-06-04", 4), task("2025-06-04", 3),
		task("2025-06-05", 4), task("2025-06-05", 3),
	}
	assert.False(t, HasHeavyStreak(spaced))

	// One heavy task per day does not count as a heavy day.
	light := []PlannedTask{
		task("2025-06-02", 5), task("2025-06-03", 5), task("2025-06-04", 5),
	}
	assert.False(t, HasHeavyStreak(light))
}
