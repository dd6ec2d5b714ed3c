package planning

import (
	"fmt"
	"sort"
	"time"
)

// MaxTasksPerDay caps how many tasks a single day may carry.
const MaxTasksPerDay = 3

// Violation codes reported by CheckPlan.
const (
	ViolationDayOverload  = "day_overload"
	ViolationHardConflict = "hard_date_conflict"
)

// Violation describes one planning rule the model's output breaks.
type Violation struct {
	Code string
	Date string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s on %s", v.Code, v.Date)
}

// CheckPlan scans proposed tasks for overloaded days and collisions with
// hard-schedule dates. It reports one violation per offending date per rule.
func CheckPlan(tasks []PlannedTask, hardDates map[string]bool) []Violation {
	perDay := map[string]int{}
	for _, t := range tasks {
		perDay[t.Date]++
	}

	var violations []Violation
	for date, n := range perDay {
		if n > MaxTasksPerDay {
			violations = append(violations, Violation{Code: ViolationDayOverload, Date: date})
		}
		if hardDates[date] {
			violations = append(violations, Violation{Code: ViolationHardConflict, Date: date})
		}
	}
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Date != violations[j].Date {
			return violations[i].Date < violations[j].Date
		}
		return violations[i].Code < violations[j].Code
	})
	return violations
}

// RepairPlan shifts tasks off hard-schedule dates and overflowing days onto
// the next free day, preserving the model's ordering. Tasks never move
// earlier than today.
func RepairPlan(tasks []PlannedTask, hardDates map[string]bool, today time.Time) []PlannedTask {
	perDay := map[string]int{}
	out := make([]PlannedTask, len(tasks))
	floor := today.Format("2006-01-02")

	for i, t := range tasks {
		date := t.Date
		if date < floor {
			date = floor
		}
		for hardDates[date] || perDay[date] >= MaxTasksPerDay {
			date = nextDay(date)
		}
		perDay[date]++
		t.Date = date
		out[i] = t
	}
	return out
}

// HasHeavyStreak reports whether three consecutive calendar days each carry
// two or more tasks of energy 3 or above. Such plans burn users out and
// should trade a day for rest.
func HasHeavyStreak(tasks []PlannedTask) bool {
	heavyPerDay := map[string]int{}
	for _, t := range tasks {
		if t.EnergyRequired >= 3 {
			heavyPerDay[t.Date]++
		}
	}

	var heavyDates []string
	for date, n := range heavyPerDay {
		if n >= 2 {
			heavyDates = append(heavyDates, date)
		}
	}
	if len(heavyDates) < 3 {
		return false
	}
	sort.Strings(heavyDates)

	streak := 1
	for i := 1; i < len(heavyDates); i++ {
		if heavyDates[i] == nextDay(heavyDates[i-1]) {
			streak++
			if streak >= 3 {
				return true
			}
		} else {
			streak = 1
		}
	}
	return false
}

func nextDay(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, 1).Format("2006-01-02")
}
