package progress

import (
	"time"

	"github.com/noah-isme/studypath-api/internal/models"
)

type calendarDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time) calendarDay {
	y, m, d := t.Date()
	return calendarDay{year: y, month: m, day: d}
}

// Streak counts consecutive calendar days, ending today, with at least one
// completed task. Days are taken in now's location; a day without completions,
// today included, ends the streak.
func Streak(tasks []models.Task, now time.Time) int {
	loc := now.Location()
	days := make(map[calendarDay]struct{})
	for _, task := range tasks {
		if !task.Completed || task.CompletedAt == nil {
			continue
		}
		days[dayOf(task.CompletedAt.In(loc))] = struct{}{}
	}
	if len(days) == 0 {
		return 0
	}

	y, m, d := now.Date()
	cursor := time.Date(y, m, d, 12, 0, 0, 0, loc)
	streak := 0
	for {
		if _, ok := days[dayOf(cursor)]; !ok {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}
