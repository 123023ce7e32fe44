package progress

import (
	"math"
	"time"

	"github.com/noah-isme/studypath-api/internal/models"
)

// Stats is the headline card data shown on the dashboard.
type Stats struct {
	TotalTasks            int `json:"total_tasks"`
	CompletedTasks        int `json:"completed_tasks"`
	PendingTasks          int `json:"pending_tasks"`
	CompletionRate        int `json:"completion_rate"`
	TotalRoadmaps         int `json:"total_roadmaps"`
	AverageProgress       int `json:"average_progress"`
	AverageWeeklyProgress int `json:"average_weekly_progress"`
	ActiveWeeks           int `json:"active_weeks"`
	Streak                int `json:"streak"`
}

// WeekBar is a single bar of the weekly progress chart.
type WeekBar struct {
	Label     string `json:"label"`
	Progress  int    `json:"progress"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// CompletionSplit feeds the completed/pending doughnut.
type CompletionSplit struct {
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// CumulativePoint is a point on the cumulative completion line.
type CumulativePoint struct {
	Label      string `json:"label"`
	Cumulative int    `json:"cumulative"`
}

// Charts groups the series rendered by the analytics view.
type Charts struct {
	Weekly     []WeekBar         `json:"weekly"`
	Completion CompletionSplit   `json:"completion"`
	Cumulative []CumulativePoint `json:"cumulative"`
}

// OverallStats computes dashboard stats across every roadmap of a user.
func OverallStats(goals []models.WeeklyGoal, tasks []models.Task, now time.Time) Stats {
	done, total := countCompleted(tasks)
	summaries := Summaries(goals, tasks)
	weeks := Weeks(goals, tasks)

	stats := Stats{
		TotalTasks:     total,
		CompletedTasks: done,
		PendingTasks:   total - done,
		CompletionRate: Percent(done, total),
		TotalRoadmaps:  len(summaries),
		ActiveWeeks:    ActiveWeeks(weeks),
		Streak:         Streak(tasks, now),
	}

	if len(summaries) > 0 {
		sum := 0
		for _, summary := range summaries {
			sum += summary.OverallProgress
		}
		stats.AverageProgress = int(math.Round(float64(sum) / float64(len(summaries))))
	}

	if len(weeks) > 0 {
		var sum float64
		for _, week := range weeks {
			if week.Total > 0 {
				sum += float64(week.Completed) * 100 / float64(week.Total)
			}
		}
		stats.AverageWeeklyProgress = int(math.Round(sum / float64(len(weeks))))
	}

	return stats
}

// BuildCharts derives chart series from week rows. Counts come from the rows
// so that the doughnut always matches the bars.
func BuildCharts(weeks []WeekProgress) Charts {
	charts := Charts{
		Weekly:     make([]WeekBar, 0, len(weeks)),
		Cumulative: make([]CumulativePoint, 0, len(weeks)),
	}

	running := 0
	for _, week := range weeks {
		charts.Weekly = append(charts.Weekly, WeekBar{
			Label:     week.Label,
			Progress:  week.Percent,
			Completed: week.Completed,
			Total:     week.Total,
		})
		running += week.Completed
		charts.Cumulative = append(charts.Cumulative, CumulativePoint{Label: week.Label, Cumulative: running})
		charts.Completion.Completed += week.Completed
		charts.Completion.Pending += week.Total - week.Completed
	}
	return charts
}
