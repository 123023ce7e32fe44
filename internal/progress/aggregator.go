// Package progress derives completion metrics from weekly goals and their tasks.
//
// Every function here is pure: inputs are already-fetched rows and nil slices are
// treated as empty. Totals of zero always resolve to zero percent.
package progress

import (
	"math"
	"time"

	"github.com/noah-isme/studypath-api/internal/models"
)

// Status describes how far along a weekly goal is.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// RoadmapProgress aggregates all weeks that share a roadmap type.
type RoadmapProgress struct {
	RoadmapType     string    `json:"roadmap_type"`
	Title           string    `json:"title"`
	TotalWeeks      int       `json:"total_weeks"`
	CompletedWeeks  int       `json:"completed_weeks"`
	TotalTasks      int       `json:"total_tasks"`
	CompletedTasks  int       `json:"completed_tasks"`
	OverallProgress int       `json:"overall_progress"`
	WeeklyProgress  int       `json:"weekly_progress"`
	LastUpdated     time.Time `json:"last_updated"`
}

// WeekProgress is the per-goal completion row used by week listings and charts.
type WeekProgress struct {
	GoalID     string `json:"goal_id"`
	WeekNumber string `json:"week_number"`
	Label      string `json:"label"`
	FocusArea  string `json:"focus_area"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Percent    int    `json:"percent"`
	Status     Status `json:"status"`
}

// Percent returns round(100*done/total) and 0 when there is nothing to count.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	if done < 0 {
		done = 0
	}
	if done > total {
		done = total
	}
	return int(math.Round(float64(done) * 100 / float64(total)))
}

// StatusFor maps a percentage onto a goal status.
func StatusFor(percent int) Status {
	switch {
	case percent >= 100:
		return StatusCompleted
	case percent > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

// GoalTasks returns the tasks attached to goal, preserving input order.
func GoalTasks(goal models.WeeklyGoal, tasks []models.Task) []models.Task {
	matched := make([]models.Task, 0)
	for _, task := range tasks {
		if task.WeeklyGoalID == goal.ID {
			matched = append(matched, task)
		}
	}
	return matched
}

// GoalProgress is the completion percentage of a single weekly goal.
func GoalProgress(goal models.WeeklyGoal, tasks []models.Task) int {
	done, total := countCompleted(GoalTasks(goal, tasks))
	return Percent(done, total)
}

// GoalStatus classifies a weekly goal by its completion percentage.
func GoalStatus(goal models.WeeklyGoal, tasks []models.Task) Status {
	return StatusFor(GoalProgress(goal, tasks))
}

// Weeks builds one WeekProgress row per goal in the given order.
func Weeks(goals []models.WeeklyGoal, tasks []models.Task) []WeekProgress {
	byGoal := indexTasks(tasks)
	rows := make([]WeekProgress, 0, len(goals))
	for _, goal := range goals {
		done, total := countCompleted(byGoal[goal.ID])
		percent := Percent(done, total)
		rows = append(rows, WeekProgress{
			GoalID:     goal.ID,
			WeekNumber: goal.WeekNumber,
			Label:      "Week " + goal.WeekNumber,
			FocusArea:  goal.FocusArea,
			Completed:  done,
			Total:      total,
			Percent:    percent,
			Status:     StatusFor(percent),
		})
	}
	return rows
}

// ActiveWeeks counts weeks with any completed work.
func ActiveWeeks(weeks []WeekProgress) int {
	active := 0
	for _, week := range weeks {
		if week.Percent > 0 {
			active++
		}
	}
	return active
}

// Summary aggregates every goal of roadmapType. A week counts as completed only
// when it has at least one task and all of them are done.
func Summary(roadmapType string, goals []models.WeeklyGoal, tasks []models.Task) RoadmapProgress {
	summary := RoadmapProgress{RoadmapType: roadmapType, Title: RoadmapTitle(roadmapType)}
	byGoal := indexTasks(tasks)
	for _, goal := range goals {
		if goal.RoadmapType != roadmapType {
			continue
		}
		accumulate(&summary, goal, byGoal[goal.ID])
	}
	return finalise(summary)
}

// Summaries aggregates every roadmap present in goals, in first-seen order.
func Summaries(goals []models.WeeklyGoal, tasks []models.Task) []RoadmapProgress {
	byGoal := indexTasks(tasks)
	order := make([]string, 0)
	byType := make(map[string]*RoadmapProgress)

	for _, goal := range goals {
		summary, ok := byType[goal.RoadmapType]
		if !ok {
			summary = &RoadmapProgress{RoadmapType: goal.RoadmapType, Title: RoadmapTitle(goal.RoadmapType)}
			byType[goal.RoadmapType] = summary
			order = append(order, goal.RoadmapType)
		}
		accumulate(summary, goal, byGoal[goal.ID])
	}

	summaries := make([]RoadmapProgress, 0, len(order))
	for _, roadmapType := range order {
		summaries = append(summaries, finalise(*byType[roadmapType]))
	}
	return summaries
}

func accumulate(summary *RoadmapProgress, goal models.WeeklyGoal, goalTasks []models.Task) {
	done, total := countCompleted(goalTasks)
	summary.TotalWeeks++
	summary.TotalTasks += total
	summary.CompletedTasks += done
	if total > 0 && done == total {
		summary.CompletedWeeks++
	}
	if goal.UpdatedAt.After(summary.LastUpdated) {
		summary.LastUpdated = goal.UpdatedAt
	}
}

func finalise(summary RoadmapProgress) RoadmapProgress {
	summary.OverallProgress = Percent(summary.CompletedTasks, summary.TotalTasks)
	summary.WeeklyProgress = Percent(summary.CompletedWeeks, summary.TotalWeeks)
	return summary
}

func indexTasks(tasks []models.Task) map[string][]models.Task {
	byGoal := make(map[string][]models.Task)
	for _, task := range tasks {
		byGoal[task.WeeklyGoalID] = append(byGoal[task.WeeklyGoalID], task)
	}
	return byGoal
}

func countCompleted(tasks []models.Task) (done, total int) {
	for _, task := range tasks {
		total++
		if task.Completed {
			done++
		}
	}
	return done, total
}
