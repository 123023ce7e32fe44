package dto

import (
	"time"

	"github.com/noah-isme/studypath-api/internal/models"
	"github.com/noah-isme/studypath-api/internal/progress"
)

// TaskResponse serializes a task row.
type TaskResponse struct {
	ID           string     `json:"id"`
	WeeklyGoalID string     `json:"weekly_goal_id"`
	Title        string     `json:"title"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewTaskResponse maps a task model.
func NewTaskResponse(task models.Task) TaskResponse {
	return TaskResponse{
		ID:           task.ID,
		WeeklyGoalID: task.WeeklyGoalID,
		Title:        task.Title,
		Completed:    task.Completed,
		CompletedAt:  task.CompletedAt,
		CreatedAt:    task.CreatedAt,
		UpdatedAt:    task.UpdatedAt,
	}
}

// WeeklyGoalResponse serializes a weekly goal with its derived progress.
type WeeklyGoalResponse struct {
	ID             string             `json:"id"`
	RoadmapType    string             `json:"roadmap_type"`
	WeekNumber     string             `json:"week_number"`
	FocusArea      string             `json:"focus_area"`
	Topics         []string           `json:"topics"`
	Goals          []string           `json:"goals"`
	Deliverables   []string           `json:"deliverables"`
	Reference      []models.Reference `json:"reference"`
	Progress       int                `json:"progress"`
	Status         progress.Status    `json:"status"`
	CompletedTasks int                `json:"completed_tasks"`
	TotalTasks     int                `json:"total_tasks"`
	Tasks          []TaskResponse     `json:"tasks"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// NewWeeklyGoalResponse maps a goal and computes progress from tasks, which
// may include tasks of other goals.
func NewWeeklyGoalResponse(goal models.WeeklyGoal, tasks []models.Task) WeeklyGoalResponse {
	own := progress.GoalTasks(goal, tasks)
	responses := make([]TaskResponse, 0, len(own))
	completed := 0
	for _, task := range own {
		responses = append(responses, NewTaskResponse(task))
		if task.Completed {
			completed++
		}
	}
	percent := progress.Percent(completed, len(own))

	return WeeklyGoalResponse{
		ID:             goal.ID,
		RoadmapType:    goal.RoadmapType,
		WeekNumber:     goal.WeekNumber,
		FocusArea:      goal.FocusArea,
		Topics:         nonNilStrings(goal.Topics),
		Goals:          nonNilStrings(goal.Goals),
		Deliverables:   nonNilStrings(goal.Deliverables),
		Reference:      nonNilReferences(goal.Reference),
		Progress:       percent,
		Status:         progress.StatusFor(percent),
		CompletedTasks: completed,
		TotalTasks:     len(own),
		Tasks:          responses,
		CreatedAt:      goal.CreatedAt,
		UpdatedAt:      goal.UpdatedAt,
	}
}

// RoadmapDetailRequest selects a roadmap and the week to focus on.
type RoadmapDetailRequest struct {
	RoadmapType string
	Week        int
	Location    *time.Location
}

// RoadmapDetailResponse is the weekly progress view of one roadmap.
type RoadmapDetailResponse struct {
	Summary     progress.RoadmapProgress `json:"summary"`
	Weeks       []WeeklyGoalResponse     `json:"weeks"`
	Current     *WeeklyGoalResponse      `json:"current"`
	Navigation  progress.Position        `json:"navigation"`
	Streak      int                      `json:"streak"`
	ActiveWeeks int                      `json:"active_weeks"`
}

// RoadmapDeleteResponse reports a bulk delete.
type RoadmapDeleteResponse struct {
	RoadmapType  string `json:"roadmap_type"`
	GoalsDeleted int64  `json:"goals_deleted"`
	TasksDeleted int64  `json:"tasks_deleted"`
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func nonNilReferences(items []models.Reference) []models.Reference {
	if items == nil {
		return []models.Reference{}
	}
	return items
}
