package dto

import "github.com/noah-isme/studypath-api/internal/progress"

// ToggleTaskRequest sets the completion state of a task.
type ToggleTaskRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// GoalProgressResponse is the refreshed progress of the task's goal.
type GoalProgressResponse struct {
	GoalID   string          `json:"goal_id"`
	Progress int             `json:"progress"`
	Status   progress.Status `json:"status"`
}

// ToggleTaskResponse returns the task together with recomputed progress.
type ToggleTaskResponse struct {
	Task    TaskResponse             `json:"task"`
	Goal    GoalProgressResponse     `json:"goal"`
	Roadmap progress.RoadmapProgress `json:"roadmap"`
}
