package dto

import "time"

// CreateGoalRequest is the single custom goal form.
type CreateGoalRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description" validate:"required,min=10,max=2000"`
	Category    string   `json:"category" validate:"required,oneof=personal career health education finance relationships hobbies other"`
	Priority    string   `json:"priority" validate:"required,oneof=low medium high"`
	Deadline    string   `json:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Tags        []string `json:"tags" validate:"omitempty,max=20,dive,max=40"`
}

// DeadlineTime parses the optional deadline.
func (r CreateGoalRequest) DeadlineTime() (*time.Time, error) {
	if r.Deadline == "" {
		return nil, nil
	}
	deadline, err := time.Parse("2006-01-02", r.Deadline)
	if err != nil {
		return nil, err
	}
	return &deadline, nil
}

// GoalListRequest carries the My Goals filters.
type GoalListRequest struct {
	Search      string `json:"search,omitempty"`
	RoadmapType string `json:"roadmap,omitempty"`
	Status      string `json:"status,omitempty" validate:"omitempty,oneof=all not-started in-progress completed"`
	Sort        string `json:"sort,omitempty" validate:"omitempty,oneof=created_at progress alphabetical"`
}

// GoalCounts groups goals by status.
type GoalCounts struct {
	Total      int `json:"total"`
	NotStarted int `json:"not_started"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// GoalListResponse lists goals after filtering and sorting.
type GoalListResponse struct {
	Items   []WeeklyGoalResponse `json:"items"`
	Counts  GoalCounts           `json:"counts"`
	Filters GoalListRequest      `json:"filters"`
}

// GoalDeleteResponse reports a single goal delete.
type GoalDeleteResponse struct {
	ID           string `json:"id"`
	TasksDeleted int64  `json:"tasks_deleted"`
}
