package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/events"
	"github.com/noah-isme/studypath-api/internal/models"
	"github.com/noah-isme/studypath-api/internal/observability"
	"github.com/noah-isme/studypath-api/internal/progress"
	"github.com/noah-isme/studypath-api/internal/repository"
)

// ErrTaskNotFound is returned when a task does not exist for the user.
var ErrTaskNotFound = errors.New("task not found")

// TaskService toggles task completion and refreshes derived progress.
type TaskService interface {
	Toggle(ctx context.Context, userID, taskID string, completed bool) (dto.ToggleTaskResponse, error)
}

type taskService struct {
	goals       repository.WeeklyGoalRepository
	tasks       repository.TaskRepository
	progress    repository.UserProgressRepository
	invalidator DashboardInvalidator
	publisher   events.Publisher
	logger      zerolog.Logger
	now         func() time.Time
}

// NewTaskService constructs the task service.
func NewTaskService(goals repository.WeeklyGoalRepository, tasks repository.TaskRepository, snapshots repository.UserProgressRepository, invalidator DashboardInvalidator, publisher events.Publisher, logger zerolog.Logger) TaskService {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &taskService{
		goals:       goals,
		tasks:       tasks,
		progress:    snapshots,
		invalidator: invalidator,
		publisher:   publisher,
		logger:      logger.With().Str("component", "task_service").Logger(),
		now:         time.Now,
	}
}

// Toggle sets the completion state. Setting the state a task already has
// keeps its original completed_at.
func (s *taskService) Toggle(ctx context.Context, userID, taskID string, completed bool) (dto.ToggleTaskResponse, error) {
	task, err := s.tasks.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ToggleTaskResponse{}, ErrTaskNotFound
		}
		return dto.ToggleTaskResponse{}, err
	}

	if task.Completed != completed || (completed && task.CompletedAt == nil) {
		task.SetCompleted(completed, s.now().UTC())
		if err := s.tasks.UpdateCompletion(ctx, &task); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.ToggleTaskResponse{}, ErrTaskNotFound
			}
			return dto.ToggleTaskResponse{}, err
		}
		state := "incomplete"
		if completed {
			state = "completed"
		}
		observability.TaskToggles().WithLabelValues(state).Inc()
	}

	goal, err := s.goals.GetByID(ctx, userID, task.WeeklyGoalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ToggleTaskResponse{}, ErrTaskNotFound
		}
		return dto.ToggleTaskResponse{}, err
	}

	roadmapGoals, err := s.goals.List(ctx, userID, repository.WeeklyGoalFilter{RoadmapType: goal.RoadmapType})
	if err != nil {
		return dto.ToggleTaskResponse{}, err
	}
	ids := make([]string, 0, len(roadmapGoals))
	for _, item := range roadmapGoals {
		ids = append(ids, item.ID)
	}
	roadmapTasks, err := s.tasks.ListByGoals(ctx, userID, ids)
	if err != nil {
		return dto.ToggleTaskResponse{}, err
	}

	summary := progress.Summary(goal.RoadmapType, roadmapGoals, roadmapTasks)
	snapshot := models.UserProgress{
		UserID:             userID,
		RoadmapType:        goal.RoadmapType,
		TotalTasks:         summary.TotalTasks,
		CompletedTasks:     summary.CompletedTasks,
		ProgressPercentage: summary.OverallProgress,
	}
	if err := s.progress.Upsert(ctx, &snapshot); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Str("roadmap_type", goal.RoadmapType).Msg("failed to store progress snapshot")
	}

	s.invalidator.Invalidate(ctx, userID)
	if err := s.publisher.Publish(ctx, events.TaskToggled, map[string]interface{}{
		"user_id":      userID,
		"task_id":      task.ID,
		"roadmap_type": goal.RoadmapType,
		"completed":    task.Completed,
		"progress":     summary.OverallProgress,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish task toggle event")
	}

	goalProgress := progress.GoalProgress(goal, roadmapTasks)
	return dto.ToggleTaskResponse{
		Task: dto.NewTaskResponse(task),
		Goal: dto.GoalProgressResponse{
			GoalID:   goal.ID,
			Progress: goalProgress,
			Status:   progress.StatusFor(goalProgress),
		},
		Roadmap: summary,
	}, nil
}
