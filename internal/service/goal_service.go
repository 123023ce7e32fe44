package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/importer"
	"github.com/noah-isme/studypath-api/internal/models"
	"github.com/noah-isme/studypath-api/internal/progress"
	"github.com/noah-isme/studypath-api/internal/repository"
)

// ErrWeeklyGoalNotFound is returned when a goal does not exist for the user.
var ErrWeeklyGoalNotFound = errors.New("weekly goal not found")

// GoalService manages the My Goals listing and single custom goals.
type GoalService interface {
	List(ctx context.Context, userID string, req dto.GoalListRequest) (dto.GoalListResponse, error)
	Create(ctx context.Context, userID string, req dto.CreateGoalRequest) (dto.WeeklyGoalResponse, error)
	Delete(ctx context.Context, userID, id string) (dto.GoalDeleteResponse, error)
}

type goalService struct {
	goals       repository.WeeklyGoalRepository
	tasks       repository.TaskRepository
	importer    *importer.Validator
	validator   *validator.Validate
	invalidator DashboardInvalidator
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGoalService constructs the goal service.
func NewGoalService(goals repository.WeeklyGoalRepository, tasks repository.TaskRepository, sanitizer *importer.Validator, validate *validator.Validate, invalidator DashboardInvalidator, logger zerolog.Logger) GoalService {
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	return &goalService{
		goals:       goals,
		tasks:       tasks,
		importer:    sanitizer,
		validator:   validate,
		invalidator: invalidator,
		logger:      logger.With().Str("component", "goal_service").Logger(),
		now:         time.Now,
	}
}

func (s *goalService) List(ctx context.Context, userID string, req dto.GoalListRequest) (dto.GoalListResponse, error) {
	req.Search = strings.TrimSpace(req.Search)
	req.RoadmapType = strings.TrimSpace(req.RoadmapType)
	if req.Status == "" {
		req.Status = "all"
	}
	if req.Sort == "" {
		req.Sort = "created_at"
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.GoalListResponse{}, err
	}

	goals, err := s.goals.List(ctx, userID, repository.WeeklyGoalFilter{RoadmapType: req.RoadmapType})
	if err != nil {
		return dto.GoalListResponse{}, err
	}
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return dto.GoalListResponse{}, err
	}

	counts := dto.GoalCounts{}
	items := make([]dto.WeeklyGoalResponse, 0, len(goals))
	for _, goal := range goals {
		if !matchesSearch(goal.FocusArea, goal.Topics, goal.Goals, req.Search) {
			continue
		}
		item := dto.NewWeeklyGoalResponse(goal, tasks)

		counts.Total++
		switch item.Status {
		case progress.StatusCompleted:
			counts.Completed++
		case progress.StatusInProgress:
			counts.InProgress++
		default:
			counts.NotStarted++
		}

		if req.Status != "all" && string(item.Status) != req.Status {
			continue
		}
		items = append(items, item)
	}

	sortGoals(items, req.Sort)
	return dto.GoalListResponse{Items: items, Counts: counts, Filters: req}, nil
}

func matchesSearch(focus string, topics, goals []string, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(focus), needle) {
		return true
	}
	for _, list := range [][]string{topics, goals} {
		for _, item := range list {
			if strings.Contains(strings.ToLower(item), needle) {
				return true
			}
		}
	}
	return false
}

func sortGoals(items []dto.WeeklyGoalResponse, order string) {
	switch order {
	case "progress":
		sort.SliceStable(items, func(i, j int) bool { return items[i].Progress > items[j].Progress })
	case "alphabetical":
		sort.SliceStable(items, func(i, j int) bool {
			return strings.ToLower(items[i].FocusArea) < strings.ToLower(items[j].FocusArea)
		})
	default:
		sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	}
}

func (s *goalService) Create(ctx context.Context, userID string, req dto.CreateGoalRequest) (dto.WeeklyGoalResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.WeeklyGoalResponse{}, err
	}
	deadline, err := req.DeadlineTime()
	if err != nil {
		return dto.WeeklyGoalResponse{}, err
	}

	plan := s.importer.GoalPlan(importer.CustomGoal{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Deadline:    deadline,
		Tags:        req.Tags,
	}, s.now())

	week := plan.Weeks[0]
	goal := week.Goal
	goal.UserID = userID
	if err := s.goals.Create(ctx, &goal); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create custom goal")
		return dto.WeeklyGoalResponse{}, err
	}

	tasks := make([]models.Task, 0, len(week.Tasks))
	for _, planned := range week.Tasks {
		task := planned
		task.UserID = userID
		task.WeeklyGoalID = goal.ID
		if err := s.tasks.Create(ctx, &task); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Str("weekly_goal_id", goal.ID).Msg("failed to create custom goal task, continuing")
			continue
		}
		tasks = append(tasks, task)
	}

	s.invalidator.Invalidate(ctx, userID)
	s.logger.Info().Str("user_id", userID).Str("goal_id", goal.ID).Msg("custom goal created")
	return dto.NewWeeklyGoalResponse(goal, tasks), nil
}

func (s *goalService) Delete(ctx context.Context, userID, id string) (dto.GoalDeleteResponse, error) {
	counts, err := s.goals.Delete(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GoalDeleteResponse{}, ErrWeeklyGoalNotFound
		}
		return dto.GoalDeleteResponse{}, err
	}

	s.invalidator.Invalidate(ctx, userID)
	s.logger.Info().Str("user_id", userID).Str("goal_id", id).Int64("tasks", counts.Tasks).Msg("weekly goal deleted")
	return dto.GoalDeleteResponse{ID: id, TasksDeleted: counts.Tasks}, nil
}
