package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/studypath-api/internal/catalog"
	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/events"
	"github.com/noah-isme/studypath-api/internal/importer"
	"github.com/noah-isme/studypath-api/internal/observability"
	"github.com/noah-isme/studypath-api/internal/progress"
	"github.com/noah-isme/studypath-api/internal/repository"
)

var (
	// ErrRoadmapNotFound is returned when the user has no weeks for a roadmap type.
	ErrRoadmapNotFound = errors.New("roadmap not found")
	// ErrRoadmapAlreadyStarted is returned when a predefined roadmap already has weeks.
	ErrRoadmapAlreadyStarted = errors.New("roadmap already started")
)

// RoadmapService exposes roadmap listings, the weekly view and lifecycle operations.
type RoadmapService interface {
	Catalog() []catalog.Entry
	List(ctx context.Context, userID string) ([]progress.RoadmapProgress, error)
	Detail(ctx context.Context, userID string, req dto.RoadmapDetailRequest) (dto.RoadmapDetailResponse, error)
	Start(ctx context.Context, userID, roadmapType string) (dto.ImportOutcome, error)
	Delete(ctx context.Context, userID, roadmapType string) (dto.RoadmapDeleteResponse, error)
}

type roadmapService struct {
	goals       repository.WeeklyGoalRepository
	tasks       repository.TaskRepository
	catalog     *catalog.Catalog
	writer      planWriter
	invalidator DashboardInvalidator
	publisher   events.Publisher
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewRoadmapService constructs the roadmap service.
func NewRoadmapService(goals repository.WeeklyGoalRepository, tasks repository.TaskRepository, roadmaps *catalog.Catalog, invalidator DashboardInvalidator, publisher events.Publisher, logger zerolog.Logger) RoadmapService {
	log := logger.With().Str("component", "roadmap_service").Logger()
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &roadmapService{
		goals:       goals,
		tasks:       tasks,
		catalog:     roadmaps,
		writer:      planWriter{goals: goals, tasks: tasks, logger: log},
		invalidator: invalidator,
		publisher:   publisher,
		logger:      log,
		tracer:      otel.Tracer("github.com/noah-isme/studypath-api/internal/service/roadmap"),
		now:         time.Now,
	}
}

func (s *roadmapService) Catalog() []catalog.Entry {
	if s.catalog == nil {
		return []catalog.Entry{}
	}
	return s.catalog.List()
}

func (s *roadmapService) List(ctx context.Context, userID string) ([]progress.RoadmapProgress, error) {
	goals, err := s.goals.List(ctx, userID, repository.WeeklyGoalFilter{})
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return progress.Summaries(goals, tasks), nil
}

func (s *roadmapService) Detail(ctx context.Context, userID string, req dto.RoadmapDetailRequest) (dto.RoadmapDetailResponse, error) {
	goals, err := s.goals.List(ctx, userID, repository.WeeklyGoalFilter{RoadmapType: req.RoadmapType})
	if err != nil {
		return dto.RoadmapDetailResponse{}, err
	}
	if len(goals) == 0 {
		return dto.RoadmapDetailResponse{}, ErrRoadmapNotFound
	}

	ids := make([]string, 0, len(goals))
	for _, goal := range goals {
		ids = append(ids, goal.ID)
	}
	tasks, err := s.tasks.ListByGoals(ctx, userID, ids)
	if err != nil {
		return dto.RoadmapDetailResponse{}, err
	}

	sorted := progress.SortWeeks(goals)
	weeks := make([]dto.WeeklyGoalResponse, 0, len(sorted))
	for _, goal := range sorted {
		weeks = append(weeks, dto.NewWeeklyGoalResponse(goal, tasks))
	}

	nav := progress.NewNavigator(sorted, req.Week)
	var current *dto.WeeklyGoalResponse
	if goal, ok := nav.Week(); ok {
		response := dto.NewWeeklyGoalResponse(goal, tasks)
		current = &response
	}

	loc := req.Location
	if loc == nil {
		loc = time.UTC
	}

	return dto.RoadmapDetailResponse{
		Summary:     progress.Summary(req.RoadmapType, goals, tasks),
		Weeks:       weeks,
		Current:     current,
		Navigation:  nav.Position(),
		Streak:      progress.Streak(tasks, s.now().In(loc)),
		ActiveWeeks: progress.ActiveWeeks(progress.Weeks(sorted, tasks)),
	}, nil
}

func (s *roadmapService) Start(ctx context.Context, userID, roadmapType string) (dto.ImportOutcome, error) {
	if s.catalog == nil {
		return dto.ImportOutcome{}, catalog.ErrUnknownRoadmap
	}
	plan, err := s.catalog.Plan(roadmapType)
	if err != nil {
		return dto.ImportOutcome{}, err
	}

	existing, err := s.goals.CountByRoadmap(ctx, userID, roadmapType)
	if err != nil {
		return dto.ImportOutcome{}, err
	}
	if existing > 0 {
		return dto.ImportOutcome{}, ErrRoadmapAlreadyStarted
	}

	return s.persist(ctx, userID, plan)
}

func (s *roadmapService) persist(ctx context.Context, userID string, plan importer.Plan) (dto.ImportOutcome, error) {
	spanCtx, span := s.tracer.Start(ctx, "roadmaps.start", trace.WithAttributes(
		attribute.String("roadmap.type", plan.RoadmapType),
	))
	defer span.End()

	outcome, err := s.writer.write(spanCtx, userID, plan)
	if outcome.WeeksCreated+outcome.AdvancedTopicsCreated > 0 {
		s.invalidator.Invalidate(spanCtx, userID)
	}
	if err != nil {
		span.RecordError(err)
		observability.RoadmapImports().WithLabelValues("catalog", "failed").Inc()
		return outcome, err
	}
	observability.RoadmapImports().WithLabelValues("catalog", "success").Inc()

	if err := s.publisher.Publish(spanCtx, events.RoadmapImported, map[string]interface{}{
		"user_id":       userID,
		"roadmap_type":  outcome.RoadmapType,
		"source":        "catalog",
		"weeks_created": outcome.WeeksCreated + outcome.AdvancedTopicsCreated,
		"tasks_created": outcome.TasksCreated,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish roadmap start event")
	}

	s.logger.Info().Str("user_id", userID).Str("roadmap_type", outcome.RoadmapType).Int("weeks", outcome.WeeksCreated).Msg("predefined roadmap started")
	return outcome, nil
}

func (s *roadmapService) Delete(ctx context.Context, userID, roadmapType string) (dto.RoadmapDeleteResponse, error) {
	counts, err := s.goals.DeleteByRoadmap(ctx, userID, roadmapType)
	if err != nil {
		return dto.RoadmapDeleteResponse{}, err
	}
	if counts.Goals == 0 {
		return dto.RoadmapDeleteResponse{}, ErrRoadmapNotFound
	}

	s.invalidator.Invalidate(ctx, userID)
	if err := s.publisher.Publish(ctx, events.RoadmapDeleted, map[string]interface{}{
		"user_id":       userID,
		"roadmap_type":  roadmapType,
		"goals_deleted": counts.Goals,
		"tasks_deleted": counts.Tasks,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish roadmap delete event")
	}

	s.logger.Info().Str("user_id", userID).Str("roadmap_type", roadmapType).Int64("goals", counts.Goals).Int64("tasks", counts.Tasks).Msg("roadmap deleted")
	return dto.RoadmapDeleteResponse{
		RoadmapType:  roadmapType,
		GoalsDeleted: counts.Goals,
		TasksDeleted: counts.Tasks,
	}, nil
}
