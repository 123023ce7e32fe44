package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/events"
	"github.com/noah-isme/studypath-api/internal/importer"
	"github.com/noah-isme/studypath-api/internal/observability"
	"github.com/noah-isme/studypath-api/internal/repository"
)

// MaxImportFileSize bounds uploaded roadmap documents.
const MaxImportFileSize = 1 << 20

// ImportService validates and persists user-authored roadmaps.
type ImportService interface {
	Validate(ctx context.Context, raw []byte) dto.ImportValidationResponse
	ImportJSON(ctx context.Context, userID string, raw []byte) (dto.ImportOutcome, error)
	ImportFile(ctx context.Context, userID, filename string, data []byte) (dto.ImportOutcome, error)
	CheckDetails(req dto.CustomRoadmapDetailsRequest) (dto.CustomRoadmapDetailsResponse, error)
	SubmitCustom(ctx context.Context, userID string, req dto.CustomRoadmapRequest) (dto.ImportOutcome, error)
}

type importService struct {
	writer      planWriter
	validator   *importer.Validator
	invalidator DashboardInvalidator
	publisher   events.Publisher
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewImportService constructs an import service.
func NewImportService(goals repository.WeeklyGoalRepository, tasks repository.TaskRepository, validator *importer.Validator, invalidator DashboardInvalidator, publisher events.Publisher, logger zerolog.Logger) ImportService {
	log := logger.With().Str("component", "import_service").Logger()
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &importService{
		writer:      planWriter{goals: goals, tasks: tasks, logger: log},
		validator:   validator,
		invalidator: invalidator,
		publisher:   publisher,
		logger:      log,
		tracer:      otel.Tracer("github.com/noah-isme/studypath-api/internal/service/import"),
	}
}

func (s *importService) Validate(_ context.Context, raw []byte) dto.ImportValidationResponse {
	doc, result := s.validator.Validate(raw)
	response := dto.ImportValidationResponse{
		Valid:    result.Valid(),
		Errors:   nonNil(result.Errors),
		Warnings: nonNil(result.Warnings),
	}
	if result.Valid() {
		plan := importer.PlanFromDocument(doc)
		response.Preview = &dto.ImportPreview{
			Title:          plan.Title,
			RoadmapType:    plan.RoadmapType,
			Weeks:          len(doc.Weeks),
			AdvancedTopics: len(doc.AdvancedTopics),
			Tasks:          plan.TaskCount(),
		}
	}
	return response
}

func (s *importService) ImportJSON(ctx context.Context, userID string, raw []byte) (dto.ImportOutcome, error) {
	doc, result := s.validator.Validate(raw)
	if !result.Valid() {
		observability.RoadmapImports().WithLabelValues("json", "invalid").Inc()
		return dto.ImportOutcome{}, &ValidationError{Errors: result.Errors, Warnings: nonNil(result.Warnings)}
	}

	outcome, err := s.persist(ctx, userID, "json", importer.PlanFromDocument(doc))
	outcome.Warnings = nonNil(result.Warnings)
	return outcome, withOutcomeWarnings(err, outcome.Warnings)
}

func (s *importService) ImportFile(ctx context.Context, userID, filename string, data []byte) (dto.ImportOutcome, error) {
	if len(data) == 0 {
		return dto.ImportOutcome{}, &ValidationError{Errors: []string{"Please choose a JSON file to import"}}
	}
	if len(data) > MaxImportFileSize {
		return dto.ImportOutcome{}, fmt.Errorf("%w: file exceeds %d bytes", ErrUnsupportedFile, MaxImportFileSize)
	}

	mime := mimetype.Detect(data)
	if !mime.Is("application/json") && !mime.Is("text/plain") {
		s.logger.Warn().Str("user_id", userID).Str("filename", filename).Str("mime", mime.String()).Msg("rejected roadmap upload")
		return dto.ImportOutcome{}, fmt.Errorf("%w: %s", ErrUnsupportedFile, mime.String())
	}

	return s.ImportJSON(ctx, userID, data)
}

func (s *importService) CheckDetails(req dto.CustomRoadmapDetailsRequest) (dto.CustomRoadmapDetailsResponse, error) {
	builder := importer.NewBuilder(s.validator)
	if problems := builder.SetDetails(req.Title, req.Description); len(problems) > 0 {
		return dto.CustomRoadmapDetailsResponse{}, &ValidationError{Errors: problems, Warnings: []string{}}
	}
	return dto.CustomRoadmapDetailsResponse{
		Step:        builder.Step(),
		Title:       builder.Title(),
		Description: builder.Description(),
	}, nil
}

func (s *importService) SubmitCustom(ctx context.Context, userID string, req dto.CustomRoadmapRequest) (dto.ImportOutcome, error) {
	builder := importer.NewBuilder(s.validator)
	builder.SetDetails(req.Title, req.Description)
	builder.SetWeeks(req.Weeks)

	plan, result := builder.Submit()
	if !result.Valid() {
		observability.RoadmapImports().WithLabelValues("builder", "invalid").Inc()
		return dto.ImportOutcome{}, &ValidationError{Errors: result.Errors, Warnings: []string{}}
	}
	return s.persist(ctx, userID, "builder", plan)
}

func (s *importService) persist(ctx context.Context, userID, source string, plan importer.Plan) (dto.ImportOutcome, error) {
	spanCtx, span := s.tracer.Start(ctx, "roadmaps.import", trace.WithAttributes(
		attribute.String("import.source", source),
		attribute.String("import.roadmap_type", plan.RoadmapType),
		attribute.Int("import.weeks", len(plan.Weeks)),
	))
	defer span.End()

	outcome, err := s.writer.write(spanCtx, userID, plan)
	if outcome.WeeksCreated+outcome.AdvancedTopicsCreated > 0 {
		s.invalidator.Invalidate(spanCtx, userID)
	}
	if err != nil {
		span.RecordError(err)
		observability.RoadmapImports().WithLabelValues(source, "failed").Inc()
		return outcome, err
	}

	observability.RoadmapImports().WithLabelValues(source, "success").Inc()
	if err := s.publisher.Publish(spanCtx, events.RoadmapImported, map[string]interface{}{
		"user_id":       userID,
		"roadmap_type":  outcome.RoadmapType,
		"source":        source,
		"weeks_created": outcome.WeeksCreated + outcome.AdvancedTopicsCreated,
		"tasks_created": outcome.TasksCreated,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish roadmap import event")
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("source", source).
		Str("roadmap_type", outcome.RoadmapType).
		Int("weeks", outcome.WeeksCreated).
		Int("tasks", outcome.TasksCreated).
		Int("tasks_failed", outcome.TasksFailed).
		Msg("roadmap imported")
	return outcome, nil
}

func withOutcomeWarnings(err error, warnings []string) error {
	if importErr, ok := err.(*ImportError); ok {
		importErr.Outcome.Warnings = warnings
	}
	return err
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
