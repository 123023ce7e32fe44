package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/events"
	"github.com/noah-isme/studypath-api/internal/observability"
	"github.com/noah-isme/studypath-api/internal/repository"
	"github.com/noah-isme/studypath-api/internal/session"
)

var (
	// ErrEmailInCooldown blocks registration for a recently deleted address.
	ErrEmailInCooldown = errors.New("email is in cooldown after account deletion")
	// ErrSessionRequired is returned when an operation needs a signed-in user.
	ErrSessionRequired = errors.New("session required")
)

// AccountService covers signup checks, session lifecycle and account deletion.
type AccountService interface {
	CooldownStatus(ctx context.Context, email string) (dto.CooldownResponse, error)
	SignupCheck(ctx context.Context, req dto.SignupCheckRequest) (dto.SignupCheckResponse, error)
	SignIn(ctx context.Context, s session.Session) (session.Session, error)
	SignOut(ctx context.Context, s session.Session) error
	Delete(ctx context.Context, s session.Session) (dto.AccountDeletionResponse, error)
}

type accountService struct {
	repo      repository.AccountRepository
	validator *validator.Validate
	sessions  *session.Broker
	publisher events.Publisher
	cooldown  time.Duration
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewAccountService constructs the account service. cooldown is how long a
// deleted address stays blocked from signing up again.
func NewAccountService(repo repository.AccountRepository, validate *validator.Validate, sessions *session.Broker, publisher events.Publisher, cooldown time.Duration, logger zerolog.Logger) AccountService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if cooldown <= 0 {
		cooldown = 24 * time.Hour
	}
	return &accountService{
		repo:      repo,
		validator: validate,
		sessions:  sessions,
		publisher: publisher,
		cooldown:  cooldown,
		logger:    logger.With().Str("component", "account_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/studypath-api/internal/service/account"),
		now:       time.Now,
	}
}

func (s *accountService) CooldownStatus(ctx context.Context, email string) (dto.CooldownResponse, error) {
	normalized := repository.NormalizeEmail(email)
	if normalized == "" {
		return dto.CooldownResponse{}, &ValidationError{Errors: []string{"Email is required"}, Warnings: []string{}}
	}
	blocked, err := s.repo.InCooldown(ctx, normalized, s.now().UTC())
	if err != nil {
		return dto.CooldownResponse{}, err
	}
	return dto.CooldownResponse{Email: normalized, InCooldown: blocked}, nil
}

func (s *accountService) SignupCheck(ctx context.Context, req dto.SignupCheckRequest) (dto.SignupCheckResponse, error) {
	req.Email = repository.NormalizeEmail(req.Email)

	problems := make([]string, 0)
	if err := s.validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return dto.SignupCheckResponse{}, err
		}
		for _, fieldErr := range validationErrors {
			switch fieldErr.Field() {
			case "Email":
				problems = append(problems, "Please enter a valid email address")
			case "Password":
				problems = append(problems, "Password is required")
			}
		}
	}
	if req.Password != "" {
		problems = append(problems, passwordProblems(req.Password)...)
	}
	if len(problems) > 0 {
		return dto.SignupCheckResponse{}, &ValidationError{Errors: problems, Warnings: []string{}}
	}

	blocked, err := s.repo.InCooldown(ctx, req.Email, s.now().UTC())
	if err != nil {
		return dto.SignupCheckResponse{}, err
	}
	if blocked {
		return dto.SignupCheckResponse{}, ErrEmailInCooldown
	}
	return dto.SignupCheckResponse{Email: req.Email, Allowed: true}, nil
}

func passwordProblems(password string) []string {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	problems := make([]string, 0)
	if len([]rune(password)) < 6 {
		problems = append(problems, "Password must be at least 6 characters long")
	}
	if !upper {
		problems = append(problems, "Password must contain at least one uppercase letter")
	}
	if !lower {
		problems = append(problems, "Password must contain at least one lowercase letter")
	}
	if !digit {
		problems = append(problems, "Password must contain at least one number")
	}
	return problems
}

func (s *accountService) SignIn(ctx context.Context, current session.Session) (session.Session, error) {
	if !current.Valid() {
		return session.Session{}, ErrSessionRequired
	}
	current.Email = repository.NormalizeEmail(current.Email)
	if current.Email != "" {
		blocked, err := s.repo.InCooldown(ctx, current.Email, s.now().UTC())
		if err != nil {
			return session.Session{}, err
		}
		if blocked {
			return session.Session{}, ErrEmailInCooldown
		}
	}

	s.sessions.Publish(session.Event{Kind: session.SignedIn, Session: current})
	s.logger.Info().Str("user_id", current.UserID).Msg("session started")
	return current, nil
}

func (s *accountService) SignOut(_ context.Context, current session.Session) error {
	if !current.Valid() {
		return ErrSessionRequired
	}
	s.sessions.Publish(session.Event{Kind: session.SignedOut, Session: current})
	s.logger.Info().Str("user_id", current.UserID).Msg("session ended")
	return nil
}

func (s *accountService) Delete(ctx context.Context, current session.Session) (dto.AccountDeletionResponse, error) {
	if !current.Valid() {
		return dto.AccountDeletionResponse{}, ErrSessionRequired
	}

	spanCtx, span := s.tracer.Start(ctx, "account.delete", trace.WithAttributes(
		attribute.String("account.user_id", current.UserID),
	))
	defer span.End()

	until := s.now().UTC().Add(s.cooldown)
	result, err := s.repo.DeleteAccount(spanCtx, current.UserID, current.Email, until)
	response := dto.AccountDeletionResponse{Success: result.Success, Message: result.Message, UserID: current.UserID}
	if err != nil {
		span.RecordError(err)
		observability.AccountDeletions().WithLabelValues("failed").Inc()
		s.logger.Error().Err(err).Str("user_id", current.UserID).Msg("account deletion failed")
		return response, err
	}
	observability.AccountDeletions().WithLabelValues("success").Inc()

	s.sessions.Publish(session.Event{Kind: session.Deleted, Session: current})
	if err := s.publisher.Publish(spanCtx, events.AccountDeleted, map[string]interface{}{
		"user_id":          current.UserID,
		"goals_deleted":    result.GoalsDeleted,
		"tasks_deleted":    result.TasksDeleted,
		"progress_deleted": result.ProgressRows,
		"has_cooldown":     strings.TrimSpace(current.Email) != "",
	}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish account deletion event")
	}

	s.logger.Info().
		Str("user_id", current.UserID).
		Int64("goals", result.GoalsDeleted).
		Int64("tasks", result.TasksDeleted).
		Time("cooldown_until", until).
		Msg("account deleted")
	return response, nil
}
