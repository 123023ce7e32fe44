package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/studypath-api/internal/catalog"
	"github.com/noah-isme/studypath-api/internal/middleware"
	"github.com/noah-isme/studypath-api/internal/service"
	"github.com/noah-isme/studypath-api/internal/session"
	"github.com/noah-isme/studypath-api/internal/utils"
)

// HeaderTimezone lets clients pick the calendar used for streaks.
const HeaderTimezone = "X-Timezone"

var errInvalidTimezone = errors.New("invalid timezone")

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func currentSession(c *fiber.Ctx) (session.Session, bool) {
	return middleware.SessionFrom(c)
}

// resolveLocation reads ?tz= then the X-Timezone header, falling back to the
// configured zone.
func resolveLocation(c *fiber.Ctx, fallback *time.Location) (*time.Location, error) {
	name := strings.TrimSpace(c.Query("tz"))
	if name == "" {
		name = strings.TrimSpace(c.Get(HeaderTimezone))
	}
	if name == "" {
		if fallback == nil {
			return time.UTC, nil
		}
		return fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errInvalidTimezone, name)
	}
	return loc, nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func fieldErrors(errs validator.ValidationErrors) []string {
	messages := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		field := strings.ToLower(fieldErr.Field())
		switch fieldErr.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, fieldErr.Param()))
		case "min", "max":
			messages = append(messages, fmt.Sprintf("%s must have %s length %s", field, fieldErr.Tag(), fieldErr.Param()))
		case "datetime":
			messages = append(messages, fmt.Sprintf("%s must use the %s format", field, fieldErr.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}
	return messages
}

// respondError maps service errors onto HTTP responses. Unknown errors are
// logged and reported with fallback.
func respondError(c *fiber.Ctx, logger zerolog.Logger, err error, fallback string) error {
	var validationErr *service.ValidationError
	var fieldErrs validator.ValidationErrors
	var importErr *service.ImportError

	switch {
	case errors.As(err, &validationErr):
		return utils.Fail(c, fiber.StatusUnprocessableEntity, "validation failed", fiber.Map{
			"errors":   validationErr.Errors,
			"warnings": nonNilStrings(validationErr.Warnings),
		})
	case errors.As(err, &fieldErrs):
		return utils.Fail(c, fiber.StatusUnprocessableEntity, "validation failed", fiber.Map{
			"errors":   fieldErrors(fieldErrs),
			"warnings": []string{},
		})
	case errors.As(err, &importErr):
		requestLogger(logger, c).Error().Err(importErr.Err).Str("week_number", importErr.Week).Msg("import interrupted")
		return utils.FailWithData(c, fiber.StatusInternalServerError, importErr.Error(), importErr.Outcome)
	case errors.Is(err, errInvalidTimezone):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnsupportedFile):
		return utils.SendError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, service.ErrRoadmapNotFound),
		errors.Is(err, catalog.ErrUnknownRoadmap):
		return utils.SendError(c, fiber.StatusNotFound, "roadmap not found")
	case errors.Is(err, service.ErrWeeklyGoalNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "weekly goal not found")
	case errors.Is(err, service.ErrTaskNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "task not found")
	case errors.Is(err, service.ErrRoadmapAlreadyStarted):
		return utils.SendError(c, fiber.StatusConflict, "roadmap already started")
	case errors.Is(err, service.ErrEmailInCooldown):
		return utils.SendError(c, fiber.StatusConflict, "this email was recently used by a deleted account, please try again later")
	case errors.Is(err, service.ErrSessionRequired):
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	default:
		requestLogger(logger, c).Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}

func nonNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
