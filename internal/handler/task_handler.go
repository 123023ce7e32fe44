package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/service"
	"github.com/noah-isme/studypath-api/internal/utils"
)

// TaskHandler exposes task completion toggles.
type TaskHandler struct {
	service   service.TaskService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewTaskHandler constructs a task handler.
func NewTaskHandler(service service.TaskService, validator *validator.Validate, logger zerolog.Logger) *TaskHandler {
	return &TaskHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "task_handler").Logger(),
	}
}

// Register wires task routes.
func (h *TaskHandler) Register(router fiber.Router) {
	router.Patch("/:id", h.toggle)
}

func (h *TaskHandler) toggle(c *fiber.Ctx) error {
	current, _ := currentSession(c)

	var req dto.ToggleTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return respondError(c, h.logger, err, "failed to update task")
	}

	result, err := h.service.Toggle(c.UserContext(), current.UserID, strings.TrimSpace(c.Params("id")), *req.Completed)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update task")
	}
	return utils.SendSuccess(c, "task updated", result)
}
