package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/service"
	"github.com/noah-isme/studypath-api/internal/utils"
)

// GoalHandler exposes the My Goals endpoints.
type GoalHandler struct {
	service service.GoalService
	logger  zerolog.Logger
}

// NewGoalHandler constructs a goal handler.
func NewGoalHandler(service service.GoalService, logger zerolog.Logger) *GoalHandler {
	return &GoalHandler{
		service: service,
		logger:  logger.With().Str("component", "goal_handler").Logger(),
	}
}

// Register wires goal routes.
func (h *GoalHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Delete("/:id", h.delete)
}

func (h *GoalHandler) list(c *fiber.Ctx) error {
	current, _ := currentSession(c)
	req := dto.GoalListRequest{
		Search:      c.Query("search"),
		RoadmapType: c.Query("roadmap"),
		Status:      strings.TrimSpace(c.Query("status")),
		Sort:        strings.TrimSpace(c.Query("sort")),
	}

	result, err := h.service.List(c.UserContext(), current.UserID, req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch goals")
	}

	meta := fiber.Map{
		"counts":  result.Counts,
		"filters": result.Filters,
	}
	return utils.OK(c, result.Items, "goals retrieved", meta)
}

func (h *GoalHandler) create(c *fiber.Ctx) error {
	current, _ := currentSession(c)

	var req dto.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	goal, err := h.service.Create(c.UserContext(), current.UserID, req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create goal")
	}
	return utils.Created(c, goal, "goal created")
}

func (h *GoalHandler) delete(c *fiber.Ctx) error {
	current, _ := currentSession(c)
	deleted, err := h.service.Delete(c.UserContext(), current.UserID, strings.TrimSpace(c.Params("id")))
	if err != nil {
		return respondError(c, h.logger, err, "failed to delete goal")
	}
	return utils.SendSuccess(c, "goal deleted", deleted)
}
