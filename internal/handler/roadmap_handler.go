package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/service"
	"github.com/noah-isme/studypath-api/internal/utils"
)

// RoadmapHandler exposes the predefined catalog and per-user roadmap endpoints.
type RoadmapHandler struct {
	service  service.RoadmapService
	location *time.Location
	logger   zerolog.Logger
}

// NewRoadmapHandler constructs a roadmap handler. location is the default
// calendar for streaks when the request names none.
func NewRoadmapHandler(service service.RoadmapService, location *time.Location, logger zerolog.Logger) *RoadmapHandler {
	return &RoadmapHandler{
		service:  service,
		location: location,
		logger:   logger.With().Str("component", "roadmap_handler").Logger(),
	}
}

// RegisterCatalog wires the public catalog listing.
func (h *RoadmapHandler) RegisterCatalog(router fiber.Router) {
	router.Get("", h.catalog)
}

// Register wires roadmap routes.
func (h *RoadmapHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("/catalog/:type", h.start)
	router.Get("/:type", h.detail)
	router.Delete("/:type", h.delete)
}

func (h *RoadmapHandler) catalog(c *fiber.Ctx) error {
	entries := h.service.Catalog()
	return utils.OK(c, entries, "catalog retrieved", fiber.Map{"total": len(entries)})
}

func (h *RoadmapHandler) list(c *fiber.Ctx) error {
	current, _ := currentSession(c)
	summaries, err := h.service.List(c.UserContext(), current.UserID)
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch roadmaps")
	}
	return utils.OK(c, summaries, "roadmaps retrieved", fiber.Map{"total": len(summaries)})
}

func (h *RoadmapHandler) detail(c *fiber.Ctx) error {
	current, _ := currentSession(c)
	week, err := parseQueryInt(c, "week")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid week")
	}
	loc, err := resolveLocation(c, h.location)
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch roadmap")
	}

	detail, err := h.service.Detail(c.UserContext(), current.UserID, dto.RoadmapDetailRequest{
		RoadmapType: strings.TrimSpace(c.Params("type")),
		Week:        week,
		Location:    loc,
	})
	if err != nil {
		return respondError(c, h.logger, err, "failed to fetch roadmap")
	}
	return utils.OK(c, detail, "roadmap retrieved", fiber.Map{"timezone": loc.String()})
}

func (h *RoadmapHandler) start(c *fiber.Ctx) error {
	current, _ := currentSession(c)
	outcome, err := h.service.Start(c.UserContext(), current.UserID, strings.TrimSpace(c.Params("type")))
	if err != nil {
		return respondError(c, h.logger, err, "failed to start roadmap")
	}
	return utils.Created(c, outcome, "roadmap started")
}

func (h *RoadmapHandler) delete(c *fiber.Ctx) error {
	current, _ := currentSession(c)
	deleted, err := h.service.Delete(c.UserContext(), current.UserID, strings.TrimSpace(c.Params("type")))
	if err != nil {
		return respondError(c, h.logger, err, "failed to delete roadmap")
	}
	return utils.SendSuccess(c, "roadmap deleted", deleted)
}
