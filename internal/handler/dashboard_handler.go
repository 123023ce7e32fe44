package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/studypath-api/internal/service"
	"github.com/noah-isme/studypath-api/internal/utils"
)

// DashboardHandler exposes the aggregated dashboard endpoint.
type DashboardHandler struct {
	service  service.DashboardService
	location *time.Location
	logger   zerolog.Logger
}

// NewDashboardHandler creates a new handler instance.
func NewDashboardHandler(service service.DashboardService, location *time.Location, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service:  service,
		location: location,
		logger:   logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard endpoint.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("", h.getDashboard)
}

func (h *DashboardHandler) getDashboard(c *fiber.Ctx) error {
	current, _ := currentSession(c)
	loc, err := resolveLocation(c, h.location)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load dashboard")
	}

	dashboard, err := h.service.Get(c.UserContext(), current.UserID, loc)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load dashboard")
	}

	return utils.OK(c, dashboard, "dashboard retrieved", fiber.Map{"cache_hit": dashboard.CacheHit})
}
