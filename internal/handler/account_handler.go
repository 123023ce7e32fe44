package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/service"
	"github.com/noah-isme/studypath-api/internal/utils"
)

// AccountHandler exposes signup checks, session lifecycle and account deletion.
type AccountHandler struct {
	service service.AccountService
	logger  zerolog.Logger
}

// NewAccountHandler constructs an account handler.
func NewAccountHandler(service service.AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger.With().Str("component", "account_handler").Logger(),
	}
}

// RegisterPublic wires the unauthenticated auth helpers.
func (h *AccountHandler) RegisterPublic(router fiber.Router) {
	router.Get("/cooldown", h.cooldown)
	router.Post("/signup-check", h.signupCheck)
}

// RegisterSession wires session lifecycle routes behind guards.
func (h *AccountHandler) RegisterSession(router fiber.Router, guards ...fiber.Handler) {
	router.Post("/session", chain(guards, h.signIn)...)
	router.Post("/signout", chain(guards, h.signOut)...)
}

func chain(guards []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	handlers := make([]fiber.Handler, 0, len(guards)+1)
	handlers = append(handlers, guards...)
	return append(handlers, handler)
}

// Register wires account routes; the group must be authenticated.
func (h *AccountHandler) Register(router fiber.Router) {
	router.Delete("", h.delete)
}

func (h *AccountHandler) cooldown(c *fiber.Ctx) error {
	status, err := h.service.CooldownStatus(c.UserContext(), c.Query("email"))
	if err != nil {
		return respondError(c, h.logger, err, "failed to check email")
	}
	return utils.SendSuccess(c, "cooldown checked", status)
}

func (h *AccountHandler) signupCheck(c *fiber.Ctx) error {
	var req dto.SignupCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.SignupCheck(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to check signup")
	}
	return utils.SendSuccess(c, "signup allowed", result)
}

func (h *AccountHandler) signIn(c *fiber.Ctx) error {
	current, _ := currentSession(c)
	started, err := h.service.SignIn(c.UserContext(), current)
	if err != nil {
		return respondError(c, h.logger, err, "failed to start session")
	}
	return utils.SendSuccess(c, "session started", started)
}

func (h *AccountHandler) signOut(c *fiber.Ctx) error {
	current, _ := currentSession(c)
	if err := h.service.SignOut(c.UserContext(), current); err != nil {
		return respondError(c, h.logger, err, "failed to end session")
	}
	return utils.SendSuccess(c, "signed out", fiber.Map{"user_id": current.UserID})
}

func (h *AccountHandler) delete(c *fiber.Ctx) error {
	current, _ := currentSession(c)
	result, err := h.service.Delete(c.UserContext(), current)
	if errors.Is(err, service.ErrSessionRequired) {
		return respondError(c, h.logger, err, "failed to delete account")
	}
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Str("user_id", current.UserID).Msg("account deletion failed")
		return utils.FailWithData(c, fiber.StatusInternalServerError, "Account deletion failed", dto.AccountDeletionResponse{
			Success: false,
			Message: "Account deletion failed",
			UserID:  current.UserID,
		})
	}
	return utils.SendSuccess(c, result.Message, result)
}
