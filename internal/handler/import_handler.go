package handler

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/service"
	"github.com/noah-isme/studypath-api/internal/utils"
)

// ImportHandler accepts JSON roadmap imports and builder submissions.
type ImportHandler struct {
	service service.ImportService
	limiter fiber.Handler
	logger  zerolog.Logger
}

// NewImportHandler constructs an import handler. limiter, when set, guards
// the endpoints that write rows.
func NewImportHandler(service service.ImportService, limiter fiber.Handler, logger zerolog.Logger) *ImportHandler {
	if limiter == nil {
		limiter = func(c *fiber.Ctx) error { return c.Next() }
	}
	return &ImportHandler{
		service: service,
		limiter: limiter,
		logger:  logger.With().Str("component", "import_handler").Logger(),
	}
}

// Register wires import and builder routes.
func (h *ImportHandler) Register(router fiber.Router) {
	router.Post("/import/validate", h.validate)
	router.Post("/import", h.limiter, h.importRoadmap)
	router.Post("/custom/details", h.details)
	router.Post("/custom", h.limiter, h.submitCustom)
}

func (h *ImportHandler) validate(c *fiber.Ctx) error {
	result := h.service.Validate(c.UserContext(), c.Body())
	message := "roadmap is valid"
	if !result.Valid {
		message = "roadmap has errors"
	}
	return utils.SendSuccess(c, message, result)
}

func (h *ImportHandler) importRoadmap(c *fiber.Ctx) error {
	current, _ := currentSession(c)

	var (
		outcome dto.ImportOutcome
		err     error
	)
	if strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		var data []byte
		var filename string
		data, filename, err = readUpload(c)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		outcome, err = h.service.ImportFile(c.UserContext(), current.UserID, filename, data)
	} else {
		outcome, err = h.service.ImportJSON(c.UserContext(), current.UserID, c.Body())
	}
	if err != nil {
		return respondError(c, h.logger, err, "failed to import roadmap")
	}

	return utils.Created(c, outcome, "roadmap imported")
}

func readUpload(c *fiber.Ctx) ([]byte, string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, "", errors.New("file is required")
	}
	if header.Size > service.MaxImportFileSize {
		return nil, "", errors.New("file is too large")
	}

	file, err := header.Open()
	if err != nil {
		return nil, "", errors.New("file could not be read")
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(file, service.MaxImportFileSize+1)); err != nil {
		return nil, "", errors.New("file could not be read")
	}
	return buf.Bytes(), header.Filename, nil
}

func (h *ImportHandler) details(c *fiber.Ctx) error {
	var req dto.CustomRoadmapDetailsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	response, err := h.service.CheckDetails(req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to check roadmap details")
	}
	return utils.SendSuccess(c, "details accepted", response)
}

func (h *ImportHandler) submitCustom(c *fiber.Ctx) error {
	current, _ := currentSession(c)

	var req dto.CustomRoadmapRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	outcome, err := h.service.SubmitCustom(c.UserContext(), current.UserID, req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create roadmap")
	}
	return utils.Created(c, outcome, "roadmap created")
}
