package handler_test

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/handler"
	"github.com/noah-isme/studypath-api/internal/service"
)

var errUnexpected = errors.New("database unavailable")

func newImportApp(svc *stubImportService, limiter fiber.Handler) *fiber.App {
	app := fiber.New()
	handler.NewImportHandler(svc, limiter, zerolog.Nop()).Register(app.Group("/api/v1/roadmaps", withSession("user-1")))
	return app
}

func TestImportHandlerImportsRawJSON(t *testing.T) {
	svc := &stubImportService{outcome: dto.ImportOutcome{
		RoadmapType:  "two_weeks",
		Title:        "Two Weeks",
		WeeksCreated: 2,
		TasksCreated: 3,
		Warnings:     []string{"Week 1: No references provided"},
	}}
	app := newImportApp(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/roadmaps/import", strings.NewReader(`{"title":"Two Weeks"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body := decode(t, resp)
	requireMatchesSchema(t, "import_outcome.schema.json", body)
	require.Equal(t, "user-1", svc.lastUser)
	require.JSONEq(t, `{"title":"Two Weeks"}`, string(svc.lastBody))
}

func TestImportHandlerImportsMultipartFile(t *testing.T) {
	svc := &stubImportService{outcome: dto.ImportOutcome{RoadmapType: "x", Warnings: []string{}}}
	app := newImportApp(svc, nil)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "roadmap.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(`{"title":"X"}`))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/roadmaps/import", &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "roadmap.json", svc.lastFile)
	require.Equal(t, `{"title":"X"}`, string(svc.lastBody))
}

func TestImportHandlerReportsValidationErrors(t *testing.T) {
	svc := &stubImportService{err: &service.ValidationError{
		Errors:   []string{"Week 1: Missing or invalid focus"},
		Warnings: []string{"Week 1: No references provided"},
	}}
	app := newImportApp(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/roadmaps/import", strings.NewReader(`{}`))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	payload, _ := decode(t, resp)
	require.False(t, payload.Success)
	require.Equal(t, []string{"Week 1: Missing or invalid focus"}, payload.Details.Errors)
	require.Equal(t, []string{"Week 1: No references provided"}, payload.Details.Warnings)
}

func TestImportHandlerReportsPartialImport(t *testing.T) {
	svc := &stubImportService{err: &service.ImportError{
		Week:    "2",
		Err:     errUnexpected,
		Outcome: dto.ImportOutcome{RoadmapType: "two_weeks", WeeksCreated: 1, TasksCreated: 2, Warnings: []string{}},
	}}
	app := newImportApp(svc, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/roadmaps/import", strings.NewReader(`{}`)))
	require.NoError(t, err)
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	payload, body := decode(t, resp)
	require.False(t, payload.Success)
	require.Equal(t, "Failed to create week 2: database unavailable", payload.Message)
	requireMatchesSchema(t, "import_outcome.schema.json", body)
}

func TestImportHandlerRejectsUnsupportedFile(t *testing.T) {
	app := newImportApp(&stubImportService{err: service.ErrUnsupportedFile}, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/roadmaps/import", strings.NewReader(`x`)))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestImportHandlerValidateIsDryRun(t *testing.T) {
	svc := &stubImportService{validation: dto.ImportValidationResponse{
		Valid:    false,
		Errors:   []string{"Roadmap must have at least one week"},
		Warnings: []string{},
	}}
	app := newImportApp(svc, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/roadmaps/import/validate", strings.NewReader(`{"weeks":[]}`)))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload, _ := decode(t, resp)
	require.Equal(t, "roadmap has errors", payload.Message)
	require.Empty(t, svc.lastUser)
}

func TestImportHandlerAppliesLimiter(t *testing.T) {
	blocked := func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusTooManyRequests)
	}
	svc := &stubImportService{}
	app := newImportApp(svc, blocked)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/roadmaps/import", strings.NewReader(`{}`)))
	require.NoError(t, err)
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Empty(t, svc.lastUser)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/roadmaps/import/validate", strings.NewReader(`{}`)))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestImportHandlerCustomBuilder(t *testing.T) {
	svc := &stubImportService{details: dto.CustomRoadmapDetailsResponse{Step: 2, Title: "Plan", Description: "desc"}}
	app := newImportApp(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/roadmaps/custom/details", strings.NewReader(`{"title":"Plan","description":"desc"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	svc.outcome = dto.ImportOutcome{RoadmapType: "custom", WeeksCreated: 1, TasksCreated: 1, Warnings: []string{}}
	req = httptest.NewRequest(http.MethodPost, "/api/v1/roadmaps/custom", strings.NewReader(`{"title":"Plan","description":"desc","weeks":[{"week_number":"1"}]}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "user-1", svc.lastUser)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/roadmaps/custom", strings.NewReader(`not json`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
