package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studypath-api/internal/catalog"
	"github.com/noah-isme/studypath-api/internal/config"
	"github.com/noah-isme/studypath-api/internal/handler"
	"github.com/noah-isme/studypath-api/internal/importer"
	"github.com/noah-isme/studypath-api/internal/middleware"
	"github.com/noah-isme/studypath-api/internal/service"
	"github.com/noah-isme/studypath-api/internal/session"
)

const testSecret = "router-secret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	roadmaps, err := catalog.Load(importer.NewValidator(nil))
	require.NoError(t, err)

	cfg := config.Config{AppName: "StudyPath API", AppEnv: "test", AppTimezone: "UTC"}
	roadmapService := service.NewRoadmapService(nil, nil, roadmaps, nil, nil, zerolog.Nop())

	app := fiber.New()
	Register(app, cfg, Dependencies{
		RoadmapHandler: handler.NewRoadmapHandler(roadmapService, time.UTC, zerolog.Nop()),
		JWTMiddleware:  middleware.JWTProtected(testSecret),
	})
	return app
}

func TestRegisterPublicRoutes(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "StudyPath API", resp.Header.Get("X-Application"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/catalog", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegisterProtectsRoadmaps(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/roadmaps", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := middleware.IssueToken(session.Session{UserID: "user-1"}, testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/roadmaps/catalog/unknown", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterWithoutJWTStillRequiresSession(t *testing.T) {
	app := fiber.New()
	Register(app, config.Config{AppName: "StudyPath API"}, Dependencies{
		GoalHandler: handler.NewGoalHandler(nil, zerolog.Nop()),
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/goals", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
