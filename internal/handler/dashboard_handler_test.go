package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/handler"
	"github.com/noah-isme/studypath-api/internal/models"
	"github.com/noah-isme/studypath-api/internal/progress"
)

func TestDashboardContract(t *testing.T) {
	now := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	goals := []models.WeeklyGoal{
		{ID: "g1", RoadmapType: "qiskit", WeekNumber: "1", UpdatedAt: now},
		{ID: "g2", RoadmapType: "qiskit", WeekNumber: "2", UpdatedAt: now},
	}
	done := models.Task{ID: "t1", WeeklyGoalID: "g1"}
	done.SetCompleted(true, now)
	tasks := []models.Task{done, {ID: "t2", WeeklyGoalID: "g2"}}

	svc := &stubDashboardService{response: dto.DashboardResponse{
		Stats:       progress.OverallStats(goals, tasks, now),
		Roadmaps:    progress.Summaries(goals, tasks),
		Charts:      progress.BuildCharts(progress.Weeks(goals, tasks)),
		Timezone:    "Asia/Jakarta",
		GeneratedAt: now,
	}}

	location, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	app := fiber.New()
	handler.NewDashboardHandler(svc, location, zerolog.Nop()).Register(app.Group("/api/v1/dashboard", withSession("user-1")))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := decode(t, resp)
	requireMatchesSchema(t, "dashboard.schema.json", body)
	require.Equal(t, "Asia/Jakarta", svc.loc.String())
}
