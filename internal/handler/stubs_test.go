package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studypath-api/internal/catalog"
	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/middleware"
	"github.com/noah-isme/studypath-api/internal/progress"
	"github.com/noah-isme/studypath-api/internal/session"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Details struct {
		Errors   []string `json:"errors"`
		Warnings []string `json:"warnings"`
	} `json:"details"`
}

func withSession(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := session.Session{UserID: userID, Email: userID + "@example.com"}
		c.Locals(middleware.SessionLocalKey, s)
		c.SetUserContext(session.NewContext(c.UserContext(), s))
		return c.Next()
	}
}

func decode(t *testing.T, resp *http.Response) (envelope, []byte) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload envelope
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload, body
}

type stubRoadmapService struct {
	entries   []catalog.Entry
	summaries []progress.RoadmapProgress
	detail    dto.RoadmapDetailResponse
	outcome   dto.ImportOutcome
	deleted   dto.RoadmapDeleteResponse
	err       error
	lastReq   *dto.RoadmapDetailRequest
}

func (s *stubRoadmapService) Catalog() []catalog.Entry { return s.entries }

func (s *stubRoadmapService) List(context.Context, string) ([]progress.RoadmapProgress, error) {
	return s.summaries, s.err
}

func (s *stubRoadmapService) Detail(_ context.Context, _ string, req dto.RoadmapDetailRequest) (dto.RoadmapDetailResponse, error) {
	s.lastReq = &req
	return s.detail, s.err
}

func (s *stubRoadmapService) Start(context.Context, string, string) (dto.ImportOutcome, error) {
	return s.outcome, s.err
}

func (s *stubRoadmapService) Delete(context.Context, string, string) (dto.RoadmapDeleteResponse, error) {
	return s.deleted, s.err
}

type stubImportService struct {
	validation dto.ImportValidationResponse
	outcome    dto.ImportOutcome
	details    dto.CustomRoadmapDetailsResponse
	err        error
	lastFile   string
	lastBody   []byte
	lastUser   string
}

func (s *stubImportService) Validate(_ context.Context, raw []byte) dto.ImportValidationResponse {
	s.lastBody = raw
	return s.validation
}

func (s *stubImportService) ImportJSON(_ context.Context, userID string, raw []byte) (dto.ImportOutcome, error) {
	s.lastUser = userID
	s.lastBody = raw
	return s.outcome, s.err
}

func (s *stubImportService) ImportFile(_ context.Context, userID, filename string, data []byte) (dto.ImportOutcome, error) {
	s.lastUser = userID
	s.lastFile = filename
	s.lastBody = data
	return s.outcome, s.err
}

func (s *stubImportService) CheckDetails(dto.CustomRoadmapDetailsRequest) (dto.CustomRoadmapDetailsResponse, error) {
	return s.details, s.err
}

func (s *stubImportService) SubmitCustom(_ context.Context, userID string, _ dto.CustomRoadmapRequest) (dto.ImportOutcome, error) {
	s.lastUser = userID
	return s.outcome, s.err
}

type stubGoalService struct {
	list    dto.GoalListResponse
	goal    dto.WeeklyGoalResponse
	deleted dto.GoalDeleteResponse
	err     error
	lastReq dto.GoalListRequest
}

func (s *stubGoalService) List(_ context.Context, _ string, req dto.GoalListRequest) (dto.GoalListResponse, error) {
	s.lastReq = req
	return s.list, s.err
}

func (s *stubGoalService) Create(context.Context, string, dto.CreateGoalRequest) (dto.WeeklyGoalResponse, error) {
	return s.goal, s.err
}

func (s *stubGoalService) Delete(context.Context, string, string) (dto.GoalDeleteResponse, error) {
	return s.deleted, s.err
}

type stubTaskService struct {
	result    dto.ToggleTaskResponse
	err       error
	completed *bool
}

func (s *stubTaskService) Toggle(_ context.Context, _, _ string, completed bool) (dto.ToggleTaskResponse, error) {
	s.completed = &completed
	return s.result, s.err
}

type stubDashboardService struct {
	response dto.DashboardResponse
	err      error
	loc      *time.Location
}

func (s *stubDashboardService) Get(_ context.Context, _ string, loc *time.Location) (dto.DashboardResponse, error) {
	s.loc = loc
	return s.response, s.err
}

func (s *stubDashboardService) Invalidate(context.Context, string) {}

type stubAccountService struct {
	cooldown dto.CooldownResponse
	signup   dto.SignupCheckResponse
	deletion dto.AccountDeletionResponse
	err      error
}

func (s *stubAccountService) CooldownStatus(context.Context, string) (dto.CooldownResponse, error) {
	return s.cooldown, s.err
}

func (s *stubAccountService) SignupCheck(context.Context, dto.SignupCheckRequest) (dto.SignupCheckResponse, error) {
	return s.signup, s.err
}

func (s *stubAccountService) SignIn(_ context.Context, current session.Session) (session.Session, error) {
	return current, s.err
}

func (s *stubAccountService) SignOut(context.Context, session.Session) error { return s.err }

func (s *stubAccountService) Delete(context.Context, session.Session) (dto.AccountDeletionResponse, error) {
	return s.deletion, s.err
}
