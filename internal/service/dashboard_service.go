package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/studypath-api/internal/dto"
	"github.com/noah-isme/studypath-api/internal/observability"
	"github.com/noah-isme/studypath-api/internal/progress"
	"github.com/noah-isme/studypath-api/internal/repository"
)

// DashboardInvalidator drops cached dashboards after a user's rows change.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context, string) {}

// DashboardService aggregates every roadmap of a user.
type DashboardService interface {
	DashboardInvalidator
	Get(ctx context.Context, userID string, loc *time.Location) (dto.DashboardResponse, error)
}

type dashboardService struct {
	goals    repository.WeeklyGoalRepository
	tasks    repository.TaskRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewDashboardService builds the dashboard aggregator. A nil cache disables caching.
func NewDashboardService(goals repository.WeeklyGoalRepository, tasks repository.TaskRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &dashboardService{
		goals:    goals,
		tasks:    tasks,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		now:      time.Now,
	}
}

func dashboardCacheKey(userID, timezone string) string {
	return fmt.Sprintf("dashboard:v1:%s:%s", userID, timezone)
}

// dashboardIndexKey names the set of cached dashboard keys for a user.
func dashboardIndexKey(userID string) string {
	return fmt.Sprintf("dashboard-index:v1:%s", userID)
}

func (s *dashboardService) Get(ctx context.Context, userID string, loc *time.Location) (dto.DashboardResponse, error) {
	if loc == nil {
		loc = time.UTC
	}
	cacheKey := dashboardCacheKey(userID, loc.String())

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				observability.DashboardCache().WithLabelValues("hit").Inc()
				s.logger.Debug().Str("user_id", userID).Msg("dashboard cache hit")
				response.CacheHit = true
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}
	observability.DashboardCache().WithLabelValues("miss").Inc()

	goals, err := s.goals.List(ctx, userID, repository.WeeklyGoalFilter{})
	if err != nil {
		return dto.DashboardResponse{}, err
	}
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	now := s.now().In(loc)
	response := dto.DashboardResponse{
		Stats:       progress.OverallStats(goals, tasks, now),
		Roadmaps:    progress.Summaries(goals, tasks),
		Charts:      progress.BuildCharts(progress.Weeks(progress.SortWeeks(goals), tasks)),
		Timezone:    loc.String(),
		GeneratedAt: now,
	}

	if s.cache != nil {
		payload, err := json.Marshal(response)
		if err == nil {
			indexKey := dashboardIndexKey(userID)
			_, err := s.cache.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, cacheKey, payload, s.cacheTTL)
				pipe.SAdd(ctx, indexKey, cacheKey)
				pipe.Expire(ctx, indexKey, s.cacheTTL)
				return nil
			})
			if err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}

// Invalidate removes every cached dashboard of userID across timezones.
func (s *dashboardService) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil || userID == "" {
		return
	}

	indexKey := dashboardIndexKey(userID)
	keys, err := s.cache.SMembers(ctx, indexKey).Result()
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to read dashboard cache index")
		return
	}
	if err := s.cache.Del(ctx, append(keys, indexKey)...).Err(); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate dashboard cache")
	}
}
