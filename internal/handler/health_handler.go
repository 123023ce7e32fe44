package handler

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/studypath-api/internal/config"
	"github.com/noah-isme/studypath-api/internal/utils"
)

// Dependency states reported by the health endpoint.
const (
	DependencyUp       = "up"
	DependencyDown     = "down"
	DependencyDisabled = "disabled"
)

// DependencyCheck pings a backing service. A nil check marks the dependency
// as disabled rather than down.
type DependencyCheck func(ctx context.Context) error

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Service      string            `json:"service"`
	Environment  string            `json:"environment"`
	Timezone     string            `json:"timezone"`
	Dependencies map[string]string `json:"dependencies"`
}

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports application health along with the reachability of
// postgres, redis and nats. Any dependency that is down turns the response
// into a 503 with status "degraded".
func HealthCheck(cfg config.Config, checks map[string]DependencyCheck) fiber.Handler {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
		defer cancel()

		payload := HealthResponse{
			Status:       "ok",
			Timestamp:    time.Now().UTC(),
			Service:      cfg.AppName,
			Environment:  cfg.AppEnv,
			Timezone:     cfg.AppTimezone,
			Dependencies: make(map[string]string, len(names)),
		}

		for _, name := range names {
			check := checks[name]
			switch {
			case check == nil:
				payload.Dependencies[name] = DependencyDisabled
			case check(ctx) != nil:
				payload.Dependencies[name] = DependencyDown
				payload.Status = "degraded"
			default:
				payload.Dependencies[name] = DependencyUp
			}
		}

		if payload.Status != "ok" {
			return utils.FailWithData(c, fiber.StatusServiceUnavailable, "service degraded", payload)
		}
		return utils.SendSuccess(c, "service healthy", payload)
	}
}
