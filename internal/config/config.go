package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	AppTimezone        string
	CORSAllowOrigins   string
	DatabaseURL        string
	RedisURL           string
	NATSURL            string
	NATSSubjectPrefix  string
	JWTSecret          string
	DashboardCacheTTL  time.Duration
	AccountCooldown    time.Duration
	ImportRateLimitMax int
	RateLimitWindow    time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Location resolves the default timezone used for calendar-day metrics.
func (c Config) Location() *time.Location {
	name := strings.TrimSpace(c.AppTimezone)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("STUDYPATH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "StudyPath API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.timezone", "Local")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("nats.subject_prefix", "studypath")
	v.SetDefault("dashboard.cache_ttl", "2m")
	v.SetDefault("account.cooldown", "168h")
	v.SetDefault("ratelimit.import_max", 5)
	v.SetDefault("ratelimit.window", "1m")

	ttl, err := duration(v, "dashboard.cache_ttl", 2*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}
	cooldown, err := duration(v, "account.cooldown", 168*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid account cooldown: %w", err)
	}
	window, err := duration(v, "ratelimit.window", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		AppTimezone:        v.GetString("app.timezone"),
		CORSAllowOrigins:   v.GetString("cors.allow_origins"),
		DatabaseURL:        v.GetString("database.url"),
		RedisURL:           v.GetString("redis.url"),
		NATSURL:            v.GetString("nats.url"),
		NATSSubjectPrefix:  v.GetString("nats.subject_prefix"),
		JWTSecret:          v.GetString("jwt.secret"),
		DashboardCacheTTL:  ttl,
		AccountCooldown:    cooldown,
		ImportRateLimitMax: v.GetInt("ratelimit.import_max"),
		RateLimitWindow:    window,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}
	if _, err := time.LoadLocation(cfg.AppTimezone); err != nil && !strings.EqualFold(cfg.AppTimezone, "local") {
		return Config{}, fmt.Errorf("invalid app timezone: %w", err)
	}

	if cfg.ImportRateLimitMax <= 0 {
		cfg.ImportRateLimitMax = 5
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
