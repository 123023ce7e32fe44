package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("STUDYPATH_DATABASE_URL", "postgres://localhost/studypath")
	t.Setenv("STUDYPATH_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "StudyPath API", cfg.AppName)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, 2*time.Minute, cfg.DashboardCacheTTL)
	require.Equal(t, 168*time.Hour, cfg.AccountCooldown)
	require.Equal(t, 5, cfg.ImportRateLimitMax)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.Equal(t, "studypath", cfg.NATSSubjectPrefix)
	require.Equal(t, time.Local, cfg.Location())
	require.False(t, cfg.IsProduction())
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("STUDYPATH_DATABASE_URL", "postgres://localhost/studypath")
	t.Setenv("STUDYPATH_JWT_SECRET", "secret")
	t.Setenv("STUDYPATH_APP_PORT", ":9090")
	t.Setenv("STUDYPATH_APP_TIMEZONE", "Asia/Jakarta")
	t.Setenv("STUDYPATH_DASHBOARD_CACHE_TTL", "30s")
	t.Setenv("STUDYPATH_RATELIMIT_IMPORT_MAX", "2")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, 30*time.Second, cfg.DashboardCacheTTL)
	require.Equal(t, 2, cfg.ImportRateLimitMax)
	require.Equal(t, "Asia/Jakarta", cfg.Location().String())
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("STUDYPATH_DATABASE_URL", "postgres://localhost/studypath")
	t.Setenv("STUDYPATH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("STUDYPATH_DATABASE_URL", "")
	t.Setenv("STUDYPATH_JWT_SECRET", "secret")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("STUDYPATH_DATABASE_URL", "postgres://localhost/studypath")
	t.Setenv("STUDYPATH_JWT_SECRET", "secret")
	t.Setenv("STUDYPATH_ACCOUNT_COOLDOWN", "a week")

	_, err := Load()
	require.ErrorContains(t, err, "account cooldown")
}
