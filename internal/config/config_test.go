package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := fromEnv()

	assert.Equal(t, int32(DefaultPort), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.ReadOnly.Enabled)
	assert.Equal(t, 90, cfg.Audit.RetentionDays)
	assert.Equal(t, "0 3 * * *", cfg.Audit.CleanupSchedule)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, float64(10), cfg.RateLimit.RequestsPerSecond)
	assert.Empty(t, cfg.CORS.Origins)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/academia")
	t.Setenv("READ_ONLY", "true")
	t.Setenv("AUDIT_RETENTION_DAYS", "7")
	t.Setenv("TASK_RELEASE_AFTER", "2m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("CORS_ORIGINS", "https://a.example.org, https://b.example.org,")

	cfg := fromEnv()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/academia", cfg.Database.URL)
	assert.True(t, cfg.ReadOnly.Enabled)
	assert.Equal(t, 7, cfg.Audit.RetentionDays)
	assert.Equal(t, 2*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.CORS.Origins)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL=debug\nHOST=127.0.0.1\n"), 0o600))

	t.Setenv("HOST", "10.0.0.1")
	// Registers LOG_LEVEL for restoration once the test ends.
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")

	loadEnvFile(path)
	cfg := fromEnv()

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "10.0.0.1", cfg.HTTP.Host, "existing variables win over the file")
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NotPanics(t, func() {
		loadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	})
}
