package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Jakarta", cfg.Timezone)
	assert.Equal(t, StateBackendFile, cfg.State.Backend)
	assert.Equal(t, "pentadosen", cfg.State.KeyPrefix)
	assert.Equal(t, 7, cfg.Notifications.HorizonDays)
	assert.Equal(t, int64(10*1024*1024), cfg.Uploads.MaxFileSizeBytes)
	assert.Equal(t, []string{".pdf", ".docx"}, cfg.Uploads.AllowedExtensions)
	assert.Equal(t, time.Duration(0), cfg.Uploads.SimulatedLatency)
	assert.Equal(t, time.Hour, cfg.Exports.SignedURLTTL)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("STATE_BACKEND", "Redis")
	t.Setenv("NOTIFICATION_HORIZON_DAYS", "14")
	t.Setenv("SIMULATED_LATENCY", "250ms")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StateBackendRedis, cfg.State.Backend)
	assert.Equal(t, 14, cfg.Notifications.HorizonDays)
	assert.Equal(t, 250*time.Millisecond, cfg.Uploads.SimulatedLatency)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("soon", time.Minute))
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Minute))
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
