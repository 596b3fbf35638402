package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "https://grid-india.in/en/reports/daily-psp-report", cfg.PortalURL)
	assert.True(t, cfg.Headless)
	assert.True(t, cfg.InsecureSkipVerify)
	assert.Equal(t, 30*time.Second, cfg.ElementTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 60*time.Second, cfg.DownloadTimeout)
	assert.Equal(t, 1, cfg.DownloadRetries)
	assert.Equal(t, 2023, cfg.FirstFinancialYear)
	assert.Equal(t, "MOP_E", cfg.ReportSheet)
	assert.Equal(t, 5, cfg.ReportFirstRow)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MAX_PAGES", "3")
	t.Setenv("SETTLE_TIMEOUT", "5s")
	t.Setenv("HEADLESS", "false")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 3, cfg.MaxPages)
	assert.Equal(t, 5*time.Second, cfg.SettleTimeout)
	assert.False(t, cfg.Headless)
}

func TestLoadEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("REDIS_ADDR=localhost:6379\nREPORT_SHEET=MOP_F\n"), 0o600))

	cfg, err := load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "MOP_F", cfg.ReportSheet)
}

func TestLoadRejectsMalformedEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SERVER_PORT=9090\nnot a valid line\n"), 0o600))

	_, err := load(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), envFile)
}
