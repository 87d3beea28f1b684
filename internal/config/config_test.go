package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chtemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chtemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 10.0, cfg.Server.RateLimitRPS, 0.001)
	assert.Equal(t, 20, cfg.Server.RateLimitBurst)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "data/vehicles.csv", cfg.Data.VehiclesPath)
	assert.Equal(t, "data/lenders.csv", cfg.Data.LendersPath)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.Model)
	assert.Empty(t, cfg.Anthropic.Key)
	assert.Equal(t, 30, cfg.Advisor.TimeoutSecs)
	assert.Equal(t, 30, cfg.Session.TTLMinutes)
}

func TestLoadFromYAML(t *testing.T) {
	chtemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
data:
  lenders_path: /srv/data/lenders.csv
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/srv/data/lenders.csv", cfg.Data.LendersPath)
	// Defaults still apply for unset values
	assert.Equal(t, "data/vehicles.csv", cfg.Data.VehiclesPath)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chtemp(t)

	yaml := `
log:
  level: debug
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("FINADVISOR_LOG_LEVEL", "warn")
	t.Setenv("FINADVISOR_ANTHROPIC_KEY", "sk-ant-test")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "sk-ant-test", cfg.Anthropic.Key)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chtemp(t)

	t.Setenv("FINADVISOR_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func validDefaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.RateLimitRPS = 10
	cfg.Server.RateLimitBurst = 20
	cfg.Advisor.TimeoutSecs = 30
	cfg.Session.TTLMinutes = 30
	return cfg
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validDefaults().Validate())
}

func TestValidate_MissingAnthropicKeyIsFine(t *testing.T) {
	cfg := validDefaults()
	cfg.Anthropic.Key = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidate_BadValues(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")

	cfg = validDefaults()
	cfg.Advisor.TimeoutSecs = 0
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "advisor.timeout_secs")

	cfg = validDefaults()
	cfg.Session.TTLMinutes = -1
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "session.ttl_minutes")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
