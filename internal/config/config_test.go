package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TriColor-Initiatives/minus/internal/game"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"MINUS_PORT", "MINUS_FRONTEND_URL", "MINUS_LOG_LEVEL", "MINUS_LOG_FORMAT", "MINUS_POLICY"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINUS_PORT", "9000")
	t.Setenv("MINUS_POLICY", "beat-lowest")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, game.PolicyBeatLowest, cfg.Policy)
}

func TestLoad_FileDoesNotOverrideEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MINUS_PORT=7000\nMINUS_LOG_FORMAT=json\n"), 0o600))
	t.Setenv("MINUS_PORT", "9000")
	// godotenv only fills variables that are unset, so drop the empty one
	require.NoError(t, os.Unsetenv("MINUS_LOG_FORMAT"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_BadPolicy(t *testing.T) {
	clearEnv(t)
	t.Setenv("MINUS_POLICY", "strict")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "json"

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	cfg.LogLevel = "loud"
	_, err = cfg.NewLogger()
	assert.Error(t, err)

	cfg.LogLevel = "info"
	cfg.LogFormat = "xml"
	_, err = cfg.NewLogger()
	assert.Error(t, err)
}
