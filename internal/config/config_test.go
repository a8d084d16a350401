package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"GITHUB_TOKEN", "GITHUB_API_URL", "GITHUB_REPOSITORY", "HOMEBREW_API_URL",
		"HOMEBREW_FORMULA", "DATA_DIR", "HTTP_TIMEOUT_SECONDS", "FAIL_FAST", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.DataDir)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.FailFast)
	assert.Empty(t, cfg.GitHub.Token)
	assert.Equal(t, "info", cfg.Logger.Level)

	releasesURL, err := cfg.GitHub.ReleasesURL()
	require.NoError(t, err)
	assert.Equal(t, "https://api.github.com/repos/macvim-dev/macvim/releases", releasesURL)

	formulaURL, err := cfg.Homebrew.FormulaURL()
	require.NoError(t, err)
	assert.Equal(t, "https://formulae.brew.sh/api/formula/macvim.json", formulaURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "secret")
	t.Setenv("GITHUB_API_URL", "http://localhost:9000/")
	t.Setenv("GITHUB_REPOSITORY", "https://github.com/owner/project")
	t.Setenv("HOMEBREW_FORMULA", "vim")
	t.Setenv("DATA_DIR", "/tmp/stats")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("FAIL_FAST", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.GitHub.Token)
	assert.Equal(t, "/tmp/stats", cfg.DataDir)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.True(t, cfg.FailFast)

	releasesURL, err := cfg.GitHub.ReleasesURL()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/repos/owner/project/releases", releasesURL)

	formulaURL, err := cfg.Homebrew.FormulaURL()
	require.NoError(t, err)
	assert.Equal(t, "https://formulae.brew.sh/api/formula/vim.json", formulaURL)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("timeout", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT_SECONDS", "soon")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("negative timeout", func(t *testing.T) {
		t.Setenv("HTTP_TIMEOUT_SECONDS", "-1")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("fail fast", func(t *testing.T) {
		t.Setenv("FAIL_FAST", "maybe")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestGitHubConfig_InvalidRepository(t *testing.T) {
	cfg := DefaultGitHubConfig()
	cfg.Repository = "not-a-repo"

	_, err := cfg.ReleasesURL()
	assert.Error(t, err)
}

func TestLoggerConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := (&LoggerConfig{Level: "DEBUG", Format: "json"}).NewLogger(&buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("tag", "v1.0").Info("observed release")
	assert.Contains(t, buf.String(), `"tag":"v1.0"`)

	_, err = (&LoggerConfig{Level: "loud", Format: "text"}).NewLogger(&buf)
	assert.Error(t, err)

	_, err = (&LoggerConfig{Level: "info", Format: "xml"}).NewLogger(&buf)
	assert.Error(t, err)
}
