package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DataDir     string
	HTTPTimeout time.Duration
	FailFast    bool
	Logger      *LoggerConfig
	GitHub      *GitHubConfig
	Homebrew    *HomebrewConfig
}

func Load() (*Config, error) {
	timeoutSeconds, err := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS: %w", err)
	}
	if timeoutSeconds < 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT_SECONDS: %d is negative", timeoutSeconds)
	}

	failFast, err := strconv.ParseBool(getEnv("FAIL_FAST", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid FAIL_FAST: %w", err)
	}

	github := DefaultGitHubConfig()
	github.Token = os.Getenv("GITHUB_TOKEN")
	github.APIBaseURL = getEnv("GITHUB_API_URL", github.APIBaseURL)
	github.Repository = getEnv("GITHUB_REPOSITORY", github.Repository)

	homebrew := DefaultHomebrewConfig()
	homebrew.APIBaseURL = getEnv("HOMEBREW_API_URL", homebrew.APIBaseURL)
	homebrew.Formula = getEnv("HOMEBREW_FORMULA", homebrew.Formula)

	return &Config{
		DataDir:     getEnv("DATA_DIR", "."),
		HTTPTimeout: time.Duration(timeoutSeconds) * time.Second,
		FailFast:    failFast,
		Logger: &LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		GitHub:   github,
		Homebrew: homebrew,
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
