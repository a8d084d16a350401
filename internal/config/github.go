package config

import (
	"fmt"
	"strings"

	"github.com/Kamar-Folarin/download-tracker/internal/utils"
)

// GitHubConfig holds GitHub-specific configuration
type GitHubConfig struct {
	// Token is optional; releases are public but unauthenticated calls are rate limited harder
	Token      string
	APIBaseURL string
	Repository string
}

// DefaultGitHubConfig returns the default GitHub configuration
func DefaultGitHubConfig() *GitHubConfig {
	return &GitHubConfig{
		APIBaseURL: "https://api.github.com",
		Repository: "macvim-dev/macvim",
	}
}

// ReleasesURL returns the release list endpoint for the configured repository
func (c *GitHubConfig) ReleasesURL() (string, error) {
	owner, name, err := utils.ParseRepoURL(c.Repository)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/repos/%s/%s/releases", strings.TrimRight(c.APIBaseURL, "/"), owner, name), nil
}
