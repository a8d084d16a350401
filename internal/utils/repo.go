package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseRepoURL parses a GitHub repository reference into owner and name.
// Both "owner/name" and "https://github.com/owner/name" forms are accepted.
func ParseRepoURL(repoURL string) (owner, name string, err error) {
	path := strings.TrimSpace(repoURL)
	if strings.Contains(path, "://") {
		u, err := url.Parse(path)
		if err != nil {
			return "", "", err
		}
		path = u.Path
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GitHub repository %q", repoURL)
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
