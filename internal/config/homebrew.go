package config

import (
	"fmt"
	"net/url"
	"strings"
)

// HomebrewConfig holds Homebrew formula analytics configuration
type HomebrewConfig struct {
	APIBaseURL string
	Formula    string
}

// DefaultHomebrewConfig returns the default Homebrew configuration
func DefaultHomebrewConfig() *HomebrewConfig {
	return &HomebrewConfig{
		APIBaseURL: "https://formulae.brew.sh/api",
		Formula:    "macvim",
	}
}

// FormulaURL returns the formula JSON endpoint
func (c *HomebrewConfig) FormulaURL() (string, error) {
	if strings.TrimSpace(c.Formula) == "" {
		return "", fmt.Errorf("formula name cannot be empty")
	}
	return fmt.Sprintf("%s/formula/%s.json", strings.TrimRight(c.APIBaseURL, "/"), url.PathEscape(c.Formula)), nil
}
