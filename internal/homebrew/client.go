package homebrew

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/download-tracker/internal/config"
	apperrors "github.com/Kamar-Folarin/download-tracker/internal/errors"
	"github.com/Kamar-Folarin/download-tracker/internal/fetch"
	"github.com/Kamar-Folarin/download-tracker/internal/models"
)

// Client reads formula analytics from the Homebrew formula API
type Client struct {
	fetcher    *fetch.Fetcher
	formula    string
	formulaURL string
	logger     *logrus.Logger
}

// NewClient creates a client for the configured formula. timeout of zero
// leaves requests unbounded.
func NewClient(cfg *config.HomebrewConfig, logger *logrus.Logger, timeout time.Duration) (*Client, error) {
	formulaURL, err := cfg.FormulaURL()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid Homebrew formula", err)
	}

	return &Client{
		fetcher: fetch.New(logger,
			fetch.WithHTTPClient(&http.Client{Timeout: timeout}),
			fetch.WithHeader("Accept", "application/json"),
		),
		formula:    cfg.Formula,
		formulaURL: formulaURL,
		logger:     logger,
	}, nil
}

// Formula returns the tracked formula name
func (c *Client) Formula() string {
	return c.formula
}

// GetFormula fetches the formula document
func (c *Client) GetFormula(ctx context.Context) (*models.Formula, error) {
	var formula models.Formula
	if err := c.fetcher.GetJSON(ctx, c.formulaURL, &formula); err != nil {
		return nil, err
	}
	return &formula, nil
}

// GetInstallSnapshot fetches the formula and extracts the install row for timestamp
func (c *Client) GetInstallSnapshot(ctx context.Context, timestamp string) (*models.InstallSnapshot, error) {
	formula, err := c.GetFormula(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := formula.InstallSnapshot(c.formula, timestamp)
	if err != nil {
		return nil, apperrors.NewDecodeError("formula response is missing install analytics", err)
	}
	return snapshot, nil
}
