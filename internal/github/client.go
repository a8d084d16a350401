package github

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/Kamar-Folarin/download-tracker/internal/config"
	apperrors "github.com/Kamar-Folarin/download-tracker/internal/errors"
	"github.com/Kamar-Folarin/download-tracker/internal/fetch"
	"github.com/Kamar-Folarin/download-tracker/internal/models"
)

// GitHubClient reads the release list of one repository
type GitHubClient struct {
	fetcher     *fetch.Fetcher
	releasesURL string
	logger      *logrus.Logger
}

type clientOptions struct {
	timeout time.Duration
	base    *http.Client
}

// ClientOption allows configuring the GitHub client
type ClientOption func(*clientOptions)

// WithTimeout bounds each API request
func WithTimeout(timeout time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithBaseHTTPClient sets the client whose transport carries the requests
func WithBaseHTTPClient(client *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.base = client
	}
}

// NewGitHubClient creates a client for the configured repository. When a
// token is configured every request carries it as a bearer credential.
func NewGitHubClient(cfg *config.GitHubConfig, logger *logrus.Logger, opts ...ClientOption) (*GitHubClient, error) {
	releasesURL, err := cfg.ReleasesURL()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid GitHub repository", err)
	}

	o := &clientOptions{base: &http.Client{}}
	for _, opt := range opts {
		opt(o)
	}

	httpClient := o.base
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: cfg.Token},
		)
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, o.base)
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		logger.Debug("No GitHub token configured, querying releases unauthenticated")
	}
	httpClient.Timeout = o.timeout

	return &GitHubClient{
		fetcher: fetch.New(logger,
			fetch.WithHTTPClient(httpClient),
			fetch.WithHeader("Accept", "application/vnd.github+json"),
			fetch.WithHeader("X-GitHub-Api-Version", "2022-11-28"),
		),
		releasesURL: releasesURL,
		logger:      logger,
	}, nil
}

// ListReleases fetches the release list. Each release keeps its raw JSON
// object so it can be archived with every upstream field intact.
func (c *GitHubClient) ListReleases(ctx context.Context) ([]models.Release, error) {
	body, err := c.fetcher.GetRaw(ctx, c.releasesURL)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := fetch.Decode(c.releasesURL, body, &items); err != nil {
		return nil, err
	}

	releases := make([]models.Release, 0, len(items))
	for _, item := range items {
		var release models.Release
		if err := fetch.Decode(c.releasesURL, item, &release); err != nil {
			return nil, err
		}
		release.Raw = item
		releases = append(releases, release)
	}

	c.logger.WithFields(logrus.Fields{
		"url":      c.releasesURL,
		"releases": len(releases),
	}).Info("Fetched GitHub releases")

	return releases, nil
}
