// Package fetch performs the read-only HTTP GET calls against upstream APIs
// and classifies their failures as transport or decode errors.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "github.com/Kamar-Folarin/download-tracker/internal/errors"
)

// maxErrorBody bounds how much of a failed response is kept in the error message
const maxErrorBody = 512

// Fetcher issues GET requests and decodes JSON responses
type Fetcher struct {
	client  *http.Client
	logger  *logrus.Logger
	headers http.Header
}

// Option allows configuring the Fetcher
type Option func(*Fetcher)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = timeout
	}
}

// WithHeader adds a header to every request
func WithHeader(key, value string) Option {
	return func(f *Fetcher) {
		f.headers.Set(key, value)
	}
}

// New creates a Fetcher. Options are applied in order, so WithTimeout must
// follow WithHTTPClient to affect the supplied client.
func New(logger *logrus.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{},
		logger:  logger,
		headers: make(http.Header),
	}
	f.headers.Set("User-Agent", "download-tracker")

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// GetRaw fetches url and returns the response body of a 2xx response
func (f *Fetcher) GetRaw(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewTransportError(fmt.Sprintf("failed to create request for %s", url), 0, err)
	}
	for key, values := range f.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	f.logger.WithField("url", url).Debug("Requesting upstream snapshot")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperrors.NewTransportError(fmt.Sprintf("request to %s failed", url), 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewTransportError(fmt.Sprintf("failed to read response body from %s", url), resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewTransportError(statusMessage(url, resp.StatusCode, body), resp.StatusCode, nil)
	}

	f.logger.WithFields(logrus.Fields{
		"url":    url,
		"status": resp.StatusCode,
		"bytes":  len(body),
	}).Debug("Received upstream snapshot")

	return body, nil
}

// GetJSON fetches url and decodes the body into out
func (f *Fetcher) GetJSON(ctx context.Context, url string, out interface{}) error {
	body, err := f.GetRaw(ctx, url)
	if err != nil {
		return err
	}
	return Decode(url, body, out)
}

// Decode unmarshals body into out, reporting failures as decode errors
func Decode(source string, body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewDecodeError(fmt.Sprintf("failed to decode response from %s", source), err)
	}
	return nil
}

func statusMessage(url string, status int, body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	msg := fmt.Sprintf("unexpected response from %s: %s", url, string(body))
	switch status {
	case http.StatusUnauthorized:
		msg += " (credentials rejected; check GITHUB_TOKEN)"
	case http.StatusForbidden:
		msg += " (forbidden or rate limited; a valid GITHUB_TOKEN raises the limit)"
	}
	return msg
}
