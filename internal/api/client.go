package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kickabout/kickabout-cli/internal/errors"
	"github.com/kickabout/kickabout-cli/internal/log"
)

// Client is the event-coordination API client
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token  string
	logger *log.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.HTTPClient = httpClient
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new API client for the given base URL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetToken sets the bearer token attached to authenticated requests
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the currently configured bearer token
func (c *Client) Token() string {
	return c.token
}

// requireToken guards endpoints that need a session
func (c *Client) requireToken() error {
	if c.token == "" {
		return errors.NewAuthRequiredError()
	}
	return nil
}

// doRequest performs an HTTP request against the API.
// Transport failures are mapped to the NET-001 taxonomy entry so raw
// net/http errors never escape this package.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug("api request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Debug("api transport failure", "path", path, "request_id", requestID)
		return nil, errors.NewNetworkFailureError(err)
	}

	return resp, nil
}

// errorResponse is the error envelope the backend uses for non-2xx responses
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// parseAuthedResponse is parseResponse for bearer-authenticated endpoints,
// where a 401/403 means the token itself was rejected.
func parseAuthedResponse(resp *http.Response, target interface{}) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		return errors.NewAuthRequiredError()
	}
	return parseResponse(resp, target)
}

// parseResponse maps the response onto target, translating non-2xx
// statuses into the error taxonomy. The server-supplied message is
// surfaced verbatim for RemoteRejected errors. A 401 here stays a
// RemoteRejected: on unauthenticated endpoints (login) it carries the
// server's own message, not a token problem.
func parseResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)

		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil {
			if errResp.Message != "" {
				return errors.NewRemoteRejectedError(errResp.Message, resp.StatusCode)
			}
			if errResp.Error != "" {
				return errors.NewRemoteRejectedError(errResp.Error, resp.StatusCode)
			}
		}

		return errors.NewRemoteRejectedError(
			fmt.Sprintf("request failed with status %d", resp.StatusCode), resp.StatusCode)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return errors.NewDecodeFailedError(err)
		}
	}

	return nil
}
