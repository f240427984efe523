// Package backend talks to the account-planning API: it runs research,
// loads an account's roster and divisions, and publishes reviewed results.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ppiankov/scout/internal/model"
	"github.com/ppiankov/scout/internal/util"
	"github.com/ppiankov/scout/internal/worker"
)

const (
	maxResponseBytes = 10 * 1024 * 1024
	maxAttempts      = 3
)

// retrySleep is swapped out in tests
var retrySleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ErrNotFound is returned when the backend answers 404
var ErrNotFound = eris.New("backend: not found")

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("backend: status %d: %s", e.StatusCode, e.Message)
}

// Client is a JSON client for the backend API
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	limiter    *worker.HostLimiter
	logger     *zap.Logger
}

// NewClient creates a client from backend configuration. logger may be nil.
func NewClient(cfg model.BackendConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.APIToken,
		userAgent:  cfg.UserAgent,
		httpClient: util.NewHTTPClient(int(cfg.Timeout.Seconds()), cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		limiter:    worker.NewHostLimiter(cfg.RequestsPerSecond, cfg.Burst),
		logger:     logger,
	}
}

// envelope matches responses shaped {"data": ..., "error": "..."}
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// do sends one request. GETs are retried on transient failures.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	attempts := 1
	if method == http.MethodGet {
		attempts = maxAttempts
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = c.doOnce(ctx, method, path, body, out)
		if err == nil || !isRetryable(err) || attempt == attempts {
			break
		}
		backoff := time.Duration(attempt) * 500 * time.Millisecond
		c.logger.Debug("retrying backend request",
			zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
		if serr := retrySleep(ctx, backoff); serr != nil {
			return eris.Wrap(serr, "backend: retry")
		}
	}
	return err
}

// isRetryable reports whether err is a 5xx, a 429 or a transport failure
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	var transportErr *transportError
	return errors.As(err, &transportErr)
}

type transportError struct{ err error }

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

func (c *Client) doOnce(ctx context.Context, method, path string, body, out any) error {
	endpoint := c.baseURL + path
	if err := c.limiter.Wait(ctx, endpoint); err != nil {
		return eris.Wrap(err, "backend: rate limit")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return eris.Wrap(err, "backend: encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return eris.Wrap(err, "backend: create request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &transportError{eris.Wrapf(err, "backend: %s %s", method, path)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return eris.Wrap(err, "backend: read response")
	}

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)))

	if resp.StatusCode == http.StatusNotFound {
		return eris.Wrapf(ErrNotFound, "%s %s", method, path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env envelope
		if json.Unmarshal(data, &env) == nil {
			apiErr.Message = env.Error
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return decode(data, out)
}

// decode unwraps a {"data": ...} envelope when present
func decode(data []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(data, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		data = env.Data
	}
	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "backend: decode response")
	}
	return nil
}

func accountPath(accountID string, parts ...string) string {
	p := "/api/accounts/" + url.PathEscape(accountID)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}
