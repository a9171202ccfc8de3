// Package api is the sole boundary to the remote service. Every server call
// the client makes goes through Client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/puneetsingh210426-hue/ai-interviewer/internal/session"
)

// TokenSource yields the Authorization header for bearer routes.
type TokenSource interface {
	AuthHeader() (string, error)
}

// StatusError is a non-success HTTP response.
type StatusError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Unwrap maps 401 responses onto session.ErrUnauthenticated.
func (e *StatusError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return session.ErrUnauthenticated
	}
	return nil
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.Status >= 500 || e.Status == http.StatusTooManyRequests
}

// RetryPolicy bounds retries of the completion call.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
}

// Client talks to the remote service.
type Client struct {
	baseURL string
	http    *http.Client
	auth    TokenSource
	timeout time.Duration
	retry   RetryPolicy
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetry sets the completion retry policy.
func WithRetry(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for baseURL. auth may be nil when only public
// routes are used.
func New(baseURL string, auth TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		auth:    auth,
		timeout: 30 * time.Second,
		retry:   RetryPolicy{MaxAttempts: 3, InitialInterval: 500 * time.Millisecond},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one call.
type request struct {
	method      string
	path        string
	bearer      bool
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, bearer bool, payload any) (request, error) {
	r := request{method: method, path: path, bearer: bearer}
	if payload == nil {
		return r, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return r, fmt.Errorf("encode %s body: %w", path, err)
	}
	r.body = bytes.NewReader(data)
	r.contentType = "application/json"
	return r, nil
}

// send performs the request and returns the response for the caller to
// consume. Non-2xx statuses become *StatusError.
func (c *Client) send(ctx context.Context, r request) (*http.Response, context.CancelFunc, error) {
	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.New().String()
	req.Header.Set("X-Request-ID", reqID)

	if r.bearer {
		if c.auth == nil {
			cancel()
			return nil, nil, session.ErrUnauthenticated
		}
		header, err := c.auth.AuthHeader()
		if err != nil {
			cancel()
			return nil, nil, err
		}
		req.Header.Set("Authorization", header)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		c.logger.Warn("request failed",
			zap.String("method", r.method), zap.String("path", r.path),
			zap.String("request_id", reqID), zap.Error(err))
		return nil, nil, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	c.logger.Debug("request",
		zap.String("method", r.method), zap.String("path", r.path),
		zap.Int("status", resp.StatusCode), zap.String("request_id", reqID),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer cancel()
		defer resp.Body.Close()
		return nil, nil, statusError(r, resp)
	}
	return resp, cancel, nil
}

func statusError(r request, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Error string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Error
	}
	return &StatusError{Method: r.method, Path: r.path, Status: resp.StatusCode, Message: msg}
}

// do performs r and decodes a JSON response into out (which may be nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	resp, cancel, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer cancel()
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", r.path, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, bearer bool, payload, out any) error {
	r, err := jsonRequest(method, path, bearer, payload)
	if err != nil {
		return err
	}
	return c.do(ctx, r, out)
}

// withRetry runs op under the client's retry policy. Only transport errors
// and temporary statuses are retried.
func (c *Client) withRetry(ctx context.Context, name string, op func() error) error {
	attempts := c.retry.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	eb := backoff.NewExponentialBackOff()
	if c.retry.InitialInterval > 0 {
		eb.InitialInterval = c.retry.InitialInterval
	}
	eb.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(attempts-1)), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return backoff.Permanent(err)
		}
		c.logger.Info("retrying", zap.String("op", name), zap.Int("attempt", attempt), zap.Error(err))
		return err
	}, b)
}

func retryable(err error) bool {
	if errors.Is(err, session.ErrUnauthenticated) || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	return true
}
