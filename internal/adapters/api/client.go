// Package api is the authenticated request layer for the admin backend. A
// Client executes typed requests against one base URL, attaches the current
// bearer token, and transparently recovers from an expired token by joining
// the Authenticator's single-flight refresh and retrying exactly once.
package api

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

	"github.com/google/uuid"

	"github.com/bnema/rank-admin-cli/internal/ports"
)

const maxResponseBytes = 1 << 20

type Client struct {
	baseURL        string
	httpClient     *http.Client
	auth           *Authenticator
	logger         ports.Logger
	requestTimeout time.Duration
}

type ClientOption func(*Client)

func WithLogger(logger ports.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

func WithRequestTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.requestTimeout = timeout }
}

func NewClient(baseURL string, httpClient *http.Client, auth *Authenticator, opts ...ClientOption) (*Client, error) {
	normalized, err := normalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &Client{
		baseURL:        normalized,
		httpClient:     httpClient,
		auth:           auth,
		logger:         ports.NopLogger{},
		requestTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
}

// do executes one logical request. A 401 on a non-auth endpoint triggers the
// refresh-and-retry cycle; the caller sees a single outcome either way.
func (c *Client) do(ctx context.Context, req request, out any) error {
	token := c.auth.Token()

	status, payload, err := c.send(ctx, req, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !refreshExempt(req.path) {
		refreshed, refreshErr := c.auth.RefreshAccessToken(ctx)
		if refreshErr != nil {
			return refreshErr
		}

		c.logger.Debug(ctx, "retrying request after token refresh", "method", req.method, "path", req.path)
		status, payload, err = c.send(ctx, req, refreshed)
		if err != nil {
			return err
		}
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return newStatusError(status, payload)
	}

	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.method, req.path, err)
	}

	return nil
}

func (c *Client) send(ctx context.Context, req request, token string) (int, []byte, error) {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var reader io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode %s %s body: %w", req.method, req.path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	requestCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.requestTimeout > 0 {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(requestCtx, req.method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("create %s %s request: %w", req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-Id", requestID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read %s %s response: %w", req.method, req.path, err)
	}

	c.logger.Debug(ctx, "request completed",
		"method", req.method, "path", req.path, "status", resp.StatusCode, "request_id", requestID)

	return resp.StatusCode, payload, nil
}

// refreshExempt marks the auth endpoints that must never trigger a nested
// refresh cycle; a 401 from these is terminal for the request.
func refreshExempt(path string) bool {
	switch path {
	case loginPath, registerPath, refreshPath, logoutPath:
		return true
	default:
		return false
	}
}

func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var out T
	err := c.do(ctx, request{method: http.MethodGet, path: path, query: query}, &out)
	return out, err
}

func postJSON[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	err := c.do(ctx, request{method: http.MethodPost, path: path, body: body}, &out)
	return out, err
}

func patchJSON[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	err := c.do(ctx, request{method: http.MethodPatch, path: path, body: body}, &out)
	return out, err
}

func deleteJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.do(ctx, request{method: http.MethodDelete, path: path}, &out)
	return out, err
}

func normalizeBaseURL(baseURL string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return "", errors.New("api base url is required")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	return trimmed, nil
}
