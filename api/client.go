package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"farmeradmin/logger"
	"farmeradmin/retry"
)

const (
	DEFAULT_TIMEOUT     = 30 * time.Second
	DEFAULT_MAX_RETRIES = 2

	HEADER_REQUEST_ID    = "X-Request-ID"
	HEADER_AUTHORIZATION = "Authorization"
	CONTENT_TYPE_JSON    = "application/json"
)

// TokenSource yields the bearer token for each request. An empty token sends
// no Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client is a thin HTTP client for the platform backend.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	tokens       TokenSource
	logger       logger.Logger
	maxRetries   int
	policy       retry.Policy
	unauthorized func()
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }
func WithTokenSource(ts TokenSource) Option { return func(c *Client) { c.tokens = ts } }
func WithLogger(l logger.Logger) Option { return func(c *Client) { c.logger = l } }

// WithRetry sets how many times idempotent requests are retried and the
// backoff between them.
func WithRetry(maxRetries int, policy retry.Policy) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.policy = policy
	}
}

// WithUnauthorizedHandler registers a hook run whenever the backend answers 401.
func WithUnauthorizedHandler(f func()) Option {
	return func(c *Client) { c.unauthorized = f }
}

// New creates a client rooted at baseURL, which already includes the API
// prefix (for example http://localhost:8000/api/v1).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DEFAULT_TIMEOUT},
		logger:     logger.NewNop(),
		maxRetries: DEFAULT_MAX_RETRIES,
		policy:     retry.Exponential{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
}

func jsonRequest(method, path string, query url.Values, in any) (*request, error) {
	req := &request{method: method, path: path, query: query}
	if in == nil {
		return req, nil
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	req.body = body
	req.contentType = CONTENT_TYPE_JSON
	return req, nil
}

func (r *request) idempotent() bool {
	switch r.method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func retryableStatus(code int) bool {
	return code == http.StatusBadGateway || code == http.StatusServiceUnavailable || code == http.StatusGatewayTimeout
}

// do executes req and returns the 2xx response with its body unread.
// Idempotent requests are retried on 502/503/504 and transport errors.
func (c *Client) do(ctx context.Context, req *request) (*http.Response, error) {
	retries := 0
	if req.idempotent() {
		retries = c.maxRetries
	}
	manager := retry.NewManager(retries > 0, retries, c.policy, c.logger)
	requestID := uuid.NewString()
	urlStr := c.endpoint(req.path, req.query)

	for {
		c.logger.Debug("http %s %s attempt %d (request %s)", req.method, urlStr, manager.GetAttempt()+1, requestID)

		resp, err := c.attempt(ctx, req, urlStr, requestID)
		if err == nil {
			if !retryableStatus(resp.StatusCode) || !manager.ShouldReconnect() {
				return c.check(resp)
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			err = fmt.Errorf("retryable status: %d", resp.StatusCode)
		} else {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !manager.ShouldReconnect() {
				return nil, err
			}
		}

		c.logger.Warn("%s %s failed: %v", req.method, req.path, err)
		if waitErr := manager.Wait(ctx); waitErr != nil {
			return nil, waitErr
		}
	}
}

func (c *Client) attempt(ctx context.Context, req *request, urlStr, requestID string) (*http.Response, error) {
	var bodyReader io.Reader
	if req.body != nil {
		bodyReader = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, urlStr, bodyReader)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Accept", CONTENT_TYPE_JSON)
	httpReq.Header.Set(HEADER_REQUEST_ID, requestID)
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set(HEADER_AUTHORIZATION, "Bearer "+token)
		}
	}

	return c.httpClient.Do(httpReq)
}

func (c *Client) check(resp *http.Response) (*http.Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	apiErr := readAPIError(resp)

	if resp.StatusCode == http.StatusUnauthorized && c.unauthorized != nil {
		c.unauthorized()
	}

	c.logger.Error("%s %s: %v", apiErr.Method, apiErr.Path, apiErr)
	return nil, apiErr
}

// call sends req and decodes a JSON body into out when out is non-nil.
func (c *Client) call(ctx context.Context, req *request, out any) error {
	resp, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", req.method, req.path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, &request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, in, out any) error {
	req, err := jsonRequest(method, path, query, in)
	if err != nil {
		return err
	}
	return c.call(ctx, req, out)
}

// Download is a binary export.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (c *Client) download(ctx context.Context, path string, query url.Values) (*Download, error) {
	resp, err := c.do(ctx, &request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read download: %w", err)
	}

	d := &Download{ContentType: resp.Header.Get("Content-Type"), Data: data}
	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			d.Filename = params["filename"]
		}
	}
	return d, nil
}

func pathf(format string, ids ...string) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, args...)
}
