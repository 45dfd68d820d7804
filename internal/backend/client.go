package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/nfrund/propertyhub/internal/domain"
)

const maxErrorBody = 4 << 10

// Client talks JSON to the backend API. It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    *retryablehttp.Client
	logger  *slog.Logger

	Properties *Resource[domain.Property]
	Projects   *Resource[domain.Project]
	Agents     *Resource[domain.Agent]
	Builders   *Resource[domain.Builder]
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.HTTPClient.Timeout = d
		}
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.http.RetryMax = n
		}
	}
}

// WithRetryWait bounds the backoff between retries.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		c.http.RetryWaitMin = min
		c.http.RetryWaitMax = max
	}
}

// WithLogger sets the logger for request and retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http.HTTPClient = hc
		}
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url must be http or https, got %q", baseURL)
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.RetryMax = 2
	rc.CheckRetry = checkRetry
	// Hand the final response back instead of a generic "giving up" error so
	// the status can be mapped.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	c := &Client{
		baseURL: u,
		http:    rc,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.Logger = c.logger.With("component", "backend")

	c.Properties = newResource[domain.Property](c, "/properties")
	c.Projects = newResource[domain.Project](c, "/projects")
	c.Agents = newResource[domain.Agent](c, "/agents")
	c.Builders = newResource[domain.Builder](c, "/builders")
	return c, nil
}

// call builds the request for a single backend call.
type call struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
	out    any
}

func (c *Client) do(ctx context.Context, req call) error {
	// req.path is already escaped.
	target, err := url.Parse(c.baseURL.String() + req.path)
	if err != nil {
		return fmt.Errorf("build %s %s url: %w", req.method, req.path, err)
	}
	if len(req.query) > 0 {
		target.RawQuery = req.query.Encode()
	}

	var body []byte
	if req.body != nil {
		body, err = json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", req.method, req.path, err)
		}
	}

	var reader any
	if body != nil {
		reader = bytes.NewReader(body)
	}
	reqCtx := ctx
	if !idempotent(req.method) {
		reqCtx = withOneShot(ctx)
	}
	r, err := retryablehttp.NewRequestWithContext(reqCtx, req.method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", req.method, req.path, err)
	}
	r.Header.Set("Accept", "application/json")
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		r.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.http.Do(r)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &APIError{Method: req.method, Path: req.path, Err: fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)}
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "Backend call",
		"method", req.method, "path", req.path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Status:  resp.StatusCode,
			Method:  req.method,
			Path:    req.path,
			Message: errorMessage(msg),
			Err:     statusError(resp.StatusCode),
		}
	}

	if req.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.method, req.path, err)
	}
	return nil
}

// errorMessage extracts {"message": "..."} from an error body, falling back
// to the raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}
