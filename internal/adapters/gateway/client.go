package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"solsight/internal/adapters/ratelimit"
	"solsight/internal/metrics"
	"solsight/pkg/errors"
	"solsight/pkg/logger"
	"solsight/pkg/upstream"
)

// maxBodySize caps how much of an upstream body is read
const maxBodySize = 8 << 20

// Client performs GET requests against one third-party API
type Client struct {
	service    string
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
	limiter    *ratelimit.Limiter
	log        *logger.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHeader adds a header to every request
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithTimeout sets the overall HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLimiter throttles requests through l
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a new upstream client for service rooted at baseURL
func NewClient(service, baseURL string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		service:    service,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		headers:    map[string]string{"Accept": "application/json"},
		log:        log.Component("gateway").With("service", service),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Service returns the upstream name used in logs and metrics
func (c *Client) Service() string {
	return c.service
}

// Log returns the client's logger
func (c *Client) Log() *logger.Logger {
	return c.log
}

// Response is a fully read upstream reply
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// IsJSON reports whether the upstream declared a JSON body
func (r *Response) IsJSON() bool {
	return strings.Contains(strings.ToLower(r.ContentType), "application/json")
}

// StatusText returns the reason phrase of the status code
func (r *Response) StatusText() string {
	return http.StatusText(r.Status)
}

// Get requests baseURL+path with query. Only transport failures are errors;
// non-2xx replies are returned for the caller to interpret.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s request failed", c.service)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s response", c.service)
	}

	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Observe records metrics for a finished call and logs failures
func Observe[T any](c *Client, start time.Time, r upstream.Result[T]) upstream.Result[T] {
	metrics.RecordUpstreamCall(c.service, r.Kind.String(), time.Since(start))

	switch r.Kind {
	case upstream.KindSoft:
		c.log.Warnw("Upstream soft failure", "status", r.Status, "error", r.Message)
	case upstream.KindHard:
		c.log.Errorw("Upstream hard failure", "status", r.Status, "error", r.Message)
	}
	return r
}

// CheckResponse returns a soft error when resp is not a 2xx JSON reply.
// failure is the message prefix used for non-2xx statuses.
func CheckResponse(resp *Response, failure string) *upstream.SoftError {
	if !resp.OK() {
		return &upstream.SoftError{
			Error:  failure + ": " + resp.StatusText(),
			Status: resp.Status,
		}
	}
	if !resp.IsJSON() {
		return &upstream.SoftError{
			Error:  "External API returned non-JSON response",
			Status: resp.Status,
		}
	}
	return nil
}

// TransportError builds the soft error for a request that never completed
func TransportError(message string, err error) upstream.SoftError {
	return upstream.SoftError{Error: message, Details: err.Error()}
}

// PathEscape escapes a user-supplied path segment
func PathEscape(s string) string {
	return url.PathEscape(s)
}
