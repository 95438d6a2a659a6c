package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/docfoundry/docfoundry-cli/internal/core/domain"
	"github.com/docfoundry/docfoundry-cli/internal/logger"
)

// HeaderRequestID carries a per-request id for backend log correlation.
const HeaderRequestID = "X-Request-ID"

// CallOptions describes one request.
type CallOptions struct {
	// Method defaults to GET.
	Method string

	// Token is sent as a bearer token when non-empty.
	Token string

	// Body is JSON-encoded. Ignored when Form is set.
	Body any

	// Form is sent verbatim, with ContentType as its content type.
	Form        io.Reader
	ContentType string
}

// Result is a decoded 2xx response.
type Result struct {
	StatusCode int

	// Raw is the full response text.
	Raw string

	// Value is the decoded JSON value, the raw text when the body is not
	// JSON, or nil for an empty body.
	Value any
}

// Transport performs requests against one backend base URL.
type Transport struct {
	baseURL string
	client  *http.Client
	limiter *RateLimiter
}

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		c := *t.client
		c.Timeout = d
		t.client = &c
	}
}

// WithRateLimit throttles requests to perSecond. Zero disables throttling.
func WithRateLimit(perSecond float64) Option {
	return func(t *Transport) {
		t.limiter = NewRateLimiter(perSecond)
	}
}

// NewTransport creates a transport for baseURL. Trailing slashes are
// trimmed; an empty baseURL falls back to domain.DefaultBaseURL.
func NewTransport(baseURL string, opts ...Option) *Transport {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = domain.DefaultBaseURL
	}
	t := &Transport{
		baseURL: baseURL,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BaseURL returns the backend base URL.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Call sends a single request to path and decodes the response. A request
// that gets no response at all fails with an error wrapping
// domain.ErrTransport; a non-2xx response fails with *APIError.
// Nothing is retried.
func (t *Transport) Call(ctx context.Context, path string, opts CallOptions) (*Result, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrTransport, method, path, err)
	}

	var body io.Reader
	contentType := ""
	switch {
	case opts.Form != nil:
		body = opts.Form
		contentType = opts.ContentType
	case opts.Body != nil:
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if opts.Token != "" {
		(&oauth2.Token{AccessToken: opts.Token}).SetAuthHeader(req)
	}
	reqID := uuid.NewString()
	req.Header.Set(HeaderRequestID, reqID)

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		logger.Debug("%s %s failed after %s: %v", method, path, time.Since(start), err)
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s %s: %v", domain.ErrTransport, method, path, err)
	}
	logger.Debug("%s %s -> %d in %s (request %s)", method, path, resp.StatusCode, time.Since(start), reqID)

	value := decodeBody(raw)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, statusText(resp), raw, value)
	}
	return &Result{
		StatusCode: resp.StatusCode,
		Raw:        string(raw),
		Value:      value,
	}, nil
}

// decodeBody parses raw as JSON, falling back to the text itself.
// An empty body decodes to nil.
func decodeBody(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return string(raw)
	}
	return v
}

// statusText extracts the reason phrase from resp.Status ("404 Not Found").
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
