// Package apiclient is the process-wide HTTP client for the Checkpoint API.
//
// A Client owns the default headers (notably the bearer token) that every
// later request carries. It is built once at the application root and handed
// to the services that need it.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
	"github.com/FACorreiaa/go-checkpoint/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/debugger"
)

const (
	HeaderAuthorization = "Authorization"
	HeaderRequestID     = "X-Request-Id"

	acceptJSON   = "application/json"
	authPrefix   = "/api/auth/"
	maxErrorBody = 64 << 10
)

type Options struct {
	BaseURL string
	Timeout time.Duration
	// Transport defaults to http.DefaultTransport. It is always wrapped by otelhttp.
	Transport http.RoundTripper
}

// UnauthorizedFunc runs when a request that carried a bearer token gets a 401.
type UnauthorizedFunc func(ctx context.Context)

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger

	mu             sync.RWMutex
	headers        http.Header
	onUnauthorized UnauthorizedFunc
}

func New(opts Options, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	base := strings.TrimRight(opts.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("invalid API base URL %q", opts.BaseURL)
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(transport),
		},
		logger:  logger,
		headers: make(http.Header),
	}, nil
}

// SetBearer makes every later request carry "Authorization: Bearer token".
func (c *Client) SetBearer(token string) {
	c.mu.Lock()
	c.headers.Set(HeaderAuthorization, "Bearer "+token)
	c.mu.Unlock()
}

func (c *Client) ClearBearer() {
	c.mu.Lock()
	c.headers.Del(HeaderAuthorization)
	c.mu.Unlock()
}

// Authorization returns the current default Authorization header value.
func (c *Client) Authorization() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.headers.Get(HeaderAuthorization)
}

func (c *Client) OnUnauthorized(fn UnauthorizedFunc) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// URL resolves an API path such as /api/jogos/5/imagem against the base URL.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

// Delete sends a DELETE. out may be nil when the response body is not needed.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s body", method, path)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	resp, err := c.send(ctx, method, path, body, contentType, acceptJSON)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(c.logger, resp, method, path, out)
}

// send performs one request and turns every non-2xx answer into *models.APIError.
// On success the caller owns resp.Body.
func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType, accept string) (*http.Response, error) {
	l := c.logger.With(zap.String("method", method), zap.String("path", path))

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set(HeaderRequestID, requestID(ctx))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	c.mu.RLock()
	for k, v := range c.headers {
		if k == HeaderAuthorization && isCredentialPath(path) {
			continue
		}
		req.Header[k] = append([]string(nil), v...)
	}
	hook := c.onUnauthorized
	c.mu.RUnlock()
	hadBearer := req.Header.Get(HeaderAuthorization) != ""

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		record(ctx, method, path, 0, time.Since(start))
		l.Error("Backend request failed", zap.Error(err))
		return nil, errors.WithStack(&networkError{method: method, path: path, err: err})
	}
	record(ctx, method, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		l.Debug("Backend request completed", zap.Int("status", resp.StatusCode), zap.Duration("latency", time.Since(start)))
		return resp, nil
	}

	defer resp.Body.Close()
	apiErr := &models.APIError{
		Status:  resp.StatusCode,
		Message: errorMessage(resp.Body),
		Method:  method,
		Path:    path,
	}
	if resp.StatusCode >= 500 {
		l.Error("Backend returned server error", zap.Int("status", resp.StatusCode), zap.String("message", apiErr.Message))
	} else {
		l.Warn("Backend rejected request", zap.Int("status", resp.StatusCode), zap.String("message", apiErr.Message))
	}

	if resp.StatusCode == http.StatusUnauthorized && hadBearer && hook != nil {
		hook(ctx)
	}
	return nil, apiErr
}

// isCredentialPath reports whether path exchanges credentials. Those requests
// never carry the bearer, so their 401s are wrong passwords, not dead sessions.
func isCredentialPath(path string) bool {
	return strings.HasPrefix(path, authPrefix)
}

func decode(logger *zap.Logger, resp *http.Response, method, path string, out any) error {
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WithStack(&networkError{method: method, path: path, err: err})
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	debugger.DumpPayload(logger.With(zap.String("method", method), zap.String("path", path)), "Backend response body", data)
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decode %s %s response", method, path)
	}
	return nil
}

// errorMessage pulls the human readable message out of an error body.
func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"erro", "mensagem", "message", "error"} {
		if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

type networkError struct {
	method string
	path   string
	err    error
}

func (e *networkError) Error() string {
	return e.method + " " + e.path + ": " + models.ErrNetwork.Error() + ": " + e.err.Error()
}

// Unwrap exposes both the sentinel and the cause, so context cancellation
// stays visible to errors.Is.
func (e *networkError) Unwrap() []error {
	return []error{models.ErrNetwork, e.err}
}

type requestIDKey struct{}

// WithRequestID makes outgoing calls made with ctx reuse id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

var numericSegment = regexp.MustCompile(`/\d+`)

// route collapses ids so metric cardinality stays bounded.
func route(path string) string {
	return numericSegment.ReplaceAllString(path, "/:id")
}

func record(ctx context.Context, method, path string, status int, elapsed time.Duration) {
	m := metrics.Get()
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route(path)),
		attribute.String("status", strconv.Itoa(status)),
	)
	m.BackendRequestsTotal.Add(ctx, 1, attrs)
	m.BackendRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
}
