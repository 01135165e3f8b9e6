// HTTP client wrapper shared by the catalog services and the SSO gateway
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymn/internal/shared"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

// RequestConfig describes one call made through [Client.Request].
//
// Body is sent as-is when it is a []byte and encoded as JSON otherwise. A nil Body sends no body.
// WithCredentials includes the cookie jar, the equivalent of a browser's credentialed request.
type RequestConfig struct {
	Method          string
	Body            any
	Header          http.Header
	WithCredentials bool
}

// Response is a completed 2xx response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
	Method     string
}

// RequestError is the tagged failure returned by [Client.Request].
//
// StatusCode is zero when the request never produced a response (transport failure, cancelled context).
// Err wraps one of the shared sentinel errors so callers can use [errors.Is].
type RequestError struct {
	URL        string
	Method     string
	StatusCode int
	Payload    []byte
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// AsRequestError extracts a [*RequestError] from err.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	ok := errors.As(err, &reqErr)
	return reqErr, ok
}

// StatusOf returns the HTTP status carried by err, or zero.
func StatusOf(err error) int {
	if reqErr, ok := AsRequestError(err); ok {
		return reqErr.StatusCode
	}
	return 0
}

// Observer is notified of every response or failure, synchronously, before [Client.Request] returns.
//
// Exactly one of resp and err is non-nil. A failed call always carries a [*RequestError].
type Observer func(ctx context.Context, resp *Response, err error)

// Client issues HTTP requests and converts every failure into a [*RequestError].
//
// It never retries. Credentialed and anonymous calls share one transport but only credentialed calls see the cookie jar.
type Client struct {
	plain        *http.Client
	credentialed *http.Client
	jar          http.CookieJar
	limiter      *rate.Limiter
	logger       *log.Logger

	mu        sync.RWMutex
	observers []Observer
}

// ClientOption configures a [Client].
type ClientOption func(*clientOptions)

type clientOptions struct {
	timeout   time.Duration
	transport http.RoundTripper
	jar       http.CookieJar
	limiter   *rate.Limiter
	logger    *log.Logger
}

// WithTimeout sets a per-request timeout. Zero means none.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) { o.timeout = d }
}

// WithTransport replaces the default transport.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(o *clientOptions) { o.transport = rt }
}

// WithJar replaces the default public-suffix-aware cookie jar.
func WithJar(jar http.CookieJar) ClientOption {
	return func(o *clientOptions) { o.jar = jar }
}

// WithRateLimit paces outgoing requests to r per second with the given burst. A non-positive r disables pacing.
func WithRateLimit(r float64, burst int) ClientOption {
	return func(o *clientOptions) {
		if r <= 0 {
			o.limiter = nil
			return
		}
		o.limiter = rate.NewLimiter(rate.Limit(r), max(burst, 1))
	}
}

// WithClientLogger sets the logger used for request tracing.
func WithClientLogger(l *log.Logger) ClientOption {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient creates a [Client].
func NewClient(opts ...ClientOption) (*Client, error) {
	o := clientOptions{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}

	if o.jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		o.jar = jar
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	return &Client{
		plain:        &http.Client{Transport: o.transport, Timeout: o.timeout},
		credentialed: &http.Client{Transport: o.transport, Timeout: o.timeout, Jar: o.jar},
		jar:          o.jar,
		limiter:      o.limiter,
		logger:       o.logger,
	}, nil
}

// Jar returns the cookie jar used by credentialed requests.
func (c *Client) Jar() http.CookieJar {
	return c.jar
}

// Observe registers an observer for all subsequent requests.
func (c *Client) Observe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// Request performs the call described by cfg against url.
func (c *Client) Request(ctx context.Context, url string, cfg RequestConfig) (*Response, error) {
	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}

	resp, err := c.do(ctx, url, method, cfg)
	c.notify(ctx, resp, err)
	return resp, err
}

func (c *Client) do(ctx context.Context, url, method string, cfg RequestConfig) (*Response, error) {
	fail := func(status int, payload []byte, err error) (*Response, error) {
		c.logger.Debug("request failed", "method", method, "url", url, "status", status, "error", err)
		return nil, &RequestError{URL: url, Method: method, StatusCode: status, Payload: payload, Err: err}
	}

	body, err := encodeBody(cfg.Body)
	if err != nil {
		return fail(0, nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fail(0, nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrAPIRequest, err))
	}

	for key, values := range cfg.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(0, nil, fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err))
		}
	}

	httpClient := c.plain
	if cfg.WithCredentials {
		httpClient = c.credentialed
	}

	c.logger.Debug("request", "method", method, "url", url, "credentials", cfg.WithCredentials)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fail(0, nil, fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(resp.StatusCode, payload, statusError(resp.StatusCode))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       payload,
		URL:        url,
		Method:     method,
	}, nil
}

func (c *Client) notify(ctx context.Context, resp *Response, err error) {
	c.mu.RLock()
	observers := make([]Observer, len(c.observers))
	copy(observers, c.observers)
	c.mu.RUnlock()

	for _, o := range observers {
		o(ctx, resp, err)
	}
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(data), nil
	}
}

func statusError(status int) error {
	text := http.StatusText(status)
	switch status {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", shared.ErrUnauthorized, text)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", shared.ErrForbidden, text)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrNotFound, text)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", shared.ErrServiceUnavailable, text)
	default:
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, text)
	}
}

// DecodeJSON decodes the body of resp into T.
func DecodeJSON[T any](resp *Response) (T, error) {
	var v T
	if resp == nil {
		return v, fmt.Errorf("%w: empty response", shared.ErrAPIRequest)
	}
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		return v, fmt.Errorf("%w: failed to decode response from %s: %v", shared.ErrAPIRequest, resp.URL, err)
	}
	return v, nil
}
