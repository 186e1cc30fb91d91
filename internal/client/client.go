package client

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

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/mentorhub/internal/logger"
	"github.com/wolfeidau/mentorhub/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// maxErrorBody bounds how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// Client is the single configured base query every endpoint goes through.
type Client struct {
	baseURL       *url.URL
	http          *http.Client
	limiter       *rate.Limiter
	maxRetries    uint
	retryInterval time.Duration
	metrics       *telemetry.Metrics
}

type options struct {
	base        http.RoundTripper
	tokenSource oauth2.TokenSource
	httpCache   httpcache.Cache
	logger      *zerolog.Logger
}

// Option configures a Client.
type Option func(*options)

// WithBaseTransport replaces the innermost transport (tests use httptest's).
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// WithTokenSource authenticates requests with bearer tokens from ts.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(o *options) { o.tokenSource = ts }
}

// WithHTTPCache replaces the HTTP response cache.
func WithHTTPCache(c httpcache.Cache) Option {
	return func(o *options) { o.httpCache = c }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// New creates a client for the API at config.BaseURL.
func New(config Config, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", config.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", config.BaseURL)
	}

	if o.tokenSource == nil && config.Token != "" {
		o.tokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.Token, TokenType: "Bearer"})
	}
	if o.httpCache == nil {
		o.httpCache = NewHTTPCache(config.CacheDir)
	}
	if o.logger == nil {
		o.logger = &log.Logger
	}

	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   config.Timeout,
			Transport: newTransport(o),
		},
		limiter:       rate.NewLimiter(limit, 1),
		maxRetries:    config.MaxRetries,
		retryInterval: config.RetryInterval,
		metrics:       telemetry.GetMetrics(),
	}, nil
}

// newTransport builds the transport stack, outermost first: bearer auth,
// request logging, tracing, HTTP cache, decompression.
func newTransport(o options) http.RoundTripper {
	base := o.base
	if base == nil {
		base = http.DefaultTransport.(*http.Transport).Clone()
	}

	var rt http.RoundTripper = gzhttp.Transport(base)
	rt = newCachingTransport(o.httpCache, rt)
	rt = otelhttp.NewTransport(rt)
	rt = logger.NewTransport(rt, *o.logger)

	if o.tokenSource != nil {
		rt = &oauth2.Transport{Source: o.tokenSource, Base: rt}
	}

	return rt
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get decodes the JSON body of GET path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Delete issues DELETE path and decodes any response body into out. Like
// Post it is attempted exactly once.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do performs one API call. GETs are retried with exponential backoff on
// network errors, 429 and 5xx; other methods are attempted exactly once.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	started := time.Now()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	attempt := func() (struct{}, error) {
		err := c.attempt(ctx, method, path, payload, out)
		if err == nil {
			return struct{}{}, nil
		}

		var apiErr *Error
		if method != http.MethodGet || !errors.As(err, &apiErr) || !apiErr.Retryable() {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval

	_, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxRetries+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.metrics.RequestRetries.Add(ctx, 1)
			log.Warn().Err(err).Dur("next", next).Str("path", path).Msg("retrying api request")
		}),
	)

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}

	attrs := metric.WithAttributes(attribute.String("method", method))
	c.metrics.RequestDuration.Record(ctx, float64(time.Since(started).Milliseconds()), attrs)
	if err != nil {
		c.metrics.RequestErrors.Add(ctx, 1, attrs)
	}

	return err
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &Error{Kind: KindNetwork, Method: method, Path: path, Err: err}
	}

	req, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return &Error{Kind: KindNetwork, Method: method, Path: path, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Kind:    KindHTTP,
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: decodeErrorMessage(data),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Kind: KindDecode, Method: method, Path: path, Status: resp.StatusCode, Err: err}
	}

	// The HTTP cache stores a response only once its body reaches EOF.
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, payload []byte) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + "/" + strings.TrimLeft(ref.Path, "/")
	u.RawQuery = ref.RawQuery

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set(logger.RequestIDHeader, uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if noCache(ctx) {
		req.Header.Set("Cache-Control", "no-cache")
	}

	return req, nil
}
