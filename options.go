package shelterapi

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// WithTimeout sets the request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		if c.httpClient != nil {
			c.httpClient.Timeout = d
		}
	}
}

// WithMiddleware adds middleware to the client
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithHTTPClient bases requests on a copy of client; the caller's value is
// never modified. A client without a cookie jar will not send back the
// csrftoken cookie the server pairs with the header.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client == nil {
			c.httpClient = nil
			return
		}
		own := *client
		if c.timeout != 0 {
			own.Timeout = c.timeout
		}
		c.httpClient = &own
	}
}

// WithMetrics enables Prometheus metrics collection
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithLogger sets the logger used for request and failure logging.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithCSRFToken injects a known CSRF token instead of reading it from a page.
func WithCSRFToken(token string) Option {
	return func(c *Client) {
		c.csrfLoader = StaticToken(token)
	}
}

// WithCSRFLoader sets a custom CSRF token loader.
func WithCSRFLoader(loader TokenLoader) Option {
	return func(c *Client) {
		c.csrfLoader = loader
	}
}

// WithCSRFPage sets the page the default loader reads the token from.
func WithCSRFPage(path string) Option {
	return func(c *Client) {
		c.csrfPage = path
	}
}

// WithRequestIDs tags every request with a random X-Request-ID.
func WithRequestIDs() Option {
	return WithRequestIDGenerator(uuid.NewString)
}

// WithRequestIDGenerator sets a custom function for generating request IDs
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		c.requestIDGen = gen
	}
}

// WithRateLimit paces outgoing requests to limit per second with the given
// burst. Waiting honours the request context.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithTracing wraps the transport with OpenTelemetry instrumentation.
func WithTracing(opts ...otelhttp.Option) Option {
	return func(c *Client) {
		c.tracing = true
		c.tracingOpts = opts
	}
}

// ValidateConfiguration validates the client configuration and returns an error if invalid
func (c *Client) ValidateConfiguration() error {
	var errors []string

	errors = append(errors, c.validateBaseURL()...)
	errors = append(errors, c.validateHTTPClientConfig()...)
	errors = append(errors, c.validateMiddlewareConfig()...)
	errors = append(errors, c.validateRateLimitConfig()...)

	if len(errors) > 0 {
		return &ClientError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", errors),
		}
	}

	return nil
}

func (c *Client) validateBaseURL() []string {
	var errors []string

	if c.baseURL == "" {
		return append(errors, "baseURL cannot be empty")
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return append(errors, fmt.Sprintf("baseURL is invalid: %v", err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, "baseURL must use http or https")
	}
	if u.Host == "" {
		errors = append(errors, "baseURL must include a host")
	}

	return errors
}

func (c *Client) validateHTTPClientConfig() []string {
	var errors []string

	if c.httpClient == nil {
		errors = append(errors, "HTTP client cannot be nil")
	}
	if c.timeout < 0 {
		errors = append(errors, "timeout must not be negative")
	}

	return errors
}

func (c *Client) validateMiddlewareConfig() []string {
	var errors []string

	for i, middleware := range c.middleware {
		if middleware == nil {
			errors = append(errors, fmt.Sprintf("middleware[%d] cannot be nil", i))
		}
	}

	return errors
}

func (c *Client) validateRateLimitConfig() []string {
	var errors []string

	if c.limiter != nil {
		if c.limiter.Limit() <= 0 {
			errors = append(errors, "rate limit must be positive")
		}
		if c.limiter.Burst() <= 0 {
			errors = append(errors, "rate limit burst must be positive")
		}
	}

	return errors
}
