package shelterapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/ambiyansyah-risyal/shelterapi/internal/log"
)

// DefaultCSRFPage is the page the default CSRF loader reads the token from.
const DefaultCSRFPage = "/"

// Client talks to the shelter-finder API. It builds URLs and headers,
// encodes bodies, and wraps every response into an Envelope. It is safe for
// concurrent use.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	timeout      time.Duration
	middleware   []Middleware
	limiter      *rate.Limiter
	metrics      *MetricsCollector
	logger       zerolog.Logger
	csrf         *CSRFStore
	csrfLoader   TokenLoader
	csrfPage     string
	requestIDGen func() string
	tracing      bool
	tracingOpts  []otelhttp.Option

	validationError error
}

// New constructs a Client for the API rooted at baseURL using the provided
// functional options. A best effort validation is performed; call IsValid /
// ValidationError for errors.
func New(baseURL string, options ...Option) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     newCookieJar(),
		},
		timeout:    30 * time.Second,
		middleware: []Middleware{},
		logger:     log.WithComponent("client"),
		csrfPage:   DefaultCSRFPage,
	}

	for _, option := range options {
		option(client)
	}

	if client.tracing && client.httpClient != nil {
		traced := *client.httpClient
		base := traced.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		traced.Transport = otelhttp.NewTransport(base, client.tracingOpts...)
		client.httpClient = &traced
	}

	loader := client.csrfLoader
	if loader == nil {
		loader = PageTokenLoader(client, client.csrfPage)
	}
	client.csrf = NewCSRFStore(loader)
	client.csrf.metrics = client.metrics

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

func newCookieJar() http.CookieJar {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil
	}
	return jar
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CSRF returns the session's token store.
func (c *Client) CSRF() *CSRFStore {
	return c.csrf
}

// Get performs a GET of path with params encoded into the query string.
func (c *Client) Get(ctx context.Context, path string, params Params) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, URLWithParams(c.resolve(path), params), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(HeaderAccept, ContentTypeJSON)
	return c.Do(req)
}

// Do executes a prepared request through the middleware chain, rate limiter
// and metrics. The caller's request is not modified. Transport failures are
// returned as *ClientError.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	endpoint := getEndpointFromRequest(req)

	requestID := req.Header.Get(HeaderRequestID)
	needID := requestID == "" && c.requestIDGen != nil
	needAgent := req.Header.Get(HeaderUserAgent) == ""
	if needID || needAgent {
		req = req.Clone(req.Context())
		if needID {
			requestID = c.requestIDGen()
			req.Header.Set(HeaderRequestID, requestID)
		}
		if needAgent {
			req.Header.Set(HeaderUserAgent, UserAgent())
		}
	}

	c.logger.Debug().
		Str(log.FieldRequestID, requestID).
		Str(log.FieldMethod, req.Method).
		Str(log.FieldURL, req.URL.String()).
		Msg("starting request")

	if err := c.waitForLimiter(req, endpoint); err != nil {
		c.metrics.RecordError(ErrorTypeRateLimit, req.Method, endpoint)
		return nil, c.createClientError(ErrorTypeRateLimit, "rate limiter wait aborted", err, requestID, req)
	}

	c.metrics.RecordRequestStart(req.Method, endpoint)
	resp, err := c.executeMiddleware(req)
	c.metrics.RecordRequestEnd(req.Method, endpoint)

	duration := time.Since(start)
	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	c.metrics.RecordRequest(req.Method, endpoint, statusCode, duration)

	if err != nil {
		c.metrics.RecordError(ErrorTypeNetwork, req.Method, endpoint)
		if resp != nil {
			drain(resp)
		}
		return nil, c.createClientError(ErrorTypeNetwork, "network request failed", err, requestID, req)
	}

	c.logger.Debug().
		Str(log.FieldRequestID, requestID).
		Str(log.FieldEndpoint, endpoint).
		Int(log.FieldStatus, statusCode).
		Dur(log.FieldDuration, duration).
		Msg("request completed")

	return resp, nil
}

func (c *Client) executeMiddleware(req *http.Request) (*http.Response, error) {
	if len(c.middleware) == 0 {
		return c.httpClient.Do(req)
	}

	current := RoundTripperFunc(c.httpClient.Do)

	for i := len(c.middleware) - 1; i >= 0; i-- {
		middleware := c.middleware[i]
		next := current
		current = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return middleware(r, next)
		})
	}

	return current.RoundTrip(req)
}

func (c *Client) createClientError(errorType, message string, cause error, requestID string, req *http.Request) *ClientError {
	return &ClientError{
		Type:      errorType,
		Message:   message,
		Cause:     cause,
		RequestID: requestID,
		Method:    req.Method,
		URL:       req.URL.String(),
		Endpoint:  getEndpointFromRequest(req),
		Timestamp: time.Now(),
	}
}

// resolve turns an API path into an absolute URL. Absolute URLs pass
// through untouched.
func (c *Client) resolve(path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) wrapOptions(endpoint string, nested bool) wrapOptions {
	return wrapOptions{
		logger:   c.logger,
		metrics:  c.metrics,
		endpoint: endpoint,
		nested:   nested,
	}
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// ValidateConfigurationStrict panics if configuration is invalid.
func (c *Client) ValidateConfigurationStrict() {
	if err := c.ValidateConfiguration(); err != nil {
		panic(fmt.Sprintf("invalid client configuration: %v", err))
	}
}

func getEndpointFromRequest(req *http.Request) string {
	if req.URL == nil {
		return "unknown"
	}

	host := req.URL.Host
	path := req.URL.Path

	var builder strings.Builder
	builder.WriteString(host)

	if path != "" && path != "/" {
		builder.WriteString(path)
	} else {
		builder.WriteByte('/')
	}

	return builder.String()
}
