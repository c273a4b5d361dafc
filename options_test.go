package shelterapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestWithTimeout(t *testing.T) {
	client := New("http://localhost", WithTimeout(5*time.Second))

	assert.Equal(t, 5*time.Second, client.timeout)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
}

func TestWithHTTPClientTimeoutUpdate(t *testing.T) {
	jar := newCookieJar()
	custom := &http.Client{Timeout: time.Minute, Jar: jar}

	client := New("http://localhost", WithTimeout(3*time.Second), WithHTTPClient(custom), WithTimeout(4*time.Second))

	assert.NotSame(t, custom, client.httpClient)
	assert.Equal(t, time.Minute, custom.Timeout)
	assert.Equal(t, 4*time.Second, client.httpClient.Timeout)
	assert.Equal(t, jar, client.httpClient.Jar)
}

func TestWithMiddleware(t *testing.T) {
	noop := func(req *http.Request, next RoundTripper) (*http.Response, error) { return next.RoundTrip(req) }

	client := New("http://localhost", WithMiddleware(noop), WithMiddleware(noop, noop))

	assert.Len(t, client.middleware, 3)
}

func TestWithMetricsCollector(t *testing.T) {
	collector := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())

	client := New("http://localhost", WithMetricsCollector(collector))

	assert.Same(t, collector, client.metrics)
	assert.Same(t, collector, client.csrf.metrics)
}

func TestWithLogger(t *testing.T) {
	logger := zerolog.Nop()

	client := New("http://localhost", WithLogger(logger))

	assert.Equal(t, zerolog.Disabled, client.logger.GetLevel())
}

func TestWithCSRFToken(t *testing.T) {
	client := New("http://localhost", WithCSRFToken("abc"))

	token, err := client.CSRF().Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)
}

func TestWithCSRFPage(t *testing.T) {
	client := New("http://localhost", WithCSRFPage("/login"))

	assert.Equal(t, "/login", client.csrfPage)
}

func TestWithRateLimit(t *testing.T) {
	client := New("http://localhost", WithRateLimit(rate.Limit(5), 2))

	require.NotNil(t, client.limiter)
	assert.Equal(t, rate.Limit(5), client.limiter.Limit())
	assert.Equal(t, 2, client.limiter.Burst())
}

func TestDefaultValuesWithoutOptions(t *testing.T) {
	client := New("http://localhost")

	assert.Nil(t, client.metrics)
	assert.Nil(t, client.limiter)
	assert.Nil(t, client.requestIDGen)
	assert.False(t, client.tracing)
	assert.Empty(t, client.middleware)
	assert.Equal(t, DefaultCSRFPage, client.csrfPage)
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		options []Option
		valid   bool
	}{
		{"valid http", "http://localhost:8000", nil, true},
		{"valid https", "https://schrony.example", nil, true},
		{"empty base url", "", nil, false},
		{"unsupported scheme", "ftp://schrony.example", nil, false},
		{"missing host", "http://", nil, false},
		{"nil http client", "http://localhost", []Option{WithHTTPClient(nil)}, false},
		{"negative timeout", "http://localhost", []Option{WithTimeout(-time.Second)}, false},
		{"nil middleware", "http://localhost", []Option{WithMiddleware(nil)}, false},
		{"zero rate", "http://localhost", []Option{WithRateLimit(0, 1)}, false},
		{"zero burst", "http://localhost", []Option{WithRateLimit(1, 0)}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client := New(test.baseURL, test.options...)

			assert.Equal(t, test.valid, client.IsValid())
			if test.valid {
				assert.NoError(t, client.ValidationError())
				assert.NotPanics(t, client.ValidateConfigurationStrict)
				return
			}
			assert.Equal(t, ErrorTypeValidation, ErrorType(client.ValidationError()))
			assert.Panics(t, client.ValidateConfigurationStrict)
		})
	}
}
