package shelterapi

import (
	"context"
	"net/http"
)

// Middleware represents a middleware function
type Middleware func(req *http.Request, next RoundTripper) (*http.Response, error)

// RoundTripper represents the HTTP transport interface
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}

// RoundTripperFunc is a helper type for middleware
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Option represents a configuration option
type Option func(*Client)

// TokenLoader reads a CSRF token from wherever the session keeps it.
type TokenLoader func(ctx context.Context) (string, error)

// Header is a single additional request header.
type Header struct {
	Name  string
	Value string
}

// Param is one query parameter. A nil Value, or a typed nil pointer, is
// treated as unset.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered list of query parameters.
type Params []Param

// Field is one multipart form entry.
type Field struct {
	Name  string
	Value any
}

// Fields is an ordered list of form entries.
type Fields []Field
