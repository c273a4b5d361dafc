package shelterapi

import (
	"context"
	"net/http"
)

// Request describes one API call for Call.
type Request struct {
	// Method defaults to GET.
	Method string
	Path   string
	Params Params
	Body   *Body
	// Headers overrides the defaults of BuildHeaders. For state-changing
	// methods an empty CSRFToken is filled from the client's store.
	Headers HeaderSpec
}

// Call performs r and wraps the response into an Envelope.
//
// Network and decoding failures end up in the envelope. The error return is
// reserved for failures the caller must handle before any request can be
// made: a CSRF token that cannot be read for a state-changing request.
func Call[T any](ctx context.Context, c *Client, r Request) (*Envelope[T], error) {
	return call[T](ctx, c, r, false)
}

func call[T any](ctx context.Context, c *Client, r Request, nested bool) (*Envelope[T], error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	spec := r.Headers
	if r.Body != nil && spec.ContentType == "" {
		spec.ContentType = r.Body.ContentType()
	}

	var headers http.Header
	if isSafeMethod(method) {
		headers = BuildHeaders(spec)
	} else {
		var err error
		headers, err = c.RequestHeaders(ctx, spec)
		if err != nil {
			return nil, err
		}
	}

	target := URLWithParams(c.resolve(r.Path), r.Params)
	opts := c.wrapOptions(r.Path, nested)

	var req *http.Request
	var err error
	if r.Body != nil {
		req, err = http.NewRequestWithContext(ctx, method, target, r.Body.Reader())
	} else {
		req, err = http.NewRequestWithContext(ctx, method, target, nil)
	}
	if err != nil {
		return wrap[T](nil, err, opts), nil
	}
	for name, values := range headers {
		req.Header[name] = values
	}

	resp, err := c.Do(req)
	return wrap[T](resp, err, opts), nil
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
