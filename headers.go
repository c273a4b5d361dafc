package shelterapi

import (
	"context"
	"net/http"
)

// Header names and defaults used by BuildHeaders.
const (
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"
	HeaderCSRFToken   = "X-CSRFToken"
	HeaderRequestID   = "X-Request-ID"
	HeaderUserAgent   = "User-Agent"

	ContentTypeJSON = "application/json"
)

// HeaderSpec describes the headers of one outgoing request.
//
// Headers are applied in a fixed order: Accept, then X-CSRFToken, then
// Additional in slice order (entries without a name are skipped), then
// Content-Type. Additional entries therefore override Accept and
// X-CSRFToken when names collide (names compare case-insensitively), but
// never Content-Type.
type HeaderSpec struct {
	// Accept defaults to application/json.
	Accept string
	// ContentType defaults to application/json.
	ContentType string
	// OmitContentType drops the Content-Type header entirely, e.g. for
	// requests without a body.
	OmitContentType bool
	// CSRFToken is sent as X-CSRFToken. Client.RequestHeaders fills it from
	// the session's CSRFStore when empty.
	CSRFToken  string
	Additional []Header
}

// BuildHeaders composes the header set described by spec.
func BuildHeaders(spec HeaderSpec) http.Header {
	h := make(http.Header, 3+len(spec.Additional))

	accept := spec.Accept
	if accept == "" {
		accept = ContentTypeJSON
	}
	h.Set(HeaderAccept, accept)

	if spec.CSRFToken != "" {
		h.Set(HeaderCSRFToken, spec.CSRFToken)
	}

	for _, extra := range spec.Additional {
		if extra.Name == "" {
			continue
		}
		h.Set(extra.Name, extra.Value)
	}

	if !spec.OmitContentType {
		contentType := spec.ContentType
		if contentType == "" {
			contentType = ContentTypeJSON
		}
		h.Set(HeaderContentType, contentType)
	}

	return h
}

// RequestHeaders is BuildHeaders with the CSRF token taken from the client's
// store when spec does not carry one. It fails only when the token cannot be
// read, which callers must treat as fatal.
func (c *Client) RequestHeaders(ctx context.Context, spec HeaderSpec) (http.Header, error) {
	if spec.CSRFToken == "" {
		token, err := c.csrf.Get(ctx)
		if err != nil {
			return nil, err
		}
		spec.CSRFToken = token
	}
	return BuildHeaders(spec), nil
}
