package shelterapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/sync/singleflight"
)

// CSRFFieldName is the name of the hidden form input carrying the token.
const CSRFFieldName = "csrfmiddlewaretoken"

var csrfSelector = cascadia.MustCompile(`[name="` + CSRFFieldName + `"]`)

// CSRFStore holds the CSRF token of one session. The token is loaded at most
// once: the first successful load is cached and returned for the lifetime of
// the store. Failed loads are not cached.
type CSRFStore struct {
	load    TokenLoader
	metrics *MetricsCollector

	mu    sync.RWMutex
	token string

	group singleflight.Group
}

// NewCSRFStore creates a store that reads its token through load.
func NewCSRFStore(load TokenLoader) *CSRFStore {
	return &CSRFStore{load: load}
}

// Init loads the token eagerly, typically right after a session starts.
func (s *CSRFStore) Init(ctx context.Context) error {
	_, err := s.Get(ctx)
	return err
}

// Get returns the cached token, loading it on first use. Concurrent first
// calls share a single load. The load is detached from the cancellation of
// whichever caller started it; each caller stops waiting when its own ctx
// ends.
func (s *CSRFStore) Get(ctx context.Context) (string, error) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token != "" {
		return token, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan("token", func() (any, error) {
		return s.loadOnce(loadCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (s *CSRFStore) loadOnce(ctx context.Context) (string, error) {
	s.mu.RLock()
	cached := s.token
	s.mu.RUnlock()
	if cached != "" {
		return cached, nil
	}

	if s.load == nil {
		return "", preconditionError(ErrNoTokenLoader)
	}
	loaded, err := s.load(ctx)
	if err != nil {
		s.metrics.RecordCSRFLoad("error")
		return "", preconditionError(err)
	}
	if loaded == "" {
		s.metrics.RecordCSRFLoad("error")
		return "", preconditionError(ErrCSRFTokenMissing)
	}

	s.mu.Lock()
	s.token = loaded
	s.mu.Unlock()
	s.metrics.RecordCSRFLoad("ok")
	return loaded, nil
}

// Loaded reports whether the token has been cached.
func (s *CSRFStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func preconditionError(cause error) error {
	var clientErr *ClientError
	if errors.As(cause, &clientErr) && clientErr.Type == ErrorTypePrecondition {
		return cause
	}
	return &ClientError{
		Type:      ErrorTypePrecondition,
		Message:   "csrf token unavailable",
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// StaticToken returns a loader for a token the caller already knows.
func StaticToken(token string) TokenLoader {
	return func(context.Context) (string, error) {
		if token == "" {
			return "", ErrCSRFTokenMissing
		}
		return token, nil
	}
}

// TokenFromHTML extracts the CSRF token from an HTML document.
func TokenFromHTML(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return TokenFromNode(doc)
}

// TokenFromNode extracts the CSRF token from a parsed HTML document.
func TokenFromNode(doc *html.Node) (string, error) {
	node := cascadia.Query(doc, csrfSelector)
	if node == nil {
		return "", ErrCSRFTokenMissing
	}
	for _, attr := range node.Attr {
		if attr.Key == "value" {
			return attr.Val, nil
		}
	}
	return "", ErrCSRFTokenMissing
}

// PageTokenLoader returns a loader that fetches path through c and reads the
// token from the page's hidden form field.
func PageTokenLoader(c *Client, path string) TokenLoader {
	return func(ctx context.Context) (string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(path), nil)
		if err != nil {
			return "", err
		}
		req.Header.Set(HeaderAccept, "text/html")

		resp, err := c.Do(req)
		if err != nil {
			return "", err
		}
		defer drain(resp)

		if resp.StatusCode >= http.StatusBadRequest {
			return "", fmt.Errorf("fetch %s: %s", path, resp.Status)
		}
		if ct := resp.Header.Get(HeaderContentType); ct != "" && !strings.Contains(ct, "html") {
			return "", fmt.Errorf("fetch %s: unexpected content type %q", path, ct)
		}
		return TokenFromHTML(resp.Body)
	}
}
