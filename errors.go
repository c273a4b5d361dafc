package shelterapi

import (
	"errors"
	"fmt"
	"time"
)

// Error types carried by ClientError.Type.
const (
	ErrorTypeNetwork      = "NetworkError"
	ErrorTypeParse        = "ParseError"
	ErrorTypeApplication  = "ApplicationError"
	ErrorTypePrecondition = "PreconditionError"
	ErrorTypeValidation   = "ValidationError"
	ErrorTypeRateLimit    = "RateLimitError"
)

// Sentinel errors for common failure scenarios
var (
	// ErrCSRFTokenMissing is returned when the page carries no
	// csrfmiddlewaretoken field.
	ErrCSRFTokenMissing = errors.New("shelterapi: csrf token missing")

	// ErrMissingErrorDetails is returned when the server reports a failure
	// without an error object.
	ErrMissingErrorDetails = errors.New("shelterapi: failed response without error details")

	// ErrNoTokenLoader is returned by a CSRFStore that has nothing to load from.
	ErrNoTokenLoader = errors.New("shelterapi: no csrf token loader configured")
)

// ClientError describes a failure observed by the client, with enough
// request context to be logged on its own.
type ClientError struct {
	Type       string
	Message    string
	Cause      error
	RequestID  string
	Method     string
	URL        string
	Endpoint   string
	StatusCode int
	Timestamp  time.Time
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *ClientError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if e.Endpoint != "" {
		info += fmt.Sprintf("Endpoint: %s\n", e.Endpoint)
	}
	if e.StatusCode > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.StatusCode)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// IsPrecondition reports whether err is a precondition failure, i.e. one
// that is returned to the caller instead of being folded into an Envelope.
func IsPrecondition(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrorTypePrecondition
	}
	return errors.Is(err, ErrCSRFTokenMissing)
}

// ErrorType returns the ClientError type of err, or "" if err carries none.
func ErrorType(err error) string {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type
	}
	return ""
}

// APIError is the error object a failed response carries.
type APIError struct {
	Message string
	Details map[string]any
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message == "" {
		return "api error"
	}
	return "api error: " + e.Message
}
