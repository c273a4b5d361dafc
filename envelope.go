package shelterapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ambiyansyah-risyal/shelterapi/internal/log"
)

// Envelope is the normalized result of an API call.
//
// A successful envelope has Success set, Payload decoded, and Error and
// ErrorMessage empty. A failed envelope leaves Payload at its zero value and
// sets Error. ErrorMessage is only filled for failures reported by the
// server itself; transport and decoding failures leave it empty.
type Envelope[T any] struct {
	Success      bool
	Payload      T
	Error        error
	ErrorMessage string
	// Response is the raw response, if one was received. Its body has
	// already been consumed and closed.
	Response *http.Response
}

// responseBody is the wire shape every API endpoint answers with.
type responseBody struct {
	Success any             `json:"success"`
	Payload json.RawMessage `json:"payload"`
	Error   json.RawMessage `json:"error"`
}

// nestedPayload is how the server wraps keyword payloads one level deeper.
type nestedPayload struct {
	Payload json.RawMessage `json:"payload"`
}

type wrapOptions struct {
	logger    zerolog.Logger
	metrics   *MetricsCollector
	endpoint  string
	requestID string
	nested    bool
}

// Wrap converts the result of an HTTP round trip into an Envelope. It is
// shaped so that a call can be wrapped directly:
//
//	env := shelterapi.Wrap[[]Shelter](httpClient.Do(req))
//
// Wrap never panics on transport or decoding failures; every failure is
// logged and reported through the envelope.
func Wrap[T any](resp *http.Response, err error) *Envelope[T] {
	return wrap[T](resp, err, wrapOptions{logger: log.WithComponent("envelope")})
}

func wrap[T any](resp *http.Response, err error, opts wrapOptions) *Envelope[T] {
	env := &Envelope[T]{Response: resp}

	if err != nil {
		drain(resp)
		env.Error = asNetworkError(err, opts)
		return finish(env, opts)
	}
	if resp == nil {
		env.Error = &ClientError{Type: ErrorTypeNetwork, Message: "no response", Endpoint: opts.endpoint, RequestID: opts.requestID, Timestamp: time.Now()}
		return finish(env, opts)
	}

	var body responseBody
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)
	drain(resp)
	if decodeErr != nil {
		env.Error = parseError(resp, decodeErr, opts)
		return finish(env, opts)
	}

	if !truthy(body.Success) {
		apiErr, ok := decodeAPIError(body.Error)
		if !ok {
			env.Error = parseError(resp, ErrMissingErrorDetails, opts)
			return finish(env, opts)
		}
		env.Error = apiErr
		env.ErrorMessage = apiErr.Message
		return finish(env, opts)
	}

	raw := body.Payload
	if opts.nested && !isNull(raw) {
		var inner nestedPayload
		if err := json.Unmarshal(raw, &inner); err != nil {
			env.Error = parseError(resp, err, opts)
			return finish(env, opts)
		}
		raw = inner.Payload
	}

	var payload T
	if !isNull(raw) {
		if err := json.Unmarshal(raw, &payload); err != nil {
			env.Error = parseError(resp, err, opts)
			return finish(env, opts)
		}
	}
	env.Payload = payload
	env.Success = true
	return env
}

func finish[T any](env *Envelope[T], opts wrapOptions) *Envelope[T] {
	if env.Error == nil {
		return env
	}

	errType := ErrorType(env.Error)
	var apiErr *APIError
	if errors.As(env.Error, &apiErr) {
		errType = ErrorTypeApplication
	}
	opts.metrics.RecordEnvelopeFailure(errType, opts.endpoint)

	event := opts.logger.Error().
		Err(env.Error).
		Str(log.FieldErrorType, errType)
	if opts.endpoint != "" {
		event = event.Str(log.FieldEndpoint, opts.endpoint)
	}
	requestID := opts.requestID
	if requestID == "" && env.Response != nil && env.Response.Request != nil {
		requestID = env.Response.Request.Header.Get(HeaderRequestID)
	}
	if requestID != "" {
		event = event.Str(log.FieldRequestID, requestID)
	}
	if env.Response != nil {
		event = event.Int(log.FieldStatus, env.Response.StatusCode)
	}
	event.Msg("request failed")

	return env
}

func asNetworkError(err error, opts wrapOptions) error {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return err
	}
	return &ClientError{
		Type:      ErrorTypeNetwork,
		Message:   "network request failed",
		Cause:     err,
		Endpoint:  opts.endpoint,
		RequestID: opts.requestID,
		Timestamp: time.Now(),
	}
}

func parseError(resp *http.Response, cause error, opts wrapOptions) error {
	e := &ClientError{
		Type:       ErrorTypeParse,
		Message:    "invalid response body",
		Cause:      cause,
		Endpoint:   opts.endpoint,
		RequestID:  opts.requestID,
		StatusCode: resp.StatusCode,
		Timestamp:  time.Now(),
	}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		if resp.Request.URL != nil {
			e.URL = resp.Request.URL.String()
		}
	}
	return e
}

func decodeAPIError(raw json.RawMessage) (*APIError, bool) {
	if isNull(raw) {
		return nil, false
	}

	var details map[string]any
	if err := json.Unmarshal(raw, &details); err != nil {
		var value any
		_ = json.Unmarshal(raw, &value)
		return &APIError{Details: map[string]any{"error": value}}, true
	}

	message, _ := details["message"].(string)
	return &APIError{Message: message, Details: details}, true
}

// truthy mirrors how the web frontend tests the success flag.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func drain(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
