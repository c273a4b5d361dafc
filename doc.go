// Package shelterapi is the client for the shelter-finder web API. It covers
// the plumbing every call needs:
//
//   - Query strings built from ordered parameters, skipping unset values
//   - Request headers with the session's CSRF token
//   - JSON and multipart request bodies
//   - A uniform Envelope for every response, success or failure
//   - Typed endpoint methods (shelters around a point, shelter details,
//     place search)
//   - Middleware, client-side rate limiting, Prometheus metrics,
//     OpenTelemetry tracing and zerolog logging
//
// Typical usage:
//
//	client := shelterapi.New("https://schrony.example.org",
//	    shelterapi.WithTimeout(10*time.Second),
//	    shelterapi.WithMetrics(),
//	)
//	env := client.SheltersForPoint(ctx, shelterapi.PointQuery{
//	    Point: shelterapi.Point{Longitude: 21.01, Latitude: 52.23},
//	})
//	if !env.Success {
//	    return env.Error
//	}
//
// Envelopes never carry a Go panic or a lost error: network failures and
// undecodable bodies are reported through Envelope.Error, failures reported
// by the server additionally fill Envelope.ErrorMessage. The only errors
// returned outside an envelope are precondition failures (a CSRF token that
// cannot be read), returned by Call and RequestHeaders, and body encoding
// failures, returned by JSON and FormData.
package shelterapi
