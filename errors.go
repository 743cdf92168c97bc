package superset

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrorKind classifies client failures so callers can branch on the failure
// class rather than on message text.
type ErrorKind string

const (
	// KindAuthentication indicates a missing or malformed token in a
	// security-endpoint response.
	KindAuthentication ErrorKind = "authentication"
	// KindTransport indicates a network-level failure (connection refused,
	// timeout). The status code is always 0.
	KindTransport ErrorKind = "transport"
	// KindHTTPResponse indicates the server answered with status >= 400.
	KindHTTPResponse ErrorKind = "http_response"
	// KindDecode indicates the response body was not valid JSON or decoded
	// to a non-object, non-array value.
	KindDecode ErrorKind = "decode"
	// KindSerialization indicates a hydration or dehydration type mismatch.
	KindSerialization ErrorKind = "serialization"
	// KindUnexpected indicates a successful response whose payload does not
	// match the expected application-level shape.
	KindUnexpected ErrorKind = "unexpected"
)

// Default messages and codes, matching the server-facing wording used by the
// upstream Superset integration.
const (
	defaultHTTPResponseMessage  = "Unexpected HTTP response from Superset."
	defaultDecodeMessage        = "Failed to decode JSON response from Superset."
	defaultUnexpectedMessage    = "An unexpected runtime error occurred in Superset integration."
	defaultSerializationMessage = "An error occurred during serialization/deserialization."
	defaultAuthMessage          = "Authentication failed."
)

// Error is the single error type returned by this library. Kind identifies
// the failure class, Code carries the HTTP status where one applies (0 for
// transport failures), and Context holds request metadata recorded at the
// raise site.
type Error struct {
	Kind    ErrorKind
	Message string
	Code    int
	Context map[string]any
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError builds an Error and logs it through the supplied logger. A
// zerolog.Nop() logger makes the logging side effect silent.
func newError(logger zerolog.Logger, kind ErrorKind, message string, code int, cause error, context map[string]any) *Error {
	e := &Error{
		Kind:    kind,
		Message: message,
		Code:    code,
		Context: context,
		Err:     cause,
	}
	ev := logger.Error().
		Str("kind", string(kind)).
		Int("code", code)
	if cause != nil {
		ev = ev.AnErr("cause", cause)
	}
	if len(context) > 0 {
		ev = ev.Fields(context)
	}
	ev.Msg(message)
	return e
}

func isKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsAuthenticationError reports whether err is an authentication failure.
func IsAuthenticationError(err error) bool { return isKind(err, KindAuthentication) }

// IsTransportError reports whether err is a network-level failure.
func IsTransportError(err error) bool { return isKind(err, KindTransport) }

// IsHTTPResponseError reports whether err is a status >= 400 failure.
func IsHTTPResponseError(err error) bool { return isKind(err, KindHTTPResponse) }

// IsDecodeError reports whether err is a JSON decode failure.
func IsDecodeError(err error) bool { return isKind(err, KindDecode) }

// IsSerializationError reports whether err is a hydration or dehydration
// failure.
func IsSerializationError(err error) bool { return isKind(err, KindSerialization) }

// IsUnexpectedError reports whether err is a response-shape failure.
func IsUnexpectedError(err error) bool { return isKind(err, KindUnexpected) }

// IsNotFoundError reports whether err is an HTTP response failure with
// status 404.
func IsNotFoundError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindHTTPResponse && e.Code == 404
}
