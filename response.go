package superset

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// statusTexts is the fixed status phrase table used when building HTTP
// response errors. Codes outside the table fall back to "HTTP {code} error".
var statusTexts = map[int]string{
	0:   "Unknown",
	200: "OK",
	201: "Created",
	202: "Accepted",
	204: "No Content",
	400: "Bad Request",
	401: "Unauthorized",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	409: "Conflict",
	410: "Gone",
	412: "Precondition Failed",
	500: "Internal Server Error",
	503: "Service Unavailable",
}

// StatusText returns the phrase for an HTTP status code, falling back to
// "HTTP {code} error" for unmapped codes.
func StatusText(code int) string {
	if text, ok := statusTexts[code]; ok {
		return text
	}
	return fmt.Sprintf("HTTP %d error", code)
}

// ResponseHandler decodes raw response bodies and classifies HTTP statuses.
type ResponseHandler struct {
	logger zerolog.Logger
}

// NewResponseHandler returns a handler that logs raised errors through
// logger.
func NewResponseHandler(logger zerolog.Logger) *ResponseHandler {
	return &ResponseHandler{logger: logger}
}

// Handle decodes body as JSON and classifies httpStatus. For statuses below
// 400 the decoded value is returned unchanged (a map or a list; an empty
// object decodes to an empty map). Statuses of 400 and above raise an
// http_response error; anything that is not a JSON object or array raises a
// decode error.
func (h *ResponseHandler) Handle(body []byte, httpStatus int, context map[string]any) (any, error) {
	decoded, err := h.decode(body)
	if err != nil {
		return nil, err
	}

	if httpStatus >= 400 {
		return nil, h.httpError(httpStatus, decoded, context)
	}

	return decoded, nil
}

func (h *ResponseHandler) decode(body []byte) (any, error) {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, newError(h.logger, KindDecode, defaultDecodeMessage, 500, err,
			map[string]any{"response": string(body)})
	}
	switch decoded.(type) {
	case map[string]any, []any:
		return decoded, nil
	default:
		// Bare strings, numbers, booleans, and null are not valid API
		// payloads.
		return nil, newError(h.logger, KindDecode,
			"Received invalid data when decoding JSON response from Superset.", 500, nil,
			map[string]any{"response": string(body)})
	}
}

// httpError builds the error for a >= 400 status. The message/error/msg
// probe only selects which branch is taken; the raised message always uses
// the status-text phrase, matching the upstream integration's observed
// behavior.
func (h *ResponseHandler) httpError(httpStatus int, decoded any, context map[string]any) error {
	extracted := extractErrorMessage(decoded)
	statusText := StatusText(httpStatus)

	ctx := make(map[string]any, len(context)+3)
	for k, v := range context {
		ctx[k] = v
	}
	ctx["http_code"] = httpStatus
	ctx["status_text"] = statusText
	ctx["response"] = decoded

	if extracted == "" {
		return newError(h.logger, KindHTTPResponse, defaultHTTPResponseMessage, 500, nil, ctx)
	}

	message := fmt.Sprintf("Superset API request failed with HTTP error %d - %s", httpStatus, statusText)
	return newError(h.logger, KindHTTPResponse, message, httpStatus, nil, ctx)
}

// extractErrorMessage probes message, error, and msg in order; the first
// present key wins. Non-string values are flattened to their JSON encoding.
func extractErrorMessage(decoded any) string {
	body, ok := decoded.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"message", "error", "msg"} {
		raw, ok := body[key]
		if !ok || raw == nil {
			continue
		}
		switch v := raw.(type) {
		case string:
			return v
		case map[string]any, []any:
			encoded, err := json.Marshal(v)
			if err != nil {
				return ""
			}
			return string(encoded)
		default:
			// Scalar non-strings carry no usable message.
			return ""
		}
	}
	return ""
}
