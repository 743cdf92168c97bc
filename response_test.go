package superset

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func newTestHandler() *ResponseHandler {
	return NewResponseHandler(zerolog.Nop())
}

func TestHandleSuccessReturnsDecodedValueUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected any
	}{
		{"object", `{"status":"success"}`, map[string]any{"status": "success"}},
		{"empty object", `{}`, map[string]any{}},
		{"nested object", `{"result":{"id":1}}`, map[string]any{"result": map[string]any{"id": float64(1)}}},
		{"list", `[{"id":1},{"id":2}]`, []any{map[string]any{"id": float64(1)}, map[string]any{"id": float64(2)}}},
		{"empty list", `[]`, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestHandler().Handle([]byte(tt.body), 200, nil)
			if err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Handle() = %#v, want %#v", got, tt.expected)
			}
		})
	}
}

func TestHandleDecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"empty body", ``},
		{"bare string", `"hello"`},
		{"bare number", `42`},
		{"bare bool", `true`},
		{"bare null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestHandler().Handle([]byte(tt.body), 200, nil)
			if err == nil {
				t.Fatal("Handle() expected error, got nil")
			}
			if !IsDecodeError(err) {
				t.Errorf("expected decode error, got %v", err)
			}
		})
	}
}

func TestHandleErrorStatusWithMessage(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"401 message key", 401, `{"message":"invalid credentials"}`,
			"Superset API request failed with HTTP error 401 - Unauthorized"},
		{"404 error key", 404, `{"error":"no such dashboard"}`,
			"Superset API request failed with HTTP error 404 - Not Found"},
		{"500 msg key", 500, `{"msg":"boom"}`,
			"Superset API request failed with HTTP error 500 - Internal Server Error"},
		{"message wins over error", 400, `{"message":"first","error":"second"}`,
			"Superset API request failed with HTTP error 400 - Bad Request"},
		{"unmapped status", 599, `{"message":"weird"}`,
			"Superset API request failed with HTTP error 599 - HTTP 599 error"},
		{"object message flattened", 422, `{"message":{"name":["required"]}}`,
			"Superset API request failed with HTTP error 422 - HTTP 422 error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestHandler().Handle([]byte(tt.body), tt.status, nil)
			if err == nil {
				t.Fatal("Handle() expected error, got nil")
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if e.Kind != KindHTTPResponse {
				t.Errorf("Kind = %s, want %s", e.Kind, KindHTTPResponse)
			}
			if e.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", e.Message, tt.wantMessage)
			}
			if e.Code != tt.status {
				t.Errorf("Code = %d, want %d", e.Code, tt.status)
			}
		})
	}
}

func TestHandleErrorStatusWithoutMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no known keys", `{"detail":"something"}`},
		{"empty object", `{}`},
		{"empty message", `{"message":""}`},
		{"null message and no fallback", `{"message":null}`},
		{"numeric message", `{"message":42}`},
		{"list body", `[{"oops":true}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestHandler().Handle([]byte(tt.body), 503, nil)
			if err == nil {
				t.Fatal("Handle() expected error, got nil")
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if e.Message != "Unexpected HTTP response from Superset." {
				t.Errorf("Message = %q, want generic default", e.Message)
			}
		})
	}
}

func TestHandleNullMessageFallsThroughToErrorKey(t *testing.T) {
	_, err := newTestHandler().Handle([]byte(`{"message":null,"error":"real"}`), 403, nil)
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if e.Message != "Superset API request failed with HTTP error 403 - Forbidden" {
		t.Errorf("Message = %q, want the status-text message", e.Message)
	}
	if e.Code != 403 {
		t.Errorf("Code = %d, want 403", e.Code)
	}
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "OK"},
		{201, "Created"},
		{202, "Accepted"},
		{204, "No Content"},
		{400, "Bad Request"},
		{401, "Unauthorized"},
		{403, "Forbidden"},
		{404, "Not Found"},
		{405, "Method Not Allowed"},
		{409, "Conflict"},
		{410, "Gone"},
		{412, "Precondition Failed"},
		{500, "Internal Server Error"},
		{503, "Service Unavailable"},
		{0, "Unknown"},
		{599, "HTTP 599 error"},
		{418, "HTTP 418 error"},
	}

	for _, tt := range tests {
		if got := StatusText(tt.code); got != tt.expected {
			t.Errorf("StatusText(%d) = %q, want %q", tt.code, got, tt.expected)
		}
	}
}
