// Package outfmt carries the CLI output mode and jq filter through context
// and renders values accordingly.
package outfmt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Mode is the CLI output format.
type Mode int

const (
	// Text is the default human-readable output.
	Text Mode = iota
	// JSON outputs indented JSON.
	JSON
	// JSONL outputs newline-delimited JSON, one value per line.
	JSONL
)

type (
	modeKey  struct{}
	queryKey struct{}
)

// Parse parses an output mode string.
func Parse(s string) (Mode, error) {
	switch s {
	case "text", "":
		return Text, nil
	case "json":
		return JSON, nil
	case "jsonl", "ndjson":
		return JSONL, nil
	default:
		return Text, fmt.Errorf("invalid output format: %q (use 'text', 'json', 'jsonl', or 'ndjson')", s)
	}
}

// String returns the canonical name of the mode.
func (m Mode) String() string {
	switch m {
	case JSON:
		return "json"
	case JSONL:
		return "jsonl"
	default:
		return "text"
	}
}

// WithMode adds the output mode to the context.
func WithMode(ctx context.Context, mode Mode) context.Context {
	return context.WithValue(ctx, modeKey{}, mode)
}

// ModeFromContext retrieves the output mode from context.
func ModeFromContext(ctx context.Context) Mode {
	if mode, ok := ctx.Value(modeKey{}).(Mode); ok {
		return mode
	}
	return Text
}

// IsJSON reports whether the context selects a JSON output mode.
func IsJSON(ctx context.Context) bool {
	mode := ModeFromContext(ctx)
	return mode == JSON || mode == JSONL
}

// WithQuery adds a jq filter expression to the context.
func WithQuery(ctx context.Context, query string) context.Context {
	return context.WithValue(ctx, queryKey{}, query)
}

// QueryFromContext retrieves the jq filter from context.
func QueryFromContext(ctx context.Context) string {
	if q, ok := ctx.Value(queryKey{}).(string); ok {
		return q
	}
	return ""
}

// WriteJSON writes a value as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Write renders v honoring the context's output mode and jq filter. JSONL
// mode writes top-level array elements one per line.
func Write(ctx context.Context, w io.Writer, v any) error {
	filtered, err := Filter(v, QueryFromContext(ctx))
	if err != nil {
		return err
	}

	if ModeFromContext(ctx) == JSONL {
		enc := json.NewEncoder(w)
		if list, ok := filtered.([]any); ok {
			for _, item := range list {
				if err := enc.Encode(item); err != nil {
					return err
				}
			}
			return nil
		}
		return enc.Encode(filtered)
	}

	return WriteJSON(w, filtered)
}
