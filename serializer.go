package superset

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Serializer maps between wire-format maps and the Dashboard DTO using the
// statically declared field table in dashboard.go. Timestamps are parsed and
// formatted with the configured layout and time zone.
type Serializer struct {
	config   SerializerConfig
	location *time.Location
	logger   zerolog.Logger
}

// NewSerializer builds a serializer from config. It fails when the
// configured time zone is unknown.
func NewSerializer(config SerializerConfig, logger zerolog.Logger) (*Serializer, error) {
	location, err := time.LoadLocation(config.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", config.TimeZone, err)
	}
	return &Serializer{config: config, location: location, logger: logger}, nil
}

// Hydrate maps wire-format data into a Dashboard. Keys without a declared
// mapping are ignored; missing optional fields keep their zero values. A
// type mismatch or a missing id raises a serialization error.
func (s *Serializer) Hydrate(data map[string]any) (*Dashboard, error) {
	d := &Dashboard{}
	for _, field := range dashboardFields {
		value, ok := data[field.wire]
		if !ok || value == nil {
			if field.required {
				return nil, s.hydrateError(fmt.Errorf("missing required field %q", field.wire))
			}
			continue
		}
		if err := field.hydrate(s, d, value); err != nil {
			return nil, s.hydrateError(err)
		}
	}
	return d, nil
}

// Dehydrate maps a Dashboard back into its wire format. Every declared
// field is emitted; unset optionals become nil and unset lists become empty
// lists.
func (s *Serializer) Dehydrate(d *Dashboard) (map[string]any, error) {
	if d == nil {
		return nil, newError(s.logger, KindSerialization,
			"Failed to dehydrate: nil dashboard", 500, nil, nil)
	}
	out := make(map[string]any, len(dashboardFields))
	for _, field := range dashboardFields {
		out[field.wire] = field.dehydrate(s, d)
	}
	return out, nil
}

func (s *Serializer) hydrateError(cause error) error {
	return newError(s.logger, KindSerialization,
		fmt.Sprintf("Failed to hydrate data into Dashboard: %v", cause), 500, cause, nil)
}

func (s *Serializer) parseTime(wire string, v any) (*time.Time, error) {
	raw, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("field %s: expected timestamp string, got %T", wire, v)
	}
	t, err := time.ParseInLocation(s.config.DateTimeFormat, raw, s.location)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", wire, err)
	}
	return &t, nil
}

func (s *Serializer) formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.In(s.location).Format(s.config.DateTimeFormat)
}

// Conversion helpers shared by the field table. JSON numbers arrive as
// float64 from encoding/json.

func asInt(wire string, v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("field %s: %w", wire, err)
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("field %s: expected number, got %T", wire, v)
	}
}

func asString(wire string, v any) (*string, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("field %s: expected string, got %T", wire, v)
	}
	return &s, nil
}

func asBool(wire string, v any) (*bool, error) {
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("field %s: expected bool, got %T", wire, v)
	}
	return &b, nil
}

func asMap(wire string, v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("field %s: expected object, got %T", wire, v)
	}
	return m, nil
}

func asMapList(wire string, v any) ([]map[string]any, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("field %s: expected list, got %T", wire, v)
	}
	out := make([]map[string]any, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field %s[%d]: expected object, got %T", wire, i, item)
		}
		out = append(out, m)
	}
	return out, nil
}

func stringValue(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func boolValue(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func mapListValue(list []map[string]any) any {
	if list == nil {
		return []map[string]any{}
	}
	return list
}

func mapValue(m map[string]any) any {
	if m == nil {
		return nil
	}
	return m
}
