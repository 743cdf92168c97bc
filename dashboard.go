package superset

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Dashboard mirrors the Superset dashboard resource. Pointer fields are nil
// when the server omitted them; owner, tag, and role records stay dynamic
// maps in both directions.
type Dashboard struct {
	ID                  int
	Title               *string
	Slug                *string
	URL                 *string
	IsPublished         *bool
	CSS                 *string
	Position            *string
	Metadata            *string
	Owners              []map[string]any
	CreatedBy           map[string]any
	UpdatedBy           map[string]any
	UpdatedAt           *time.Time
	Tags                []map[string]any
	Roles               []map[string]any
	Thumbnail           *string
	IsManagedExternally *bool
}

// Name returns the dashboard title, falling back to the slug and then the
// numeric id. Used for display and fuzzy matching.
func (d *Dashboard) Name() string {
	if d.Title != nil && *d.Title != "" {
		return *d.Title
	}
	if d.Slug != nil && *d.Slug != "" {
		return *d.Slug
	}
	return fmt.Sprintf("dashboard %d", d.ID)
}

// dashboardField is one row of the declared field ↔ wire-key translation
// table driving both hydration and dehydration.
type dashboardField struct {
	wire      string
	required  bool
	hydrate   func(s *Serializer, d *Dashboard, v any) error
	dehydrate func(s *Serializer, d *Dashboard) any
}

var dashboardFields = []dashboardField{
	{wire: "id", required: true,
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			n, err := asInt("id", v)
			if err != nil {
				return err
			}
			d.ID = n
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return d.ID }},
	{wire: "dashboard_title",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			p, err := asString("dashboard_title", v)
			if err != nil {
				return err
			}
			d.Title = p
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return stringValue(d.Title) }},
	{wire: "slug",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			p, err := asString("slug", v)
			if err != nil {
				return err
			}
			d.Slug = p
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return stringValue(d.Slug) }},
	{wire: "url",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			p, err := asString("url", v)
			if err != nil {
				return err
			}
			d.URL = p
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return stringValue(d.URL) }},
	{wire: "published",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			p, err := asBool("published", v)
			if err != nil {
				return err
			}
			d.IsPublished = p
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return boolValue(d.IsPublished) }},
	{wire: "css",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			p, err := asString("css", v)
			if err != nil {
				return err
			}
			d.CSS = p
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return stringValue(d.CSS) }},
	{wire: "position_json",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			p, err := asString("position_json", v)
			if err != nil {
				return err
			}
			d.Position = p
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return stringValue(d.Position) }},
	{wire: "json_metadata",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			p, err := asString("json_metadata", v)
			if err != nil {
				return err
			}
			d.Metadata = p
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return stringValue(d.Metadata) }},
	{wire: "owners",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			list, err := asMapList("owners", v)
			if err != nil {
				return err
			}
			d.Owners = list
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return mapListValue(d.Owners) }},
	{wire: "created_by",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			m, err := asMap("created_by", v)
			if err != nil {
				return err
			}
			d.CreatedBy = m
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return mapValue(d.CreatedBy) }},
	{wire: "changed_by",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			m, err := asMap("changed_by", v)
			if err != nil {
				return err
			}
			d.UpdatedBy = m
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return mapValue(d.UpdatedBy) }},
	{wire: "changed_on",
		hydrate: func(s *Serializer, d *Dashboard, v any) error {
			t, err := s.parseTime("changed_on", v)
			if err != nil {
				return err
			}
			d.UpdatedAt = t
			return nil
		},
		dehydrate: func(s *Serializer, d *Dashboard) any { return s.formatTime(d.UpdatedAt) }},
	{wire: "tags",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			list, err := asMapList("tags", v)
			if err != nil {
				return err
			}
			d.Tags = list
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return mapListValue(d.Tags) }},
	{wire: "roles",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			list, err := asMapList("roles", v)
			if err != nil {
				return err
			}
			d.Roles = list
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return mapListValue(d.Roles) }},
	{wire: "thumbnail_url",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			p, err := asString("thumbnail_url", v)
			if err != nil {
				return err
			}
			d.Thumbnail = p
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return stringValue(d.Thumbnail) }},
	{wire: "is_managed_externally",
		hydrate: func(_ *Serializer, d *Dashboard, v any) error {
			p, err := asBool("is_managed_externally", v)
			if err != nil {
				return err
			}
			d.IsManagedExternally = p
			return nil
		},
		dehydrate: func(_ *Serializer, d *Dashboard) any { return boolValue(d.IsManagedExternally) }},
}

// DashboardService exposes the dashboard resource endpoints.
type DashboardService struct {
	transport  Transport
	urls       *URLBuilder
	serializer *Serializer
	logger     zerolog.Logger
}

// NewDashboardService returns a service bound to transport, urls, and
// serializer.
func NewDashboardService(transport Transport, urls *URLBuilder, serializer *Serializer, logger zerolog.Logger) *DashboardService {
	return &DashboardService{transport: transport, urls: urls, serializer: serializer, logger: logger}
}

// Get fetches one dashboard by numeric id or slug.
func (s *DashboardService) Get(ctx context.Context, identity string) (*Dashboard, error) {
	response, err := s.transport.Get(ctx, s.urls.Build("dashboard/"+identity), nil, nil)
	if err != nil {
		return nil, err
	}

	result, ok := response["result"].(map[string]any)
	if !ok {
		return nil, newError(s.logger, KindUnexpected,
			fmt.Sprintf("Dashboard data not found in response for dashboard identifier '%s'", identity),
			500, nil, map[string]any{"response": response})
	}

	return s.serializer.Hydrate(result)
}

// UUID fetches the embedded-dashboard uuid for a dashboard.
func (s *DashboardService) UUID(ctx context.Context, identity string) (string, error) {
	response, err := s.transport.Get(ctx, s.urls.Build("dashboard/"+identity+"/embedded"), nil, nil)
	if err != nil {
		return "", err
	}

	result, _ := response["result"].(map[string]any)
	uuid, ok := result["uuid"].(string)
	if !ok {
		return "", newError(s.logger, KindUnexpected,
			fmt.Sprintf("Dashboard UUID not found in response for dashboard identifier '%s'", identity),
			500, nil, map[string]any{"response": response})
	}

	return uuid, nil
}

// ListOptions narrows a dashboard listing. Nil fields send no corresponding
// query parameter.
type ListOptions struct {
	// Tag filters to dashboards carrying the named tag.
	Tag *string
	// OnlyPublished filters on the published flag when set.
	OnlyPublished *bool
}

// List fetches dashboards, optionally filtered. A missing or empty result is
// an empty slice, not an error. Elements that are not objects are skipped
// silently; the rest are hydrated in their original order.
func (s *DashboardService) List(ctx context.Context, opts ListOptions) ([]*Dashboard, error) {
	response, err := s.transport.Get(ctx, s.urls.Build("dashboard"), listQuery(opts), nil)
	if err != nil {
		return nil, err
	}

	raw, ok := response["result"]
	if !ok || raw == nil || raw == "" {
		return []*Dashboard{}, nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil, newError(s.logger, KindUnexpected,
			"Invalid dashboards data format received from API", 500, nil,
			map[string]any{"response": response})
	}

	dashboards := make([]*Dashboard, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		dashboard, err := s.serializer.Hydrate(entry)
		if err != nil {
			return nil, err
		}
		dashboards = append(dashboards, dashboard)
	}
	return dashboards, nil
}

func listQuery(opts ListOptions) url.Values {
	query := url.Values{}
	if opts.Tag != nil {
		filter, _ := json.Marshal(map[string]any{
			"filters": []map[string]any{
				{"col": "tags", "opr": "dashboard_tags", "value": *opts.Tag},
			},
		})
		query.Set("q", string(filter))
	}
	if opts.OnlyPublished != nil {
		if *opts.OnlyPublished {
			query.Set("published", "true")
		} else {
			query.Set("published", "false")
		}
	}
	if len(query) == 0 {
		return nil
	}
	return query
}
