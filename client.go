package superset

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"
)

// Client is the facade composing the URL builder, transport, auth service,
// and serializer. A client instance holds all mutable state (tokens,
// cookies, default headers); nothing is shared between instances.
type Client struct {
	transport  Transport
	urls       *URLBuilder
	auth       *AuthService
	serializer *Serializer
	dashboards *DashboardService
	logger     zerolog.Logger
}

// Option customizes client construction.
type Option func(*options)

type options struct {
	httpConfig       *HTTPClientConfig
	apiConfig        APIConfig
	serializerConfig SerializerConfig
	transport        Transport
	logger           zerolog.Logger
}

// WithHTTPConfig replaces the transport configuration. A BaseURL set on the
// config takes precedence over the one passed to New.
func WithHTTPConfig(config HTTPClientConfig) Option {
	return func(o *options) { o.httpConfig = &config }
}

// WithAPIConfig replaces the API version and default headers.
func WithAPIConfig(config APIConfig) Option {
	return func(o *options) { o.apiConfig = config }
}

// WithSerializerConfig replaces the timestamp layout and time zone.
func WithSerializerConfig(config SerializerConfig) Option {
	return func(o *options) { o.serializerConfig = config }
}

// WithTransport injects a transport implementation, bypassing the built-in
// HTTP client. Intended for tests and instrumentation.
func WithTransport(transport Transport) Option {
	return func(o *options) { o.transport = transport }
}

// WithLogger sets the logger used for raise-site error logging. Without it
// the client is silent.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New builds a client for the Superset instance at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	o := options{
		apiConfig:        NewAPIConfig(),
		serializerConfig: NewSerializerConfig(),
		logger:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	httpConfig := NewHTTPClientConfig(baseURL)
	if o.httpConfig != nil {
		httpConfig = *o.httpConfig
		if httpConfig.BaseURL == "" {
			httpConfig.BaseURL = baseURL
		}
	}

	transport := o.transport
	if transport == nil {
		transport = NewHTTPClient(httpConfig, o.logger)
	}

	serializer, err := NewSerializer(o.serializerConfig, o.logger)
	if err != nil {
		return nil, err
	}

	urls := NewURLBuilder(httpConfig.BaseURL, o.apiConfig)
	auth := NewAuthService(transport, urls, o.logger)
	dashboards := NewDashboardService(transport, urls, serializer, o.logger)

	return &Client{
		transport:  transport,
		urls:       urls,
		auth:       auth,
		serializer: serializer,
		dashboards: dashboards,
		logger:     o.logger,
	}, nil
}

// NewAuthenticated builds a client and logs in before returning it.
func NewAuthenticated(ctx context.Context, baseURL, username, password string, opts ...Option) (*Client, error) {
	client, err := New(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	if err := client.auth.Authenticate(ctx, username, password); err != nil {
		return nil, err
	}
	return client, nil
}

// Auth returns the authentication service.
func (c *Client) Auth() *AuthService {
	return c.auth
}

// URL returns the URL builder.
func (c *Client) URL() *URLBuilder {
	return c.urls
}

// Dashboards returns the dashboard resource service.
func (c *Client) Dashboards() *DashboardService {
	return c.dashboards
}

// GetDashboard fetches one dashboard by numeric id or slug.
func (c *Client) GetDashboard(ctx context.Context, identity string) (*Dashboard, error) {
	return c.dashboards.Get(ctx, identity)
}

// GetDashboardUUID fetches the embedded-dashboard uuid for a dashboard.
func (c *Client) GetDashboardUUID(ctx context.Context, identity string) (string, error) {
	return c.dashboards.UUID(ctx, identity)
}

// GetDashboards lists dashboards, optionally filtered by tag and published
// state.
func (c *Client) GetDashboards(ctx context.Context, opts ListOptions) ([]*Dashboard, error) {
	return c.dashboards.List(ctx, opts)
}

// DehydrateDashboard converts a Dashboard back into its wire-format map.
func (c *Client) DehydrateDashboard(d *Dashboard) (map[string]any, error) {
	return c.serializer.Dehydrate(d)
}

// Get issues a GET against an arbitrary endpoint below /api/{version}/ with
// no response-shape validation.
func (c *Client) Get(ctx context.Context, endpoint string, query url.Values) (map[string]any, error) {
	return c.transport.Get(ctx, c.urls.Build(endpoint), query, nil)
}

// Post issues a POST against an arbitrary endpoint.
func (c *Client) Post(ctx context.Context, endpoint string, data map[string]any) (map[string]any, error) {
	return c.transport.Post(ctx, c.urls.Build(endpoint), data, nil)
}

// Put issues a PUT against an arbitrary endpoint.
func (c *Client) Put(ctx context.Context, endpoint string, data map[string]any) (map[string]any, error) {
	return c.transport.Put(ctx, c.urls.Build(endpoint), data, nil)
}

// Patch issues a PATCH against an arbitrary endpoint.
func (c *Client) Patch(ctx context.Context, endpoint string, data map[string]any) (map[string]any, error) {
	return c.transport.Patch(ctx, c.urls.Build(endpoint), data, nil)
}

// Delete issues a DELETE against an arbitrary endpoint.
func (c *Client) Delete(ctx context.Context, endpoint string) (map[string]any, error) {
	return c.transport.Delete(ctx, c.urls.Build(endpoint), nil)
}

// String returns a pointer to s, for use in ListOptions.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for use in ListOptions.
func Bool(b bool) *bool { return &b }
