package superset

import (
	"io"
	"regexp"
	"time"
)

const (
	// DefaultTimeout bounds each HTTP request issued by the client.
	DefaultTimeout = 15 * time.Second
	// DefaultMaxRedirects caps redirect chains when redirect following is on.
	DefaultMaxRedirects = 3
	// DefaultAPIVersion is the versioned path segment of every API URL.
	DefaultAPIVersion = "v1"
	// DefaultDateTimeFormat is the wire layout for dashboard timestamps.
	DefaultDateTimeFormat = time.RFC3339
	// DefaultTimeZone is the zone timestamps are parsed into and formatted
	// from.
	DefaultTimeZone = "UTC"
)

// HTTPClientConfig is an immutable value describing how the transport is
// built. The With* methods return updated copies and never mutate the
// receiver, so a config can be shared safely.
type HTTPClientConfig struct {
	BaseURL         string
	Timeout         time.Duration
	MaxRedirects    int
	UserAgent       string
	VerifySSL       bool
	FollowRedirects bool
	// Debug receives raw request and response dumps when non-nil.
	Debug io.Writer
}

// NewHTTPClientConfig returns a config with library defaults for baseURL.
// TLS verification is off by default, mirroring the upstream integration's
// tolerance for self-signed Superset deployments.
func NewHTTPClientConfig(baseURL string) HTTPClientConfig {
	return HTTPClientConfig{
		BaseURL:         baseURL,
		Timeout:         DefaultTimeout,
		MaxRedirects:    DefaultMaxRedirects,
		UserAgent:       DefaultUserAgent,
		VerifySSL:       false,
		FollowRedirects: true,
	}
}

// WithBaseURL returns a copy with the base URL replaced.
func (c HTTPClientConfig) WithBaseURL(baseURL string) HTTPClientConfig {
	c.BaseURL = baseURL
	return c
}

// WithTimeout returns a copy with the request timeout replaced.
func (c HTTPClientConfig) WithTimeout(timeout time.Duration) HTTPClientConfig {
	c.Timeout = timeout
	return c
}

// WithMaxRedirects returns a copy with the redirect cap replaced.
func (c HTTPClientConfig) WithMaxRedirects(max int) HTTPClientConfig {
	c.MaxRedirects = max
	return c
}

// WithUserAgent returns a copy with the User-Agent replaced.
func (c HTTPClientConfig) WithUserAgent(userAgent string) HTTPClientConfig {
	c.UserAgent = userAgent
	return c
}

// WithVerifySSL returns a copy with TLS certificate verification toggled.
func (c HTTPClientConfig) WithVerifySSL(verify bool) HTTPClientConfig {
	c.VerifySSL = verify
	return c
}

// WithFollowRedirects returns a copy with redirect following toggled.
func (c HTTPClientConfig) WithFollowRedirects(follow bool) HTTPClientConfig {
	c.FollowRedirects = follow
	return c
}

// WithDebug returns a copy that dumps raw requests and responses to w.
func (c HTTPClientConfig) WithDebug(w io.Writer) HTTPClientConfig {
	c.Debug = w
	return c
}

// APIConfig is an immutable value holding the API version segment and the
// default request headers.
type APIConfig struct {
	Version string
	headers map[string]string
}

// NewAPIConfig returns the default API config: version v1 and JSON
// content-type and accept headers.
func NewAPIConfig() APIConfig {
	return APIConfig{
		Version: DefaultAPIVersion,
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
	}
}

// Headers returns a copy of the default headers.
func (c APIConfig) Headers() map[string]string {
	out := make(map[string]string, len(c.headers))
	for k, v := range c.headers {
		out[k] = v
	}
	return out
}

// WithVersion returns a copy with the version segment replaced.
func (c APIConfig) WithVersion(version string) APIConfig {
	c2 := APIConfig{Version: version, headers: c.Headers()}
	return c2
}

// WithHeaders returns a copy with the default headers replaced. Entries with
// an empty value are dropped, so a caller can unset an inherited header by
// overriding it with "".
func (c APIConfig) WithHeaders(headers map[string]string) APIConfig {
	filtered := make(map[string]string, len(headers))
	for k, v := range headers {
		if v != "" {
			filtered[k] = v
		}
	}
	return APIConfig{Version: c.Version, headers: filtered}
}

// SerializerConfig is an immutable value holding the timestamp layout and
// time zone used when hydrating and dehydrating dashboards.
type SerializerConfig struct {
	DateTimeFormat string
	TimeZone       string
}

// NewSerializerConfig returns the default serializer config: RFC3339 in UTC.
func NewSerializerConfig() SerializerConfig {
	return SerializerConfig{
		DateTimeFormat: DefaultDateTimeFormat,
		TimeZone:       DefaultTimeZone,
	}
}

// WithDateTimeFormat returns a copy with the timestamp layout replaced.
func (c SerializerConfig) WithDateTimeFormat(layout string) SerializerConfig {
	c.DateTimeFormat = layout
	return c
}

// WithTimeZone returns a copy with the time zone replaced.
func (c SerializerConfig) WithTimeZone(zone string) SerializerConfig {
	c.TimeZone = zone
	return c
}

// Guest user defaults applied when no name is supplied.
const (
	GuestFirstName = "Guest"
	GuestLastName  = "User"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// GuestUserConfig describes the synthetic user attached to a guest token
// request. Zero-length fields fall back to the Guest/User defaults;
// whitespace-only values are kept verbatim.
type GuestUserConfig struct {
	FirstName string
	LastName  string
	Username  string
}

// Attributes returns the wire-format user record for a guest token request.
// A missing username is synthesized as "first_last" with whitespace runs
// collapsed to single underscores.
func (c GuestUserConfig) Attributes() map[string]string {
	return map[string]string{
		"first_name": c.firstName(),
		"last_name":  c.lastName(),
		"username":   c.username(),
	}
}

func (c GuestUserConfig) firstName() string {
	if c.FirstName == "" {
		return GuestFirstName
	}
	return c.FirstName
}

func (c GuestUserConfig) lastName() string {
	if c.LastName == "" {
		return GuestLastName
	}
	return c.LastName
}

func (c GuestUserConfig) username() string {
	if c.Username != "" {
		return c.Username
	}
	return whitespaceRun.ReplaceAllString(c.firstName()+"_"+c.lastName(), "_")
}
