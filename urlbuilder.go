package superset

import (
	"fmt"
	"strings"
)

// URLBuilder composes versioned API URLs from the configured base URL.
type URLBuilder struct {
	baseURL string
	api     APIConfig
}

// NewURLBuilder returns a builder for baseURL using the version segment from
// api. The base URL is not validated; that is the caller's responsibility.
func NewURLBuilder(baseURL string, api APIConfig) *URLBuilder {
	return &URLBuilder{baseURL: baseURL, api: api}
}

// BaseURL returns the configured base URL unchanged.
func (b *URLBuilder) BaseURL() string {
	return b.baseURL
}

// Build joins the base URL and endpoint as {base}/api/{version}/{endpoint},
// normalizing to exactly one slash at the joins. Trailing slashes in the
// endpoint are preserved.
func (b *URLBuilder) Build(endpoint string) string {
	return fmt.Sprintf(
		"%s/api/%s/%s",
		strings.TrimRight(b.baseURL, "/"),
		b.api.Version,
		strings.TrimLeft(endpoint, "/"),
	)
}
