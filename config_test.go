package superset

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPClientConfigDefaults(t *testing.T) {
	cfg := NewHTTPClientConfig("https://superset.example.com")

	assert.Equal(t, "https://superset.example.com", cfg.BaseURL)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultMaxRedirects, cfg.MaxRedirects)
	assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
	assert.False(t, cfg.VerifySSL)
	assert.True(t, cfg.FollowRedirects)
	assert.Nil(t, cfg.Debug)
}

func TestHTTPClientConfigCopyOnWrite(t *testing.T) {
	base := NewHTTPClientConfig("https://superset.example.com")

	derived := base.
		WithTimeout(30 * time.Second).
		WithMaxRedirects(10).
		WithUserAgent("custom/1.0").
		WithVerifySSL(true).
		WithFollowRedirects(false).
		WithDebug(os.Stderr)

	assert.Equal(t, 30*time.Second, derived.Timeout)
	assert.Equal(t, 10, derived.MaxRedirects)
	assert.Equal(t, "custom/1.0", derived.UserAgent)
	assert.True(t, derived.VerifySSL)
	assert.False(t, derived.FollowRedirects)
	assert.NotNil(t, derived.Debug)

	// The original is untouched.
	assert.Equal(t, DefaultTimeout, base.Timeout)
	assert.Equal(t, DefaultMaxRedirects, base.MaxRedirects)
	assert.Equal(t, DefaultUserAgent, base.UserAgent)
	assert.False(t, base.VerifySSL)
	assert.True(t, base.FollowRedirects)
	assert.Nil(t, base.Debug)
}

func TestAPIConfig(t *testing.T) {
	cfg := NewAPIConfig()
	assert.Equal(t, DefaultAPIVersion, cfg.Version)
	assert.Equal(t, map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}, cfg.Headers())

	custom := cfg.WithVersion("v2").WithHeaders(map[string]string{
		"X-Tenant": "acme",
	})
	assert.Equal(t, "v2", custom.Version)
	assert.Equal(t, map[string]string{"X-Tenant": "acme"}, custom.Headers())
	assert.Equal(t, DefaultAPIVersion, cfg.Version)
	assert.Contains(t, cfg.Headers(), "Content-Type")
}

func TestAPIConfigWithHeadersReplacesAndDropsEmpty(t *testing.T) {
	cfg := NewAPIConfig().WithHeaders(map[string]string{
		"X-Tenant": "acme",
		"X-Trace":  "on",
	})

	replaced := cfg.WithHeaders(map[string]string{
		"X-Trace": "",
		"X-Extra": "1",
	})

	assert.Equal(t, map[string]string{"X-Extra": "1"}, replaced.Headers())
	// Source config keeps its headers.
	assert.Equal(t, map[string]string{"X-Tenant": "acme", "X-Trace": "on"}, cfg.Headers())
}

func TestAPIConfigHeadersReturnsCopy(t *testing.T) {
	cfg := NewAPIConfig().WithHeaders(map[string]string{"X-Tenant": "acme"})

	headers := cfg.Headers()
	headers["X-Tenant"] = "mutated"

	assert.Equal(t, map[string]string{"X-Tenant": "acme"}, cfg.Headers())
}

func TestSerializerConfig(t *testing.T) {
	cfg := NewSerializerConfig()
	assert.Equal(t, DefaultDateTimeFormat, cfg.DateTimeFormat)
	assert.Equal(t, DefaultTimeZone, cfg.TimeZone)

	custom := cfg.WithDateTimeFormat("2006-01-02").WithTimeZone("Europe/Berlin")
	assert.Equal(t, "2006-01-02", custom.DateTimeFormat)
	assert.Equal(t, "Europe/Berlin", custom.TimeZone)
	assert.Equal(t, DefaultDateTimeFormat, cfg.DateTimeFormat)
	assert.Equal(t, DefaultTimeZone, cfg.TimeZone)
}

func TestGuestUserConfigAttributes(t *testing.T) {
	tests := []struct {
		name string
		cfg  GuestUserConfig
		want map[string]string
	}{
		{
			name: "all defaults",
			cfg:  GuestUserConfig{},
			want: map[string]string{
				"first_name": "Guest",
				"last_name":  "User",
				"username":   "Guest_User",
			},
		},
		{
			name: "explicit names",
			cfg:  GuestUserConfig{FirstName: "Jane", LastName: "Doe"},
			want: map[string]string{
				"first_name": "Jane",
				"last_name":  "Doe",
				"username":   "Jane_Doe",
			},
		},
		{
			name: "explicit username wins",
			cfg:  GuestUserConfig{FirstName: "Jane", LastName: "Doe", Username: "jdoe"},
			want: map[string]string{
				"first_name": "Jane",
				"last_name":  "Doe",
				"username":   "jdoe",
			},
		},
		{
			name: "spaces collapse in derived username",
			cfg:  GuestUserConfig{FirstName: "Mary Jane", LastName: "van  Dyke"},
			want: map[string]string{
				"first_name": "Mary Jane",
				"last_name":  "van  Dyke",
				"username":   "Mary_Jane_van_Dyke",
			},
		},
		{
			name: "whitespace-only name is kept verbatim",
			cfg:  GuestUserConfig{FirstName: "  ", LastName: "Doe"},
			want: map[string]string{
				"first_name": "  ",
				"last_name":  "Doe",
				"username":   "__Doe",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Attributes())
		})
	}
}
