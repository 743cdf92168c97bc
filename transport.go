package superset

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Transport is the HTTP capability consumed by the auth and resource
// services. HTTPClient is the production implementation; tests may inject
// their own.
type Transport interface {
	Get(ctx context.Context, url string, query url.Values, headers map[string]string) (map[string]any, error)
	Post(ctx context.Context, url string, data map[string]any, headers map[string]string) (map[string]any, error)
	Put(ctx context.Context, url string, data map[string]any, headers map[string]string) (map[string]any, error)
	Patch(ctx context.Context, url string, data map[string]any, headers map[string]string) (map[string]any, error)
	Delete(ctx context.Context, url string, headers map[string]string) (map[string]any, error)
	AddDefaultHeader(key, value string)
	DefaultHeaders() map[string]string
}

// HTTPClient executes single HTTP requests against the Superset API. A
// cookie jar is shared across calls on the same instance for session-cookie
// continuity. Timeout, redirect policy, and TLS verification are fixed at
// construction.
type HTTPClient struct {
	config  HTTPClientConfig
	client  *http.Client
	handler *ResponseHandler
	logger  zerolog.Logger

	mu             sync.RWMutex
	defaultHeaders map[string]string
}

var _ Transport = (*HTTPClient)(nil)

// NewHTTPClient builds the production transport from config. The default
// headers start as JSON content-type/accept plus the configured User-Agent;
// the auth service later registers token headers through AddDefaultHeader.
func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) *HTTPClient {
	jar, _ := cookiejar.New(nil)

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !config.VerifySSL,
		},
	}

	checkRedirect := func(req *http.Request, via []*http.Request) error {
		if !config.FollowRedirects {
			return http.ErrUseLastResponse
		}
		if len(via) >= config.MaxRedirects {
			return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
		}
		return nil
	}

	return &HTTPClient{
		config: config,
		client: &http.Client{
			Timeout:       config.Timeout,
			Transport:     transport,
			Jar:           jar,
			CheckRedirect: checkRedirect,
		},
		handler: NewResponseHandler(logger),
		logger:  logger,
		defaultHeaders: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
			"User-Agent":   config.UserAgent,
		},
	}
}

// Get issues a GET request. Query parameters are an explicit per-call
// argument and are appended to the URL.
func (c *HTTPClient) Get(ctx context.Context, url string, query url.Values, headers map[string]string) (map[string]any, error) {
	return c.request(ctx, http.MethodGet, url, nil, query, headers)
}

// Post issues a POST request with data as the JSON body when non-empty.
func (c *HTTPClient) Post(ctx context.Context, url string, data map[string]any, headers map[string]string) (map[string]any, error) {
	return c.request(ctx, http.MethodPost, url, data, nil, headers)
}

// Put issues a PUT request with data as the JSON body when non-empty.
func (c *HTTPClient) Put(ctx context.Context, url string, data map[string]any, headers map[string]string) (map[string]any, error) {
	return c.request(ctx, http.MethodPut, url, data, nil, headers)
}

// Patch issues a PATCH request with data as the JSON body when non-empty.
func (c *HTTPClient) Patch(ctx context.Context, url string, data map[string]any, headers map[string]string) (map[string]any, error) {
	return c.request(ctx, http.MethodPatch, url, data, nil, headers)
}

// Delete issues a DELETE request.
func (c *HTTPClient) Delete(ctx context.Context, url string, headers map[string]string) (map[string]any, error) {
	return c.request(ctx, http.MethodDelete, url, nil, nil, headers)
}

// AddDefaultHeader registers a header sent on every subsequent request.
// Re-registering a key overwrites the previous value.
func (c *HTTPClient) AddDefaultHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defaultHeaders[key] = value
}

// DefaultHeaders returns a copy of the current default headers.
func (c *HTTPClient) DefaultHeaders() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.defaultHeaders))
	for k, v := range c.defaultHeaders {
		out[k] = v
	}
	return out
}

func (c *HTTPClient) request(ctx context.Context, method, rawURL string, data map[string]any, query url.Values, headers map[string]string) (map[string]any, error) {
	reqContext := map[string]any{"method": method, "url": rawURL}

	var bodyReader io.Reader
	if methodHasBody(method) && len(data) > 0 {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, newError(c.logger, KindUnexpected,
				fmt.Sprintf("failed to encode request body: %v", err), 500, err, reqContext)
		}
		bodyReader = bytes.NewReader(payload)
	}

	if len(query) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return nil, newError(c.logger, KindTransport,
			fmt.Sprintf("HTTP Request Error: %v", err), 0, err, reqContext)
	}

	for key, value := range c.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	// Per-call headers win on key collision.
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if c.config.Debug != nil {
		if dump, err := httputil.DumpRequestOut(req, true); err == nil {
			_, _ = c.config.Debug.Write(dump)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, newError(c.logger, KindTransport,
			fmt.Sprintf("HTTP Request Error: %v", err), 0, err, reqContext)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(c.logger, KindTransport,
			fmt.Sprintf("HTTP Request Error: %v", err), 0, err, reqContext)
	}

	if c.config.Debug != nil {
		if dump, err := httputil.DumpResponse(resp, false); err == nil {
			_, _ = c.config.Debug.Write(dump)
			_, _ = c.config.Debug.Write(body)
		}
	}

	decoded, err := c.handler.Handle(body, resp.StatusCode, reqContext)
	if err != nil {
		return nil, err
	}

	result, ok := decoded.(map[string]any)
	if !ok {
		// Every modeled Superset endpoint wraps its payload in an object;
		// a top-level array cannot be addressed by the service layer.
		return nil, newError(c.logger, KindDecode,
			"Received a JSON array response where an object was expected.", 500, nil, reqContext)
	}
	return result, nil
}

func methodHasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}
