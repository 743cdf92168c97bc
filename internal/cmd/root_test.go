package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "superset-cli version")
}

func TestJSONConflictsWithOutput(t *testing.T) {
	_, _, err := runCLI(t, "version", "--json", "--output", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--json conflicts with --output text")
}

func TestJQRequiresJSONOutput(t *testing.T) {
	_, _, err := runCLI(t, "version", "--jq", ".x", "--output", "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "require --output json")
}

func TestInvalidOutputFormat(t *testing.T) {
	_, _, err := runCLI(t, "version", "--output", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestUnknownCommand(t *testing.T) {
	_, _, err := runCLI(t, "nope")
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestNormalizeOutputFormat(t *testing.T) {
	assert.Equal(t, "jsonl", normalizeOutputFormat("ndjson"))
	assert.Equal(t, "json", normalizeOutputFormat(" json "))
	assert.Equal(t, "text", normalizeOutputFormat("text"))
}

func TestAPICommandGet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/chart", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "5", r.URL.Query().Get("page_size"))
		_, _ = w.Write([]byte(`{"count":3}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	withServerClient(t, server)

	stdout, _, err := runCLI(t, "api", "chart", "-f", "page_size=5", "--jq", ".count")
	require.NoError(t, err)
	assert.Equal(t, "3\n", stdout)
}

func TestAPICommandPost(t *testing.T) {
	var gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/chart", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = w.Write([]byte(`{"id":9}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	withServerClient(t, server)

	stdout, _, err := runCLI(t, "api", "chart", "-X", "POST", "-d", `{"slice_name":"New"}`, "--json")
	require.NoError(t, err)
	requireJSONEqual(t, `{"id":9}`, stdout)
	requireJSONEqual(t, `{"slice_name":"New"}`, gotBody)
}

func TestAPICommandInvalidMethod(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)
	withServerClient(t, server)

	_, _, err := runCLI(t, "api", "chart", "-X", "TRACE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP method")
}

func TestAPICommandBodyAndInputConflict(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)
	withServerClient(t, server)

	_, _, err := runCLI(t, "api", "chart", "-X", "POST", "-d", "{}", "-i", "x.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot use both --body and --input")
}
