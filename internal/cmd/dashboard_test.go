package cmd

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/dashboard", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":[
			{"id":1,"dashboard_title":"Sales Overview","published":true},
			{"id":2,"dashboard_title":"Marketing Funnel","published":false}
		]}`))
	})
	mux.HandleFunc("/api/v1/dashboard/1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"id":1,"dashboard_title":"Sales Overview","slug":"sales","published":true}}`))
	})
	mux.HandleFunc("/api/v1/dashboard/2", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"id":2,"dashboard_title":"Marketing Funnel","published":false}}`))
	})
	mux.HandleFunc("/api/v1/dashboard/1/embedded", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"uuid":"a1b2c3d4"}}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDashboardListText(t *testing.T) {
	withServerClient(t, dashboardServer(t))

	stdout, _, err := runCLI(t, "dashboard", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1\tSales Overview [published]")
	assert.Contains(t, stdout, "2\tMarketing Funnel")
}

func TestDashboardListConflictingFlags(t *testing.T) {
	withServerClient(t, dashboardServer(t))

	_, _, err := runCLI(t, "dashboard", "list", "--published", "--unpublished")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be used together")
}

func TestDashboardGetJSONWithQuery(t *testing.T) {
	withServerClient(t, dashboardServer(t))

	stdout, _, err := runCLI(t, "dashboard", "get", "1", "--jq", ".dashboard_title")
	require.NoError(t, err)
	assert.Equal(t, "\"Sales Overview\"\n", stdout)
}

func TestDashboardGetText(t *testing.T) {
	withServerClient(t, dashboardServer(t))

	stdout, _, err := runCLI(t, "dashboard", "get", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Sales Overview (id 1)")
	assert.Contains(t, stdout, "Slug: sales")
	assert.Contains(t, stdout, "Published: true")
}

func TestDashboardUUID(t *testing.T) {
	withServerClient(t, dashboardServer(t))

	stdout, _, err := runCLI(t, "dashboard", "uuid", "1")
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4\n", stdout)
}

func TestDashboardUUIDJSON(t *testing.T) {
	withServerClient(t, dashboardServer(t))

	stdout, _, err := runCLI(t, "dashboard", "uuid", "1", "--json")
	require.NoError(t, err)
	requireJSONEqual(t, `{"uuid":"a1b2c3d4"}`, stdout)
}

func TestDashboardFind(t *testing.T) {
	withServerClient(t, dashboardServer(t))

	stdout, _, err := runCLI(t, "dashboard", "find", "marketing")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Marketing Funnel (id 2)")
}

func TestDashboardFindNoMatch(t *testing.T) {
	withServerClient(t, dashboardServer(t))

	_, _, err := runCLI(t, "dashboard", "find", "zzzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no dashboard matching")
}

func TestDashboardPull(t *testing.T) {
	withServerClient(t, dashboardServer(t))
	dir := t.TempDir()

	stdout, _, err := runCLI(t, "dashboard", "pull", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Exported 2/2 dashboards")

	for _, name := range []string{"dashboard-1.json", "dashboard-2.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Contains(t, string(data), "dashboard_title")
	}
}

func TestDashboardPullPartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/dashboard", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":[{"id":1,"dashboard_title":"A"},{"id":2,"dashboard_title":"B"}]}`))
	})
	mux.HandleFunc("/api/v1/dashboard/1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":{"id":1,"dashboard_title":"A"}}`))
	})
	mux.HandleFunc("/api/v1/dashboard/2", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not found"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	withServerClient(t, server)

	dir := t.TempDir()
	stdout, stderr, err := runCLI(t, "dashboard", "pull", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 dashboards failed")
	assert.Contains(t, stdout, "Exported 1/2 dashboards")
	assert.Contains(t, stderr, "dashboard 2:")

	_, statErr := os.Stat(filepath.Join(dir, "dashboard-1.json"))
	assert.NoError(t, statErr)
}

func TestDashboardPullEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/dashboard", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result":[]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	withServerClient(t, server)

	stdout, _, err := runCLI(t, "dashboard", "pull", "--dir", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "No dashboards to export.")
}
