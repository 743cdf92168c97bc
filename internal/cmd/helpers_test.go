package cmd

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/superset-community/superset-go"
	"github.com/superset-community/superset-go/internal/iocontext"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

// withServerClient points newClient at an unauthenticated client for the
// given test server, bypassing the keychain and login flow.
func withServerClient(t *testing.T, server *httptest.Server) {
	t.Helper()
	origNewClient := newClient
	newClient = func(_ *cobra.Command) (*superset.Client, error) {
		return superset.New(server.URL)
	}
	t.Cleanup(func() { newClient = origNewClient })
}

// runCLI executes the root command with captured output streams.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	origStreams := defaultIOStreams
	defaultIOStreams = func() *iocontext.IO {
		return &iocontext.IO{Out: &out, ErrOut: &errOut, In: bytes.NewReader(nil)}
	}
	t.Cleanup(func() { defaultIOStreams = origStreams })

	err = Execute(context.Background(), args)
	return out.String(), errOut.String(), err
}

func requireJSONEqual(t *testing.T, want, got string) {
	t.Helper()
	require.JSONEq(t, want, got)
}
