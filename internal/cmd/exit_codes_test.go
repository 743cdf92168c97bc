package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"

	"github.com/superset-community/superset-go"
)

func clientError(kind superset.ErrorKind, code int) error {
	return &superset.Error{Kind: kind, Message: "boom", Code: code}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"help", pflag.ErrHelp, exitOK},
		{"auth kind", clientError(superset.KindAuthentication, 401), exitAuth},
		{"transport kind", clientError(superset.KindTransport, 0), exitNetwork},
		{"http 401", clientError(superset.KindHTTPResponse, 401), exitAuth},
		{"http 403", clientError(superset.KindHTTPResponse, 403), exitForbidden},
		{"http 404", clientError(superset.KindHTTPResponse, 404), exitNotFound},
		{"http 410", clientError(superset.KindHTTPResponse, 410), exitNotFound},
		{"http 500", clientError(superset.KindHTTPResponse, 500), exitServer},
		{"http 503", clientError(superset.KindHTTPResponse, 503), exitServer},
		{"http 400", clientError(superset.KindHTTPResponse, 400), exitGeneric},
		{"decode kind", clientError(superset.KindDecode, 500), exitGeneric},
		{"unexpected kind", clientError(superset.KindUnexpected, 500), exitGeneric},
		{"wrapped client error", fmt.Errorf("fetch: %w", clientError(superset.KindHTTPResponse, 404)), exitNotFound},
		{"usage error", errors.New("unknown flag: --nope"), exitUsage},
		{"required flag", errors.New("--url is required"), exitUsage},
		{"deadline", context.DeadlineExceeded, exitNetwork},
		{"connection refused", errors.New("dial tcp: connection refused"), exitNetwork},
		{"generic", errors.New("something else went wrong"), exitGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
