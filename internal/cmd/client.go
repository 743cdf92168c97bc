package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/superset-community/superset-go"
	"github.com/superset-community/superset-go/internal/credstore"
)

// newClient can be replaced in tests to avoid the keychain and network.
var newClient = buildClient

func buildClient(cmd *cobra.Command) (*superset.Client, error) {
	var profile credstore.Profile
	var err error
	if flags.Profile != "" {
		profile, err = credstore.LoadProfile(flags.Profile)
	} else {
		profile, err = credstore.Load()
	}
	if err != nil {
		return nil, err
	}

	logger := cliLogger(cmd.ErrOrStderr())
	httpConfig := superset.NewHTTPClientConfig(profile.BaseURL).
		WithTimeout(flags.Timeout).
		WithVerifySSL(flags.VerifySSL)

	client, err := superset.NewAuthenticated(cmd.Context(), profile.BaseURL,
		profile.Username, profile.Password,
		superset.WithHTTPConfig(httpConfig),
		superset.WithLogger(logger),
	)
	if err != nil {
		if superset.IsHTTPResponseError(err) || superset.IsAuthenticationError(err) {
			return nil, fmt.Errorf("login to %s failed: %w", profile.BaseURL, err)
		}
		return nil, err
	}
	return client, nil
}
