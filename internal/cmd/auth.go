package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/superset-community/superset-go/internal/credstore"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Superset credentials",
		Long:  "Store and manage Superset login credentials securely in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		baseURL  string
		username string
		password string
		profile  string
		envFile  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save Superset credentials to the keychain",
		Long: strings.TrimSpace(`
Save Superset login credentials securely to your OS keychain.

You'll need:
- Base URL: Your Superset instance URL (e.g. https://superset.example.com)
- Username and password of a Superset account with API access

Optional:
- Profile: Save multiple instances and switch between them
`),
		Example: strings.TrimSpace(`
  # Login with flags
  superset auth login --url https://superset.example.com --username admin --password secret

  # Save to a named profile
  superset auth login --url https://superset.example.com --username admin --password secret --profile staging

  # Load SUPERSET_* values from a .env file
  superset auth login --env-file .env
`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if envFile != "" {
				envVars, err := loadLoginEnvFile(envFile)
				if err != nil {
					return err
				}
				applyLoginEnvRuntimeVars(envVars)

				if baseURL == "" {
					baseURL = strings.TrimSpace(envVars["SUPERSET_BASE_URL"])
				}
				if username == "" {
					username = strings.TrimSpace(envVars["SUPERSET_USERNAME"])
				}
				if password == "" {
					password = envVars["SUPERSET_PASSWORD"]
				}
				if !cmd.Flags().Changed("profile") {
					if envProfile := strings.TrimSpace(envVars["SUPERSET_PROFILE"]); envProfile != "" {
						profile = envProfile
					}
				}
			}

			if baseURL == "" {
				return fmt.Errorf("--url is required")
			}
			if username == "" {
				return fmt.Errorf("--username is required")
			}
			if password == "" {
				return fmt.Errorf("--password is required")
			}

			baseURL = strings.TrimSuffix(baseURL, "/")

			if err := credstore.SaveProfile(profile, credstore.Profile{
				BaseURL:  baseURL,
				Username: username,
				Password: password,
			}); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Credentials saved successfully!")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Base URL: %s\n", baseURL)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Username: %s\n", username)
			if profile != "" && profile != "default" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Profile: %s\n", profile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "Superset base URL (e.g. https://superset.example.com)")
	cmd.Flags().StringVarP(&username, "username", "u", "", "Superset username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Superset password")
	cmd.Flags().StringVar(&profile, "profile", "default", "Profile name to save credentials under")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load SUPERSET_* values from a .env file")

	return cmd
}

func loadLoginEnvFile(path string) (map[string]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("--env-file requires a file path")
	}
	envVars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read --env-file %q: %w", path, err)
	}
	return envVars, nil
}

// applyLoginEnvRuntimeVars copies keyring settings from --env-file into the
// process environment when they are not already exported.
func applyLoginEnvRuntimeVars(envVars map[string]string) {
	keys := []string{
		"SUPERSET_KEYRING_BACKEND",
		"SUPERSET_KEYRING_PASSWORD",
		"SUPERSET_CREDENTIALS_DIR",
	}
	for _, key := range keys {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		value := strings.TrimSpace(envVars[key])
		if value == "" {
			continue
		}
		_ = os.Setenv(key, value)
	}
}

func newAuthStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show current credential configuration",
		Long:  "Display the currently saved Superset credentials (the password is masked).",
		Example: strings.TrimSpace(`
  # Check credential status
  superset auth status

  # JSON output for scripting
  superset auth status --json
`),
		RunE: func(cmd *cobra.Command, _ []string) error {
			usingEnv := credstore.FromEnvironment()

			profile, err := credstore.Load()
			if err != nil {
				if err == credstore.ErrNotConfigured {
					if isJSON(cmd) {
						return printJSON(cmd, map[string]any{
							"configured": false,
							"message":    "Not configured. Run 'superset auth login' to save credentials.",
						})
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not configured.")
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Run 'superset auth login' to save credentials.")
					return nil
				}
				return fmt.Errorf("failed to load credentials: %w", err)
			}

			var profileName string
			if !usingEnv {
				if current, err := credstore.CurrentProfile(); err == nil {
					profileName = current
				}
			}

			if isJSON(cmd) {
				payload := map[string]any{
					"configured": true,
					"base_url":   profile.BaseURL,
					"username":   profile.Username,
					"password":   maskSecret(profile.Password),
					"source":     map[bool]string{true: "env", false: "keychain"}[usingEnv],
				}
				if profileName != "" {
					payload["profile"] = profileName
				}
				return printJSON(cmd, payload)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Configured")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Base URL: %s\n", profile.BaseURL)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Username: %s\n", profile.Username)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Password: %s\n", maskSecret(profile.Password))
			if profileName != "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  Profile: %s\n", profileName)
			}
			if usingEnv {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "  Source: env")
			}
			return nil
		},
	}

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	var profile string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove credentials from the keychain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			named := cmd.Flags().Changed("profile")
			if !named {
				if !credstore.HasProfile() {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No credentials found.")
					return nil
				}
				if current, err := credstore.CurrentProfile(); err == nil {
					profile = current
				}
			}

			if err := credstore.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}

			if named {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Profile %s removed successfully.\n", profile)
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Credentials removed successfully.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profile, "profile", "", "Profile name to remove (defaults to current)")

	return cmd
}

// maskSecret masks a secret for display, showing only the first and last two
// characters of longer values.
func maskSecret(secret string) string {
	if len(secret) < 8 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:2] + strings.Repeat("*", len(secret)-4) + secret[len(secret)-2:]
}
