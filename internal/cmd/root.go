// Package cmd implements the superset CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/superset-community/superset-go"
	"github.com/superset-community/superset-go/internal/iocontext"
	"github.com/superset-community/superset-go/internal/outfmt"
)

// rootFlags holds global CLI flags. This is package-level mutable state that
// is reset at the start of every Execute() call; tests depend on that reset
// for isolation.
type rootFlags struct {
	Output    string
	JSON      bool
	Query     string
	JQ        string
	Quiet     bool
	Verbose   bool
	Profile   string
	Timeout   time.Duration
	VerifySSL bool
}

var flags = defaultRootFlags()

// defaultIOStreams can be replaced in tests to capture output.
var defaultIOStreams = iocontext.DefaultIO

func defaultRootFlags() rootFlags {
	return rootFlags{
		Output:  defaultOutput(),
		Timeout: superset.DefaultTimeout,
	}
}

func defaultOutput() string {
	value := strings.TrimSpace(os.Getenv("SUPERSET_OUTPUT"))
	if value != "" {
		return normalizeOutputFormat(value)
	}
	return "text"
}

func normalizeOutputFormat(value string) string {
	value = strings.TrimSpace(value)
	if value == "ndjson" {
		return "jsonl"
	}
	return value
}

// Execute runs the root command.
func Execute(ctx context.Context, args []string) error {
	flags = defaultRootFlags()

	root := &cobra.Command{
		Use:           "superset",
		Short:         "CLI for the Apache Superset REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			flags.Output = normalizeOutputFormat(flags.Output)
			if flags.JSON {
				if cmd.Flags().Changed("output") && flags.Output != "json" {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}

			jqQuery := flags.JQ
			if jqQuery == "" {
				jqQuery = flags.Query
			}
			if jqQuery != "" && flags.Output == "text" {
				if cmd.Flags().Changed("output") {
					return fmt.Errorf("--jq/--query require --output json or jsonl (or --json)")
				}
				flags.Output = "json"
			}

			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)
			if jqQuery != "" {
				ctx = outfmt.WithQuery(ctx, jqQuery)
			}

			ioStreams := defaultIOStreams()
			if flags.Quiet {
				ioStreams.ErrOut = io.Discard
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)

	root.PersistentFlags().StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|ndjson (env SUPERSET_OUTPUT)")
	root.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	root.PersistentFlags().StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter JSON output")
	root.PersistentFlags().StringVar(&flags.JQ, "jq", "", "Alias for --query")
	root.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-error output to stderr")
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose request logging")
	root.PersistentFlags().StringVar(&flags.Profile, "profile", "", "Credential profile to use (defaults to current)")
	root.PersistentFlags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g. 30s, 2m)")
	root.PersistentFlags().BoolVar(&flags.VerifySSL, "verify-ssl", false, "Verify TLS certificates (off by default for self-signed deployments)")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newDashboardCmd())
	root.AddCommand(newGuestTokenCmd())
	root.AddCommand(newAPICmd())
	root.AddCommand(newVersionCmd())

	return root.Execute()
}

// cliLogger builds the logger passed into the client. Verbose mode writes
// console-formatted events to stderr; otherwise errors are silent and only
// surface through the returned error values.
func cliLogger(errOut io.Writer) zerolog.Logger {
	if !flags.Verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: errOut, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

func printJSON(cmd *cobra.Command, v any) error {
	return outfmt.Write(cmd.Context(), cmd.OutOrStdout(), v)
}

func isJSON(cmd *cobra.Command) bool {
	return outfmt.IsJSON(cmd.Context())
}
