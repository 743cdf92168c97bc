package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/superset-community/superset-go"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "superset-cli version %s\n", superset.Version)
		},
	}
}
