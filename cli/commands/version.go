package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/queryhelper/cli/internal/ui"
	"github.com/satishbabariya/queryhelper/cli/internal/version"
)

func newVersionCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Needs no config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			if verbose {
				ui.PrintKeyValues(cmd.OutOrStdout(), info.Pairs())
				return
			}
			fmt.Fprintln(cmd.OutOrStdout(), info.String())
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print build details")

	return cmd
}
