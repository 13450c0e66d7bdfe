package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/queryhelper/cli/internal/ui"
	"github.com/satishbabariya/queryhelper/internal/compat"
)

func newPingCommand(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Connect and report the server version",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			spinner, _ := ui.Spinner("Connecting to " + c.Dialect().Provider() + "...")
			server, err := c.ServerVersion(ctx)
			if spinner != nil {
				_ = spinner.Stop()
			}
			if err != nil {
				return err
			}

			report, err := compat.Check(c.Dialect().Provider(), server)
			if err != nil {
				ui.PrintWarning("Connected, but could not read server version %q: %v", server, err)
				return nil
			}

			if report.Supported {
				ui.PrintSuccess("Connected: %s", report)
			} else {
				ui.PrintWarning("Connected: %s", report)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Connection time limit")

	return cmd
}
