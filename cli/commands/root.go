// Package commands implements the queryhelper command line.
package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/queryhelper/cli/internal/settings"
	"github.com/satishbabariya/queryhelper/cli/internal/version"
	"github.com/satishbabariya/queryhelper/internal/debug"
	"github.com/satishbabariya/queryhelper/runtime/client"
)

// app carries state shared by subcommands once flags are parsed.
type app struct {
	settings *settings.Settings
}

func (a *app) client() (*client.Client, error) {
	return client.New(a.settings.ConfigPath, client.WithMiddleware(client.LoggingMiddleware()))
}

// NewRootCommand creates the queryhelper command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "queryhelper",
		Short: "Run parameterized SQL against a configured database",
		Long: `queryhelper reads database credentials from a config file, substitutes
escaped parameter values into the ? placeholders of a statement and runs it.

Reads print their rows; writes print the number of affected rows.`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := settings.Resolve(cmd)
			if err != nil {
				return err
			}
			a.settings = s
			debug.Init(s.Debug)
			debug.Debug("resolved settings", "config", s.ConfigPath)
			return nil
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to the config file (default $QUERYHELPER_CONFIG or ./"+settings.DefaultConfigFile+")")
	cmd.PersistentFlags().Bool("debug", false, "Log statements and timings to stderr")

	cmd.AddCommand(newQueryCommand(a))
	cmd.AddCommand(newCheckCommand(a))
	cmd.AddCommand(newInitCommand(a))
	cmd.AddCommand(newPingCommand(a))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// Execute runs the command line with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
