package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/queryhelper/cli/internal/ui"
	"github.com/satishbabariya/queryhelper/cli/internal/watch"
	"github.com/satishbabariya/queryhelper/config"
)

type queryOptions struct {
	file    string
	format  string
	timeout time.Duration
	watch   bool
}

func newQueryCommand(a *app) *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query [statement] [params...]",
		Short: "Run a statement with ? placeholders",
		Long: `Run a statement against the configured database.

Each ? outside a quoted literal is replaced by the next parameter, quoted and
escaped for the configured provider. With --file the statement is read from a
file and every argument is a parameter.`,
		Example: `  queryhelper query "SELECT * FROM users WHERE id = ?" 5
  queryhelper query "UPDATE users SET name = ? WHERE id = ?" Bob 5
  queryhelper query -f report.sql --format markdown 2024-01-01
  queryhelper query -f report.sql --watch 2024-01-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the statement from a file")
	cmd.Flags().StringVar(&opts.format, "format", formatTable, "Output format: table, json or markdown")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Time limit for connecting and running the statement (0 disables)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Run again whenever the --file changes")

	return cmd
}

func (a *app) runQuery(cmd *cobra.Command, args []string, opts queryOptions) error {
	if err := validFormat(opts.format); err != nil {
		return err
	}
	if opts.watch && opts.file == "" {
		return errors.New("--watch requires --file")
	}
	if opts.file == "" && len(args) == 0 {
		return errors.New("a statement argument or --file is required")
	}

	statementText := func() (string, error) {
		if opts.file == "" {
			return args[0], nil
		}
		b, err := afero.ReadFile(config.AppFs, opts.file)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	params := args
	if opts.file == "" {
		params = args[1:]
	}

	c, err := a.client()
	if err != nil {
		return err
	}

	run := func() error {
		text, err := statementText()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if opts.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.timeout)
			defer cancel()
		}

		result, err := c.Execute(ctx, text, params)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), result, opts.format)
	}

	if !opts.watch {
		return run()
	}

	w, err := watch.NewWatcher(opts.file, run, func(err error) {
		ui.PrintError("%v", err)
	})
	if err != nil {
		return err
	}

	ui.PrintInfo("Watching %s, press Ctrl+C to stop", opts.file)
	return w.Run(cmd.Context())
}
