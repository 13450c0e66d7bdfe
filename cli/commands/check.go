package commands

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/queryhelper/cli/internal/ui"
	"github.com/satishbabariya/queryhelper/cli/internal/watch"
	"github.com/satishbabariya/queryhelper/runtime/client"
)

func newCheckCommand(a *app) *cobra.Command {
	var watchFile bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the config file without connecting",
		Long: `Load the config file, check that every required key is present and
that the provider is supported, then print the settings with the password
masked. No connection is made.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			run := func() error {
				return checkConfig(cmd, a.settings.ConfigPath)
			}
			if !watchFile {
				return run()
			}

			w, err := watch.NewWatcher(a.settings.ConfigPath, run, func(err error) {
				ui.PrintError("%v", err)
			})
			if err != nil {
				return err
			}
			ui.PrintInfo("Watching %s, press Ctrl+C to stop", a.settings.ConfigPath)
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&watchFile, "watch", false, "Check again whenever the config file changes")

	return cmd
}

func checkConfig(cmd *cobra.Command, path string) error {
	c, err := client.New(path)
	if err != nil {
		return err
	}

	d := c.Config().Redacted()
	pairs := [][2]string{
		{"provider", c.Dialect().Provider()},
		{"host", d.Host},
	}
	if d.Port != 0 {
		pairs = append(pairs, [2]string{"port", strconv.Itoa(d.Port)})
	}
	pairs = append(pairs,
		[2]string{"username", d.Username},
		[2]string{"password", d.Password},
		[2]string{"name", d.Name},
	)
	if len(d.Params) > 0 {
		params := make([]string, 0, len(d.Params))
		for k, v := range d.Params {
			params = append(params, k+"="+v)
		}
		sort.Strings(params)
		pairs = append(pairs, [2]string{"params", strings.Join(params, " ")})
	}

	out := cmd.OutOrStdout()
	ui.PrintKeyValues(out, pairs)
	ui.PrintSuccess("%s is valid", path)
	return nil
}
