package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/queryhelper/cli/internal/ui"
	"github.com/satishbabariya/queryhelper/config"
	"github.com/satishbabariya/queryhelper/query/sqlgen"
)

type initOptions struct {
	db      config.DatabaseConfig
	noInput bool
}

func newInitCommand(a *app) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file",
		Long: `Write a new config file at the --config path. Values not given as flags
are prompted for unless --no-input is set. An existing file is never
overwritten.`,
		Example: `  queryhelper init
  queryhelper init -c db.yaml --provider postgres --host localhost --username app --password secret --name accounts --no-input`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(a.settings.ConfigPath, opts, prompt)
		},
	}

	cmd.Flags().StringVar(&opts.db.Provider, "provider", "", "Database provider: mysql, postgres or sqlite")
	cmd.Flags().StringVar(&opts.db.Host, "host", "", "Database host or socket path")
	cmd.Flags().IntVar(&opts.db.Port, "port", 0, "Database port (provider default when 0)")
	cmd.Flags().StringVar(&opts.db.Username, "username", "", "Database user")
	cmd.Flags().StringVar(&opts.db.Password, "password", "", "Database password")
	cmd.Flags().StringVar(&opts.db.Name, "name", "", "Database name (file path for sqlite)")
	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "Fail instead of prompting for missing values")

	return cmd
}

// prompter fills in missing fields of db.
type prompter func(db *config.DatabaseConfig) error

func runInit(path string, opts initOptions, ask prompter) error {
	db := opts.db

	if !opts.noInput {
		if err := ask(&db); err != nil {
			return err
		}
	}

	cfg := config.Config{Database: db}
	if _, err := sqlgen.NewDialect(db.Provider); err != nil {
		return &config.ValidationError{Path: path, Reason: err.Error()}
	}
	if missing := missingFields(db); len(missing) > 0 {
		return &config.ValidationError{Path: path, Missing: missing}
	}

	if err := config.Save(config.AppFs, path, cfg); err != nil {
		return err
	}

	ui.PrintSuccess("Created %s", path)
	ui.PrintInfo("Run 'queryhelper check' to validate it or 'queryhelper ping' to connect")
	return nil
}

// missingFields lists required keys left empty. The password is always
// written, so an empty one still satisfies Load.
func missingFields(db config.DatabaseConfig) []string {
	values := map[string]string{
		"database.host":     db.Host,
		"database.username": db.Username,
		"database.name":     db.Name,
	}

	var missing []string
	for _, key := range config.RequiredKeys {
		if v, ok := values[key]; ok && v == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// prompt asks for every field of db that is still empty.
func prompt(db *config.DatabaseConfig) error {
	var qs []*survey.Question

	if db.Provider == "" {
		qs = append(qs, &survey.Question{
			Name: "provider",
			Prompt: &survey.Select{
				Message: "Database provider:",
				Options: sqlgen.Providers(),
				Default: "mysql",
			},
		})
	}
	if db.Host == "" {
		qs = append(qs, &survey.Question{
			Name:     "host",
			Prompt:   &survey.Input{Message: "Host:", Default: "localhost"},
			Validate: survey.Required,
		})
	}
	if db.Port == 0 {
		qs = append(qs, &survey.Question{
			Name:     "port",
			Prompt:   &survey.Input{Message: "Port (blank for the provider default):"},
			Validate: validatePort,
		})
	}
	if db.Username == "" {
		qs = append(qs, &survey.Question{
			Name:     "username",
			Prompt:   &survey.Input{Message: "Username:"},
			Validate: survey.Required,
		})
	}
	if db.Password == "" {
		qs = append(qs, &survey.Question{
			Name:   "password",
			Prompt: &survey.Password{Message: "Password (blank for none):"},
		})
	}
	if db.Name == "" {
		qs = append(qs, &survey.Question{
			Name:     "name",
			Prompt:   &survey.Input{Message: "Database name:"},
			Validate: survey.Required,
		})
	}

	if len(qs) == 0 {
		return nil
	}

	answers := struct {
		Provider string `survey:"provider"`
		Host     string `survey:"host"`
		Port     string `survey:"port"`
		Username string `survey:"username"`
		Password string `survey:"password"`
		Name     string `survey:"name"`
	}{}
	if err := survey.Ask(qs, &answers); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	if answers.Provider != "" {
		db.Provider = answers.Provider
	}
	if answers.Host != "" {
		db.Host = answers.Host
	}
	if answers.Port != "" {
		db.Port, _ = strconv.Atoi(answers.Port)
	}
	if answers.Username != "" {
		db.Username = answers.Username
	}
	if answers.Password != "" {
		db.Password = answers.Password
	}
	if answers.Name != "" {
		db.Name = answers.Name
	}
	return nil
}

func validatePort(ans interface{}) error {
	s, _ := ans.(string)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 65535 {
		return errors.New("port must be a number between 1 and 65535")
	}
	return nil
}
