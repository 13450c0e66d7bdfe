// Package settings resolves command-line settings from flags, the
// environment and .env files.
package settings

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/satishbabariya/queryhelper/config"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. QUERYHELPER_CONFIG.
	EnvPrefix = "QUERYHELPER"

	// DefaultConfigFile is looked up in the working directory.
	DefaultConfigFile = "queryhelper.json"
)

// Settings holds the resolved global settings.
type Settings struct {
	ConfigPath string
	Debug      bool
}

// Resolve reads the persistent flags of cmd. An unset --config falls back
// to $QUERYHELPER_CONFIG, then ./queryhelper.json, then
// ~/.config/queryhelper/queryhelper.json. A leading ~ is expanded.
func Resolve(cmd *cobra.Command) (*Settings, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if f := cmd.Flags().Lookup("config"); f != nil {
		if err := v.BindPFlag("config", f); err != nil {
			return nil, err
		}
	}
	if f := cmd.Flags().Lookup("debug"); f != nil {
		if err := v.BindPFlag("debug", f); err != nil {
			return nil, err
		}
	}

	path := v.GetString("config")
	if path == "" {
		path = defaultConfigPath()
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}

	return &Settings{
		ConfigPath: expanded,
		Debug:      v.GetBool("debug"),
	}, nil
}

func defaultConfigPath() string {
	if exists(DefaultConfigFile) {
		return DefaultConfigFile
	}

	if home, err := homedir.Dir(); err == nil {
		p := filepath.Join(home, ".config", "queryhelper", DefaultConfigFile)
		if exists(p) {
			return p
		}
	}

	return DefaultConfigFile
}

// loadDotEnv loads .env, then .env.local over it. Missing or unreadable
// files are ignored.
func loadDotEnv() {
	if exists(".env") {
		_ = godotenv.Load(".env")
	}
	if exists(".env.local") {
		_ = godotenv.Overload(".env.local")
	}
}

func exists(path string) bool {
	_, err := config.AppFs.Stat(path)
	return err == nil
}
