// Package config loads database credentials from a configuration file.
//
// The file holds a top-level "database" object:
//
//	{
//	  "database": {
//	    "host": "localhost",
//	    "username": "app",
//	    "password": "secret",
//	    "name": "accounts"
//	  }
//	}
//
// host, username, password and name are required. provider, port and params
// are optional; anything else is ignored. JSON, YAML and TOML files are
// accepted, chosen by file extension.
package config

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem Load reads from. The command line also reads
// statement files and writes new config files through it.
var AppFs = afero.NewOsFs()

var errEmpty = errors.New("file is empty")

// RequiredKeys are the keys every configuration file must set.
var RequiredKeys = []string{
	"database.host",
	"database.username",
	"database.password",
	"database.name",
}

// Config is a loaded configuration file.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig holds the connection settings under the "database" key.
type DatabaseConfig struct {
	Provider string            `mapstructure:"provider"`
	Host     string            `mapstructure:"host"`
	Port     int               `mapstructure:"port"`
	Username string            `mapstructure:"username"`
	Password string            `mapstructure:"password"`
	Name     string            `mapstructure:"name"`
	Params   map[string]string `mapstructure:"params"`
}

// Load reads, parses and validates the configuration file at path.
func Load(path string) (*Config, error) {
	return LoadFs(AppFs, path)
}

// LoadFs is Load against an explicit filesystem.
func LoadFs(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ParseError{Path: path, Err: errEmpty}
	}

	v := viper.New()
	v.SetConfigType(formatOf(path))
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var missing []string
	for _, key := range RequiredKeys {
		if !v.IsSet(key) || v.Get(key) == nil {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Path: path, Missing: missing}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ValidationError{Path: path, Reason: err.Error()}
	}
	return &cfg, nil
}

// formatOf maps a file extension to a viper config type. Files without a
// known extension are read as JSON.
func formatOf(path string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return "json"
	}
}

// Clone returns a deep copy of the configuration.
func (c Config) Clone() Config {
	c.Database = c.Database.Clone()
	return c
}

// Clone returns a deep copy of the database settings.
func (d DatabaseConfig) Clone() DatabaseConfig {
	if d.Params != nil {
		params := make(map[string]string, len(d.Params))
		for k, v := range d.Params {
			params[k] = v
		}
		d.Params = params
	}
	return d
}

// Redacted returns a copy with the password masked.
func (d DatabaseConfig) Redacted() DatabaseConfig {
	d = d.Clone()
	if d.Password != "" {
		d.Password = "********"
	}
	return d
}
