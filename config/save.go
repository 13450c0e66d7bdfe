package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Save writes cfg to path in the format implied by its extension, creating
// parent directories as needed. An existing file is left untouched and an
// error is returned.
func Save(fs afero.Fs, path string, cfg Config) error {
	if ok, _ := afero.Exists(fs, path); ok {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType(formatOf(path))

	d := cfg.Database
	v.Set("database.host", d.Host)
	v.Set("database.username", d.Username)
	v.Set("database.password", d.Password)
	v.Set("database.name", d.Name)
	if d.Provider != "" {
		v.Set("database.provider", d.Provider)
	}
	if d.Port != 0 {
		v.Set("database.port", d.Port)
	}
	if len(d.Params) > 0 {
		v.Set("database.params", d.Params)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
