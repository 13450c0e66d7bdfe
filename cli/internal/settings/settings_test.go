package settings

import (
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/queryhelper/config"
)

func newCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringP("config", "c", "", "")
	cmd.Flags().Bool("debug", false, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func useFs(t *testing.T) afero.Fs {
	t.Helper()
	old := config.AppFs
	fs := afero.NewMemMapFs()
	config.AppFs = fs
	t.Cleanup(func() { config.AppFs = old })
	return fs
}

func useHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	old := homedir.DisableCache
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = old })
	return home
}

func TestResolve_Flag(t *testing.T) {
	useFs(t)
	t.Setenv("QUERYHELPER_CONFIG", "/from/env.json")

	s, err := Resolve(newCommand(t, "-c", "/from/flag.json", "--debug"))
	require.NoError(t, err)
	assert.Equal(t, "/from/flag.json", s.ConfigPath)
	assert.True(t, s.Debug)
}

func TestResolve_Env(t *testing.T) {
	useFs(t)
	t.Setenv("QUERYHELPER_CONFIG", "/from/env.json")
	t.Setenv("QUERYHELPER_DEBUG", "true")

	s, err := Resolve(newCommand(t))
	require.NoError(t, err)
	assert.Equal(t, "/from/env.json", s.ConfigPath)
	assert.True(t, s.Debug)
}

func TestResolve_Defaults(t *testing.T) {
	fs := useFs(t)
	home := useHome(t)
	t.Setenv("QUERYHELPER_CONFIG", "")

	s, err := Resolve(newCommand(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigFile, s.ConfigPath)
	assert.False(t, s.Debug)

	userConfig := filepath.Join(home, ".config", "queryhelper", DefaultConfigFile)
	require.NoError(t, afero.WriteFile(fs, userConfig, []byte("{}"), 0o600))
	s, err = Resolve(newCommand(t))
	require.NoError(t, err)
	assert.Equal(t, userConfig, s.ConfigPath)

	require.NoError(t, afero.WriteFile(fs, DefaultConfigFile, []byte("{}"), 0o600))
	s, err = Resolve(newCommand(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigFile, s.ConfigPath)
}

func TestResolve_ExpandsHome(t *testing.T) {
	useFs(t)
	home := useHome(t)

	s, err := Resolve(newCommand(t, "--config", "~/db.yaml"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "db.yaml"), s.ConfigPath)
}
