package runconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), Config{})
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadProjectFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `{
		// relocate traces into a sandbox for this test run
		"trace_dir": "./sandbox-traces",
	}`)

	cfg, err := Load(dir, Config{})
	require.NoError(t, err)
	require.Equal(t, "./sandbox-traces", cfg.TraceDir)
	require.Equal(t, DefaultConfig().OutDir, cfg.OutDir)
}

func TestLoadCLIOverrideWinsOverProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `{"out_dir": "./from-file"}`)

	cfg, err := Load(dir, Config{OutDir: "./from-cli"})
	require.NoError(t, err)
	require.Equal(t, "./from-cli", cfg.OutDir)
}

func TestLoadRejectsMalformedProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `{not json`)

	_, err := Load(dir, Config{})
	require.ErrorIs(t, err, errConfigInvalid)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
