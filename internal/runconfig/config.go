// Package runconfig resolves the two directories the simulator reads
// traces from and writes reports to, following the same defaults ->
// project-file -> CLI-override precedence chain the rest of the teacher
// repo's config loader uses, scoped down to the two paths this program
// actually needs to relocate.
package runconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Config holds the two directories the program reads/writes.
type Config struct {
	TraceDir string `json:"trace_dir,omitempty"` //nolint:tagliatelle // snake_case for config file
	OutDir   string `json:"out_dir,omitempty"`   //nolint:tagliatelle // snake_case for config file
}

// ConfigFileName is the optional project config file, standard JSONC.
// It exists only to relocate the two directories in a test sandbox — it
// never changes protocol behavior, since the processor count and block
// size are compile-time constants.
const ConfigFileName = ".ringsim.json"

// DefaultConfig returns the program's fixed default directories.
func DefaultConfig() Config {
	return Config{
		TraceDir: "./cache-traces",
		OutDir:   "./out_files",
	}
}

// Load resolves the effective config: defaults, overlaid by the optional
// project file at workDir/.ringsim.json if present, overlaid by
// cliOverrides for any non-empty field the caller set.
func Load(workDir string, cliOverrides Config) (Config, error) {
	cfg := DefaultConfig()

	fileCfg, loaded, err := loadConfigFile(filepath.Join(workDir, ConfigFileName))
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = merge(cfg, fileCfg)
	}

	cfg = merge(cfg, cliOverrides)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadConfigFile(path string) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", errConfigFileRead, path)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func merge(base, overlay Config) Config {
	if overlay.TraceDir != "" {
		base.TraceDir = overlay.TraceDir
	}

	if overlay.OutDir != "" {
		base.OutDir = overlay.OutDir
	}

	return base
}

func validate(cfg Config) error {
	if cfg.TraceDir == "" {
		return errTraceDirEmpty
	}

	if cfg.OutDir == "" {
		return errOutDirEmpty
	}

	return nil
}
