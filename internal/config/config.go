/*
Package config loads the CLI driver's optional settings file.

Following the knative-func client's .faas.yaml convention, Load reads
only the file it is given and never requires one to exist: every
field has a usable default, and a missing file is not an error. This
mirrors the teacher's own stance on config (flags and defaults, no
required config file) while giving operators a way to pin a registry
path, pool size, or log level across invocations instead of repeating
flags.
*/
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the file the CLI driver's --config flag names when the
// caller does not name one; Load itself always takes an explicit path.
const DefaultPath = "warrenengine.yaml"

const defaultPoolSize = 10

// Config is the CLI driver's process configuration.
type Config struct {
	// RegistryPath is the file-resource URI or path the engine state
	// document is loaded from and stored to.
	RegistryPath string `yaml:"registryPath"`
	// PoolSize is the worker pool size; <= 0 falls back to the
	// engine's own default.
	PoolSize int `yaml:"poolSize"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"logLevel"`
	// LogJSON selects structured JSON log lines over the console
	// writer.
	LogJSON bool `yaml:"logJSON"`
	// CatalogDir is the directory for the bbolt-backed image catalog.
	// Empty disables catalog bookkeeping.
	CatalogDir string `yaml:"catalogDir"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		RegistryPath: "warrenengine.storm",
		PoolSize:     defaultPoolSize,
		LogLevel:     "info",
		LogJSON:      false,
	}
}

// Load reads path and overlays it onto Default(). A missing file at
// path is not an error: Load returns the defaults unchanged. Any other
// read or parse failure is returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
