// Package config loads the settings of the meval command. Values come,
// from lowest to highest priority, from built-in defaults, an optional
// YAML file and MEVAL_ environment variables. Command-line flags are
// applied on top by the command itself.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of the environment variables read by Load.
// MEVAL_LOG_LEVEL sets log.level.
const EnvPrefix = "MEVAL_"

// PathEnv names the environment variable holding the config file path
// used when none is given to Load.
const PathEnv = EnvPrefix + "CONFIG"

type Config struct {
	Log       LogConfig       `koanf:"log"`
	Eval      EvalConfig      `koanf:"eval"`
	Output    OutputConfig    `koanf:"output"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
}

type EvalConfig struct {
	// Variable is the name of the free variable of statements.
	Variable string `koanf:"variable"`
	// Defines maps names to expressions the statement can refer to.
	Defines map[string]string `koanf:"defines"`
}

type OutputConfig struct {
	Format string `koanf:"format"` // json, yaml
}

type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Load reads the configuration. If path is empty, the file named by
// MEVAL_CONFIG is used, if any.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("log.level", "warn")
	k.Set("log.format", "text")
	k.Set("eval.variable", "x")
	k.Set("output.format", "json")
	k.Set("telemetry.enabled", false)

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	// MEVAL_OUTPUT_FORMAT -> output.format
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, want text or json", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Output.Format) {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid output format %q, want json or yaml", c.Output.Format)
	}
	if c.Eval.Variable == "" {
		return fmt.Errorf("eval.variable must not be empty")
	}
	return nil
}
