// Package config loads powersql.toml, layered with environment variables
// and CLI flags, the way the teacher's internal/cli/config loader layers
// koanf providers (file, then env, then posflag, highest precedence last).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultFileName is the config file name read from the current working
// directory (spec §6).
const DefaultFileName = "powersql.toml"

// ConfigError wraps a missing or invalid powersql.toml (spec §7's
// ConfigError taxonomy entry).
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// Project holds the [project] table of powersql.toml.
type Project struct {
	Name   string   `koanf:"name"`
	Models []string `koanf:"models"`
	Tests  []string `koanf:"tests"`
}

// Config is the fully resolved configuration.
type Config struct {
	Project Project `koanf:"project"`
}

// Load reads path (defaulting to DefaultFileName), then layers
// POWERSQL_-prefixed environment variables and any explicitly-set CLI
// flags on top, in increasing precedence. A .env file in the working
// directory, if present, is loaded first so its values are visible to the
// environment layer (supplementing the config file, not replacing it).
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load() // best-effort; absence of .env is not an error

	if path == "" {
		path = DefaultFileName
	}

	k := koanf.New(".")

	if _, err := os.Stat(path); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("reading %s: %v", path, err)}
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}

	if err := k.Load(env.Provider("POWERSQL_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "POWERSQL_")), "_", ".")
	}), nil); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("loading environment: %v", err)}
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "."), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, &ConfigError{Message: fmt.Sprintf("loading flags: %v", err)}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, &ConfigError{Message: fmt.Sprintf("decoding config: %v", err)}
	}

	if cfg.Project.Name == "" {
		return nil, &ConfigError{Message: "project.name is required"}
	}
	if len(cfg.Project.Models) == 0 {
		return nil, &ConfigError{Message: "project.models is required"}
	}

	return &cfg, nil
}
