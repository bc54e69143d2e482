// Package config loads the settings of the ocl command line.
//
// Sources are applied in increasing priority: defaults, the config file,
// OCL_ environment variables, then explicitly set flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// FileName is looked up in the working directory when no config file is given
const FileName = "ocl.yaml"

const envPrefix = "OCL_"

type LogConfig struct {
	Level    int      `koanf:"level"`
	Sections []string `koanf:"sections"`
}

type DispatchConfig struct {
	// Ambiguity is warn or error, see ops.ParseAmbiguity
	Ambiguity string `koanf:"ambiguity"`
}

type Config struct {
	Log      LogConfig      `koanf:"log"`
	Dispatch DispatchConfig `koanf:"dispatch"`
	// Output is table or plain
	Output string `koanf:"output"`
	// Classes are user classes added to the type hierarchy, by name, with their direct parents
	Classes map[string][]string `koanf:"classes"`
}

func defaults() map[string]any {
	return map[string]any{
		"log.level":          int(slog.LevelWarn),
		"log.sections":       []string{"dispatch", "registry"},
		"dispatch.ambiguity": "warn",
		"output":             "table",
	}
}

// flagKeys maps flag names to config keys
var flagKeys = map[string]string{
	"log-level": "log.level",
	"ambiguity": "dispatch.ambiguity",
	"output":    "output",
}

// Load reads the configuration. path may be empty, in which case FileName is used if it exists.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("could not stat config file: %w", err)
	}

	// OCL_LOG_LEVEL -> log.level, OCL_DISPATCH_AMBIGUITY -> dispatch.ambiguity
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, known := flagKeys[f.Name]
			if !f.Changed || !known {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Output {
	case "table", "plain":
	default:
		return fmt.Errorf("invalid output %q (want table or plain)", c.Output)
	}
	switch strings.ToLower(c.Dispatch.Ambiguity) {
	case "warn", "error":
	default:
		return fmt.Errorf("invalid dispatch.ambiguity %q (want warn or error)", c.Dispatch.Ambiguity)
	}
	return nil
}
