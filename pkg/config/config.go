// Package config loads pamladder settings from TOML.
//
// A config file looks like:
//
//	max_ladder_length = 500
//	log_level = "info"
//
//	[render]
//	format = "svg"
//	labels = true
//
// Missing keys keep their defaults; unknown keys are rejected. Command-line
// flags override file values.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/pamladder/pkg/errors"
	"github.com/matzehuels/pamladder/pkg/ladder"
)

// DefaultPath is the config file read when none is named explicitly.
const DefaultPath = "pamladder.toml"

// Config holds all settings.
type Config struct {
	// MaxLadderLength caps the base length of built and merged ladders.
	MaxLadderLength int `toml:"max_ladder_length"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `toml:"log_level"`
	Render   Render `toml:"render"`
}

// Render holds diagram output settings.
type Render struct {
	// Format is one of dot, svg, txt or json.
	Format string `toml:"format"`
	// Labels draws atom labels instead of IDs.
	Labels bool `toml:"labels"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxLadderLength: ladder.DefaultMaxLadderLength,
		LogLevel:        "info",
		Render:          Render{Format: "svg"},
	}
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, perrors.New(perrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	if err := perrors.ValidatePath(path); err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "read config %s", path)
		}
		return Config{}, perrors.Wrap(perrors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads path when it exists and returns the defaults
// otherwise. Any other failure is returned.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if perrors.Is(err, perrors.ErrCodeFileNotFound) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks every setting and reports all problems at once.
func (c Config) Validate() error {
	var errs []string
	for _, err := range []error{
		perrors.ValidateMaxLadderLength(c.MaxLadderLength),
		perrors.ValidateLogLevel(c.LogLevel),
		perrors.ValidateRenderFormat(c.Render.Format),
	} {
		if err != nil {
			errs = append(errs, perrors.UserMessage(err))
		}
	}
	if len(errs) > 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
