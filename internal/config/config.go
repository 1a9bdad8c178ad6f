// Package config loads the axq configuration file and merges it with
// built-in defaults. Flags override config values at the CLI layer.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can spell values as "150ms" or "3s".
type Duration time.Duration

// UnmarshalYAML accepts a Go duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"5s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the plain time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds every tunable the CLI and servers accept.
type Config struct {
	// Timeouts for the engine operations. SearchTimeout bounds one whole
	// descendant walk, PathTimeout one whole path resolution, and
	// ActionTimeout a single action dispatch attempt.
	SearchTimeout Duration `yaml:"search_timeout" validate:"gt=0"`
	PathTimeout   Duration `yaml:"path_timeout" validate:"gt=0"`
	ActionTimeout Duration `yaml:"action_timeout" validate:"gt=0"`

	// Retry policy for flaky action dispatch.
	RetryAttempts int      `yaml:"retry_attempts" validate:"gte=1"`
	RetryDelay    Duration `yaml:"retry_delay" validate:"gt=0"`

	// Output defaults.
	Format   string `yaml:"format" validate:"oneof=plain json xml"`
	Verbose  bool   `yaml:"verbose"`
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Snapshot is the default snapshot file when no --snapshot flag is
	// given.
	Snapshot string `yaml:"snapshot"`

	// ListenAddr is the default bind address for `axq serve`.
	ListenAddr string `yaml:"listen_addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SearchTimeout: Duration(10 * time.Second),
		PathTimeout:   Duration(5 * time.Second),
		ActionTimeout: Duration(2 * time.Second),
		RetryAttempts: 3,
		RetryDelay:    Duration(100 * time.Millisecond),
		Format:        "plain",
		LogLevel:      "info",
		ListenAddr:    ":8418",
	}
}

// Load reads a config file over the defaults. A missing file is fine when
// the path was not explicitly requested.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks range and enum constraints.
func (c Config) Validate() error {
	return validator.New().Struct(c)
}
