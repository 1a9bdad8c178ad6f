// Package cli holds the shared wiring between the axq commands: config
// and flag merging, logger construction, and the engine factory.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/axq-tools/axq/internal/config"
	"github.com/axq-tools/axq/internal/logging"
	"github.com/axq-tools/axq/internal/presentation/format"
	"github.com/spf13/cobra"
)

// defaultConfigPath is looked up relative to the working directory when
// no --config flag is given.
const defaultConfigPath = "axq.yaml"

// Options is the merged configuration one command runs with. Flags win
// over the config file, the config file wins over defaults.
type Options struct {
	Config config.Config
	Logger *slog.Logger
}

// Load reads the config file and applies the persistent flag overrides.
func Load(cmd *cobra.Command) (*Options, error) {
	path, _ := cmd.Flags().GetString("config")
	explicit := cmd.Flags().Changed("config")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("snapshot") {
		cfg.Snapshot, _ = cmd.Flags().GetString("snapshot")
	}
	if cmd.Flags().Changed("format") {
		cfg.Format, _ = cmd.Flags().GetString("format")
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}

	return &Options{
		Config: cfg,
		Logger: logging.New(level),
	}, nil
}

// Encoder returns the output encoder selected by the merged config.
func (o *Options) Encoder() (format.Encoder, error) {
	return format.New(o.Config.Format, o.Config.Verbose)
}
