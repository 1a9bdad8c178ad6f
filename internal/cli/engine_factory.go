package cli

import (
	_ "embed"
	"fmt"

	axq "github.com/axq-tools/axq"
	"github.com/axq-tools/axq/internal/metrics"
	"github.com/axq-tools/axq/pkg/adapters/snapshot"
	"github.com/axq-tools/axq/pkg/ports"

	"github.com/prometheus/client_golang/prometheus"
)

//go:embed demo_snapshot.yaml
var demoSnapshot []byte

// NewEngine wires a provider into an engine using the merged options.
// The provider comes from the configured snapshot file, or from a small
// built-in demo tree when none is configured. The returned registry
// carries the provider-call metrics.
func NewEngine(opts *Options) (*axq.Engine, *prometheus.Registry, error) {
	prov, err := newProvider(opts)
	if err != nil {
		return nil, nil, err
	}

	reg := prometheus.NewRegistry()
	prov = metrics.Instrument(prov, metrics.NewRecorder(reg))

	eng, err := axq.New(prov,
		axq.WithLogger(opts.Logger),
		axq.WithSearchTimeout(opts.Config.SearchTimeout.Std()),
		axq.WithPathTimeout(opts.Config.PathTimeout.Std()),
		axq.WithActionTimeout(opts.Config.ActionTimeout.Std()),
		axq.WithRetryPolicy(opts.Config.RetryAttempts, opts.Config.RetryDelay.Std()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing engine: %w", err)
	}
	if err := eng.CheckTrusted(); err != nil {
		return nil, nil, err
	}
	return eng, reg, nil
}

func newProvider(opts *Options) (ports.Provider, error) {
	if opts.Config.Snapshot != "" {
		prov, err := snapshot.Load(opts.Config.Snapshot)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot %s: %w", opts.Config.Snapshot, err)
		}
		opts.Logger.Info("using snapshot provider", "path", opts.Config.Snapshot)
		return prov, nil
	}

	prov, err := snapshot.Parse(demoSnapshot)
	if err != nil {
		return nil, fmt.Errorf("loading built-in demo snapshot: %w", err)
	}
	opts.Logger.Info("no snapshot configured, using built-in demo tree")
	return prov, nil
}
