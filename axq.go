package axq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/axq-tools/axq/pkg/ax"
	"github.com/axq-tools/axq/pkg/ports"
	"github.com/axq-tools/axq/pkg/resilience"
)

// ErrNotTrusted is returned when the provider reports that the process has
// no permission to query it. This is fatal to the command using the engine.
var ErrNotTrusted = errors.New("accessibility permission not granted")

// Default operation bounds. The path timeout covers all segments of one
// resolution combined; the search timeout covers one whole recursive walk.
const (
	DefaultSearchTimeout = 10 * time.Second
	DefaultPathTimeout   = 5 * time.Second
	DefaultActionTimeout = 2 * time.Second
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 100 * time.Millisecond
)

// Engine is the high-level entry point. It binds a provider to the element
// tree core and applies the timeout+retry discipline to every call that can
// touch the provider.
type Engine struct {
	prov ports.Provider
	log  *slog.Logger

	searchTimeout time.Duration
	pathTimeout   time.Duration
	actionTimeout time.Duration
	retryAttempts int
	retryDelay    time.Duration
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithSearchTimeout bounds one whole FindElements walk.
func WithSearchTimeout(d time.Duration) Option {
	return func(e *Engine) { e.searchTimeout = d }
}

// WithPathTimeout bounds one whole path resolution, all segments combined.
func WithPathTimeout(d time.Duration) Option {
	return func(e *Engine) { e.pathTimeout = d }
}

// WithActionTimeout bounds one action dispatch attempt.
func WithActionTimeout(d time.Duration) Option {
	return func(e *Engine) { e.actionTimeout = d }
}

// WithRetryPolicy sets the attempt count and inter-attempt delay used for
// flaky action dispatch.
func WithRetryPolicy(attempts int, delay time.Duration) Option {
	return func(e *Engine) {
		e.retryAttempts = attempts
		e.retryDelay = delay
	}
}

// New builds an Engine around a provider.
func New(prov ports.Provider, opts ...Option) (*Engine, error) {
	if prov == nil {
		return nil, fmt.Errorf("provider is required")
	}
	e := &Engine{
		prov:          prov,
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		searchTimeout: DefaultSearchTimeout,
		pathTimeout:   DefaultPathTimeout,
		actionTimeout: DefaultActionTimeout,
		retryAttempts: DefaultRetryAttempts,
		retryDelay:    DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.searchTimeout <= 0 || e.pathTimeout <= 0 || e.actionTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be positive")
	}
	if e.retryAttempts < 1 {
		return nil, fmt.Errorf("retry attempts must be at least 1")
	}
	if e.retryDelay <= 0 {
		return nil, fmt.Errorf("retry delay must be positive")
	}
	return e, nil
}

// CheckTrusted fails with ErrNotTrusted when the provider denies access.
func (e *Engine) CheckTrusted() error {
	if !e.prov.Trusted() {
		return ErrNotTrusted
	}
	return nil
}

// Applications enumerates running applications. Roots are not resolved
// here; use ApplicationTree for one application's element tree.
func (e *Engine) Applications(ctx context.Context) ([]ax.Application, error) {
	infos, err := resilience.WithTimeout(ctx, e.searchTimeout, func(ctx context.Context) ([]ports.AppInfo, error) {
		return e.prov.Applications(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	apps := make([]ax.Application, len(infos))
	for i, info := range infos {
		apps[i] = ax.Application{Name: info.Name, PID: info.PID}
	}
	return apps, nil
}

// ApplicationTree resolves the root element of one application.
func (e *Engine) ApplicationTree(ctx context.Context, pid int32) (*ax.Element, error) {
	return resilience.WithTimeout(ctx, e.searchTimeout, func(ctx context.Context) (*ax.Element, error) {
		h, err := e.prov.ApplicationElement(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("resolving application %d: %w", pid, err)
		}
		return ax.FromHandle(ctx, e.prov, h, nil, e.log)
	})
}

// FindElements returns every element under root (root included) matching
// the optional role and title predicates, in pre-order. The entire
// recursive walk runs under a single timeout; expiry discards partial
// results.
func (e *Engine) FindElements(ctx context.Context, root *ax.Element, role, title string) ([]*ax.Element, error) {
	return resilience.WithTimeout(ctx, e.searchTimeout, func(ctx context.Context) ([]*ax.Element, error) {
		return root.FindDescendants(ctx, ax.Query{Role: role, Title: title})
	})
}

// FindElementsQuiet is the non-throwing variant: failures are logged and an
// empty slice is returned.
func (e *Engine) FindElementsQuiet(ctx context.Context, root *ax.Element, role, title string) []*ax.Element {
	matches, err := e.FindElements(ctx, root, role, title)
	if err != nil {
		e.log.Warn("search failed", "role", role, "title", title, "err", err)
		return nil
	}
	return matches
}

// FindElementByPath resolves a role[title]/... path expression under root.
// One timeout covers the whole walk, all segments combined.
func (e *Engine) FindElementByPath(ctx context.Context, root *ax.Element, path string) (*ax.Element, error) {
	return resilience.WithTimeout(ctx, e.pathTimeout, func(ctx context.Context) (*ax.Element, error) {
		return ax.FindByPath(ctx, root, path)
	})
}

// FindElementByPathQuiet is the non-throwing variant: failures are logged
// and nil is returned.
func (e *Engine) FindElementByPathQuiet(ctx context.Context, root *ax.Element, path string) *ax.Element {
	el, err := e.FindElementByPath(ctx, root, path)
	if err != nil {
		e.log.Warn("path resolution failed", "path", path, "err", err)
		return nil
	}
	return el
}

// FocusedElement resolves the focused application's focused element.
func (e *Engine) FocusedElement(ctx context.Context) (*ax.Element, error) {
	return resilience.WithTimeout(ctx, e.searchTimeout, func(ctx context.Context) (*ax.Element, error) {
		return ax.FocusedElement(ctx, e.prov, e.log)
	})
}

// flakyActions are dispatched with retries on top of the per-attempt
// timeout. Pressing a control is known to sporadically fail on the
// provider side even when the element is perfectly actionable.
var flakyActions = map[string]bool{
	"press":   true,
	"AXPress": true,
}

// PerformAction validates and dispatches a named action on an element.
// Unsupported actions fail fast without touching the provider — and
// without burning retry attempts on an error that cannot improve.
func (e *Engine) PerformAction(ctx context.Context, el *ax.Element, name string) error {
	available, err := e.AvailableActions(ctx, el)
	if err != nil {
		return err
	}
	if !slices.Contains(available, name) {
		return &ax.UnsupportedActionError{Action: name, Available: available}
	}

	op := func(ctx context.Context) (struct{}, error) {
		return struct{}{}, el.PerformAction(ctx, name)
	}

	if flakyActions[name] {
		_, err = resilience.WithTimeoutAndRetry(ctx, e.actionTimeout, e.retryAttempts, e.retryDelay, op)
	} else {
		_, err = resilience.WithTimeout(ctx, e.actionTimeout, op)
	}
	return err
}

// ElementAttributes reads every attribute of an element under one timeout.
func (e *Engine) ElementAttributes(ctx context.Context, el *ax.Element) (map[string]any, error) {
	return resilience.WithTimeout(ctx, e.searchTimeout, func(ctx context.Context) (map[string]any, error) {
		return el.Attributes(ctx)
	})
}

// AvailableActions lists an element's actions under one timeout.
func (e *Engine) AvailableActions(ctx context.Context, el *ax.Element) ([]string, error) {
	return resilience.WithTimeout(ctx, e.actionTimeout, func(ctx context.Context) ([]string, error) {
		return el.AvailableActions(ctx)
	})
}

// Logger returns the engine's logger for adapters that want to share it.
func (e *Engine) Logger() *slog.Logger { return e.log }
