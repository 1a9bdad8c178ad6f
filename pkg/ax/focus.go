package ax

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/axq-tools/axq/pkg/ports"
)

const (
	attrFocusedWindow  = "AXFocusedWindow"
	attrFocusedElement = "AXFocusedUIElement"
)

// FocusedElement resolves the focused application's focused element: the
// frontmost application, its focused window when one is reported, and the
// focused node within it. When the application exposes no focused node the
// focused window (or the application root itself) is returned, so callers
// always get the deepest focus the provider will admit to.
func FocusedElement(ctx context.Context, prov ports.Provider, log *slog.Logger) (*Element, error) {
	appHandle, err := prov.FocusedApplication(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving focused application: %w", err)
	}
	app, err := FromHandle(ctx, prov, appHandle, nil, log)
	if err != nil {
		return nil, fmt.Errorf("building focused application element: %w", err)
	}

	current := app
	if h := handleAttribute(ctx, prov, appHandle, attrFocusedWindow); h != nil {
		if win, err := FromHandle(ctx, prov, h, app, log); err == nil {
			win.Focused = true
			current = win
		}
	}
	if h := handleAttribute(ctx, prov, appHandle, attrFocusedElement); h != nil {
		if el, err := FromHandle(ctx, prov, h, current, log); err == nil {
			el.Focused = true
			return el, nil
		}
	}
	current.Focused = true
	return current, nil
}

// handleAttribute reads an attribute expected to hold a single handle,
// returning nil when it is absent. Handles are opaque, so any non-nil
// value is taken at face value.
func handleAttribute(ctx context.Context, prov ports.Provider, h ports.Handle, key string) ports.Handle {
	v, err := prov.AttributeValue(ctx, h, key)
	if err != nil {
		return nil
	}
	return v
}
