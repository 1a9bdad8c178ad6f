package ax

import (
	"context"
	"fmt"
	"slices"
)

// ActionFocus is the baseline capability every element is assumed to have,
// even when the provider advertises no actions at all. Dispatching it sets
// the AXFocused attribute instead of issuing a provider action.
const ActionFocus = "focus"

const attrFocused = "AXFocused"

// AvailableActions returns the actions the element advertises, always
// including the baseline focus capability.
func (e *Element) AvailableActions(ctx context.Context) ([]string, error) {
	if e.prov == nil {
		return []string{ActionFocus}, nil
	}
	names, err := e.prov.ActionsOf(ctx, e.handle)
	if err != nil {
		return nil, fmt.Errorf("listing actions of %s: %w", e, err)
	}
	if !slices.Contains(names, ActionFocus) {
		names = append(names, ActionFocus)
	}
	return names, nil
}

// PerformAction dispatches a named action on the element. The action must
// be present in AvailableActions; an unsupported name fails fast without
// any provider dispatch, because issuing an unknown action to the provider
// can hang rather than fail.
func (e *Element) PerformAction(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("action name must not be empty")
	}

	available, err := e.AvailableActions(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(available, name) {
		return &UnsupportedActionError{Action: name, Available: available}
	}

	if name == ActionFocus {
		return e.Focus(ctx)
	}
	if e.prov == nil {
		return fmt.Errorf("performing %q: %w", name, ErrInvalidElement)
	}
	if err := e.prov.PerformAction(ctx, e.handle, name); err != nil {
		return fmt.Errorf("performing %q on %s: %w", name, e, err)
	}
	return nil
}

// Focus gives the element keyboard focus by writing its AXFocused
// attribute. Synthetic elements just flip the flag.
func (e *Element) Focus(ctx context.Context) error {
	if e.prov != nil {
		if err := e.prov.SetAttributeValue(ctx, e.handle, attrFocused, true); err != nil {
			return fmt.Errorf("focusing %s: %w", e, err)
		}
	}
	e.Focused = true
	return nil
}
