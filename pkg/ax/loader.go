package ax

import (
	"context"
	"fmt"

	"github.com/axq-tools/axq/pkg/ports"
)

// Attribute keys the fallback strategies read. Different element kinds
// expose children through different surfaces and none is universally
// reliable, so the loader tries each in turn.
const (
	attrChildren           = "AXChildren"
	attrChildrenInNavOrder = "AXChildrenInNavigationOrder"
)

// LoadChildrenIfNeeded populates the element's children from the provider
// on first call. It returns true when children are loaded (now or
// previously) and false when the element reports no children or none were
// accessible.
//
// Strategy order: the structured children accessor, then the AXChildren
// attribute, then the navigation-order attribute. The first strategy
// yielding a non-empty set wins; per-strategy failures are logged and the
// next is tried. When every strategy comes up empty the element keeps its
// HasChildren flag: children may still exist that the provider failed to
// report, and a later call is allowed to try again.
func (e *Element) LoadChildrenIfNeeded(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.children) > 0 {
		// Loaded-once: never re-query or replace.
		return true, nil
	}
	if !e.HasChildren {
		return false, nil
	}
	if e.prov == nil {
		// Synthetic element whose children were never added.
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	strategies := []struct {
		name string
		load func(context.Context) ([]ports.Handle, error)
	}{
		{"accessor", func(ctx context.Context) ([]ports.Handle, error) {
			return e.prov.ChildrenOf(ctx, e.handle)
		}},
		{"attribute", func(ctx context.Context) ([]ports.Handle, error) {
			return e.childHandlesFromAttribute(ctx, attrChildren)
		}},
		{"navigation-order", func(ctx context.Context) ([]ports.Handle, error) {
			return e.childHandlesFromAttribute(ctx, attrChildrenInNavOrder)
		}},
	}

	for _, s := range strategies {
		handles, err := s.load(ctx)
		if err != nil {
			e.log.Debug("child load strategy failed",
				"element", e.Segment(), "strategy", s.name, "err", err)
			continue
		}
		if len(handles) == 0 {
			continue
		}

		children := make([]*Element, 0, len(handles))
		for _, h := range handles {
			child, err := FromHandle(ctx, e.prov, h, e, e.log)
			if err != nil {
				e.log.Debug("child construction failed",
					"element", e.Segment(), "strategy", s.name, "err", err)
				continue
			}
			children = append(children, child)
		}
		if len(children) == 0 {
			continue
		}

		e.children = children
		return true, nil
	}

	// Soft signal, not an error: the flag stays up, the list stays empty.
	e.log.Warn("element reports children but none were accessible",
		"element", e.Segment())
	return false, nil
}

// LoadSubtree eagerly loads descendants down to the given depth. A depth
// of 0 loads nothing, 1 loads direct children, and a negative depth means
// no limit. Inaccessible subtrees are skipped, matching the search walk;
// only context expiry aborts the whole load.
func (e *Element) LoadSubtree(ctx context.Context, depth int) error {
	if depth == 0 {
		return nil
	}
	if _, err := e.LoadChildrenIfNeeded(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		e.log.Debug("subtree load skipped inaccessible element",
			"element", e.Segment(), "err", err)
		return nil
	}
	for _, child := range e.Children() {
		if err := child.LoadSubtree(ctx, depth-1); err != nil {
			return err
		}
	}
	return nil
}

// childHandlesFromAttribute reads a children-bearing attribute and coerces
// its value into handles. Providers return either a handle slice or a
// generic slice depending on the transport.
func (e *Element) childHandlesFromAttribute(ctx context.Context, key string) ([]ports.Handle, error) {
	v, err := e.prov.AttributeValue(ctx, e.handle, key)
	if err != nil {
		return nil, err
	}
	switch val := v.(type) {
	case nil:
		return nil, nil
	case []ports.Handle:
		return val, nil
	case []any:
		handles := make([]ports.Handle, len(val))
		for i, h := range val {
			handles[i] = h
		}
		return handles, nil
	default:
		return nil, fmt.Errorf("attribute %s has unexpected type %T", key, v)
	}
}
