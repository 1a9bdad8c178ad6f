package ax

import (
	"context"
	"strings"
)

// Query filters elements during descendant searches. Zero-value fields
// match everything.
type Query struct {
	// Role matches case-insensitively against the element's role or
	// subrole.
	Role string
	// Title matches case-insensitively as a substring of the element's
	// title or role description. Matching the description lets callers
	// find elements that expose a human-readable description but no
	// title.
	Title string
}

// Matches reports whether the element satisfies every supplied predicate.
func (q Query) Matches(e *Element) bool {
	if q.Role != "" &&
		!strings.EqualFold(q.Role, e.Role) &&
		!strings.EqualFold(q.Role, e.SubRole) {
		return false
	}
	if q.Title != "" {
		title := strings.ToLower(q.Title)
		if !strings.Contains(strings.ToLower(e.Title), title) &&
			!strings.Contains(strings.ToLower(e.RoleDescription), title) {
			return false
		}
	}
	return true
}

// FindDescendants returns every element in the subtree rooted at e (e
// included) matching the query, in pre-order: parent before children,
// children in provider-reported order. Traversal and lazy loading are
// interleaved; a subtree whose children cannot be loaded is logged and
// skipped so a malfunctioning element does not hide its siblings.
//
// The walk itself only fails on context expiry. Whole-call timeouts are
// applied by the caller (the Engine facade wraps each invocation in a
// single timeout covering the entire walk).
func (e *Element) FindDescendants(ctx context.Context, q Query) ([]*Element, error) {
	var matches []*Element
	if err := e.collectDescendants(ctx, q, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

func (e *Element) collectDescendants(ctx context.Context, q Query, out *[]*Element) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if q.Matches(e) {
		*out = append(*out, e)
	}

	if _, err := e.LoadChildrenIfNeeded(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		// This subtree contributes no matches; siblings continue.
		e.log.Warn("skipping unsearchable subtree", "element", e.Segment(), "err", err)
		return nil
	}

	for _, child := range e.Children() {
		if err := child.collectDescendants(ctx, q, out); err != nil {
			return err
		}
	}
	return nil
}
