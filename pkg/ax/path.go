package ax

import (
	"context"
	"fmt"
	"strings"
)

// pathSegment is one parsed role[title] step of a path expression.
type pathSegment struct {
	Role  string
	Title string
}

// parsePath splits a /-separated path expression into segments, rejecting
// any segment that is missing the bracketed title portion. Parsing fails
// before any tree walking happens, so a malformed path never returns a
// partial resolution.
func parsePath(path string) ([]pathSegment, error) {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, &PathSyntaxError{Segment: path}
	}

	raw := strings.Split(trimmed, "/")
	segments := make([]pathSegment, 0, len(raw))
	for _, seg := range raw {
		open := strings.Index(seg, "[")
		if open <= 0 || !strings.HasSuffix(seg, "]") {
			return nil, &PathSyntaxError{Segment: seg}
		}
		segments = append(segments, pathSegment{
			Role:  seg[:open],
			Title: seg[open+1 : len(seg)-1],
		})
	}
	return segments, nil
}

// FindByPath resolves a role[title]/role[title]/... path expression against
// the subtree rooted at root, walking one segment at a time. Each step runs
// a role+title search restricted to the current element's subtree and takes
// the first match in pre-order.
//
// A step with no match fails with a NotFoundError naming the unmatched
// role/title and the prefix already resolved. The caller wraps the whole
// walk, all segments combined, in one timeout.
func FindByPath(ctx context.Context, root *Element, path string) (*Element, error) {
	segments, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	current := root
	resolved := make([]string, 0, len(segments))
	for _, seg := range segments {
		matches, err := current.FindDescendants(ctx, Query{Role: seg.Role, Title: seg.Title})
		if err != nil {
			return nil, fmt.Errorf("resolving %s[%s]: %w", seg.Role, seg.Title, err)
		}
		if len(matches) == 0 {
			return nil, &NotFoundError{
				Role:           seg.Role,
				Title:          seg.Title,
				ResolvedPrefix: strings.Join(resolved, "/"),
			}
		}
		current = matches[0]
		resolved = append(resolved, fmt.Sprintf("%s[%s]", seg.Role, seg.Title))
	}
	return current, nil
}
