package ax

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/axq-tools/axq/pkg/ports"
)

// Element is one node of the accessibility tree. Attribute fields are read
// from the provider at construction time; the child list stays empty until
// LoadChildrenIfNeeded populates it (and is then never replaced).
//
// An empty child list does not mean the element is a leaf: HasChildren is
// the authoritative "may have children" signal and is never revised
// downward.
type Element struct {
	Role            string
	SubRole         string
	RoleDescription string
	Title           string
	HasChildren     bool
	PID             int32
	Focused         bool

	mu       sync.Mutex
	children []*Element
	parent   *Element

	handle ports.Handle
	prov   ports.Provider
	log    *slog.Logger
}

// FromHandle builds an Element for a provider handle, reading its identity
// attributes eagerly. Only a failed role read is fatal; the other reads
// degrade to zero values so a flaky provider still yields a usable node.
func FromHandle(ctx context.Context, prov ports.Provider, h ports.Handle, parent *Element, log *slog.Logger) (*Element, error) {
	if prov == nil {
		return nil, fmt.Errorf("building element: %w", ErrInvalidElement)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	role, err := prov.RoleOf(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("reading element role: %w", err)
	}

	e := &Element{
		Role:   role,
		parent: parent,
		handle: h,
		prov:   prov,
		log:    log,
	}

	if v, err := prov.TitleOf(ctx, h); err == nil {
		e.Title = v
	} else {
		log.Debug("title read failed", "role", role, "err", err)
	}
	if v, err := prov.SubRoleOf(ctx, h); err == nil {
		e.SubRole = v
	}
	if v, err := prov.RoleDescriptionOf(ctx, h); err == nil {
		e.RoleDescription = v
	}
	if v, err := prov.PIDOf(ctx, h); err == nil {
		e.PID = v
	}
	if v, err := prov.HasChildren(ctx, h); err == nil {
		e.HasChildren = v
	} else {
		log.Debug("hasChildren read failed", "role", role, "err", err)
	}

	return e, nil
}

// NewSynthetic builds an element with no provider backing. Synthetic trees
// are assembled with AddChild and are used by tests and demos.
func NewSynthetic(role, title string) *Element {
	return &Element{
		Role:  role,
		Title: title,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// AddChild appends a child directly, bypassing the lazy loader. It marks
// the parent as having children so searches will descend into it.
func (e *Element) AddChild(child *Element) {
	e.mu.Lock()
	defer e.mu.Unlock()
	child.parent = e
	e.HasChildren = true
	e.children = append(e.children, child)
}

// Children returns the currently loaded children in provider-reported
// order. It does not trigger a load.
func (e *Element) Children() []*Element {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// Parent returns the parent element, or nil for a root.
func (e *Element) Parent() *Element { return e.parent }

// Handle returns the underlying provider handle, or nil for synthetic
// elements.
func (e *Element) Handle() ports.Handle { return e.handle }

// Segment renders the element as one role[title] path segment.
func (e *Element) Segment() string {
	return fmt.Sprintf("%s[%s]", e.Role, e.Title)
}

// DisplayPath renders the element's ancestry as a /-separated path of
// role[title] segments, root first.
func (e *Element) DisplayPath() string {
	if e.parent == nil {
		return e.Segment()
	}
	return e.parent.DisplayPath() + "/" + e.Segment()
}

func (e *Element) String() string { return e.Segment() }

// Attributes reads every attribute the element exposes. Individual value
// reads that fail are logged and skipped rather than failing the whole
// map. Synthetic elements report their construction-time fields.
func (e *Element) Attributes(ctx context.Context) (map[string]any, error) {
	if e.prov == nil {
		return map[string]any{
			"AXRole":  e.Role,
			"AXTitle": e.Title,
		}, nil
	}

	names, err := e.prov.AttributeNames(ctx, e.handle)
	if err != nil {
		return nil, fmt.Errorf("listing attributes of %s: %w", e, err)
	}

	attrs := make(map[string]any, len(names))
	for _, name := range names {
		v, err := e.prov.AttributeValue(ctx, e.handle, name)
		if err != nil {
			e.log.Debug("attribute read failed", "element", e.Segment(), "attribute", name, "err", err)
			continue
		}
		attrs[name] = v
	}
	return attrs, nil
}
