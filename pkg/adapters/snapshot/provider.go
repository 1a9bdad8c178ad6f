// Package snapshot implements a Provider backed by a YAML document
// describing a captured element forest. It lets the CLI and the servers run
// anywhere without a platform accessibility binding, and its per-node delay
// and failure knobs make it a convenient stand-in for a misbehaving
// provider.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/axq-tools/axq/pkg/ports"
)

// node is one materialized snapshot element; handles are *node pointers.
type node struct {
	spec     nodeSpec
	pid      int32
	children []*node
	fails    map[string]bool
	attrs    map[string]any
}

// Provider serves a parsed snapshot through the ports.Provider interface.
type Provider struct {
	apps    []ports.AppInfo
	roots   map[int32]*node
	focused *node
}

// Load reads and parses a snapshot file.
func Load(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return Parse(data)
}

// Parse builds a Provider from snapshot YAML.
func Parse(data []byte) (*Provider, error) {
	specs, focusedPID, err := parseDocument(data)
	if err != nil {
		return nil, err
	}

	p := &Provider{roots: make(map[int32]*node, len(specs))}
	for _, app := range specs {
		root := materialize(app.Root, app.PID)
		p.apps = append(p.apps, ports.AppInfo{Name: app.Name, PID: app.PID})
		p.roots[app.PID] = root
		if p.focused == nil || app.PID == focusedPID {
			p.focused = root
		}
	}
	return p, nil
}

func materialize(spec nodeSpec, pid int32) *node {
	n := &node{
		spec:  spec,
		pid:   pid,
		fails: make(map[string]bool, len(spec.Fail)),
		attrs: make(map[string]any, len(spec.Attributes)),
	}
	for _, op := range spec.Fail {
		n.fails[op] = true
	}
	for k, v := range spec.Attributes {
		n.attrs[k] = v
	}
	for _, c := range spec.Children {
		n.children = append(n.children, materialize(c, pid))
	}
	return n
}

// guard applies the node's scripted delay and failures before an operation.
func (p *Provider) guard(ctx context.Context, h ports.Handle, op string) (*node, error) {
	n, ok := h.(*node)
	if !ok || n == nil {
		return nil, fmt.Errorf("snapshot: %s: unknown handle", op)
	}
	if n.spec.Delay > 0 {
		select {
		case <-time.After(n.spec.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if n.fails[op] {
		return nil, fmt.Errorf("snapshot: simulated %s failure on %s[%s]", op, n.spec.Role, n.spec.Title)
	}
	return n, nil
}

func (p *Provider) RoleOf(ctx context.Context, h ports.Handle) (string, error) {
	n, err := p.guard(ctx, h, "RoleOf")
	if err != nil {
		return "", err
	}
	return n.spec.Role, nil
}

func (p *Provider) SubRoleOf(ctx context.Context, h ports.Handle) (string, error) {
	n, err := p.guard(ctx, h, "SubRoleOf")
	if err != nil {
		return "", err
	}
	return n.spec.SubRole, nil
}

func (p *Provider) RoleDescriptionOf(ctx context.Context, h ports.Handle) (string, error) {
	n, err := p.guard(ctx, h, "RoleDescriptionOf")
	if err != nil {
		return "", err
	}
	return n.spec.Description, nil
}

func (p *Provider) TitleOf(ctx context.Context, h ports.Handle) (string, error) {
	n, err := p.guard(ctx, h, "TitleOf")
	if err != nil {
		return "", err
	}
	return n.spec.Title, nil
}

func (p *Provider) PIDOf(ctx context.Context, h ports.Handle) (int32, error) {
	n, err := p.guard(ctx, h, "PIDOf")
	if err != nil {
		return 0, err
	}
	return n.pid, nil
}

func (p *Provider) HasChildren(ctx context.Context, h ports.Handle) (bool, error) {
	n, err := p.guard(ctx, h, "HasChildren")
	if err != nil {
		return false, err
	}
	if n.spec.HasChildren != nil {
		return *n.spec.HasChildren, nil
	}
	return len(n.children) > 0, nil
}

func (p *Provider) ChildrenOf(ctx context.Context, h ports.Handle) ([]ports.Handle, error) {
	n, err := p.guard(ctx, h, "ChildrenOf")
	if err != nil {
		return nil, err
	}
	return n.handles(), nil
}

func (p *Provider) AttributeNames(ctx context.Context, h ports.Handle) ([]string, error) {
	n, err := p.guard(ctx, h, "AttributeNames")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		names = append(names, k)
	}
	return names, nil
}

func (p *Provider) AttributeValue(ctx context.Context, h ports.Handle, key string) (any, error) {
	n, err := p.guard(ctx, h, "AttributeValue")
	if err != nil {
		return nil, err
	}
	switch key {
	case "AXChildren", "AXChildrenInNavigationOrder":
		return n.handles(), nil
	}
	v, ok := n.attrs[key]
	if !ok {
		return nil, fmt.Errorf("snapshot: attribute %q not present on %s", key, n.spec.Role)
	}
	return v, nil
}

func (p *Provider) SetAttributeValue(ctx context.Context, h ports.Handle, key string, value any) error {
	n, err := p.guard(ctx, h, "SetAttributeValue")
	if err != nil {
		return err
	}
	n.attrs[key] = value
	return nil
}

func (p *Provider) ActionsOf(ctx context.Context, h ports.Handle) ([]string, error) {
	n, err := p.guard(ctx, h, "ActionsOf")
	if err != nil {
		return nil, err
	}
	return append([]string(nil), n.spec.Actions...), nil
}

func (p *Provider) PerformAction(ctx context.Context, h ports.Handle, name string) error {
	n, err := p.guard(ctx, h, "PerformAction")
	if err != nil {
		return err
	}
	n.attrs["lastAction"] = name
	return nil
}

func (p *Provider) Applications(ctx context.Context) ([]ports.AppInfo, error) {
	return append([]ports.AppInfo(nil), p.apps...), nil
}

func (p *Provider) ApplicationElement(ctx context.Context, pid int32) (ports.Handle, error) {
	root, ok := p.roots[pid]
	if !ok {
		return nil, fmt.Errorf("snapshot: no application with pid %d", pid)
	}
	return root, nil
}

func (p *Provider) FocusedApplication(ctx context.Context) (ports.Handle, error) {
	if p.focused == nil {
		return nil, fmt.Errorf("snapshot: no focused application")
	}
	return p.focused, nil
}

// Trusted is always true: a snapshot needs no permission grant.
func (p *Provider) Trusted() bool { return true }

func (n *node) handles() []ports.Handle {
	if len(n.children) == 0 {
		return nil
	}
	handles := make([]ports.Handle, len(n.children))
	for i, c := range n.children {
		handles[i] = c
	}
	return handles
}
