// Package fake provides an in-memory, fully scriptable Provider for tests
// and demos. Nodes can be told to fail or hang per operation, which is how
// the resilience and loader fallback behavior is exercised without a real
// accessibility service.
package fake

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/axq-tools/axq/pkg/ports"
)

// Node is one fake element. The zero value is usable; children are owned
// directly since the fake has no notion of lazy loading.
type Node struct {
	Role            string
	SubRole         string
	RoleDescription string
	Title           string
	PID             int32
	Actions         []string
	Attributes      map[string]any
	Children        []*Node

	// ForceHasChildren keeps HasChildren true even with no retrievable
	// children, simulating a provider that reports children it cannot
	// deliver.
	ForceHasChildren bool

	// HideFromAccessor makes ChildrenOf return nothing so the loader has
	// to fall back to attribute lookups.
	HideFromAccessor bool

	// FailOps maps an operation name (e.g. "ChildrenOf") to the error it
	// returns. HangOps makes the operation block until the provider is
	// closed. Delay is applied to every operation on this node.
	FailOps map[string]error
	HangOps map[string]bool
	Delay   time.Duration
}

// NewNode builds a node with children attached.
func NewNode(role, title string, children ...*Node) *Node {
	return &Node{Role: role, Title: title, Children: children}
}

// Provider implements ports.Provider over a forest of fake nodes.
type Provider struct {
	mu      sync.Mutex
	apps    []appEntry
	focused *Node
	trusted bool
	calls   map[string]int
	stop    chan struct{}
	once    sync.Once
}

type appEntry struct {
	info ports.AppInfo
	root *Node
}

// NewProvider returns an empty, trusted provider.
func NewProvider() *Provider {
	return &Provider{
		trusted: true,
		calls:   make(map[string]int),
		stop:    make(chan struct{}),
	}
}

// AddApplication registers an application root.
func (p *Provider) AddApplication(name string, pid int32, root *Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	root.PID = pid
	p.apps = append(p.apps, appEntry{info: ports.AppInfo{Name: name, PID: pid}, root: root})
	if p.focused == nil {
		p.focused = root
	}
}

// SetFocused marks a node as the frontmost application root.
func (p *Provider) SetFocused(root *Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.focused = root
}

// SetTrusted toggles the permission state reported by Trusted.
func (p *Provider) SetTrusted(v bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.trusted = v
}

// Close releases every hanging operation. Tests should defer it.
func (p *Provider) Close() {
	p.once.Do(func() { close(p.stop) })
}

// Calls reports how many times an operation ran, across all nodes.
func (p *Provider) Calls(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[op]
}

// enter records the call and applies the node's scripted misbehavior.
func (p *Provider) enter(ctx context.Context, op string, h ports.Handle) (*Node, error) {
	p.mu.Lock()
	p.calls[op]++
	p.mu.Unlock()

	n, ok := h.(*Node)
	if !ok || n == nil {
		return nil, fmt.Errorf("fake: %s: unknown handle %v", op, h)
	}
	if n.HangOps[op] {
		select {
		case <-p.stop:
		case <-ctx.Done():
		}
		// Hanging calls never produce a usable result; mimic a provider
		// that went unresponsive.
		return nil, fmt.Errorf("fake: %s: provider went away", op)
	}
	if n.Delay > 0 {
		select {
		case <-time.After(n.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := n.FailOps[op]; ok {
		return nil, err
	}
	return n, nil
}

func (p *Provider) RoleOf(ctx context.Context, h ports.Handle) (string, error) {
	n, err := p.enter(ctx, "RoleOf", h)
	if err != nil {
		return "", err
	}
	return n.Role, nil
}

func (p *Provider) SubRoleOf(ctx context.Context, h ports.Handle) (string, error) {
	n, err := p.enter(ctx, "SubRoleOf", h)
	if err != nil {
		return "", err
	}
	return n.SubRole, nil
}

func (p *Provider) RoleDescriptionOf(ctx context.Context, h ports.Handle) (string, error) {
	n, err := p.enter(ctx, "RoleDescriptionOf", h)
	if err != nil {
		return "", err
	}
	return n.RoleDescription, nil
}

func (p *Provider) TitleOf(ctx context.Context, h ports.Handle) (string, error) {
	n, err := p.enter(ctx, "TitleOf", h)
	if err != nil {
		return "", err
	}
	return n.Title, nil
}

func (p *Provider) PIDOf(ctx context.Context, h ports.Handle) (int32, error) {
	n, err := p.enter(ctx, "PIDOf", h)
	if err != nil {
		return 0, err
	}
	return n.PID, nil
}

func (p *Provider) HasChildren(ctx context.Context, h ports.Handle) (bool, error) {
	n, err := p.enter(ctx, "HasChildren", h)
	if err != nil {
		return false, err
	}
	return n.ForceHasChildren || len(n.Children) > 0, nil
}

func (p *Provider) ChildrenOf(ctx context.Context, h ports.Handle) ([]ports.Handle, error) {
	n, err := p.enter(ctx, "ChildrenOf", h)
	if err != nil {
		return nil, err
	}
	if n.HideFromAccessor {
		return nil, nil
	}
	return handlesOf(n.Children), nil
}

func (p *Provider) AttributeNames(ctx context.Context, h ports.Handle) ([]string, error) {
	n, err := p.enter(ctx, "AttributeNames", h)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(n.Attributes))
	for k := range n.Attributes {
		names = append(names, k)
	}
	return names, nil
}

func (p *Provider) AttributeValue(ctx context.Context, h ports.Handle, key string) (any, error) {
	// Scripted per key so tests can fail one fallback strategy at a time.
	n, err := p.enter(ctx, "AttributeValue:"+key, h)
	if err != nil {
		return nil, err
	}
	if key == "AXChildren" || key == "AXChildrenInNavigationOrder" {
		return handlesOf(n.Children), nil
	}
	v, ok := n.Attributes[key]
	if !ok {
		return nil, fmt.Errorf("fake: attribute %q not present", key)
	}
	return v, nil
}

func (p *Provider) SetAttributeValue(ctx context.Context, h ports.Handle, key string, value any) error {
	n, err := p.enter(ctx, "SetAttributeValue", h)
	if err != nil {
		return err
	}
	if n.Attributes == nil {
		n.Attributes = make(map[string]any)
	}
	n.Attributes[key] = value
	return nil
}

func (p *Provider) ActionsOf(ctx context.Context, h ports.Handle) ([]string, error) {
	n, err := p.enter(ctx, "ActionsOf", h)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), n.Actions...), nil
}

func (p *Provider) PerformAction(ctx context.Context, h ports.Handle, name string) error {
	n, err := p.enter(ctx, "PerformAction:"+name, h)
	if err != nil {
		return err
	}
	if n.Attributes == nil {
		n.Attributes = make(map[string]any)
	}
	n.Attributes["lastAction"] = name
	return nil
}

func (p *Provider) Applications(ctx context.Context) ([]ports.AppInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls["Applications"]++
	infos := make([]ports.AppInfo, len(p.apps))
	for i, a := range p.apps {
		infos[i] = a.info
	}
	return infos, nil
}

func (p *Provider) ApplicationElement(ctx context.Context, pid int32) (ports.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls["ApplicationElement"]++
	for _, a := range p.apps {
		if a.info.PID == pid {
			return a.root, nil
		}
	}
	return nil, fmt.Errorf("fake: no application with pid %d", pid)
}

func (p *Provider) FocusedApplication(ctx context.Context) (ports.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls["FocusedApplication"]++
	if p.focused == nil {
		return nil, fmt.Errorf("fake: no focused application")
	}
	return p.focused, nil
}

func (p *Provider) Trusted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trusted
}

func handlesOf(nodes []*Node) []ports.Handle {
	if len(nodes) == 0 {
		return nil
	}
	handles := make([]ports.Handle, len(nodes))
	for i, c := range nodes {
		handles[i] = c
	}
	return handles
}
