package ports

import "context"

// Handle is an opaque reference to one element on the provider side.
// Handles are only meaningful to the provider that issued them; the core
// compares them by identity and never inspects their contents.
type Handle any

// AppInfo describes one running application as reported by the provider.
type AppInfo struct {
	Name string
	PID  int32
}

// Provider is the external accessibility service. Every method may block
// arbitrarily long or fail with a provider-specific error; callers are
// expected to wrap calls in the resilience primitives rather than trust
// the provider to return promptly.
type Provider interface {
	// RoleOf returns the element's primary role (e.g. "AXButton").
	RoleOf(ctx context.Context, h Handle) (string, error)

	// SubRoleOf returns the finer-grained role variant, or "" if none.
	SubRoleOf(ctx context.Context, h Handle) (string, error)

	// RoleDescriptionOf returns the human-readable role description.
	RoleDescriptionOf(ctx context.Context, h Handle) (string, error)

	// TitleOf returns the element's title, or "" if it has none.
	TitleOf(ctx context.Context, h Handle) (string, error)

	// PIDOf returns the PID of the process owning the element.
	PIDOf(ctx context.Context, h Handle) (int32, error)

	// HasChildren reports whether the provider believes the element has
	// children. It may be true even when no children can be retrieved.
	HasChildren(ctx context.Context, h Handle) (bool, error)

	// ChildrenOf returns the element's children through the structured
	// accessor, in provider-reported order.
	ChildrenOf(ctx context.Context, h Handle) ([]Handle, error)

	// AttributeNames lists the attribute keys the element exposes.
	AttributeNames(ctx context.Context, h Handle) ([]string, error)

	// AttributeValue reads one attribute. The value may be a scalar, a
	// Handle, or a slice of Handles depending on the key.
	AttributeValue(ctx context.Context, h Handle, key string) (any, error)

	// SetAttributeValue writes one attribute.
	SetAttributeValue(ctx context.Context, h Handle, key string, value any) error

	// ActionsOf lists the action names the element advertises.
	ActionsOf(ctx context.Context, h Handle) ([]string, error)

	// PerformAction dispatches a named action on the element.
	PerformAction(ctx context.Context, h Handle, name string) error

	// Applications enumerates running applications visible to the provider.
	Applications(ctx context.Context) ([]AppInfo, error)

	// ApplicationElement returns the root element of one application.
	ApplicationElement(ctx context.Context, pid int32) (Handle, error)

	// FocusedApplication returns the root element of the frontmost
	// application.
	FocusedApplication(ctx context.Context) (Handle, error)

	// Trusted reports whether the process has permission to query the
	// provider at all. A false value is fatal to the command using it.
	Trusted() bool
}
