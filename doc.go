// Package axq exposes a hierarchical tree of UI elements served by an
// external accessibility provider, and lets callers enumerate, search and
// act on that tree despite the provider's unpredictable latency.
//
// The Engine facade is the main entry point: it wraps every provider
// interaction in the timeout and retry discipline from pkg/resilience, so a
// slow or unresponsive provider can delay an answer but never hang the
// caller. The tree itself (lazy loading, search, path resolution, actions)
// lives in pkg/ax; provider implementations live behind the pkg/ports
// boundary.
package axq
