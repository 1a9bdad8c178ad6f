// Package ax implements the in-memory element tree over the accessibility
// provider: lazy child loading with fallback strategies, pre-order
// predicate search, role[title] path resolution, and pre-checked action
// dispatch.
//
// Elements are created on demand and loaded exactly once; an empty child
// list never proves the absence of children, only that none have been
// retrieved yet. Timeout discipline lives one level up, in the axq.Engine
// facade, which wraps whole searches and actions in the resilience
// primitives.
package ax
