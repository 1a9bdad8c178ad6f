// Package ports defines the boundary interfaces between the element tree
// core and the outside world. The only hard dependency of the core is the
// Provider: the out-of-process accessibility service that answers questions
// about on-screen elements. Keeping it behind an interface allows the
// platform binding, the snapshot adapter and the test fakes to be swapped
// without touching the tree logic.
package ports
