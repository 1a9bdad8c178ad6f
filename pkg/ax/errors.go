package ax

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidElement is returned when an operation needs a live provider
// handle and the element has none (synthetic nodes), or the provider
// rejected an otherwise-valid request. Re-resolving the element usually
// recovers.
var ErrInvalidElement = errors.New("element has no live provider handle")

// NotFoundError is returned when a search or path resolution finds no
// matching element. ResolvedPrefix names the part of a path that did
// resolve, so the caller can see where the walk stopped.
type NotFoundError struct {
	Role           string
	Title          string
	ResolvedPrefix string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no element matching role %q", e.Role)
	if e.Title != "" {
		msg += fmt.Sprintf(" title %q", e.Title)
	}
	if e.ResolvedPrefix != "" {
		msg += fmt.Sprintf(" under %s", e.ResolvedPrefix)
	}
	return msg
}

// UnsupportedActionError is returned when an action is requested that the
// element does not advertise. The provider is never called in this case;
// dispatching an unsupported action can hang rather than fail fast.
type UnsupportedActionError struct {
	Action    string
	Available []string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("action %q not supported (available: %s)",
		e.Action, strings.Join(e.Available, ", "))
}

// PathSyntaxError is returned for a malformed path segment. Each segment
// must have the form role[title].
type PathSyntaxError struct {
	Segment string
}

func (e *PathSyntaxError) Error() string {
	return fmt.Sprintf("malformed path segment %q: expected role[title]", e.Segment)
}
