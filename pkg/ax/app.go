package ax

// Application is a shallow record for one running program. Root is the
// application's element, resolved lazily by the discovery layer; it may be
// nil when the provider could not produce one.
type Application struct {
	Name string
	PID  int32
	Root *Element
}

// Rect is a window frame in screen coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Window is a shallow record for one on-screen window owning an element
// subtree.
type Window struct {
	Title string
	PID   int32
	Frame Rect
	Root  *Element
}
