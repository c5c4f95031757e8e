package simbuf

// DevNullBuffer accepts anything and discards it on propagation. It exists
// so a component can always have a sink to write retired output to, even
// when nothing downstream consumes it (e.g. a trailing logging tap).
type DevNullBuffer[T Elem] struct {
	core[T]
}

// NewDevNullBuffer builds a DevNullBuffer.
func NewDevNullBuffer[T Elem]() *DevNullBuffer[T] {
	d := &DevNullBuffer[T]{}
	d.core.canPush = func(int, int) bool { return true }
	d.core.canPropagate = func() bool { return true }
	d.core.propagateImpl = func(T) {}
	return d
}
