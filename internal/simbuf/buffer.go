package simbuf

import "fmt"

// Elem is the minimal contract an element pushed through a buffer must
// satisfy: a tag used as the log event name and a way to render itself for
// the event stream.
type Elem interface {
	Tag() string
	Format() string
}

// Sink is the push side of a buffer, as seen by the component writing to
// it.
type Sink[T Elem] interface {
	PushMany(elems []T) bool
}

// Source is the pop side of a buffer, as seen by the component reading
// from it.
type Source[T Elem] interface {
	Peek() (T, bool)
	Pop()
}

// Push pushes a single element, a convenience over PushMany for callers
// that only ever push one element at a time.
func Push[T Elem](s Sink[T], e T) bool {
	return s.PushMany([]T{e})
}

// core implements the staged Push/Propagate protocol shared by every buffer
// variant: PushMany stages elements invisibly during Tick, and Propagate
// either commits the staged elements or records a stall. Concrete buffers
// embed core and supply canPush/canPropagate/propagateImpl.
type core[T Elem] struct {
	pending []T // staged during the current cycle, oldest last (push_front semantics)
	stalled int // cycles since the last successful propagation

	canPush       func(n, nStaging int) bool
	canPropagate  func() bool
	propagateImpl func(T)
	prePropagate  func(log Logger, pending []T)
}

// Init is a no-op by default; buffers that need to announce themselves to
// an analysis before the first Tick (DispatchPort) override it.
func (c *core[T]) Init(Logger) {}

// PushMany stages elems for the next Propagate call. It is all-or-nothing:
// if the buffer cannot accept every element, none are staged.
func (c *core[T]) PushMany(elems []T) bool {
	if !c.canPush(len(elems), len(c.pending)) {
		return false
	}
	// Elems enter on the left: prepend in reverse order so the oldest staged
	// element ends up at the tail, mirroring the deque push_front behavior.
	staged := make([]T, 0, len(elems)+len(c.pending))
	for i := len(elems) - 1; i >= 0; i-- {
		staged = append(staged, elems[i])
	}
	c.pending = append(staged, c.pending...)
	return true
}

// Propagate commits staged elements if the buffer is ready, else records a
// stall cycle and logs it, warning past stallWarningThreshold.
func (c *core[T]) Propagate(log Logger) {
	if !c.canPropagate() {
		c.stalled++
		log.Log("PStall", fmt.Sprintf("%d", c.stalled))
		if c.stalled > stallWarningThreshold {
			log.Log("Warning", "stalled for too long, this is likely a bug")
		}
		return
	}
	c.stalled = 0
	if c.prePropagate != nil {
		c.prePropagate(log, c.pending)
	}
	for len(c.pending) > 0 {
		last := len(c.pending) - 1
		elem := c.pending[last]
		log.Log(elem.Tag(), elem.Format())
		c.propagateImpl(elem)
		c.pending = c.pending[:last]
	}
}

// isStalled reports whether the buffer failed to propagate last cycle.
func (c *core[T]) isStalled() bool {
	return c.stalled > 0
}
