package simcomp

import "github.com/keurnel/faucon/internal/simbuf"

// SimplifiedExecutionUnits models a bank of execution units as pure
// latency: every element pulled from source is held internally for
// RemainingLatency()-1 more cycles, then written back, assuming the units
// themselves are never the scheduling bottleneck (true on architectures
// where issue ports already gate throughput).
type SimplifiedExecutionUnits[T simbuf.Decaying[T]] struct {
	source simbuf.Source[T]
	sink   simbuf.Sink[T]

	elems []T
}

// NewSimplifiedExecutionUnits builds a SimplifiedExecutionUnits.
func NewSimplifiedExecutionUnits[T simbuf.Decaying[T]](source simbuf.Source[T], sink simbuf.Sink[T]) *SimplifiedExecutionUnits[T] {
	return &SimplifiedExecutionUnits[T]{source: source, sink: sink}
}

// Init empties the unit.
func (s *SimplifiedExecutionUnits[T]) Init() {
	s.elems = nil
}

// Tick pulls every available element from source, decays every held
// element's latency by one cycle, then writes back (in any order) every
// element that has reached zero latency; an element the sink refuses is
// kept at zero latency and offered again next tick.
func (s *SimplifiedExecutionUnits[T]) Tick(block BlockContext) {
	for {
		elem, ok := s.source.Peek()
		if !ok {
			break
		}
		s.elems = append(s.elems, elem)
		s.source.Pop()
	}

	for i, elem := range s.elems {
		s.elems[i] = elem.Decay()
	}

	var kept, zeroLatency []T
	for _, elem := range s.elems {
		if elem.RemainingLatency() > 0 {
			kept = append(kept, elem)
		} else {
			zeroLatency = append(zeroLatency, elem)
		}
	}
	s.elems = kept

	for _, elem := range zeroLatency {
		if !simbuf.Push[T](s.sink, elem) {
			s.elems = append(s.elems, elem)
		}
	}
}
