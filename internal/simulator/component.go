package simulator

import (
	"github.com/keurnel/faucon/internal/simbuf"
	"github.com/keurnel/faucon/internal/simcomp"
)

// Buffer is the subset of a internal/simbuf buffer's behavior the
// simulator drives directly: reset it at the start of a run, then commit
// or stall its staged elements once every component has ticked. Every
// concrete buffer type in internal/simbuf satisfies this already.
type Buffer interface {
	Init(log simbuf.Logger)
	Propagate(log simbuf.Logger)
}

// Component is the subset of a pipeline stage's behavior the simulator
// drives directly: reset it at the start of a run, then give it one
// chance per cycle to read its sources and push to its sinks.
//
// The internal/simcomp types do not share a single method set (some Tick
// without an Init, some Tick without ever failing), since each mirrors
// exactly what its upstream component does. funcComponent below adapts
// each to this uniform shape instead of forcing artificial symmetry onto
// internal/simcomp itself.
type Component interface {
	Init()
	Tick(block simcomp.BlockContext) error
}

// funcComponent adapts a concrete internal/simcomp component's Init/Tick
// methods to the Component interface.
type funcComponent struct {
	init func()
	tick func(simcomp.BlockContext) error
}

// Init implements Component.
func (c funcComponent) Init() {
	if c.init != nil {
		c.init()
	}
}

// Tick implements Component.
func (c funcComponent) Tick(block simcomp.BlockContext) error {
	return c.tick(block)
}

// Fetcher adapts a *simcomp.Fetcher to Component.
func Fetcher(f *simcomp.Fetcher) Component {
	return funcComponent{
		init: f.Init,
		tick: func(b simcomp.BlockContext) error { f.Tick(b); return nil },
	}
}

// Parser adapts a *simcomp.InstructionParser to Component.
func Parser(p *simcomp.InstructionParser) Component {
	return funcComponent{
		tick: func(b simcomp.BlockContext) error { p.Tick(b); return nil },
	}
}

// Decoder adapts a *simcomp.InstructionDecoder to Component.
func Decoder(d *simcomp.InstructionDecoder) Component {
	return funcComponent{tick: d.Tick}
}

// Renamer adapts a *simcomp.RegisterRenamer to Component.
func Renamer(r *simcomp.RegisterRenamer) Component {
	return funcComponent{init: r.Init, tick: r.Tick}
}

// ROB adapts a *simcomp.ReorderBuffer to Component.
func ROB(r *simcomp.ReorderBuffer) Component {
	return funcComponent{init: r.Init, tick: r.Tick}
}

// Retirer adapts a *simcomp.Retirer[simcomp.ROBUopId] to Component. The
// type parameter is pinned to ROBUopId (rather than left generic) because
// simcomp's retireUop constraint it satisfies is unexported: only types
// declared inside internal/simcomp can implement it, so ROBUopId is the
// only instantiation this package could ever be asked to wrap anyway.
func Retirer(r *simcomp.Retirer[simcomp.ROBUopId]) Component {
	return funcComponent{tick: r.Tick}
}

// NonPipelinedExecutionUnit adapts a *simcomp.NonPipelinedExecutionUnit[T]
// to Component.
func NonPipelinedExecutionUnit[T simcomp.Timed](u *simcomp.NonPipelinedExecutionUnit[T]) Component {
	return funcComponent{
		init: u.Init,
		tick: func(b simcomp.BlockContext) error { u.Tick(b); return nil },
	}
}

// PipelinedExecutionUnit adapts a *simcomp.PipelinedExecutionUnit[T] to
// Component.
func PipelinedExecutionUnit[T simcomp.Timed](u *simcomp.PipelinedExecutionUnit[T]) Component {
	return funcComponent{
		init: u.Init,
		tick: func(b simcomp.BlockContext) error { u.Tick(b); return nil },
	}
}

// SimplifiedExecutionUnits adapts a *simcomp.SimplifiedExecutionUnits[T] to
// Component.
func SimplifiedExecutionUnits[T simbuf.Decaying[T]](u *simcomp.SimplifiedExecutionUnits[T]) Component {
	return funcComponent{
		init: u.Init,
		tick: func(b simcomp.BlockContext) error { u.Tick(b); return nil },
	}
}
