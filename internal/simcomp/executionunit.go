package simcomp

import "github.com/keurnel/faucon/internal/simbuf"

// Timed is the contract NonPipelinedExecutionUnit and
// PipelinedExecutionUnit elements satisfy: each knows its own execution
// latency, used to decide whether this particular unit is the right one to
// execute it (a unit only accepts elements whose latency matches its own
// stage count).
type Timed interface {
	simbuf.Elem
	RemainingLatency() int
}

// NonPipelinedExecutionUnit executes one element at a time through
// NumStages cycles; it cannot start a new element until the current one
// has been written back, and only accepts elements whose latency equals
// NumStages exactly.
type NonPipelinedExecutionUnit[T Timed] struct {
	numStages int
	source    simbuf.Source[T]
	sink      simbuf.Sink[T]

	elem     T
	curStage int // -1 when idle
}

// NewNonPipelinedExecutionUnit builds a NonPipelinedExecutionUnit with
// numStages execution stages.
func NewNonPipelinedExecutionUnit[T Timed](numStages int, source simbuf.Source[T], sink simbuf.Sink[T]) *NonPipelinedExecutionUnit[T] {
	return &NonPipelinedExecutionUnit[T]{numStages: numStages, source: source, sink: sink, curStage: -1}
}

// Init idles the unit.
func (u *NonPipelinedExecutionUnit[T]) Init() {
	u.curStage = -1
}

// Tick advances the in-flight element one stage, or starts a new one if
// idle, or writes back a completed one (stalling if the sink refuses it).
func (u *NonPipelinedExecutionUnit[T]) Tick(block BlockContext) {
	if u.curStage < 0 {
		u.startNext()
		return
	}
	lastStage := u.numStages - 1
	if u.curStage < lastStage {
		u.curStage++
		return
	}
	if simbuf.Push[T](u.sink, u.elem) {
		u.startNext()
	}
}

func (u *NonPipelinedExecutionUnit[T]) startNext() {
	u.curStage = -1
	elem, ok := u.source.Peek()
	if !ok {
		return
	}
	if elem.RemainingLatency() != u.numStages {
		return
	}
	u.curStage = 0
	u.elem = elem
	u.source.Pop()
}

// PipelinedExecutionUnit can have several elements in flight at once, one
// per pipeline stage group; it starts at most one new element every
// NumCyclesPerStage cycles and only accepts elements whose total latency
// equals NumStages*NumCyclesPerStage.
type PipelinedExecutionUnit[T Timed] struct {
	numStages      int
	cyclesPerStage int
	source         simbuf.Source[T]
	sink           simbuf.Sink[T]

	pipeline      []pipelineSlot[T]
	curStageCycle int
}

type pipelineSlot[T Timed] struct {
	bubble bool
	elem   T
}

// NewPipelinedExecutionUnit builds a PipelinedExecutionUnit.
func NewPipelinedExecutionUnit[T Timed](numStages, cyclesPerStage int, source simbuf.Source[T], sink simbuf.Sink[T]) *PipelinedExecutionUnit[T] {
	p := &PipelinedExecutionUnit[T]{numStages: numStages, cyclesPerStage: cyclesPerStage, source: source, sink: sink}
	p.pipeline = make([]pipelineSlot[T], numStages)
	return p
}

// Init empties the pipeline and resets the intra-stage cycle counter so
// the unit grabs a new element on the next Tick.
func (p *PipelinedExecutionUnit[T]) Init() {
	for i := range p.pipeline {
		p.pipeline[i] = pipelineSlot[T]{bubble: true}
	}
	p.curStageCycle = p.cyclesPerStage - 1
}

// Tick advances the pipeline once every NumCyclesPerStage cycles.
func (p *PipelinedExecutionUnit[T]) Tick(block BlockContext) {
	p.curStageCycle++
	if p.curStageCycle < p.cyclesPerStage {
		return
	}
	p.curStageCycle = 0

	last := len(p.pipeline) - 1
	if !p.pipeline[last].bubble {
		if !simbuf.Push[T](p.sink, p.pipeline[last].elem) {
			return
		}
	}

	next := pipelineSlot[T]{bubble: true}
	if elem, ok := p.source.Peek(); ok && elem.RemainingLatency() == p.numStages*p.cyclesPerStage {
		next = pipelineSlot[T]{bubble: false, elem: elem}
		p.source.Pop()
	}
	copy(p.pipeline[1:], p.pipeline[:last])
	p.pipeline[0] = next
}
