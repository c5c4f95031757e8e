// Package simulator drives the internal/simcomp pipeline components and
// internal/simbuf buffers through a Tick/Propagate loop each cycle,
// recording every buffer transition into a Log that internal/analysis and
// internal/report consume (spec.md §4.7).
package simulator

import (
	"github.com/keurnel/faucon/internal/simbuf"
	"github.com/keurnel/faucon/internal/simcomp"
	"github.com/keurnel/faucon/internal/xstatus"
)

// iterationCounterSink collects retired instruction indices so Run can
// detect when a loop iteration's last instruction retires. Its PushMany
// always succeeds: a full pipeline must never stall on retirement
// accounting.
type iterationCounterSink struct {
	elems []simcomp.InstructionIndex
}

// PushMany implements simbuf.Sink[simcomp.InstructionIndex].
func (s *iterationCounterSink) PushMany(elems []simcomp.InstructionIndex) bool {
	s.elems = append(s.elems, elems...)
	return true
}

// retrieve returns and clears this cycle's retired instructions.
func (s *iterationCounterSink) retrieve() []simcomp.InstructionIndex {
	tmp := s.elems
	s.elems = nil
	return tmp
}

// Simulator wires a fixed set of buffers and components together and runs
// them for a basic block. Built once per target/pipeline configuration and
// reused across Run calls.
type Simulator struct {
	instructionSink *iterationCounterSink
	buffers         []Buffer
	bufferDescs     []BufferDescription
	components      []Component
}

// New builds an empty Simulator.
func New() *Simulator {
	return &Simulator{instructionSink: &iterationCounterSink{}}
}

// AddBuffer registers a buffer/component with the simulator, along with its
// display description for the resulting Log.
func (s *Simulator) AddBuffer(buf Buffer, desc BufferDescription) {
	s.buffers = append(s.buffers, buf)
	s.bufferDescs = append(s.bufferDescs, desc)
}

// AddComponent registers a pipeline component with the simulator.
func (s *Simulator) AddComponent(c Component) {
	s.components = append(s.components, c)
}

// InstructionSink returns the sink that receives instructions once they
// finish retiring. Wire the Retirer's "retired instructions" sink to this:
// it is how Run counts completed loop iterations. PushMany on the returned
// sink always succeeds.
func (s *Simulator) InstructionSink() simbuf.Sink[simcomp.InstructionIndex] {
	return s.instructionSink
}

// Run simulates block until either maxNumIterations loop iterations or
// maxNumCycles cycles have elapsed (0 means no limit on that dimension; at
// least one of the two must be positive). It returns the accumulated Log
// even when a component Tick returns an error, so partial results remain
// inspectable.
func (s *Simulator) Run(block simcomp.BlockContext, maxNumIterations, maxNumCycles int) (*Log, error) {
	if maxNumIterations <= 0 && maxNumCycles <= 0 {
		return nil, xstatus.InvalidArgumentf("simulator: Run needs a positive max iteration or cycle count")
	}

	result := &Log{BufferDescriptions: s.bufferDescs}

	for _, c := range s.components {
		c.Init()
	}
	for i, buf := range s.buffers {
		buf.Init(loggerImpl{log: result, bufferIndex: i, cycle: 0})
	}

	lastInstrIndex := block.NumInstructions() - 1

	cycle := 0
	for ; maxNumCycles == 0 || cycle < maxNumCycles; cycle++ {
		result.NumCycles = cycle

		for _, c := range s.components {
			if err := c.Tick(block); err != nil {
				return result, err
			}
		}
		for i, buf := range s.buffers {
			buf.Propagate(loggerImpl{log: result, bufferIndex: i, cycle: cycle})
		}

		for _, instr := range s.instructionSink.retrieve() {
			result.Retirements = append(result.Retirements, RetirementEvent{Cycle: cycle, Index: instr})
			if instr.BBIndex != lastInstrIndex {
				continue
			}
			if instr.Iteration != len(result.Iterations) {
				return result, xstatus.Internalf("simulator: instructions retired out of order (iteration %d, expected %d)", instr.Iteration, len(result.Iterations))
			}
			result.Iterations = append(result.Iterations, IterationStats{EndCycle: cycle})
			if maxNumIterations > 0 && instr.Iteration+1 >= maxNumIterations {
				result.NumCycles = cycle + 1
				return result, nil
			}
		}
	}
	result.NumCycles = cycle
	return result, nil
}
