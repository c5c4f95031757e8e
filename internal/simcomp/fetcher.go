package simcomp

import "github.com/keurnel/faucon/internal/simbuf"

// Fetcher fetches a window of instructions from the basic block each
// cycle, bounded by MaxBytesPerCycle, and pushes their indices downstream.
// It cannot see past the end of the block in the same cycle it wraps to
// the next loop iteration.
type Fetcher struct {
	maxBytesPerCycle int
	sink             simbuf.Sink[InstructionIndex]

	next  InstructionIndex
	sizes []int // cached per basic-block-instruction encoded sizes
}

// NewFetcher builds a Fetcher bounded to maxBytesPerCycle bytes fetched per
// cycle, writing fetched instruction indices to sink.
func NewFetcher(maxBytesPerCycle int, sink simbuf.Sink[InstructionIndex]) *Fetcher {
	return &Fetcher{maxBytesPerCycle: maxBytesPerCycle, sink: sink}
}

// Init resets the fetcher to the start of a new basic block.
func (f *Fetcher) Init() {
	f.next = InstructionIndex{}
	f.sizes = nil
}

// Tick fetches as many instructions as fit in MaxBytesPerCycle, stopping
// early if the sink refuses a push or an instruction would overflow the
// remaining byte budget.
func (f *Fetcher) Tick(block BlockContext) {
	if f.sizes == nil {
		f.sizes = computeInstructionSizes(block)
	}

	remaining := f.maxBytesPerCycle
	numInstrs := block.NumInstructions()
	if f.next.BBIndex >= numInstrs {
		if !block.IsLoop() {
			return
		}
		f.next.BBIndex = 0
		f.next.Iteration++
	}

	for remaining > 0 && f.next.BBIndex < numInstrs {
		size := f.sizes[f.next.BBIndex]
		if size > remaining {
			return
		}
		if !simbuf.Push[InstructionIndex](f.sink, f.next) {
			return
		}
		remaining -= size
		f.next.BBIndex++
	}
}

func computeInstructionSizes(block BlockContext) []int {
	sizes := make([]int, block.NumInstructions())
	for i := range sizes {
		sizes[i] = block.InstructionSize(i)
	}
	return sizes
}
