package simcomp

import "github.com/keurnel/faucon/internal/simbuf"

// InstructionParser forwards up to MaxInstructionsPerCycle instruction
// indices per cycle from source to sink, stopping as soon as the sink
// refuses a push (the instruction stays in source, to be retried next
// cycle).
type InstructionParser struct {
	maxPerCycle int
	source      simbuf.Source[InstructionIndex]
	sink        simbuf.Sink[InstructionIndex]
}

// NewInstructionParser builds an InstructionParser.
func NewInstructionParser(maxPerCycle int, source simbuf.Source[InstructionIndex], sink simbuf.Sink[InstructionIndex]) *InstructionParser {
	return &InstructionParser{maxPerCycle: maxPerCycle, source: source, sink: sink}
}

// Tick forwards instructions from source to sink, honoring the per-cycle
// bandwidth limit.
func (p *InstructionParser) Tick(block BlockContext) {
	remaining := p.maxPerCycle
	for remaining > 0 {
		elem, ok := p.source.Peek()
		if !ok {
			return
		}
		if !simbuf.Push[InstructionIndex](p.sink, elem) {
			return
		}
		p.source.Pop()
		remaining--
	}
}
