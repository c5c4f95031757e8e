package simcomp

import (
	"github.com/keurnel/faucon/internal/simbuf"
	"github.com/keurnel/faucon/internal/simcontext"
)

// InstructionDecoder decodes up to NumDecoders instructions per cycle into
// their constituent micro-ops, pushing one UopId per micro-op atomically
// per instruction. An instruction whose micro-ops cannot all be pushed (the
// decoded-uop sink is full) is retried whole next cycle.
type InstructionDecoder struct {
	numDecoders int
	ctx         *simcontext.GlobalContext
	source      simbuf.Source[InstructionIndex]
	sink        simbuf.Sink[UopId]
}

// NewInstructionDecoder builds an InstructionDecoder.
func NewInstructionDecoder(numDecoders int, ctx *simcontext.GlobalContext, source simbuf.Source[InstructionIndex], sink simbuf.Sink[UopId]) *InstructionDecoder {
	return &InstructionDecoder{numDecoders: numDecoders, ctx: ctx, source: source, sink: sink}
}

// Tick decodes instructions into micro-ops, honoring the decoder-width
// limit. Returns the first decomposition error encountered, if any; the
// decoder still stops decoding further instructions this cycle on error,
// matching a failed-precondition instruction never reaching execution.
func (d *InstructionDecoder) Tick(block BlockContext) error {
	remaining := d.numDecoders
	for remaining > 0 {
		instr, ok := d.source.Peek()
		if !ok {
			return nil
		}
		decomp, err := d.ctx.Decompose(block.InstructionKey(instr.BBIndex), block.SchedClass(instr.BBIndex))
		if err != nil {
			return err
		}
		uopIDs := make([]UopId, len(decomp.Uops))
		for i := range decomp.Uops {
			uopIDs[i] = UopId{InstrIndex: instr, UopIndex: i}
		}
		if !d.sink.PushMany(uopIDs) {
			return nil
		}
		d.source.Pop()
		remaining--
	}
	return nil
}
