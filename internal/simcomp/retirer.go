package simcomp

import (
	"github.com/keurnel/faucon/internal/simbuf"
	"github.com/keurnel/faucon/internal/simcontext"
)

// retireUop is the contract a Retirer's element tag needs: a way to pull
// out the UopId it wraps, so the retirer can tell when it has just retired
// the last uop of an instruction.
type retireUop interface {
	simbuf.Elem
	uopID() UopId
}

// uopID implements retireUop.
func (r ROBUopId) uopID() UopId { return r.Uop }

// Retirer forwards retired elements to a primary sink and, once it
// forwards the last uop of an instruction, an InstructionIndex to a
// secondary "instruction retired" sink. It assumes uops for an instruction
// arrive from source in order.
type Retirer[T retireUop] struct {
	ctx                     *simcontext.GlobalContext
	source                  simbuf.Source[T]
	sink                    simbuf.Sink[T]
	retiredInstructionsSink simbuf.Sink[InstructionIndex]
}

// NewRetirer builds a Retirer.
func NewRetirer[T retireUop](ctx *simcontext.GlobalContext, source simbuf.Source[T], sink simbuf.Sink[T], retiredInstructionsSink simbuf.Sink[InstructionIndex]) *Retirer[T] {
	return &Retirer[T]{ctx: ctx, source: source, sink: sink, retiredInstructionsSink: retiredInstructionsSink}
}

// Tick forwards retiring elements until the sink stalls.
func (r *Retirer[T]) Tick(block BlockContext) error {
	for {
		elem, ok := r.source.Peek()
		if !ok {
			return nil
		}
		if !simbuf.Push[T](r.sink, elem) {
			return nil
		}
		uop := elem.uopID()
		decomp, err := r.ctx.Decompose(block.InstructionKey(uop.InstrIndex.BBIndex), block.SchedClass(uop.InstrIndex.BBIndex))
		if err != nil {
			return err
		}
		if uop.UopIndex+1 == len(decomp.Uops) {
			if !simbuf.Push[InstructionIndex](r.retiredInstructionsSink, uop.InstrIndex) {
				panic("retired-instructions sink must never stall")
			}
		}
		r.source.Pop()
	}
}
