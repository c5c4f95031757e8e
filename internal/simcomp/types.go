// Package simcomp implements the pipeline components the simulator wires
// together through internal/simbuf buffers: the fetcher, parser, decoder,
// register renamer, reorder buffer, issue policies, execution units and
// retirer of a generic out-of-order core (spec.md §4.6), grounded on the
// upstream llvm_sim/components tree.
package simcomp

import (
	"fmt"

	"github.com/keurnel/faucon/internal/simcontext"
)

// InstructionIndex locates a fetched instruction: its position within the
// basic block being simulated and the loop iteration it belongs to.
type InstructionIndex struct {
	BBIndex   int
	Iteration int
}

// Tag implements simbuf.Elem.
func (InstructionIndex) Tag() string { return "InstructionIndex" }

// Format implements simbuf.Elem.
func (i InstructionIndex) Format() string {
	return fmt.Sprintf("%d:%d", i.Iteration, i.BBIndex)
}

// UopId identifies a micro-op within the instruction it was decomposed
// from.
type UopId struct {
	InstrIndex InstructionIndex
	UopIndex   int
}

// Tag implements simbuf.Elem.
func (UopId) Tag() string { return "UopId" }

// Format implements simbuf.Elem.
func (u UopId) Format() string {
	return fmt.Sprintf("%s.%d", u.InstrIndex.Format(), u.UopIndex)
}

// Iteration implements simbuf.Indexed.
func (u UopId) Iteration() int { return u.InstrIndex.Iteration }

// BBIndex implements simbuf.Indexed.
func (u UopId) BBIndex() int { return u.InstrIndex.BBIndex }

// BlockContext is the static view of the basic block currently being
// simulated: its instructions, their encoded sizes, and whether the
// simulation loops back to the start of the block once it runs out.
type BlockContext interface {
	NumInstructions() int
	InstructionSize(i int) int
	IsLoop() bool

	// InstructionKey and SchedClass identify the decomposition the decoder
	// should look up (or compute and cache) for the i-th instruction.
	InstructionKey(i int) simcontext.InstructionKey
	SchedClass(i int) string

	// Uses and Defs list the architectural register ids the i-th
	// instruction reads and writes, explicit and implicit operands alike.
	// A renamer treats the first micro-op of an instruction as consuming
	// every use and the last as producing every def.
	Uses(i int) []int
	Defs(i int) []int
}
