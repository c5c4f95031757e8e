package frontend

import (
	"strings"

	"golang.org/x/arch/x86/x86asm"

	"github.com/keurnel/faucon/internal/xstatus"
)

// BinaryDisassembler decodes a real x86-64 machine-code region (as located
// by a MarkerLocator) into a BasicBlock, using golang.org/x/arch/x86/x86asm
// for bit-accurate decoding — the one piece of this front end that does
// touch real instruction bytes, unlike TextDisassembler.
type BinaryDisassembler struct {
	// LoopBody marks the resulting BasicBlock as a loop body (spec.md's
	// --loop_body flag, default true).
	LoopBody bool
}

// NewBinaryDisassembler builds a BinaryDisassembler.
func NewBinaryDisassembler(loopBody bool) *BinaryDisassembler {
	return &BinaryDisassembler{LoopBody: loopBody}
}

// DisassembleBytes decodes region (the bytes between a MarkerLocator's
// opening and closing markers) instruction by instruction until it is
// exhausted.
func (d *BinaryDisassembler) DisassembleBytes(region []byte) (*BasicBlock, error) {
	bb := &BasicBlock{Loop: d.LoopBody}
	offset := 0
	for len(region) > 0 {
		inst, err := x86asm.Decode(region, 64)
		if err != nil {
			return nil, xstatus.InvalidArgumentf("bindisasm: decode at offset %d: %v", offset, err)
		}
		bb.Instructions = append(bb.Instructions, decodedInstruction(inst))
		region = region[inst.Len:]
		offset += inst.Len
	}
	if len(bb.Instructions) == 0 {
		return nil, xstatus.InvalidArgumentf("bindisasm: marked region contains no instructions")
	}
	return bb, nil
}

// decodedInstruction converts one x86asm.Inst into the same Instruction
// shape TextDisassembler produces: x86asm.Inst.Args is already ordered with
// the destination operand first (Intel convention), so the same
// first-operand-is-Def rule applies directly.
func decodedInstruction(inst x86asm.Inst) Instruction {
	mnemonicLower := strings.ToLower(inst.Op.String())

	schedClass, ok := mnemonicSchedClass[mnemonicLower]
	if !ok {
		schedClass = "WriteALU"
	}

	var defs, uses []int
	var kinds []byte
	for i, arg := range inst.Args {
		if arg == nil {
			break
		}
		switch a := arg.(type) {
		case x86asm.Reg:
			id, known := registerID(strings.ToLower(a.String()))
			if !known {
				kinds = append(kinds, 'I')
				continue
			}
			kinds = append(kinds, 'R')
			if i == 0 {
				defs = append(defs, id)
			} else {
				uses = append(uses, id)
			}
		case x86asm.Mem:
			kinds = append(kinds, 'M')
			if schedClass == "WriteALU" {
				schedClass = loadSchedClass
			}
		default:
			kinds = append(kinds, 'I')
		}
	}

	return Instruction{
		Disassembly: x86asm.GNUSyntax(inst, 0, nil),
		SizeBytes:   inst.Len,
		Key:         instructionKey(mnemonicLower, kinds),
		SchedClass:  schedClass,
		Uses:        uses,
		Defs:        defs,
	}
}
