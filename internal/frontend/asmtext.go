// Package frontend holds the opaque collaborators that feed a basic block
// into internal/simulator: a Disassembler that turns assembly text (or, via
// MarkerLocator, an IACA-marked binary region) into instruction records,
// each carrying the simcontext.InstructionKey, scheduling-class name and
// register dependency lists the simulator needs. asmtext.go accepts
// pre-tokenized assembly text and synthesizes those records directly;
// bindisasm.go decodes the bytes of a marked binary region with x86asm.
package frontend

import (
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/keurnel/faucon/internal/simcomp"
	"github.com/keurnel/faucon/internal/simcontext"
	"github.com/keurnel/faucon/internal/xstatus"
)

var _ simcomp.BlockContext = (*BasicBlock)(nil)

// Syntax selects the operand-ordering convention of the input text: Intel
// places the destination operand first, AT&T places it last.
type Syntax int

const (
	IntelSyntax Syntax = iota
	ATTSyntax
)

// Instruction is one decoded basic-block instruction: enough to satisfy
// simcomp.BlockContext for a whole BasicBlock, plus the disassembly text
// the report's trailing column prints.
type Instruction struct {
	Disassembly string
	SizeBytes   int
	Key         simcontext.InstructionKey
	SchedClass  string
	Uses        []int
	Defs        []int
}

// BasicBlock is a sequence of Instructions plus whether the simulator should
// treat it as a loop body (spec.md's --loop_body flag). It implements
// simcomp.BlockContext directly so the simulator can drive it without an
// adapter.
type BasicBlock struct {
	Instructions []Instruction
	Loop         bool
}

// NumInstructions implements simcomp.BlockContext.
func (b *BasicBlock) NumInstructions() int { return len(b.Instructions) }

// InstructionSize implements simcomp.BlockContext.
func (b *BasicBlock) InstructionSize(i int) int { return b.Instructions[i].SizeBytes }

// IsLoop implements simcomp.BlockContext.
func (b *BasicBlock) IsLoop() bool { return b.Loop }

// InstructionKey implements simcomp.BlockContext.
func (b *BasicBlock) InstructionKey(i int) simcontext.InstructionKey { return b.Instructions[i].Key }

// SchedClass implements simcomp.BlockContext.
func (b *BasicBlock) SchedClass(i int) string { return b.Instructions[i].SchedClass }

// Uses implements simcomp.BlockContext.
func (b *BasicBlock) Uses(i int) []int { return b.Instructions[i].Uses }

// Defs implements simcomp.BlockContext.
func (b *BasicBlock) Defs(i int) []int { return b.Instructions[i].Defs }

// Disassembly returns the i-th instruction's printable text, for the
// report's trailing disassembly column.
func (b *BasicBlock) Disassembly(i int) string { return b.Instructions[i].Disassembly }

// Disassembler turns input text into a BasicBlock ready to simulate.
type Disassembler interface {
	Disassemble(text string) (*BasicBlock, error)
}

// defaultInstructionSize is the synthetic byte count assigned to every
// decoded instruction. Real instruction-byte lengths come from the
// encoding-specification database (internal/encspec); TextDisassembler never
// decodes real bytes, so it assumes one typical encoded length for all
// fetch-bandwidth accounting (spec.md's "byte counts only").
const defaultInstructionSize = 4

// mnemonicSchedClass maps a lowercase mnemonic to the scheduling-class name
// looked up in the target profile. loadSchedClass replaces a WriteALU class
// when an operand looks like a memory reference; other classes are kept.
var mnemonicSchedClass = map[string]string{
	"mov": "WriteALU", "movzx": "WriteALU", "movsx": "WriteALU",
	"add": "WriteALU", "sub": "WriteALU", "adc": "WriteALU", "sbb": "WriteALU",
	"and": "WriteALU", "or": "WriteALU", "xor": "WriteALU", "not": "WriteALU",
	"cmp": "WriteALU", "test": "WriteALU",
	"inc": "WriteALU", "dec": "WriteALU", "neg": "WriteALU",
	"lea": "WriteALU", "nop": "WriteALU",
	"shl": "WriteALU", "shr": "WriteALU", "sar": "WriteALU",
	"imul": "WriteIMul", "mul": "WriteIMul", "idiv": "WriteIMul", "div": "WriteIMul",
	"mulss": "WriteFPMul", "mulsd": "WriteFPMul", "mulps": "WriteFPMul", "mulpd": "WriteFPMul",
}

const loadSchedClass = "WriteLoad"

var (
	directiveLineRE = regexp.MustCompile(`^\s*\.[^\s:]+(?::\s|\s.*)?$`)
	labelLineRE     = regexp.MustCompile(`^\s*[A-Za-z_.$][A-Za-z0-9_.$]*\s*:\s*$`)
	memoryOperandRE = regexp.MustCompile(`[\[\(]`)
)

// TextDisassembler parses hand-written Intel or AT&T assembly text into a
// BasicBlock. It is adapted from the teacher's internal/asm line classifier
// and pre-processing passes (comment stripping, directive/label/empty-line
// skipping), generalized to tokenize whole instruction lines into
// mnemonic/operand records instead of validating already-tokenized ones.
type TextDisassembler struct {
	Syntax Syntax
	// LoopBody marks the resulting BasicBlock as a loop body (spec.md's
	// --loop_body flag, default true).
	LoopBody bool
}

// NewTextDisassembler builds a TextDisassembler for the given dialect.
func NewTextDisassembler(syntax Syntax, loopBody bool) *TextDisassembler {
	return &TextDisassembler{Syntax: syntax, LoopBody: loopBody}
}

// Disassemble implements Disassembler.
func (d *TextDisassembler) Disassemble(text string) (*BasicBlock, error) {
	bb := &BasicBlock{Loop: d.LoopBody}
	for _, raw := range strings.Split(text, "\n") {
		line := stripComment(raw)
		line = strings.TrimSpace(line)
		if line == "" || directiveLineRE.MatchString(line) || labelLineRE.MatchString(line) {
			continue
		}
		instr, err := d.parseLine(line)
		if err != nil {
			return nil, err
		}
		bb.Instructions = append(bb.Instructions, instr)
	}
	if len(bb.Instructions) == 0 {
		return nil, xstatus.InvalidArgumentf("asmtext: input contains no instructions")
	}
	return bb, nil
}

// stripComment removes a trailing ';' or '#' comment, the two conventions
// the teacher's and AT&T's assemblers respectively use.
func stripComment(line string) string {
	if idx := strings.IndexAny(line, ";#"); idx != -1 {
		return line[:idx]
	}
	return line
}

func (d *TextDisassembler) parseLine(line string) (Instruction, error) {
	mnemonic, rest := splitMnemonic(line)
	mnemonicLower := strings.ToLower(mnemonic)

	var operandTokens []string
	if rest != "" {
		for _, tok := range strings.Split(rest, ",") {
			tok = strings.TrimSpace(tok)
			if tok != "" {
				operandTokens = append(operandTokens, tok)
			}
		}
	}

	schedClass, ok := mnemonicSchedClass[mnemonicLower]
	if !ok {
		// AT&T syntax suffixes a mnemonic with its operand width (b/w/l/q);
		// fall back to the unsuffixed form.
		if n := len(mnemonicLower); n > 1 && strings.ContainsRune("bwlq", rune(mnemonicLower[n-1])) {
			schedClass, ok = mnemonicSchedClass[mnemonicLower[:n-1]]
		}
	}
	if !ok {
		return Instruction{}, xstatus.InvalidArgumentf("asmtext: unknown mnemonic %q", mnemonic)
	}

	type operand struct {
		isRegister bool
		regID      int
		kind       byte
	}
	ops := make([]operand, len(operandTokens))
	for i, tok := range operandTokens {
		name, isReg := d.registerName(tok)
		switch {
		case isReg:
			id, known := registerID(name)
			if !known {
				return Instruction{}, xstatus.InvalidArgumentf("asmtext: unknown register %q", tok)
			}
			ops[i] = operand{isRegister: true, regID: id, kind: 'R'}
		case memoryOperandRE.MatchString(tok):
			ops[i] = operand{kind: 'M'}
			if schedClass == "WriteALU" {
				schedClass = loadSchedClass
			}
		default:
			ops[i] = operand{kind: 'I'}
		}
	}

	var defs, uses []int
	if len(ops) > 0 {
		defIdx := 0
		if d.Syntax == ATTSyntax {
			defIdx = len(ops) - 1
		}
		for i, op := range ops {
			if !op.isRegister {
				continue
			}
			if i == defIdx {
				defs = append(defs, op.regID)
			} else {
				uses = append(uses, op.regID)
			}
		}
	}

	kinds := make([]byte, len(ops))
	for i, op := range ops {
		kinds[i] = op.kind
	}

	disassembly := mnemonicLower
	if len(operandTokens) > 0 {
		disassembly += " " + strings.Join(operandTokens, ", ")
	}

	return Instruction{
		Disassembly: disassembly,
		SizeBytes:   defaultInstructionSize,
		Key:         instructionKey(mnemonicLower, kinds),
		SchedClass:  schedClass,
		Uses:        uses,
		Defs:        defs,
	}, nil
}

// registerName reports whether tok names a register and, if so, its bare
// name (AT&T's leading '%' stripped).
func (d *TextDisassembler) registerName(tok string) (string, bool) {
	if d.Syntax == ATTSyntax {
		if !strings.HasPrefix(tok, "%") {
			return "", false
		}
		tok = strings.TrimPrefix(tok, "%")
	}
	_, ok := registerIDs[strings.ToLower(tok)]
	return tok, ok
}

// splitMnemonic separates the first whitespace-delimited token (the
// mnemonic) from the remainder of the line (the operand list).
func splitMnemonic(line string) (mnemonic, rest string) {
	idx := strings.IndexAny(line, " \t")
	if idx == -1 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}

// instructionKey builds the decomposition cache key for an instruction:
// the mnemonic (hashed into the opcode slot, since there is no encoding
// database behind this front end) and the operand *kinds* only, per
// spec.md §4.4's restriction to register/immediate/fp-immediate kinds —
// two instructions naming different registers but otherwise identical
// share a decomposition.
func instructionKey(mnemonic string, kinds []byte) simcontext.InstructionKey {
	h := fnv.New32a()
	h.Write([]byte(mnemonic))
	return simcontext.InstructionKey{
		Opcode:   h.Sum32(),
		Operands: string(kinds),
	}
}
