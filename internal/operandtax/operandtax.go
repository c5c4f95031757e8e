// Package operandtax holds the static name-to-properties tables that
// classify a vendor-syntax operand name: its addressing mode, the value
// size it carries, and the register class it draws from (when it names a
// register file rather than a memory or immediate operand).
package operandtax

import (
	"strconv"
	"strings"

	"github.com/keurnel/faucon/internal/x86db"
)

// Properties is the row of a name's entry in the operand taxonomy.
type Properties struct {
	AddressingMode x86db.AddressingMode
	ValueSizeBits  uint32
	RegisterClass  x86db.RegisterClass
}

// addressingModes maps an exact vendor-syntax operand name to its
// addressing mode, mirroring the teacher's register/operand-type tables
// (architecture/x86_64/registers.go, operands.go) generalized from fixed
// register identifiers to the full operand-name vocabulary of an
// instruction database.
var addressingModes = map[string]x86db.AddressingMode{
	"AL": x86db.DirectAddressing, "AX": x86db.DirectAddressing,
	"EAX": x86db.DirectAddressing, "RAX": x86db.DirectAddressing,
	"CL": x86db.DirectAddressing, "DX": x86db.DirectAddressing,
	"FS": x86db.DirectAddressing, "GS": x86db.DirectAddressing,
	"ST(0)": x86db.DirectAddressing, "XMM0": x86db.DirectAddressing,

	"r8": x86db.AnyAddressingWithFlexibleRegisters, "r16": x86db.AnyAddressingWithFlexibleRegisters,
	"r32": x86db.AnyAddressingWithFlexibleRegisters, "r64": x86db.AnyAddressingWithFlexibleRegisters,
	"reg": x86db.AnyAddressingWithFlexibleRegisters,

	"r/m8": x86db.AnyAddressingWithFlexibleRegisters, "r/m16": x86db.AnyAddressingWithFlexibleRegisters,
	"r/m32": x86db.AnyAddressingWithFlexibleRegisters, "r/m64": x86db.AnyAddressingWithFlexibleRegisters,

	"xmm1": x86db.AnyAddressingWithFlexibleRegisters, "xmm2": x86db.AnyAddressingWithFlexibleRegisters,
	"xmm3": x86db.AnyAddressingWithFlexibleRegisters, "ymm1": x86db.AnyAddressingWithFlexibleRegisters,
	"ymm2": x86db.AnyAddressingWithFlexibleRegisters, "ymm3": x86db.AnyAddressingWithFlexibleRegisters,

	"imm8": x86db.NoAddressing, "imm16": x86db.NoAddressing,
	"imm32": x86db.NoAddressing, "imm64": x86db.NoAddressing,

	"rel8": x86db.NoAddressing, "rel32": x86db.NoAddressing,

	"m": x86db.IndirectAddressing, "m8": x86db.IndirectAddressing,
	"m16": x86db.IndirectAddressing, "m32": x86db.IndirectAddressing,
	"m64": x86db.IndirectAddressing, "m128": x86db.IndirectAddressing,
}

var valueSizeBits = map[string]uint32{
	"r8": 8, "r/m8": 8, "m8": 8, "imm8": 8, "rel8": 8,
	"r16": 16, "r/m16": 16, "m16": 16, "imm16": 16,
	"r32": 32, "r/m32": 32, "m32": 32, "imm32": 32, "rel32": 32,
	"r64": 64, "r/m64": 64, "m64": 64, "imm64": 64,
	"xmm1": 128, "xmm2": 128, "xmm3": 128, "xmm2/m128": 128, "xmm3/m128": 128, "m128": 128,
	"ymm1": 256, "ymm2": 256, "ymm3": 256,
	"AL": 8, "CL": 8, "AX": 16, "DX": 16, "EAX": 32, "RAX": 64,
}

var registerClasses = map[string]x86db.RegisterClass{
	"r8": x86db.GeneralPurposeRegister8Bit, "r/m8": x86db.GeneralPurposeRegister8Bit,
	"r16": x86db.GeneralPurposeRegister16Bit, "r/m16": x86db.GeneralPurposeRegister16Bit,
	"r32": x86db.GeneralPurposeRegister32Bit, "r/m32": x86db.GeneralPurposeRegister32Bit,
	"r64": x86db.GeneralPurposeRegister64Bit, "r/m64": x86db.GeneralPurposeRegister64Bit,
	"reg": x86db.GeneralPurposeRegister32Bit,
	"xmm1": x86db.VectorRegister128Bit, "xmm2": x86db.VectorRegister128Bit, "xmm3": x86db.VectorRegister128Bit,
	"ymm1": x86db.VectorRegister256Bit, "ymm2": x86db.VectorRegister256Bit, "ymm3": x86db.VectorRegister256Bit,
	"zmm1": x86db.VectorRegister512Bit, "zmm2": x86db.VectorRegister512Bit,
	"ST(0)": x86db.FloatingPointStackRegister,
	"FS": x86db.SpecialRegisterSegment, "GS": x86db.SpecialRegisterSegment,
	"AL": x86db.GeneralPurposeRegister8Bit, "CL": x86db.GeneralPurposeRegister8Bit,
	"AX": x86db.GeneralPurposeRegister16Bit, "DX": x86db.GeneralPurposeRegister16Bit,
	"EAX": x86db.GeneralPurposeRegister32Bit, "RAX": x86db.GeneralPurposeRegister64Bit,
}

// Lookup resolves an operand name to its taxonomy row. ok is false when the
// name has no addressing-mode entry and matches no memory-operand spelling,
// even if another table lists it (e.g. "zmm1", which only registerClasses
// has); the caller treats that as "unknown operand name", an
// InvalidArgument per spec.md §4.3.
func Lookup(name string) (Properties, bool) {
	am, found := addressingModes[name]
	if !found {
		am, found = matchMemoryOperand(name)
		if !found {
			return Properties{}, false
		}
	}
	return Properties{
		AddressingMode: am,
		ValueSizeBits:  valueSizeBits[name],
		RegisterClass:  registerClasses[name],
	}, true
}

// matchMemoryOperand handles memory operand spellings not enumerated
// verbatim above: "vm32x"/"vm64y" (vector-indexed memory used by
// gather/scatter instructions) are VSIB addressing; plain "m256" and
// similar are ordinary indirect addressing.
func matchMemoryOperand(name string) (x86db.AddressingMode, bool) {
	if rest := strings.TrimPrefix(name, "vm"); rest != name {
		digits := strings.TrimRight(rest, "xyz")
		if _, err := strconv.Atoi(digits); err == nil {
			return x86db.IndirectAddressingWithVSIB, true
		}
		return 0, false
	}
	if rest := strings.TrimPrefix(name, "m"); rest != name {
		if _, err := strconv.Atoi(rest); err == nil {
			return x86db.IndirectAddressing, true
		}
	}
	return 0, false
}
