package x86db

// OperandSizeOverridePrefix describes the 0x66 operand-size override
// prefix's legality for an instruction's encoding.
type OperandSizeOverridePrefix int

const (
	OperandSizeOverrideUnset OperandSizeOverridePrefix = iota
	OperandSizeOverrideRequired
	OperandSizeOverrideNotPermitted
	OperandSizeOverrideIgnored
)

func (p OperandSizeOverridePrefix) String() string {
	switch p {
	case OperandSizeOverrideRequired:
		return "REQUIRED"
	case OperandSizeOverrideNotPermitted:
		return "NOT_PERMITTED"
	case OperandSizeOverrideIgnored:
		return "IGNORED"
	default:
		return "UNSET"
	}
}

// RexWPrefix describes the REX.W bit's role for an encoding: unset (not part
// of this instruction's form), required (must be 1), or ignored (its value
// does not affect semantics, e.g. an already-64-bit-only form).
type RexWPrefix int

const (
	RexWUnset RexWPrefix = iota
	RexWRequired
	RexWIgnored
)

func (r RexWPrefix) String() string {
	switch r {
	case RexWRequired:
		return "REQUIRED"
	case RexWIgnored:
		return "IGNORED"
	default:
		return "UNSET"
	}
}

// VexPrefixType distinguishes the two-/three-byte VEX encoding from the
// four-byte EVEX encoding that adds mask registers and wider vector widths.
type VexPrefixType int

const (
	VexPrefixVEX VexPrefixType = iota
	VexPrefixEVEX
)

func (t VexPrefixType) String() string {
	if t == VexPrefixEVEX {
		return "EVEX"
	}
	return "VEX"
}

// VectorSize encodes the VEX/EVEX.L (or .LL) field: a fixed vector width, a
// raw 0/1 bit value with no size meaning, or "length is ignored" (LIG).
type VectorSize int

const (
	VectorSizeBitIsZero VectorSize = iota
	VectorSizeBitIsOne
	VectorSize128
	VectorSize256
	VectorSize512
	VectorSizeLIG
)

func (v VectorSize) String() string {
	switch v {
	case VectorSizeBitIsOne:
		return "BIT_IS_ONE"
	case VectorSize128:
		return "128"
	case VectorSize256:
		return "256"
	case VectorSize512:
		return "512"
	case VectorSizeLIG:
		return "LIG"
	default:
		return "BIT_IS_ZERO"
	}
}

// MandatoryPrefix is the legacy byte (66/F3/F2) folded into a VEX/EVEX
// prefix's implied-prefix field, or none.
type MandatoryPrefix int

const (
	MandatoryPrefixNone MandatoryPrefix = iota
	MandatoryPrefix66
	MandatoryPrefixF3
	MandatoryPrefixF2
)

func (m MandatoryPrefix) String() string {
	switch m {
	case MandatoryPrefix66:
		return "66"
	case MandatoryPrefixF3:
		return "F3"
	case MandatoryPrefixF2:
		return "F2"
	default:
		return "NONE"
	}
}

// MapSelect is the VEX/EVEX opcode-map selector, equivalent to the legacy
// two-byte-opcode escape prefixes.
type MapSelect int

const (
	MapSelect0F MapSelect = iota
	MapSelect0F38
	MapSelect0F3A
)

func (m MapSelect) String() string {
	switch m {
	case MapSelect0F38:
		return "0F38"
	case MapSelect0F3A:
		return "0F3A"
	default:
		return "0F"
	}
}

// VexWUsage describes how the VEX/EVEX.W bit participates in this encoding.
type VexWUsage int

const (
	VexWZero VexWUsage = iota
	VexWOne
	VexWIgnored
)

func (w VexWUsage) String() string {
	switch w {
	case VexWOne:
		return "ONE"
	case VexWIgnored:
		return "IGNORED"
	default:
		return "ZERO"
	}
}

// VsibUsage reports whether this encoding's ModR/M.rm slot is a VSIB
// vector-indexed memory operand rather than a plain memory/register operand.
type VsibUsage int

const (
	VsibNotUsed VsibUsage = iota
	VsibUsed
)

// VexOperandUsage describes the role of the VEX.vvvv field when present.
type VexOperandUsage int

const (
	VexOperandUnknown VexOperandUsage = iota
	VexOperandFirstSource
	VexOperandSecondSource
	VexOperandDestination
)

func (u VexOperandUsage) String() string {
	switch u {
	case VexOperandFirstSource:
		return "FIRST_SOURCE"
	case VexOperandSecondSource:
		return "SECOND_SOURCE"
	case VexOperandDestination:
		return "DESTINATION"
	default:
		return "UNKNOWN"
	}
}

// ModRMUsage describes whether an encoding carries a ModR/M byte and, if so,
// whether its reg field selects an operand or extends the opcode.
type ModRMUsage int

const (
	NoModRM ModRMUsage = iota
	FullModRM
	OpcodeExtensionInModRM
)

func (m ModRMUsage) String() string {
	switch m {
	case FullModRM:
		return "FULL_MODRM"
	case OpcodeExtensionInModRM:
		return "OPCODE_EXTENSION_IN_MODRM"
	default:
		return "NO_MODRM"
	}
}

// OperandInOpcode describes a register operand folded into the low three
// bits of the opcode byte itself (the "+r" / "+i" notations), rather than
// encoded via ModR/M.
type OperandInOpcode int

const (
	NoOperandInOpcode OperandInOpcode = iota
	GeneralPurposeRegisterInOpcode
	FPStackRegisterInOpcode
)

func (o OperandInOpcode) String() string {
	switch o {
	case GeneralPurposeRegisterInOpcode:
		return "GENERAL_PURPOSE_REGISTER_IN_OPCODE"
	case FPStackRegisterInOpcode:
		return "FP_STACK_REGISTER_IN_OPCODE"
	default:
		return "NONE"
	}
}

// LegacyPrefixes records the legacy (non-VEX) prefix requirements of an
// encoding: mandatory 0xF2/0xF3 (repne/rep), mandatory 0x67 (address-size
// override), the operand-size override's legality, and the REX.W bit's
// role. ForbidsRepPrefixes mirrors the NFx grammar token (spec.md §4.1):
// it marks that no rep/repne prefix may be present, without otherwise
// affecting the emitted record.
type LegacyPrefixes struct {
	HasMandatoryRepePrefix                bool
	HasMandatoryRepnePrefix               bool
	HasMandatoryAddressSizeOverridePrefix bool
	ForbidsRepPrefixes                    bool
	OperandSizeOverridePrefix             OperandSizeOverridePrefix
	RexWPrefix                            RexWPrefix
}

// VexPrefix records the VEX/EVEX-encoding-specific fields parsed from the
// VEX.* grammar (spec.md §4.1): prefix width/type, vector size, mandatory
// prefix, opcode map, W usage, the .vvvv operand's role, and whether this
// instruction reads a VSIB memory operand.
type VexPrefix struct {
	PrefixType        VexPrefixType
	VexOperandUsage   VexOperandUsage
	HasVexOperandSuffix bool
	VectorSize        VectorSize
	MandatoryPrefix   MandatoryPrefix
	MapSelect         MapSelect
	VexWUsage         VexWUsage
	VsibUsage         VsibUsage
}

// EncodingSpecification is the parsed form of an instruction's raw encoding
// string (e.g. "VEX.DDS.128.66.0F38.W1 99 /r"): exactly one of
// LegacyPrefixes or VexPrefix is non-nil, plus the opcode byte, the ModR/M
// usage, any opcode extension encoded in ModR/M.reg, operands folded into
// the opcode itself, immediate-value byte widths, and code-offset width for
// branch displacement encodings.
type EncodingSpecification struct {
	LegacyPrefixes        *LegacyPrefixes
	VexPrefix             *VexPrefix
	Opcode                uint32
	ModRMUsage            ModRMUsage
	ModRMOpcodeExtension  int
	OperandInOpcode       OperandInOpcode
	ImmediateValueBytes   []uint8
	CodeOffsetBytes       uint8
}

// IsVex reports whether this specification uses the VEX/EVEX encoding
// rather than legacy prefixes.
func (e *EncodingSpecification) IsVex() bool {
	return e != nil && e.VexPrefix != nil
}
