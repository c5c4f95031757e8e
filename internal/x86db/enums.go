// Package x86db holds the data model for the x86 instruction database: the
// instruction and operand records the cleanup pipeline (internal/transform)
// rewrites, and the parsed encoding specification (internal/encspec) that
// feeds the operand-info assigner (internal/operandinfo). It stands in for
// the protobuf schema of the upstream project, out of scope per spec.md.
package x86db

// AddressingMode classifies how an operand's value reaches the CPU: a fixed
// register, a ModR/M-selected register or memory location, an immediate,
// etc.
type AddressingMode int

const (
	AnyAddressingMode AddressingMode = iota
	DirectAddressing
	IndirectAddressing
	IndirectAddressingByRSI
	IndirectAddressingByRDI
	IndirectAddressingWithBase
	IndirectAddressingWithBaseAndDisplacement
	IndirectAddressingWithVSIB
	AnyAddressingWithFlexibleRegisters
	AnyAddressingWithFixedRegisters
	LoadEffectiveAddress
	BlockDirectAddressing
	NoAddressing
)

var addressingModeNames = map[AddressingMode]string{
	AnyAddressingMode:                         "ANY_ADDRESSING_MODE",
	DirectAddressing:                          "DIRECT_ADDRESSING",
	IndirectAddressing:                        "INDIRECT_ADDRESSING",
	IndirectAddressingByRSI:                   "INDIRECT_ADDRESSING_BY_RSI",
	IndirectAddressingByRDI:                   "INDIRECT_ADDRESSING_BY_RDI",
	IndirectAddressingWithBase:                "INDIRECT_ADDRESSING_WITH_BASE",
	IndirectAddressingWithBaseAndDisplacement: "INDIRECT_ADDRESSING_WITH_BASE_AND_DISPLACEMENT",
	IndirectAddressingWithVSIB:                "INDIRECT_ADDRESSING_WITH_VSIB",
	AnyAddressingWithFlexibleRegisters:        "ANY_ADDRESSING_WITH_FLEXIBLE_REGISTERS",
	AnyAddressingWithFixedRegisters:           "ANY_ADDRESSING_WITH_FIXED_REGISTERS",
	LoadEffectiveAddress:                      "LOAD_EFFECTIVE_ADDRESS",
	BlockDirectAddressing:                     "BLOCK_DIRECT_ADDRESSING",
	NoAddressing:                              "NO_ADDRESSING",
}

func (m AddressingMode) String() string {
	if name, ok := addressingModeNames[m]; ok {
		return name
	}
	return "ANY_ADDRESSING_MODE"
}

// Encoding identifies the binary slot an operand occupies: a ModR/M field, a
// VEX field, an immediate byte, an opcode bit range, or an implicit role
// that consumes no bits at all.
type Encoding int

const (
	AnyEncoding Encoding = iota
	ImplicitEncoding
	ModRMRegEncoding
	ModRMRmEncoding
	OpcodeEncoding
	ImmediateValueEncoding
	VexVEncoding
	VexSuffixEncoding
	VsibEncoding
	X86StaticPropertyEncoding
	X86RegisterEAX
	X86RegisterAL
	X86RegisterCL
	X86RegisterDX
)

var encodingNames = map[Encoding]string{
	AnyEncoding:               "ANY_ENCODING",
	ImplicitEncoding:          "IMPLICIT_ENCODING",
	ModRMRegEncoding:          "MODRM_REG_ENCODING",
	ModRMRmEncoding:           "MODRM_RM_ENCODING",
	OpcodeEncoding:            "OPCODE_ENCODING",
	ImmediateValueEncoding:    "IMMEDIATE_VALUE_ENCODING",
	VexVEncoding:              "VEX_V_ENCODING",
	VexSuffixEncoding:         "VEX_SUFFIX_ENCODING",
	VsibEncoding:              "VSIB_ENCODING",
	X86StaticPropertyEncoding: "X86_STATIC_PROPERTY_ENCODING",
	X86RegisterEAX:            "X86_REGISTER_EAX",
	X86RegisterAL:             "X86_REGISTER_AL",
	X86RegisterCL:             "X86_REGISTER_CL",
	X86RegisterDX:             "X86_REGISTER_DX",
}

func (e Encoding) String() string {
	if name, ok := encodingNames[e]; ok {
		return name
	}
	return "ANY_ENCODING"
}

// RegisterClass identifies the register file an operand draws from.
type RegisterClass int

const (
	InvalidRegisterClass RegisterClass = iota
	GeneralPurposeRegister8Bit
	GeneralPurposeRegister16Bit
	GeneralPurposeRegister32Bit
	GeneralPurposeRegister64Bit
	VectorRegister128Bit
	VectorRegister256Bit
	VectorRegister512Bit
	RegisterBlock128Bit
	RegisterBlock256Bit
	RegisterBlock512Bit
	MaskRegister
	MMXStackRegister
	FloatingPointStackRegister
	SpecialRegisterSegment
	SpecialRegisterControl
	SpecialRegisterDebug
	SpecialRegisterMPXBounds
)

var registerClassNames = map[RegisterClass]string{
	InvalidRegisterClass:        "INVALID_REGISTER_CLASS",
	GeneralPurposeRegister8Bit:  "GENERAL_PURPOSE_REGISTER_8_BIT",
	GeneralPurposeRegister16Bit: "GENERAL_PURPOSE_REGISTER_16_BIT",
	GeneralPurposeRegister32Bit: "GENERAL_PURPOSE_REGISTER_32_BIT",
	GeneralPurposeRegister64Bit: "GENERAL_PURPOSE_REGISTER_64_BIT",
	VectorRegister128Bit:        "VECTOR_REGISTER_128_BIT",
	VectorRegister256Bit:        "VECTOR_REGISTER_256_BIT",
	VectorRegister512Bit:        "VECTOR_REGISTER_512_BIT",
	RegisterBlock128Bit:         "REGISTER_BLOCK_128_BIT",
	RegisterBlock256Bit:         "REGISTER_BLOCK_256_BIT",
	RegisterBlock512Bit:         "REGISTER_BLOCK_512_BIT",
	MaskRegister:                "MASK_REGISTER",
	MMXStackRegister:            "MMX_STACK_REGISTER",
	FloatingPointStackRegister:  "FLOATING_POINT_STACK_REGISTER",
	SpecialRegisterSegment:      "SPECIAL_REGISTER_SEGMENT",
	SpecialRegisterControl:      "SPECIAL_REGISTER_CONTROL",
	SpecialRegisterDebug:        "SPECIAL_REGISTER_DEBUG",
	SpecialRegisterMPXBounds:    "SPECIAL_REGISTER_MPX_BOUNDS",
}

func (c RegisterClass) String() string {
	if name, ok := registerClassNames[c]; ok {
		return name
	}
	return "INVALID_REGISTER_CLASS"
}

// Usage describes whether an operand is read, written, or both.
type Usage int

const (
	UsageUnknown Usage = iota
	UsageRead
	UsageWrite
	UsageReadWrite
)

func (u Usage) String() string {
	switch u {
	case UsageRead:
		return "USAGE_READ"
	case UsageWrite:
		return "USAGE_WRITE"
	case UsageReadWrite:
		return "USAGE_READ_WRITE"
	default:
		return "USAGE_UNKNOWN"
	}
}

// TriState models the {UNSET, REQUIRED, NOT_PERMITTED, IGNORED}-shaped
// fields of the legacy-prefix record. Not every TriState value is legal for
// every field (e.g. RexWPrefix never takes NotPermitted); callers enforce
// that when they assign it.
type TriState int

const (
	Unset TriState = iota
	Required
	NotPermitted
	Ignored
)

func (t TriState) String() string {
	switch t {
	case Required:
		return "REQUIRED"
	case NotPermitted:
		return "NOT_PERMITTED"
	case Ignored:
		return "IGNORED"
	default:
		return "UNSET"
	}
}
