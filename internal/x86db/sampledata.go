package x86db

// SampleInstructions returns a small, hand-picked instruction set spanning
// legacy, REX, and VEX/EVEX encodings, used by the cleanup pipeline's own
// tests and by "cleanupdb demo" as a self-contained corpus that needs no
// external instruction-set dump. Each entry mirrors the shape of a real
// x86-64 instruction database row: the vendor syntax is already split into
// mnemonic + operands (as a disassembler would print it), while
// RawEncodingSpecification is left unparsed on purpose, exactly as C1
// expects to receive it.
func SampleInstructions() []*Instruction {
	return []*Instruction{
		{
			VendorSyntax: []VendorSyntax{{
				Mnemonic: "MOV",
				Operands: []Operand{
					{Name: "r32", AddressingMode: AnyAddressingWithFlexibleRegisters},
					{Name: "r/m32"},
				},
			}},
			RawEncodingSpecification: "8B /r",
			Description:              "Move r/m32 to r32.",
			AvailableIn64Bit:         true,
		},
		{
			VendorSyntax: []VendorSyntax{{
				Mnemonic: "MOV",
				Operands: []Operand{
					{Name: "r/m64"},
					{Name: "r64"},
				},
			}},
			RawEncodingSpecification: "REX.W 89 /r",
			Description:              "Move r64 to r/m64.",
			AvailableIn64Bit:         true,
		},
		{
			VendorSyntax: []VendorSyntax{{
				Mnemonic: "ADDPS",
				Operands: []Operand{
					{Name: "xmm1"},
					{Name: "xmm2/m128"},
				},
			}},
			RawEncodingSpecification: "NP 0F 58 /r",
			Description:              "Add packed single-precision floating-point values from xmm2/m128 to xmm1.",
			AvailableIn64Bit:         true,
		},
		{
			VendorSyntax: []VendorSyntax{{
				Mnemonic: "VPTERNLOGD",
				Operands: []Operand{
					{Name: "xmm1"},
					{Name: "xmm2"},
					{Name: "xmm3/m128/m32bcst"},
					{Name: "imm8"},
				},
			}},
			RawEncodingSpecification: "EVEX.DDS.128.66.0F3A.W0 25 /r ib",
			Description:              "Bitwise ternary logic on xmm1, xmm2 and xmm3/m128, imm8 selects the truth table.",
			AvailableIn64Bit:         true,
		},
		{
			VendorSyntax: []VendorSyntax{{
				Mnemonic: "VPGATHERDD",
				Operands: []Operand{
					{Name: "xmm1"},
					{Name: "vm32x"},
					{Name: "xmm2"},
				},
			}},
			RawEncodingSpecification: "VEX.DDS.128.66.0F38.W0 90 /r",
			Description:              "Gather dword values using dword indices specified in vm32x, masked by xmm2.",
			AvailableIn64Bit:         true,
		},
		{
			VendorSyntax: []VendorSyntax{{
				Mnemonic: "CMPSB",
				Operands: []Operand{
					{Name: "m8"},
					{Name: "m8"},
				},
			}},
			RawEncodingSpecification: "A6",
			Description:              "Compare byte at address DS:RSI with byte at address ES:RDI.",
			AvailableIn64Bit:         true,
		},
		{
			VendorSyntax: []VendorSyntax{{
				Mnemonic: "POP",
				Operands: []Operand{
					{Name: "FS"},
				},
			}},
			RawEncodingSpecification: "0F A1",
			Description:              "Pop top of stack into FS; increment stack pointer by 16 bits.",
			AvailableIn64Bit:         true,
		},
		{
			VendorSyntax: []VendorSyntax{{
				Mnemonic: "XBEGIN",
				Operands: []Operand{
					{Name: "rel32"},
				},
			}},
			RawEncodingSpecification: "C7 F8",
			Description:              "Start a restricted transactional memory region.",
			AvailableIn64Bit:         true,
		},
	}
}
