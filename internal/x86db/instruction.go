package x86db

// Operand is a single operand slot of a VendorSyntax form: its name as it
// appears in the vendor mnemonic syntax (e.g. "xmm1", "r/m32", "imm8"), the
// addressing mode and encoding slot it occupies, its width, the register
// class it draws from (if any), how it is used, and any free-form tags the
// cleanup transforms attach (e.g. "k1" masking tags).
type Operand struct {
	Name           string
	AddressingMode AddressingMode
	Encoding       Encoding
	ValueSizeBits  uint32
	RegisterClass  RegisterClass
	Usage          Usage
	Tags           []string
}

// HasTag reports whether the operand carries the given free-form tag.
func (o *Operand) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// VendorSyntax is one mnemonic + operand-list rendering of an instruction,
// as printed by a disassembler following a particular vendor's (Intel's)
// conventions.
type VendorSyntax struct {
	Mnemonic string
	Operands []Operand
}

// Instruction is a single entry of the instruction database: one or more
// vendor syntax forms sharing a raw encoding specification string, the
// specification parsed from it, and descriptive metadata.
type Instruction struct {
	VendorSyntax            []VendorSyntax
	RawEncodingSpecification string
	EncodingSpecification    *EncodingSpecification
	FeatureName              string
	EncodingScheme           string
	Description              string
	AvailableIn64Bit         bool
	LegacyInstruction        bool
	// ProtectionMode is one of Unset (no restriction recorded), Required
	// (ring-0 only) or Ignored (no ring restriction); NotPermitted is not a
	// meaningful value for this field and is never assigned to it.
	ProtectionMode TriState
}

// Mnemonics returns the distinct mnemonics across all vendor syntax forms,
// in declaration order.
func (i *Instruction) Mnemonics() []string {
	seen := make(map[string]bool, len(i.VendorSyntax))
	var out []string
	for _, vs := range i.VendorSyntax {
		if !seen[vs.Mnemonic] {
			seen[vs.Mnemonic] = true
			out = append(out, vs.Mnemonic)
		}
	}
	return out
}
