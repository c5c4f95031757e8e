package encspec

import "github.com/keurnel/faucon/internal/x86db"

// AvailableEncodings returns the multiset of encoding slots an instruction's
// operands must be matched against, derived from its parsed specification
// (spec.md §4.1, "Derived: available encoding slots"). The result is
// returned as counts per x86db.Encoding rather than a literal multiset type,
// since Go has no built-in multiset and the counts are all C3 needs.
func AvailableEncodings(spec *x86db.EncodingSpecification) map[x86db.Encoding]int {
	slots := map[x86db.Encoding]int{}

	switch spec.ModRMUsage {
	case x86db.FullModRM:
		slots[x86db.ModRMRegEncoding]++
		if spec.VexPrefix != nil && spec.VexPrefix.VsibUsage == x86db.VsibUsed {
			slots[x86db.VsibEncoding]++
		} else {
			slots[x86db.ModRMRmEncoding]++
		}
	case x86db.OpcodeExtensionInModRM:
		if spec.VexPrefix != nil && spec.VexPrefix.VsibUsage == x86db.VsibUsed {
			slots[x86db.VsibEncoding]++
		} else {
			slots[x86db.ModRMRmEncoding]++
		}
	}

	if spec.VexPrefix != nil && spec.VexPrefix.VexOperandUsage != x86db.VexOperandUnknown {
		slots[x86db.VexVEncoding]++
	}

	for range spec.ImmediateValueBytes {
		slots[x86db.ImmediateValueEncoding]++
	}

	if spec.VexPrefix != nil && spec.VexPrefix.HasVexOperandSuffix {
		slots[x86db.VexSuffixEncoding]++
	}

	if spec.OperandInOpcode != x86db.NoOperandInOpcode {
		slots[x86db.OpcodeEncoding]++
	}

	return slots
}
