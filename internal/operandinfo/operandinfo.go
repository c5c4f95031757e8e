// Package operandinfo assigns each vendor-syntax operand of an instruction
// its addressing mode, value size, register class, encoding slot, and
// usage, consuming the multiset of encoding slots derived by
// internal/encspec from the instruction's parsed specification.
package operandinfo

import (
	"strings"

	"github.com/keurnel/faucon/internal/encspec"
	"github.com/keurnel/faucon/internal/operandtax"
	"github.com/keurnel/faucon/internal/x86db"
	"github.com/keurnel/faucon/internal/xstatus"
)

// fixedRegisterEncodings maps operand names that denote one specific,
// implicitly-encoded register to their Encoding constant. These never
// participate in the available-slots multiset: the register they name is
// fixed by the opcode, not chosen by a ModR/M, VEX or opcode field.
var fixedRegisterEncodings = map[string]x86db.Encoding{
	"AL": x86db.X86RegisterAL,
	"AX": x86db.X86RegisterEAX,
	"EAX": x86db.X86RegisterEAX,
	"RAX": x86db.X86RegisterEAX,
	"CL": x86db.X86RegisterCL,
	"DX": x86db.X86RegisterDX,
}

// AddOperandInfo implements the AddOperandInfo transform (spec.md §4.3) for
// a single instruction: addressing mode and value size from the name
// tables, encoding slot assignment against the multiset derived from the
// instruction's parsed specification, honouring the encoding_scheme
// positional fallback when more than one slot of a kind remains ambiguous.
func AddOperandInfo(instr *x86db.Instruction) error {
	if err := x86db.RequireEncodingSpecification(instr); err != nil {
		return err
	}
	available := encspec.AvailableEncodings(instr.EncodingSpecification)

	for i := range instr.VendorSyntax {
		vs := &instr.VendorSyntax[i]
		slots := cloneMultiset(available)
		var pending []*x86db.Operand

		for j := range vs.Operands {
			op := &vs.Operands[j]
			props, ok := operandtax.Lookup(op.Name)
			if !ok {
				return xstatus.InvalidArgumentf("unknown operand name %q in %q", op.Name, vs.Mnemonic)
			}
			op.AddressingMode = props.AddressingMode
			if props.ValueSizeBits != 0 {
				op.ValueSizeBits = props.ValueSizeBits
			}
			if props.RegisterClass != x86db.InvalidRegisterClass {
				op.RegisterClass = props.RegisterClass
			}

			if enc, ok := fixedRegisterEncodings[op.Name]; ok {
				op.Encoding = enc
				continue
			}
			if isImmediateName(op.Name) && slots[x86db.ImmediateValueEncoding] > 0 {
				op.Encoding = x86db.ImmediateValueEncoding
				slots[x86db.ImmediateValueEncoding]--
				continue
			}
			pending = append(pending, op)
		}

		if err := assignRemaining(pending, slots, instr.EncodingScheme); err != nil {
			return xstatus.InvalidArgumentf("%s: %v", vs.Mnemonic, err)
		}
	}
	return nil
}

func assignRemaining(pending []*x86db.Operand, slots map[x86db.Encoding]int, scheme string) error {
	if len(pending) == 0 {
		return nil
	}
	if len(pending) == 1 && totalSlots(slots) == 1 {
		pending[0].Encoding = soleRemainingEncoding(slots)
		return nil
	}

	schemeChars := []rune(scheme)
	modRMRegTaken := false
	charIdx := 0
	for _, op := range pending {
		var want x86db.Encoding
		assigned := false
		for charIdx < len(schemeChars) {
			c := schemeChars[charIdx]
			charIdx++
			switch c {
			case 'M':
				want = x86db.ModRMRmEncoding
			case 'R':
				if !modRMRegTaken {
					want = x86db.ModRMRegEncoding
					modRMRegTaken = true
				} else {
					want = x86db.VexSuffixEncoding
				}
			case 'V':
				want = x86db.VexVEncoding
			case 'X':
				want = x86db.ModRMRegEncoding
			case 'I':
				want = x86db.ImmediateValueEncoding
			case '0':
				op.Encoding = x86db.ImplicitEncoding
				assigned = true
			default:
				continue
			}
			if !assigned && slots[want] > 0 {
				op.Encoding = want
				slots[want]--
			}
			assigned = true
			break
		}
		if assigned {
			continue
		}
		// No scheme guidance left: take whatever slot remains.
		enc, ok := takeAnyRemaining(slots)
		if !ok {
			return xstatus.InvalidArgumentf("no remaining encoding slot for operand %q", op.Name)
		}
		op.Encoding = enc
	}
	if totalSlots(slots) != 0 {
		return xstatus.InvalidArgumentf("encoding slots left unassigned after operand-info pass")
	}
	return nil
}

func cloneMultiset(m map[x86db.Encoding]int) map[x86db.Encoding]int {
	out := make(map[x86db.Encoding]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func totalSlots(m map[x86db.Encoding]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

func soleRemainingEncoding(m map[x86db.Encoding]int) x86db.Encoding {
	for k, v := range m {
		if v > 0 {
			return k
		}
	}
	return x86db.AnyEncoding
}

func takeAnyRemaining(m map[x86db.Encoding]int) (x86db.Encoding, bool) {
	for k, v := range m {
		if v > 0 {
			m[k]--
			return k, true
		}
	}
	return x86db.AnyEncoding, false
}

func isImmediateName(name string) bool {
	return strings.HasPrefix(name, "imm") || strings.HasPrefix(name, "rel")
}
