package transform

import (
	"strings"

	"github.com/keurnel/faucon/internal/x86db"
)

// FixOperandsOfCmpsAndMovs implements the CMPS/MOVS string-operand fixup
// (spec.md §4.3): their memory operands are replaced by explicit,
// implicitly-addressed RSI/RDI references with the correct read/write
// usage for the direction of data flow.
func FixOperandsOfCmpsAndMovs(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		for vsIdx := range instr.VendorSyntax {
			vs := &instr.VendorSyntax[vsIdx]
			mnemonic := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(vs.Mnemonic, "B"), "W"), "D")
			switch mnemonic {
			case "CMPS":
				setImplicitMemOperands(vs, "RSI", x86db.UsageRead, "RDI", x86db.UsageRead)
			case "MOVS":
				setImplicitMemOperands(vs, "RDI", x86db.UsageWrite, "RSI", x86db.UsageRead)
			}
		}
		return nil
	})
}

func setImplicitMemOperands(vs *x86db.VendorSyntax, firstReg string, firstUsage x86db.Usage, secondReg string, secondUsage x86db.Usage) {
	memCount := 0
	for i := range vs.Operands {
		op := &vs.Operands[i]
		sizeWord, ok := memSizeWords[op.Name]
		if !ok {
			continue
		}
		op.Encoding = x86db.ImplicitEncoding
		if memCount == 0 {
			op.Usage = firstUsage
			op.Name = sizeWord + " PTR [" + firstReg + "]"
		} else {
			op.Usage = secondUsage
			op.Name = sizeWord + " PTR [" + secondReg + "]"
		}
		memCount++
	}
}

// FixOperandsOfInsAndOuts implements the INS/OUTS fixup: INS writes [RDI],
// OUTS reads [RSI].
func FixOperandsOfInsAndOuts(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		for vsIdx := range instr.VendorSyntax {
			vs := &instr.VendorSyntax[vsIdx]
			switch {
			case strings.HasPrefix(vs.Mnemonic, "INS"):
				setImplicitMemOperands(vs, "RDI", x86db.UsageWrite, "RDI", x86db.UsageWrite)
			case strings.HasPrefix(vs.Mnemonic, "OUTS"):
				setImplicitMemOperands(vs, "RSI", x86db.UsageRead, "RSI", x86db.UsageRead)
			}
		}
		return nil
	})
}

// FixOperandsOfLddqu renames LDDQU's second "mem" operand to "m128".
func FixOperandsOfLddqu(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		for vsIdx := range instr.VendorSyntax {
			vs := &instr.VendorSyntax[vsIdx]
			if vs.Mnemonic != "LDDQU" {
				continue
			}
			for i := range vs.Operands {
				if i == 1 && vs.Operands[i].Name == "mem" {
					vs.Operands[i].Name = "m128"
				}
			}
		}
		return nil
	})
}

// memSizeWords maps a memory operand's size-suffixed name to the PTR size
// word used once it is rewritten to an explicit RSI/RDI reference.
var memSizeWords = map[string]string{
	"m8": "BYTE", "m16": "WORD", "m32": "DWORD", "m64": "QWORD",
}

// FixOperandsOfLodsScasAndStos normalizes the memory operand of LODS, SCAS
// and STOS to a sized, implicitly addressed, read reference ([RDI] for
// STOS, [RSI] otherwise). No accumulator operand is added. Suffix forms
// (LODSB, SCASW, …) already name their width explicitly and are left
// untouched.
func FixOperandsOfLodsScasAndStos(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		for vsIdx := range instr.VendorSyntax {
			vs := &instr.VendorSyntax[vsIdx]
			base := vs.Mnemonic
			if base != "LODS" && base != "SCAS" && base != "STOS" {
				continue
			}
			for i := range vs.Operands {
				op := &vs.Operands[i]
				sizeWord, ok := memSizeWords[op.Name]
				if !ok {
					continue
				}
				op.Encoding = x86db.ImplicitEncoding
				op.Usage = x86db.UsageRead
				if base == "STOS" {
					op.Name = sizeWord + " PTR [RDI]"
				} else {
					op.Name = sizeWord + " PTR [RSI]"
				}
			}
		}
		return nil
	})
}

// FixOperandsOfSgdtAndSidt renames the lone "m" operand of SGDT/SIDT to
// "m16&64".
func FixOperandsOfSgdtAndSidt(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		for vsIdx := range instr.VendorSyntax {
			vs := &instr.VendorSyntax[vsIdx]
			if vs.Mnemonic != "SGDT" && vs.Mnemonic != "SIDT" {
				continue
			}
			for i := range vs.Operands {
				if vs.Operands[i].Name == "m" {
					vs.Operands[i].Name = "m16&64"
				}
			}
		}
		return nil
	})
}

// FixOperandsOfVMovq renames a VMOVQ second operand of "m64" or "xmm2" to
// the union spelling "xmm2/m64".
func FixOperandsOfVMovq(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		for vsIdx := range instr.VendorSyntax {
			vs := &instr.VendorSyntax[vsIdx]
			if vs.Mnemonic != "VMOVQ" || len(vs.Operands) < 2 {
				continue
			}
			second := &vs.Operands[1]
			if second.Name == "m64" || second.Name == "xmm2" {
				second.Name = "xmm2/m64"
			}
		}
		return nil
	})
}

// FixRegOperands implements the LAR fixup: a "reg" operand alongside "r32"
// is duplicated into a dedicated r32,r32 form, while the original keeps
// r64,r32 with a REX.W requirement; every other use of "reg" is simply
// renamed to "r32".
func FixRegOperands(db *x86db.Database) error {
	var extra []*x86db.Instruction
	err := db.Each(func(instr *x86db.Instruction) error {
		for vsIdx := range instr.VendorSyntax {
			vs := &instr.VendorSyntax[vsIdx]
			if !strings.HasPrefix(vs.Mnemonic, "LAR") {
				renameRegOperand(vs)
				continue
			}
			if vs.Mnemonic != "LAR" {
				return internalErr("unexpected LAR-prefixed mnemonic %q", vs.Mnemonic)
			}
			if hasOperandNamed(vs, "reg") && hasOperandNamed(vs, "r32") {
				clone := cloneInstructionWithRenamedReg(instr)
				extra = append(extra, clone)
				if instr.EncodingSpecification != nil && instr.EncodingSpecification.LegacyPrefixes != nil {
					instr.EncodingSpecification.LegacyPrefixes.RexWPrefix = x86db.RexWRequired
				}
				renameOperand(vs, "reg", "r64")
			} else {
				renameRegOperand(vs)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	db.Instructions = append(db.Instructions, extra...)
	return nil
}

func renameRegOperand(vs *x86db.VendorSyntax) {
	renameOperand(vs, "reg", "r32")
}

func renameOperand(vs *x86db.VendorSyntax, from, to string) {
	for i := range vs.Operands {
		if vs.Operands[i].Name == from {
			vs.Operands[i].Name = to
		}
	}
}

func hasOperandNamed(vs *x86db.VendorSyntax, name string) bool {
	for _, op := range vs.Operands {
		if op.Name == name {
			return true
		}
	}
	return false
}

func cloneInstructionWithRenamedReg(instr *x86db.Instruction) *x86db.Instruction {
	clone := *instr
	if instr.EncodingSpecification != nil {
		spec := *instr.EncodingSpecification
		if spec.LegacyPrefixes != nil {
			prefixes := *spec.LegacyPrefixes
			spec.LegacyPrefixes = &prefixes
		}
		clone.EncodingSpecification = &spec
	}
	clone.VendorSyntax = make([]x86db.VendorSyntax, len(instr.VendorSyntax))
	copy(clone.VendorSyntax, instr.VendorSyntax)
	for vsIdx := range clone.VendorSyntax {
		vs := &clone.VendorSyntax[vsIdx]
		vs.Operands = append([]x86db.Operand(nil), vs.Operands...)
		renameOperand(vs, "reg", "r32")
	}
	return &clone
}

// implicitST0Encodings are the binary forms (§4.3) whose implicit ST(0)
// operand is dropped when paired with an explicit ST(i), in both the raw
// "Dx Cy+i" spelling and the "Dx /n" spelling that
// ConvertEncodingSpecificationOfX87FpuWithDirectAddressing rewrites them to
// before this transform runs.
var implicitST0Encodings = map[string]bool{
	"D8 C0+i": true, "D8 C8+i": true, "DC C0+i": true, "DC C8+i": true,
	"DE C0+i": true, "DE C8+i": true,
	"D8 /0": true, "D8 /1": true, "DC /0": true, "DC /1": true,
	"DE /0": true, "DE /1": true,
}

// RemoveImplicitST0Operand drops a leading ST(0) operand for the
// enumerated opcode forms when it appears alongside ST(i).
func RemoveImplicitST0Operand(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		if !implicitST0Encodings[strings.TrimSpace(instr.RawEncodingSpecification)] {
			return nil
		}
		for vsIdx := range instr.VendorSyntax {
			vs := &instr.VendorSyntax[vsIdx]
			if len(vs.Operands) == 2 && vs.Operands[0].Name == "ST(0)" && vs.Operands[1].Name == "ST(i)" {
				vs.Operands = vs.Operands[1:]
			}
		}
		return nil
	})
}

// RemoveImplicitXmm0Operand drops a trailing "<XMM0>" operand.
func RemoveImplicitXmm0Operand(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		for vsIdx := range instr.VendorSyntax {
			vs := &instr.VendorSyntax[vsIdx]
			n := len(vs.Operands)
			if n > 0 && vs.Operands[n-1].Name == "<XMM0>" {
				vs.Operands = vs.Operands[:n-1]
			}
		}
		return nil
	})
}

var operandRenames = map[string]string{
	"ST":      "ST(0)",
	"m80dec":  "m80bcd",
}

// RenameOperands applies the small fixed set of operand-name renames
// (spec.md §4.3).
func RenameOperands(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		for vsIdx := range instr.VendorSyntax {
			vs := &instr.VendorSyntax[vsIdx]
			for i := range vs.Operands {
				if renamed, ok := operandRenames[vs.Operands[i].Name]; ok {
					vs.Operands[i].Name = renamed
				}
			}
		}
		return nil
	})
}

