package transform

import (
	"regexp"
	"strings"

	"github.com/keurnel/faucon/internal/encspec"
	"github.com/keurnel/faucon/internal/x86db"
)

// FixEncodingSpecifications applies the fixed textual normalizations of
// spec.md §4.3: lowercase "0f" to "0F", "imm8"-style trailing tags to their
// short suffix form, and a bare VEX/EVEX ".0" width tag to ".W0".
func FixEncodingSpecifications(db *x86db.Database) error {
	vexTrailingZero := regexp.MustCompile(`^(VEX|EVEX)(\.[^ ]*)\.0( |$)`)
	return db.Each(func(instr *x86db.Instruction) error {
		s := instr.RawEncodingSpecification
		s = strings.ReplaceAll(s, "0f", "0F")
		s = strings.ReplaceAll(s, "imm8", "ib")
		s = strings.ReplaceAll(s, "/ib", "ib")
		s = vexTrailingZero.ReplaceAllString(s, "$1$2.W0$3")
		instr.RawEncodingSpecification = s
		return nil
	})
}

var modRMModDetailRE = regexp.MustCompile(`\s*\(mod=[^)]*\)\s*$`)

// DropModRmModDetailsFromEncodingSpecifications strips a trailing
// "(mod=...)" annotation some upstream dumps carry.
func DropModRmModDetailsFromEncodingSpecifications(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		instr.RawEncodingSpecification = modRMModDetailRE.ReplaceAllString(instr.RawEncodingSpecification, "")
		return nil
	})
}

// rexWFixupMnemonics lists the instructions whose bare "REX + <tail>" token
// is an assembler quirk meaning "REX.W + <tail>" (spec.md §4.3).
var rexWFixupMnemonics = map[string]bool{
	"MOVSX": true, "LSS": true, "LFS": true, "LGS": true,
}

// FixRexPrefixSpecification rewrites "REX + " to "REX.W + " for the small
// listed set of instructions where a bare REX token was always meant to
// require REX.W.
func FixRexPrefixSpecification(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		if len(instr.VendorSyntax) == 0 || !rexWFixupMnemonics[instr.VendorSyntax[0].Mnemonic] {
			return nil
		}
		if strings.HasPrefix(instr.RawEncodingSpecification, "REX +") {
			instr.RawEncodingSpecification = "REX.W +" + strings.TrimPrefix(instr.RawEncodingSpecification, "REX +")
		}
		return nil
	})
}

// FixEncodingSpecificationOfPopFsAndGs expands POP FS/POP GS into the
// three bit-exact variants named in spec.md §6: the base 64-bit-implicit
// form, a 16-bit form with a 66 prefix, and a 64-bit form with an explicit
// REX.W.
func FixEncodingSpecificationOfPopFsAndGs(db *x86db.Database) error {
	return expandFsGsVariants(db, "POP")
}

// FixEncodingSpecificationOfPushFsAndGs is the PUSH-side counterpart of
// FixEncodingSpecificationOfPopFsAndGs.
func FixEncodingSpecificationOfPushFsAndGs(db *x86db.Database) error {
	return expandFsGsVariants(db, "PUSH")
}

func expandFsGsVariants(db *x86db.Database, mnemonic string) error {
	var extra []*x86db.Instruction
	for _, instr := range db.Instructions {
		if len(instr.VendorSyntax) == 0 || instr.VendorSyntax[0].Mnemonic != mnemonic {
			continue
		}
		op := instr.VendorSyntax[0].Operands
		if len(op) != 1 || (op[0].Name != "FS" && op[0].Name != "GS") {
			continue
		}
		base := instr.RawEncodingSpecification
		sixteenBit := *instr
		sixteenBit.RawEncodingSpecification = "66 " + base
		sixtyFourBit := *instr
		sixtyFourBit.RawEncodingSpecification = "REX.W " + base
		extra = append(extra, &sixteenBit, &sixtyFourBit)
	}
	db.Instructions = append(db.Instructions, extra...)
	return nil
}

// FixEncodingSpecificationOfXBegin adds XBEGIN's missing code-offset
// suffix: "66 ... cw" for the rel16 form and "... cd" for the rel32 form.
// Specifications that already carry cd or cw are left alone.
func FixEncodingSpecificationOfXBegin(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		if len(instr.VendorSyntax) == 0 || instr.VendorSyntax[0].Mnemonic != "XBEGIN" {
			return nil
		}
		raw := strings.TrimSpace(instr.RawEncodingSpecification)
		if strings.Contains(raw, "cd") || strings.Contains(raw, "cw") {
			return nil
		}
		ops := instr.VendorSyntax[0].Operands
		if len(ops) == 1 && ops[0].Name == "rel16" {
			instr.RawEncodingSpecification = "66 " + raw + " cw"
		} else {
			instr.RawEncodingSpecification = raw + " cd"
		}
		return nil
	})
}

// setCcOpcodeRE matches the SETcc family's raw "0F 9x" opcode spelling.
var setCcOpcodeRE = regexp.MustCompile(`^0F 9[0-9A-Fa-f]$`)

// FixEncodingSpecificationOfSetCc appends the missing ModR/M opcode
// extension to SETcc's encoding ("0F 9x" → "0F 9x /0") and drops the
// redundant "REX + 0F 9x" entries spec.md §6 says cleanup removes.
func FixEncodingSpecificationOfSetCc(db *x86db.Database) error {
	var kept []*x86db.Instruction
	for _, instr := range db.Instructions {
		if len(instr.VendorSyntax) == 0 || !strings.HasPrefix(instr.VendorSyntax[0].Mnemonic, "SET") {
			kept = append(kept, instr)
			continue
		}
		raw := strings.TrimSpace(instr.RawEncodingSpecification)
		if strings.HasPrefix(raw, "REX +") {
			continue
		}
		if setCcOpcodeRE.MatchString(raw) {
			instr.RawEncodingSpecification = raw + " /0"
		}
		kept = append(kept, instr)
	}
	db.Instructions = kept
	return nil
}

// AddRexWPrefixedVersionOfStr appends a REX.W-prefixed clone of STR.
func AddRexWPrefixedVersionOfStr(db *x86db.Database) error {
	for _, instr := range db.Instructions {
		if len(instr.VendorSyntax) > 0 && instr.VendorSyntax[0].Mnemonic == "STR" {
			clone := *instr
			clone.RawEncodingSpecification = "REX.W 0F 00 /1"
			db.Instructions = append(db.Instructions, &clone)
			return nil
		}
	}
	return nil
}

// x87DirectAddressingRE matches the "Dx Cy+i" direct-addressing x87
// encoding spelling converted by ConvertEncodingSpecificationOfX87FpuWithDirectAddressing.
var x87DirectAddressingRE = regexp.MustCompile(`^(D[89A-Fa-f]) ([0-9A-Fa-f]{2})\+i$`)

// x87OpcodeExtensions maps the base opcode byte of an x87 direct-addressing
// form to its equivalent ModR/M opcode-extension digit.
var x87OpcodeExtensions = map[string]int{
	"C0": 0, "C8": 1, "D0": 2, "D8": 3, "E0": 4, "E8": 5, "F0": 6, "F8": 7,
}

// ConvertEncodingSpecificationOfX87FpuWithDirectAddressing rewrites the
// "Dx Cy+i" FP-stack-register-in-opcode spelling into the equivalent
// ModR/M opcode-extension spelling "Dx /n".
func ConvertEncodingSpecificationOfX87FpuWithDirectAddressing(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		m := x87DirectAddressingRE.FindStringSubmatch(strings.TrimSpace(instr.RawEncodingSpecification))
		if m == nil {
			return nil
		}
		ext, ok := x87OpcodeExtensions[m[2]]
		if !ok {
			return nil
		}
		instr.RawEncodingSpecification = m[1] + " /" + string(rune('0'+ext))
		return nil
	})
}

// ParseEncodingSpecifications applies C1 to every instruction's raw
// encoding specification, accumulating (not stopping on) failures so the
// rest of the database still gets parsed.
func ParseEncodingSpecifications(db *x86db.Database) error {
	var first error
	for _, instr := range db.Instructions {
		spec, err := encspec.Parse(instr.RawEncodingSpecification)
		if err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		instr.EncodingSpecification = spec
	}
	return first
}
