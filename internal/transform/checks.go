package transform

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/keurnel/faucon/internal/x86db"
	"github.com/keurnel/faucon/internal/xstatus"
)

// legalOpcodeUpperBytes mirrors internal/encspec's table; duplicated here
// (rather than imported) because these consistency checks run over the
// already-parsed database and have no other reason to depend on the parser
// package.
var legalOpcodeUpperBytes = map[uint32]bool{
	0x0000:   true,
	0x0F00:   true,
	0x0F3800: true,
	0x0F3A00: true,
}

// CheckOpcodeFormat verifies every parsed instruction's opcode upper byte
// is legal and that the opcode is not a bare prefix.
func CheckOpcodeFormat(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		if instr.EncodingSpecification == nil {
			return nil
		}
		opcode := instr.EncodingSpecification.Opcode
		if !legalOpcodeUpperBytes[opcode&^0xFF] {
			return xstatus.InvalidArgumentf("%s: opcode %#06x has an illegal upper byte", firstMnemonic(instr), opcode)
		}
		if opcode == 0x0F || opcode == 0x0F38 || opcode == 0x0F3A {
			return xstatus.InvalidArgumentf("%s: opcode %#x is a bare prefix", firstMnemonic(instr), opcode)
		}
		return nil
	})
}

// CheckOperandInfo verifies every operand carries encoding, addressing
// mode, a name or tag, a value size (unless exempt) and usage. The register
// class is not checked: an operand with InvalidRegisterClass passes.
func CheckOperandInfo(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		for _, vs := range instr.VendorSyntax {
			for _, op := range vs.Operands {
				if op.Name == "" && len(op.Tags) == 0 {
					return xstatus.InvalidArgumentf("%s: operand has neither name nor tags", vs.Mnemonic)
				}
				if op.Encoding == x86db.AnyEncoding {
					return xstatus.InvalidArgumentf("%s: operand %q has no encoding", vs.Mnemonic, op.Name)
				}
				if op.AddressingMode == x86db.AnyAddressingMode {
					return xstatus.InvalidArgumentf("%s: operand %q has no addressing mode", vs.Mnemonic, op.Name)
				}
				exemptSize := op.AddressingMode == x86db.LoadEffectiveAddress || op.HasTag("pseudo-operand")
				if op.ValueSizeBits == 0 && !exemptSize {
					return xstatus.InvalidArgumentf("%s: operand %q has no value size", vs.Mnemonic, op.Name)
				}
				if op.Usage == x86db.UsageUnknown {
					return xstatus.InvalidArgumentf("%s: operand %q has no usage", vs.Mnemonic, op.Name)
				}
			}
		}
		return nil
	})
}

// CheckSpecialCaseInstructions verifies no single-byte opcode with a
// ModR/M opcode extension /n collides with a same-valued three-byte
// opcode whose ModR/M byte would decode to the same reg field.
func CheckSpecialCaseInstructions(db *x86db.Database) error {
	type extEntry struct {
		opcode uint32
		ext    int
	}
	singleByteExtensions := map[extEntry]bool{}
	for _, instr := range db.Instructions {
		spec := instr.EncodingSpecification
		if spec == nil || spec.ModRMUsage != x86db.OpcodeExtensionInModRM {
			continue
		}
		if spec.Opcode > 0xFF {
			continue
		}
		singleByteExtensions[extEntry{spec.Opcode, spec.ModRMOpcodeExtension}] = true
	}
	for _, instr := range db.Instructions {
		spec := instr.EncodingSpecification
		if spec == nil || spec.Opcode <= 0xFFFF {
			continue
		}
		modrmByte := (spec.Opcode & 0xFF)
		reg := int((modrmByte >> 3) & 0x7)
		base := spec.Opcode >> 8
		if singleByteExtensions[extEntry{base, reg}] {
			return xstatus.InvalidArgumentf(
				"%s: three-byte opcode %#06x ambiguous with single-byte /%d", firstMnemonic(instr), spec.Opcode, reg)
		}
	}
	return nil
}

// CheckHasVendorSyntax verifies every instruction has at least one
// vendor_syntax entry.
func CheckHasVendorSyntax(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		if len(instr.VendorSyntax) == 0 {
			return xstatus.InvalidArgumentf("instruction with raw spec %q has no vendor syntax", instr.RawEncodingSpecification)
		}
		return nil
	})
}

// RunChecks runs the four independent consistency checks concurrently —
// they are read-only and share no mutable state — returning the first
// error encountered across all of them.
func RunChecks(db *x86db.Database) error {
	g, _ := errgroup.WithContext(context.Background())
	checks := []Func{CheckOpcodeFormat, CheckOperandInfo, CheckSpecialCaseInstructions, CheckHasVendorSyntax}
	for _, check := range checks {
		check := check
		g.Go(func() error {
			return check(db)
		})
	}
	return g.Wait()
}

func firstMnemonic(instr *x86db.Instruction) string {
	if len(instr.VendorSyntax) == 0 {
		return "<unknown>"
	}
	return instr.VendorSyntax[0].Mnemonic
}
