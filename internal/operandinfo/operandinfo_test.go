package operandinfo_test

import (
	"testing"

	"github.com/keurnel/faucon/internal/encspec"
	"github.com/keurnel/faucon/internal/operandinfo"
	"github.com/keurnel/faucon/internal/x86db"
)

func mustParse(t *testing.T, raw string) *x86db.EncodingSpecification {
	t.Helper()
	spec, err := encspec.Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q): %v", raw, err)
	}
	return spec
}

func TestAddOperandInfo_ModRMPair(t *testing.T) {
	instr := &x86db.Instruction{
		VendorSyntax: []x86db.VendorSyntax{{
			Mnemonic: "ADDPS",
			Operands: []x86db.Operand{
				{Name: "xmm1"},
				{Name: "xmm2"},
			},
		}},
		EncodingScheme:        "RM",
		EncodingSpecification: mustParse(t, "NP 0F 58 /r"),
	}

	if err := operandinfo.AddOperandInfo(instr); err != nil {
		t.Fatalf("AddOperandInfo: %v", err)
	}

	ops := instr.VendorSyntax[0].Operands
	if ops[0].Encoding != x86db.ModRMRegEncoding {
		t.Errorf("operand 0 encoding = %v, want MODRM_REG", ops[0].Encoding)
	}
	if ops[1].Encoding != x86db.ModRMRmEncoding {
		t.Errorf("operand 1 encoding = %v, want MODRM_RM", ops[1].Encoding)
	}
}

func TestAddOperandInfo_FixedRegisterAndImmediate(t *testing.T) {
	instr := &x86db.Instruction{
		VendorSyntax: []x86db.VendorSyntax{{
			Mnemonic: "MOV",
			Operands: []x86db.Operand{
				{Name: "AL"},
				{Name: "imm8"},
			},
		}},
		EncodingSpecification: mustParse(t, "B0 ib"),
	}

	if err := operandinfo.AddOperandInfo(instr); err != nil {
		t.Fatalf("AddOperandInfo: %v", err)
	}
	ops := instr.VendorSyntax[0].Operands
	if ops[0].Encoding != x86db.X86RegisterAL {
		t.Errorf("operand 0 encoding = %v, want X86_REGISTER_AL", ops[0].Encoding)
	}
	if ops[1].Encoding != x86db.ImmediateValueEncoding {
		t.Errorf("operand 1 encoding = %v, want IMMEDIATE_VALUE", ops[1].Encoding)
	}
}

func TestAddOperandInfo_RequiresParsedEncoding(t *testing.T) {
	instr := &x86db.Instruction{
		VendorSyntax: []x86db.VendorSyntax{{Mnemonic: "NOP"}},
	}
	if err := operandinfo.AddOperandInfo(instr); err == nil {
		t.Errorf("expected error for unparsed encoding specification")
	}
}

func TestAddMissingOperandUsage(t *testing.T) {
	instr := &x86db.Instruction{
		VendorSyntax: []x86db.VendorSyntax{{
			Operands: []x86db.Operand{
				{Encoding: x86db.ModRMRegEncoding, AddressingMode: x86db.AnyAddressingWithFlexibleRegisters, Usage: x86db.UsageReadWrite},
				{Encoding: x86db.VexVEncoding},
				{Encoding: x86db.ImmediateValueEncoding},
			},
		}},
	}
	if err := operandinfo.AddMissingOperandUsage(instr); err != nil {
		t.Fatalf("AddMissingOperandUsage: %v", err)
	}
	ops := instr.VendorSyntax[0].Operands
	if ops[1].Usage != x86db.UsageRead {
		t.Errorf("VEX_V operand usage = %v, want READ", ops[1].Usage)
	}
	if ops[2].Usage != x86db.UsageRead {
		t.Errorf("immediate operand usage = %v, want READ", ops[2].Usage)
	}
}
