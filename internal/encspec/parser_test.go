package encspec_test

import (
	"testing"

	"github.com/keurnel/faucon/internal/encspec"
	"github.com/keurnel/faucon/internal/x86db"
)

func TestParse_Failures(t *testing.T) {
	scenarios := []string{
		"foo? bar!",
		"REX.W",
		"REX.W 66",
		"ib",
	}
	for _, raw := range scenarios {
		t.Run(raw, func(t *testing.T) {
			if _, err := encspec.Parse(raw); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", raw)
			}
		})
	}
}

func TestParse_NPWithModRM(t *testing.T) {
	spec, err := encspec.Parse("NP 0F 58 /r")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if spec.Opcode != 0x0F58 {
		t.Errorf("Opcode = %#x, want 0x0F58", spec.Opcode)
	}
	if spec.ModRMUsage != x86db.FullModRM {
		t.Errorf("ModRMUsage = %v, want FullModRM", spec.ModRMUsage)
	}
	if spec.LegacyPrefixes == nil || spec.LegacyPrefixes.OperandSizeOverridePrefix != x86db.OperandSizeOverrideNotPermitted {
		t.Errorf("OperandSizeOverridePrefix not set to NOT_PERMITTED")
	}
}

func TestParse_VexDDS128(t *testing.T) {
	spec, err := encspec.Parse("VEX.DDS.LIG.128.66.0F38.W1 99 /r")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	vex := spec.VexPrefix
	if vex == nil {
		t.Fatalf("VexPrefix is nil")
	}
	if vex.VexOperandUsage != x86db.VexOperandSecondSource {
		t.Errorf("VexOperandUsage = %v, want SECOND_SOURCE", vex.VexOperandUsage)
	}
	if vex.VectorSize != x86db.VectorSize128 {
		t.Errorf("VectorSize = %v, want 128 (last token wins over LIG)", vex.VectorSize)
	}
	if vex.MandatoryPrefix != x86db.MandatoryPrefix66 {
		t.Errorf("MandatoryPrefix = %v, want 66", vex.MandatoryPrefix)
	}
	if vex.MapSelect != x86db.MapSelect0F38 {
		t.Errorf("MapSelect = %v, want 0F38", vex.MapSelect)
	}
	if vex.VexWUsage != x86db.VexWOne {
		t.Errorf("VexWUsage = %v, want ONE", vex.VexWUsage)
	}
	if spec.Opcode != 0x0F3899 {
		t.Errorf("Opcode = %#x, want 0x0F3899", spec.Opcode)
	}
	if spec.ModRMUsage != x86db.FullModRM {
		t.Errorf("ModRMUsage = %v, want FullModRM", spec.ModRMUsage)
	}
}

func TestParse_Vex512Fails(t *testing.T) {
	if _, err := encspec.Parse("VEX.DDS.512.66.0F38.W1 99 /r"); err == nil {
		t.Errorf("Parse(VEX.512) succeeded, want error")
	}
}

func TestParse_EvexVsib(t *testing.T) {
	spec, err := encspec.Parse("EVEX.128.66.0F38.W0 92 /vsib")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if spec.VexPrefix == nil || spec.VexPrefix.PrefixType != x86db.VexPrefixEVEX {
		t.Errorf("expected EVEX prefix type")
	}
	if spec.VexPrefix.VsibUsage != x86db.VsibUsed {
		t.Errorf("expected VSIB_USED")
	}
	if spec.ModRMUsage != x86db.OpcodeExtensionInModRM {
		t.Errorf("ModRMUsage = %v, want OpcodeExtensionInModRM", spec.ModRMUsage)
	}
}

func TestAvailableEncodings(t *testing.T) {
	spec, err := encspec.Parse("VEX.DDS.LIG.128.66.0F38.W1 99 /r")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	slots := encspec.AvailableEncodings(spec)
	if slots[x86db.ModRMRegEncoding] != 1 {
		t.Errorf("MODRM_REG count = %d, want 1", slots[x86db.ModRMRegEncoding])
	}
	if slots[x86db.ModRMRmEncoding] != 1 {
		t.Errorf("MODRM_RM count = %d, want 1", slots[x86db.ModRMRmEncoding])
	}
	if slots[x86db.VexVEncoding] != 1 {
		t.Errorf("VEX_V count = %d, want 1", slots[x86db.VexVEncoding])
	}
}

func TestAvailableEncodings_Vsib(t *testing.T) {
	spec, err := encspec.Parse("EVEX.128.66.0F38.W0 92 /vsib")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	slots := encspec.AvailableEncodings(spec)
	if slots[x86db.VsibEncoding] != 1 {
		t.Errorf("VSIB count = %d, want 1", slots[x86db.VsibEncoding])
	}
	if slots[x86db.ModRMRmEncoding] != 0 {
		t.Errorf("MODRM_RM count = %d, want 0 (superseded by VSIB)", slots[x86db.ModRMRmEncoding])
	}
}
