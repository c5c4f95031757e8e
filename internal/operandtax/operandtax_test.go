package operandtax_test

import (
	"testing"

	"github.com/keurnel/faucon/internal/operandtax"
	"github.com/keurnel/faucon/internal/x86db"
)

func TestLookup(t *testing.T) {
	scenarios := []struct {
		name string
		want operandtax.Properties
	}{
		{"r32", operandtax.Properties{AddressingMode: x86db.AnyAddressingWithFlexibleRegisters, ValueSizeBits: 32, RegisterClass: x86db.GeneralPurposeRegister32Bit}},
		{"imm8", operandtax.Properties{AddressingMode: x86db.NoAddressing, ValueSizeBits: 8}},
		{"xmm1", operandtax.Properties{AddressingMode: x86db.AnyAddressingWithFlexibleRegisters, ValueSizeBits: 128, RegisterClass: x86db.VectorRegister128Bit}},
		{"AL", operandtax.Properties{AddressingMode: x86db.DirectAddressing, ValueSizeBits: 8, RegisterClass: x86db.GeneralPurposeRegister8Bit}},
		{"vm32x", operandtax.Properties{AddressingMode: x86db.IndirectAddressingWithVSIB}},
		{"m256", operandtax.Properties{AddressingMode: x86db.IndirectAddressing}},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			got, ok := operandtax.Lookup(scenario.name)
			if !ok {
				t.Fatalf("Lookup(%q) not found", scenario.name)
			}
			if got != scenario.want {
				t.Errorf("Lookup(%q) = %+v, want %+v", scenario.name, got, scenario.want)
			}
		})
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, ok := operandtax.Lookup("bogus"); ok {
		t.Errorf("Lookup(bogus) found, want not found")
	}
}
