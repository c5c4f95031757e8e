package operandinfo

import (
	"github.com/keurnel/faucon/internal/operandtax"
	"github.com/keurnel/faucon/internal/x86db"
	"github.com/keurnel/faucon/internal/xstatus"
)

// AddMissingOperandUsage implements the AddMissingOperandUsage transform
// (spec.md §4.3): infers read/write usage for operands that do not already
// carry one.
func AddMissingOperandUsage(instr *x86db.Instruction) error {
	for vsIdx := range instr.VendorSyntax {
		ops := instr.VendorSyntax[vsIdx].Operands
		for i := range ops {
			op := &ops[i]
			if op.Usage != x86db.UsageUnknown {
				continue
			}
			switch {
			case op.Encoding == x86db.ImmediateValueEncoding:
				op.Usage = x86db.UsageRead
			case op.Encoding == x86db.VexVEncoding:
				if i == 0 {
					return xstatus.InvalidArgumentf(
						"%s: VEX_V operand at position 0 has no usage", instr.VendorSyntax[vsIdx].Mnemonic)
				}
				op.Usage = x86db.UsageRead
			case op.Encoding == x86db.ImplicitEncoding && op.AddressingMode == x86db.DirectAddressing:
				if i == 0 {
					op.Usage = x86db.UsageWrite
				} else {
					op.Usage = x86db.UsageRead
				}
			case op.Encoding == x86db.ImplicitEncoding && op.AddressingMode == x86db.NoAddressing:
				op.Usage = x86db.UsageRead
			}
		}
	}
	return nil
}

// AddMissingVexVOperandUsage implements the AddMissingVexVOperandUsage
// transform (spec.md §4.3): propagates the VEX_V operand's inferred usage
// back into the parsed VEX record's operand-role field.
func AddMissingVexVOperandUsage(instr *x86db.Instruction) error {
	vex := instr.EncodingSpecification.VexPrefix
	if vex == nil || vex.VexOperandUsage != x86db.VexOperandUnknown {
		return nil
	}
	for _, vs := range instr.VendorSyntax {
		var vOperand, destOperand *x86db.Operand
		for i := range vs.Operands {
			op := &vs.Operands[i]
			switch op.Encoding {
			case x86db.VexVEncoding:
				vOperand = op
			case x86db.ModRMRegEncoding, x86db.ModRMRmEncoding:
				if destOperand == nil || op.Usage == x86db.UsageReadWrite || op.Usage == x86db.UsageWrite {
					destOperand = op
				}
			}
		}
		if vOperand == nil {
			continue
		}
		if vOperand.Usage == x86db.UsageWrite || vOperand.Usage == x86db.UsageReadWrite {
			vex.VexOperandUsage = x86db.VexOperandDestination
		} else if destOperand != nil && destOperand.Usage == x86db.UsageReadWrite {
			vex.VexOperandUsage = x86db.VexOperandSecondSource
		} else {
			vex.VexOperandUsage = x86db.VexOperandFirstSource
		}
	}
	return nil
}

// AddRegisterClassToOperands implements the AddRegisterClassToOperands
// transform (spec.md §4.3): looks up each operand's register class by name,
// failing on names the taxonomy does not recognize.
func AddRegisterClassToOperands(instr *x86db.Instruction) error {
	for vsIdx := range instr.VendorSyntax {
		ops := instr.VendorSyntax[vsIdx].Operands
		for i := range ops {
			op := &ops[i]
			props, ok := operandtax.Lookup(op.Name)
			if !ok {
				return xstatus.InvalidArgumentf(
					"%s: unknown operand name %q", instr.VendorSyntax[vsIdx].Mnemonic, op.Name)
			}
			if props.RegisterClass != x86db.InvalidRegisterClass {
				op.RegisterClass = props.RegisterClass
			}
		}
	}
	return nil
}
