package transform

import (
	"github.com/keurnel/faucon/internal/operandinfo"
	"github.com/keurnel/faucon/internal/x86db"
)

// AddOperandInfoTransform adapts operandinfo.AddOperandInfo to the Func
// signature, running it over every instruction in the database.
func AddOperandInfoTransform(db *x86db.Database) error {
	return db.Each(operandinfo.AddOperandInfo)
}

// AddMissingOperandUsageTransform adapts operandinfo.AddMissingOperandUsage.
func AddMissingOperandUsageTransform(db *x86db.Database) error {
	return db.Each(operandinfo.AddMissingOperandUsage)
}

// AddMissingVexVOperandUsageTransform adapts
// operandinfo.AddMissingVexVOperandUsage, skipping instructions whose
// encoding has no VEX prefix at all (nothing to propagate).
func AddMissingVexVOperandUsageTransform(db *x86db.Database) error {
	return db.Each(func(instr *x86db.Instruction) error {
		if instr.EncodingSpecification == nil || instr.EncodingSpecification.VexPrefix == nil {
			return nil
		}
		return operandinfo.AddMissingVexVOperandUsage(instr)
	})
}

// AddRegisterClassToOperandsTransform adapts
// operandinfo.AddRegisterClassToOperands.
func AddRegisterClassToOperandsTransform(db *x86db.Database) error {
	return db.Each(operandinfo.AddRegisterClassToOperands)
}
