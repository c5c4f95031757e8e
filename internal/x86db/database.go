package x86db

import "github.com/keurnel/faucon/internal/xstatus"

// Database is an ordered collection of instructions, mirroring the
// insertion order of the original instruction-set XML/protobuf dump so that
// transform passes which rely on stable iteration order (spec.md §5) behave
// deterministically.
type Database struct {
	Instructions []*Instruction
}

// NewDatabase builds an empty Database.
func NewDatabase() *Database {
	return &Database{}
}

// Add appends an instruction to the database.
func (d *Database) Add(instr *Instruction) {
	d.Instructions = append(d.Instructions, instr)
}

// Len returns the number of instructions in the database.
func (d *Database) Len() int {
	return len(d.Instructions)
}

// FindByMnemonic returns every instruction with at least one vendor syntax
// form using the given mnemonic, in database order.
func (d *Database) FindByMnemonic(mnemonic string) []*Instruction {
	var out []*Instruction
	for _, instr := range d.Instructions {
		for _, vs := range instr.VendorSyntax {
			if vs.Mnemonic == mnemonic {
				out = append(out, instr)
				break
			}
		}
	}
	return out
}

// Each calls fn for every instruction in order, stopping early and
// returning fn's error the first time it is non-nil.
func (d *Database) Each(fn func(*Instruction) error) error {
	for _, instr := range d.Instructions {
		if err := fn(instr); err != nil {
			return err
		}
	}
	return nil
}

// RequireEncodingSpecification returns a FailedPrecondition status if instr
// has not yet had its encoding specification parsed. Transforms that depend
// on C1 having already run (spec.md §5) call this as a guard.
func RequireEncodingSpecification(instr *Instruction) error {
	if instr.EncodingSpecification == nil {
		return xstatus.FailedPreconditionf(
			"instruction %q has no parsed encoding specification", firstMnemonic(instr))
	}
	return nil
}

func firstMnemonic(instr *Instruction) string {
	if len(instr.VendorSyntax) == 0 {
		return "<unknown>"
	}
	return instr.VendorSyntax[0].Mnemonic
}
