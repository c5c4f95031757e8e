// Package transform implements the instruction-database cleanup pipeline:
// a priority-ordered registry of pure functions (C4) and the concrete
// transforms that normalize operand names, fix up encoding specifications,
// and assign operand info (C5).
package transform

import (
	"fmt"
	"sort"

	"github.com/keurnel/faucon/internal/x86db"
	"github.com/keurnel/faucon/internal/xstatus"
)

// Func is a single database transform: it mutates db in place and returns
// the first error it hit, if any.
type Func func(db *x86db.Database) error

type entry struct {
	name     string
	priority int
	fn       Func
}

// Registry is a process-wide, priority-ordered collection of transforms,
// mirroring the teacher's Architecture interface as a named-operations
// registry (internal/asm.Architecture), generalized here into an ordered,
// accumulating-status runner instead of a lookup table.
type Registry struct {
	entries []entry
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a transform under the given name and priority. Lower
// priorities run first; ties break by name (spec.md §4.2).
func (r *Registry) Register(name string, priority int, fn Func) {
	r.entries = append(r.entries, entry{name: name, priority: priority, fn: fn})
}

// Run executes every registered transform in ascending-priority order,
// stable by name on ties. Every transform runs regardless of earlier
// failures; the first non-OK status is returned, but later failures are
// still surfaced through onError so callers can log them.
func (r *Registry) Run(db *x86db.Database, onError func(name string, err error)) error {
	ordered := make([]entry, len(r.entries))
	copy(ordered, r.entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].priority != ordered[j].priority {
			return ordered[i].priority < ordered[j].priority
		}
		return ordered[i].name < ordered[j].name
	})

	var first error
	for _, e := range ordered {
		if err := e.fn(db); err != nil {
			wrapped := fmt.Errorf("%s: %w", e.name, err)
			if onError != nil {
				onError(e.name, wrapped)
			}
			if first == nil {
				first = wrapped
			}
		}
	}
	return first
}

// DefaultRegistry builds the registry with every transform this package
// implements, wired at the priorities spec.md §4.2 assigns them.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("FixEncodingSpecifications", 1000, FixEncodingSpecifications)
	r.Register("DropModRmModDetailsFromEncodingSpecifications", 1000, DropModRmModDetailsFromEncodingSpecifications)
	r.Register("FixRexPrefixSpecification", 1000, FixRexPrefixSpecification)
	r.Register("FixEncodingSpecificationOfPopFsAndGs", 1000, FixEncodingSpecificationOfPopFsAndGs)
	r.Register("FixEncodingSpecificationOfPushFsAndGs", 1000, FixEncodingSpecificationOfPushFsAndGs)
	r.Register("FixEncodingSpecificationOfXBegin", 1000, FixEncodingSpecificationOfXBegin)
	r.Register("FixEncodingSpecificationOfSetCc", 1000, FixEncodingSpecificationOfSetCc)
	r.Register("AddRexWPrefixedVersionOfStr", 1000, AddRexWPrefixedVersionOfStr)

	r.Register("ConvertEncodingSpecificationOfX87FpuWithDirectAddressing", 1005, ConvertEncodingSpecificationOfX87FpuWithDirectAddressing)

	r.Register("ParseEncodingSpecifications", 1010, ParseEncodingSpecifications)

	r.Register("FixOperandsOfCmpsAndMovs", 3000, FixOperandsOfCmpsAndMovs)
	r.Register("FixOperandsOfInsAndOuts", 3000, FixOperandsOfInsAndOuts)
	r.Register("FixOperandsOfLddqu", 3000, FixOperandsOfLddqu)
	r.Register("FixOperandsOfLodsScasAndStos", 3000, FixOperandsOfLodsScasAndStos)
	r.Register("FixOperandsOfSgdtAndSidt", 3000, FixOperandsOfSgdtAndSidt)
	r.Register("FixOperandsOfVMovq", 3000, FixOperandsOfVMovq)
	r.Register("FixRegOperands", 3000, FixRegOperands)
	r.Register("RemoveImplicitST0Operand", 3000, RemoveImplicitST0Operand)
	r.Register("RemoveImplicitXmm0Operand", 3000, RemoveImplicitXmm0Operand)
	r.Register("RenameOperands", 3000, RenameOperands)
	r.Register("AddMissingMemoryOffsetEncoding", 3000, AddMissingMemoryOffsetEncoding)
	r.Register("AddOperandInfo", 3900, AddOperandInfoTransform)
	r.Register("AddMissingVexVOperandUsage", 3900, AddMissingVexVOperandUsageTransform)

	r.Register("AddOperandSizeOverridePrefix", 5000, AddOperandSizeOverridePrefix)

	r.Register("AddRegisterClassToOperands", 7000, AddRegisterClassToOperandsTransform)

	r.Register("AddMissingOperandUsage", 8000, AddMissingOperandUsageTransform)

	r.Register("ConsistencyChecks", 9000, RunChecks)

	return r
}

func internalErr(format string, args ...any) error {
	return xstatus.Internalf(format, args...)
}
