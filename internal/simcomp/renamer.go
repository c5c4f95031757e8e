package simcomp

import (
	"fmt"

	"github.com/keurnel/faucon/internal/regtracker"
	"github.com/keurnel/faucon/internal/simbuf"
	"github.com/keurnel/faucon/internal/simcontext"
)

// RenamedUopId is a UopId annotated with the physical-register names it
// reads from and writes to, resolved at rename time.
type RenamedUopId struct {
	Uop  UopId
	Uses []uint32
	Defs []uint32
}

// Tag implements simbuf.Elem.
func (RenamedUopId) Tag() string { return "RenamedUopId" }

// Format implements simbuf.Elem.
func (r RenamedUopId) Format() string {
	return fmt.Sprintf("%s uses=%v defs=%v", r.Uop.Format(), r.Uses, r.Defs)
}

// registerUnits adapts a flat register-id space (one unit per id) to
// regtracker.RegisterUnits when the target does not model sub-register
// aliasing; callers with an aliasing register file pass their own
// regtracker.X86RegisterUnits instead.
type registerUnits struct{}

func (registerUnits) Units(reg int) []int { return []int{reg} }

// RegisterRenamer assigns a fresh physical-register name to every
// instruction's defined registers, tracking read-after-write dependencies
// through a regtracker.Tracker so downstream consumers (the reorder
// buffer) know which in-flight uops a uop's reads depend on.
//
// The first uop of an instruction is assumed to read all of the
// instruction's uses, and the last to write all of its defs; this mirrors
// the upstream model's placeholder heuristic until per-uop read/write
// latencies are threaded through (spec.md §4.6 names this simplification
// explicitly).
type RegisterRenamer struct {
	uopsPerCycle    int
	numPhysicalRegs int
	firstPhysicalID uint32

	ctx     *simcontext.GlobalContext
	tracker *regtracker.Tracker
	units   regtracker.RegisterUnits

	source simbuf.Source[UopId]
	sink   simbuf.Sink[RenamedUopId]

	freelist      []uint32
	numAllocated  int
	pending       RenamedUopId
	hasPendingUop bool
}

// NewRegisterRenamer builds a RegisterRenamer. numArchRegs bounds the
// architectural register-id space the renamer and tracker operate over;
// physical register names start just past it.
func NewRegisterRenamer(uopsPerCycle, numPhysicalRegs, numArchRegs int, units regtracker.RegisterUnits, ctx *simcontext.GlobalContext, source simbuf.Source[UopId], sink simbuf.Sink[RenamedUopId]) *RegisterRenamer {
	if units == nil {
		units = registerUnits{}
	}
	return &RegisterRenamer{
		uopsPerCycle:    uopsPerCycle,
		numPhysicalRegs: numPhysicalRegs,
		firstPhysicalID: uint32(numArchRegs + 1),
		ctx:             ctx,
		tracker:         regtracker.New(units, numArchRegs+numPhysicalRegs+1),
		units:           units,
		source:          source,
		sink:            sink,
	}
}

// Init resets the renamer's physical-register allocation and name tracker
// for a new basic block.
func (r *RegisterRenamer) Init() {
	r.freelist = nil
	r.numAllocated = 0
	r.hasPendingUop = false
	r.tracker.Reset()
}

// Tick renames up to UopsPerCycle micro-ops, retrying from where it left
// off if a physical register cannot be allocated or the sink stalls.
func (r *RegisterRenamer) Tick(block BlockContext) error {
	remaining := r.uopsPerCycle

	if r.hasPendingUop {
		if !simbuf.Push[RenamedUopId](r.sink, r.pending) {
			return nil
		}
		r.hasPendingUop = false
	}

	for {
		uop, ok := r.source.Peek()
		if !ok {
			return nil
		}
		ready, err := r.populateUop(block, uop)
		if err != nil {
			return err
		}
		if !ready {
			return nil
		}
		r.source.Pop()
		if !simbuf.Push[RenamedUopId](r.sink, r.pending) {
			r.hasPendingUop = true
			return nil
		}
		remaining--
		if remaining == 0 {
			return nil
		}
	}
}

func (r *RegisterRenamer) populateUop(block BlockContext, uop UopId) (bool, error) {
	r.pending = RenamedUopId{Uop: uop}

	if uop.UopIndex == 0 {
		r.handleFirstUop(block, uop)
	}

	decomp, err := r.ctx.Decompose(block.InstructionKey(uop.InstrIndex.BBIndex), block.SchedClass(uop.InstrIndex.BBIndex))
	if err != nil {
		return false, err
	}
	if uop.UopIndex == len(decomp.Uops)-1 {
		return r.handleLastUop(block, uop), nil
	}
	return true, nil
}

func (r *RegisterRenamer) handleFirstUop(block BlockContext, uop UopId) {
	for _, reg := range block.Uses(uop.InstrIndex.BBIndex) {
		for _, name := range r.tracker.GetNameDeps(reg) {
			if !containsU32(r.pending.Uses, name) {
				r.pending.Uses = append(r.pending.Uses, name)
			}
		}
	}
}

func (r *RegisterRenamer) handleLastUop(block BlockContext, uop UopId) bool {
	defs := block.Defs(uop.InstrIndex.BBIndex)

	needed := 0
	for range defs {
		needed++ // CanBeRenamed is always true, matching the upstream placeholder.
	}
	if !r.hasAtLeastFreeIDs(needed) {
		return false
	}

	for _, reg := range defs {
		physReg := r.getFreePhysicalID()
		r.tracker.SetName(reg, physReg)
		r.pending.Defs = append(r.pending.Defs, physReg)
	}
	return true
}

func (r *RegisterRenamer) getFreePhysicalID() uint32 {
	if n := len(r.freelist); n > 0 {
		id := r.freelist[n-1]
		r.freelist = r.freelist[:n-1]
		return id
	}
	if r.numAllocated == r.numPhysicalRegs {
		return 0
	}
	id := r.firstPhysicalID + uint32(r.numAllocated)
	r.numAllocated++
	return id
}

func (r *RegisterRenamer) hasAtLeastFreeIDs(n int) bool {
	return r.numAllocated+n <= r.numPhysicalRegs+len(r.freelist)
}

// ReleasePhysicalID returns id to the freelist (called by the reorder
// buffer when the uop that last wrote it retires).
func (r *RegisterRenamer) ReleasePhysicalID(id uint32) {
	r.freelist = append(r.freelist, id)
}

func containsU32(s []uint32, v uint32) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}
