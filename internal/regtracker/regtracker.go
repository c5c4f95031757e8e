// Package regtracker implements the register-name tracker (C11): it maps
// architectural sub-register writes to physical-register names across the
// aliasing register units that make up EAX/AX/AL-style sub-register
// families, grounded on the upstream RegisterNameTrackerImpl.
package regtracker

// RegisterUnits describes how an architectural register decomposes into
// the smaller aliasing units a rename touches (e.g. EAX's units also cover
// AX and AL).
type RegisterUnits interface {
	// Units returns the unit indices backing reg.
	Units(reg int) []int
}

// Tracker is an array of physical-register names indexed by register unit.
// A unit's name of 0 means "not in flight": the architectural register
// file, not a pending rename, holds the value.
type Tracker struct {
	units    RegisterUnits
	names    []uint32
}

// New builds a Tracker over numUnits register units, using units to
// resolve an architectural register to its backing unit indices.
func New(units RegisterUnits, numUnits int) *Tracker {
	return &Tracker{units: units, names: make([]uint32, numUnits)}
}

// SetName writes name to every unit backing reg.
func (t *Tracker) SetName(reg int, name uint32) {
	for _, u := range t.units.Units(reg) {
		t.names[u] = name
	}
}

// GetNameDeps returns the set of distinct non-zero physical-register names
// currently backing reg's units — the in-flight renames a read of reg
// depends on.
func (t *Tracker) GetNameDeps(reg int) []uint32 {
	seen := map[uint32]bool{}
	var deps []uint32
	for _, u := range t.units.Units(reg) {
		name := t.names[u]
		if name == 0 || seen[name] {
			continue
		}
		seen[name] = true
		deps = append(deps, name)
	}
	return deps
}

// Reset clears every unit back to "not in flight".
func (t *Tracker) Reset() {
	for i := range t.names {
		t.names[i] = 0
	}
}

// X86RegisterUnits is the RegisterUnits implementation for the x86-64
// general-purpose register file: RAX/EAX/AX/AL/AH and their siblings all
// alias the same low unit, so a write to any of them must be visible to
// reads of any other.
type X86RegisterUnits struct {
	// UnitsOf maps a register id to the unit indices it touches; built once
	// from the target's register-aliasing description.
	UnitsOf map[int][]int
}

// Units implements RegisterUnits.
func (x X86RegisterUnits) Units(reg int) []int {
	return x.UnitsOf[reg]
}
