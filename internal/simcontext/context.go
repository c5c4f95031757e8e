// Package simcontext owns the opaque target model (an instruction's
// micro-architectural scheduling data) and the decomposition cache that
// turns an instruction into a sequence of µops, keyed by structural
// identity (spec.md §4.4).
package simcontext

import (
	"sync"

	"github.com/keurnel/faucon/internal/xstatus"
)

// ResourceCycles is one (execution-port resource, cycle count) entry of a
// scheduling class, before topological decomposition into µops.
type ResourceCycles struct {
	ProcResIdx int
	Cycles     uint32
}

// SchedClass is the target's scheduling model for one instruction form:
// the resource/cycle multiset, the total µop count the model declares, and
// the per-def write latencies used to assign µop cycle intervals.
type SchedClass struct {
	Name            string
	Resources       []ResourceCycles
	NumMicroOps     int
	WriteLatencies  []uint32
}

// ResourceHierarchy describes which resources are "super-resources" of
// which others (a group resource decomposes into its sub-units), used to
// walk §4.4 step 2 in topological order and to undo denormalized cycle
// counts.
type ResourceHierarchy struct {
	// SubResources maps a group resource index to its member unit indices.
	SubResources map[int][]int
	// SuperResources maps a unit resource index to every group it belongs
	// to, the inverse of SubResources.
	SuperResources map[int][]int
}

// InstructionKey is the structural identity a decomposition is cached
// under: opcode, a small set of flags, and operand descriptors restricted
// to register/immediate/fp-immediate kinds (spec.md §4.4).
type InstructionKey struct {
	Opcode   uint32
	Flags    uint32
	Operands string
}

// GlobalContext is the read-only target model plus its decomposition
// cache: created once per simulator run and shared by every pipeline
// component. The cache is the type's sole mutable interior state.
type GlobalContext struct {
	Target *TargetProfile

	mu    sync.Mutex
	cache map[InstructionKey]*Decomposition
}

// NewGlobalContext builds a context over the given target profile.
func NewGlobalContext(target *TargetProfile) *GlobalContext {
	return &GlobalContext{
		Target: target,
		cache:  make(map[InstructionKey]*Decomposition),
	}
}

// Decompose returns the cached decomposition for key, computing and
// storing it on first request from the target profile's SchedClasses entry
// named schedClassName. Concurrent callers
// requesting the same key observe a single, fully-constructed value.
func (c *GlobalContext) Decompose(key InstructionKey, schedClassName string) (*Decomposition, error) {
	c.mu.Lock()
	if existing, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	c.mu.Unlock()

	sched, ok := c.Target.SchedClasses[schedClassName]
	if !ok {
		return nil, xstatus.NotFoundf("no scheduling class %q in target profile", schedClassName)
	}
	decomp, err := Decompose(sched, c.Target.Hierarchy)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if existing, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	c.cache[key] = decomp
	c.mu.Unlock()
	return decomp, nil
}

// CacheSize reports the number of distinct instruction keys decomposed so
// far, for tests and diagnostics.
func (c *GlobalContext) CacheSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
