package simcontext

import (
	"sort"

	"github.com/keurnel/faucon/internal/xstatus"
)

// Uop is one micro-operation of a decomposed instruction: the execution
// resource it occupies (0 = resourceless) and its half-open cycle interval
// relative to the instruction's issue.
type Uop struct {
	ProcResIdx int
	Start      uint32
	End        uint32
}

// Latency returns the µop's cycle latency, always ≥ 1.
func (u Uop) Latency() uint32 {
	return u.End - u.Start
}

// Decomposition is the cached, ordered µop sequence for an instruction.
type Decomposition struct {
	Uops []Uop
}

// Decompose implements the µop decomposition algorithm of spec.md §4.4:
// walk resources in topological (sub-before-super) order emitting one µop
// per resource-cycle, undoing the model's super-resource denormalization,
// apply the resourceless-µop compensation quirk, then assign latencies by
// ceiling division of the maximum write latency across the resulting µops.
func Decompose(sched *SchedClass, hierarchy *ResourceHierarchy) (*Decomposition, error) {
	if sched == nil {
		return nil, xstatus.InvalidArgumentf("nil scheduling class")
	}

	remaining := map[int]uint32{}
	for _, rc := range sched.Resources {
		remaining[rc.ProcResIdx] += rc.Cycles
	}

	order := topologicalOrder(remaining, hierarchy)

	var procResIndices []int
	for _, r := range order {
		c := remaining[r]
		if c == 0 {
			continue
		}
		for i := uint32(0); i < c; i++ {
			procResIndices = append(procResIndices, r)
		}
		if hierarchy != nil {
			for _, super := range hierarchy.SuperResources[r] {
				if remaining[super] < c {
					return nil, xstatus.Internalf(
						"resource %d cycles exceed super-resource %d's remaining budget", r, super)
				}
				remaining[super] -= c
			}
		}
	}

	// Resourceless-µop compensation quirk (spec.md §4.4/§9): if the walk
	// produced no µops at all but the model declares exactly one with no
	// resource cycles, emit a single resourceless µop. Preserved as-is
	// pending an upstream model correction.
	if len(procResIndices) != sched.NumMicroOps && sched.NumMicroOps == 1 && totalCycles(sched.Resources) == 0 {
		procResIndices = append(procResIndices, 0)
	}

	maxLatency := uint32(1)
	for _, l := range sched.WriteLatencies {
		if l > maxLatency {
			maxLatency = l
		}
	}

	uops := assignLatencies(procResIndices, maxLatency)
	return &Decomposition{Uops: uops}, nil
}

func totalCycles(resources []ResourceCycles) uint32 {
	var total uint32
	for _, rc := range resources {
		total += rc.Cycles
	}
	return total
}

// topologicalOrder returns resource indices with sub-resources (units)
// ordered before the super-resources (groups) that contain them, breaking
// ties by index for determinism.
func topologicalOrder(remaining map[int]uint32, hierarchy *ResourceHierarchy) []int {
	indices := make([]int, 0, len(remaining))
	for r := range remaining {
		indices = append(indices, r)
	}
	isGroup := map[int]bool{}
	if hierarchy != nil {
		for group := range hierarchy.SubResources {
			isGroup[group] = true
		}
	}
	sort.SliceStable(indices, func(i, j int) bool {
		gi, gj := isGroup[indices[i]], isGroup[indices[j]]
		if gi != gj {
			return gj // non-group (unit) before group
		}
		return indices[i] < indices[j]
	})
	return indices
}

// assignLatencies distributes maxLatency cycles across len(procResIndices)
// µops by ceiling division, in order, so every µop gets latency ≥ 1. The sum
// equals maxLatency when there are at most maxLatency µops; with more µops
// than that, every µop gets latency 1 and the sum is the µop count.
func assignLatencies(procResIndices []int, maxLatency uint32) []Uop {
	n := len(procResIndices)
	if n == 0 {
		return nil
	}
	uops := make([]Uop, n)
	base := maxLatency / uint32(n)
	extra := maxLatency % uint32(n)

	cursor := uint32(0)
	for i, idx := range procResIndices {
		latency := base
		if uint32(i) < extra {
			latency++
		}
		if latency == 0 {
			latency = 1
		}
		uops[i] = Uop{ProcResIdx: idx, Start: cursor, End: cursor + latency}
		cursor += latency
	}

	// If rounding up to a minimum of 1 pushed the sum over budget, shrink the
	// earliest slot when it is wide enough to absorb the overshoot; otherwise
	// the overshoot stays (spec.md §4.4).
	total := uops[n-1].End
	if total > maxLatency && n > 0 {
		overshoot := total - maxLatency
		if uops[0].End-uops[0].Start > overshoot {
			uops[0].End -= overshoot
			for i := 1; i < n; i++ {
				uops[i].Start -= overshoot
				uops[i].End -= overshoot
			}
		}
	}
	return uops
}
