package simcomp

import (
	"fmt"

	"github.com/keurnel/faucon/internal/simbuf"
	"github.com/keurnel/faucon/internal/simcontext"
)

// ROBUopId identifies a uop by its reorder-buffer entry, carrying the
// execution latency the reorder buffer resolved for it at read time.
type ROBUopId struct {
	ROBEntryIndex int
	Uop           UopId
	Latency       uint32
}

// Tag implements simbuf.Elem.
func (ROBUopId) Tag() string { return "UopId" }

// Format implements simbuf.Elem.
func (r ROBUopId) Format() string { return r.Uop.Format() }

// Iteration implements simbuf.Indexed.
func (r ROBUopId) Iteration() int { return r.Uop.Iteration() }

// BBIndex implements simbuf.Indexed.
func (r ROBUopId) BBIndex() int { return r.Uop.BBIndex() }

// RemainingLatency implements simbuf.Decaying.
func (r ROBUopId) RemainingLatency() int { return int(r.Latency) }

// Decay implements simbuf.Decaying.
func (r ROBUopId) Decay() ROBUopId {
	if r.Latency > 0 {
		r.Latency--
	}
	return r
}

type robState int

const (
	robEmpty robState = iota
	robWaitingForInputs
	robReadyToExecute
	robIssued
	robOutputsAvailableNextCycle
	robReadyToRetire
	robSentForRetirement
	robRetired
)

type robEntry struct {
	state    robState
	uop      ROBUopId
	defs     []uint32
	ports    []int
	unsolved map[int]struct{}
	depends  []int // entries that depend on this one
}

func (e *robEntry) clear() {
	*e = robEntry{uop: ROBUopId{ROBEntryIndex: e.uop.ROBEntryIndex}}
}

func (e *robEntry) doneExecuting() bool {
	switch e.state {
	case robOutputsAvailableNextCycle, robReadyToRetire, robSentForRetirement:
		return true
	}
	return false
}

// ReorderBuffer is the circular buffer of in-flight uops: it assigns
// execution ports, tracks data dependencies between still-executing uops,
// and retires uops strictly in program order.
//
// Ticking a ReorderBuffer performs, in order: DeleteRetiredUops,
// ReadNewUops, UpdateDataDependencies, UpdateWrittenBackUops,
// SendUopsForExecution, SendUopsForRetirement. The first four stages never
// stall; the last two may, leaving entries in their current state to retry
// next cycle.
type ReorderBuffer struct {
	entries        []robEntry
	firstEmpty     int
	numEmpty       int
	firstRetirable int

	ctx   *simcontext.GlobalContext
	units *simcontext.ResourceHierarchy

	uopSource           simbuf.Source[RenamedUopId]
	availableDepsSource simbuf.Source[ROBUopId]
	writebackSource     simbuf.Source[ROBUopId]
	retiredSource       simbuf.Source[ROBUopId]
	issuedSink          simbuf.Sink[ROBUopId]
	portSinks           []simbuf.Sink[ROBUopId]
	retirementSink      simbuf.Sink[ROBUopId]
	policy              IssuePolicy

	inFlightDefs map[int]int // register -> rob entry index
}

// NewReorderBuffer builds a ReorderBuffer with numEntries slots.
func NewReorderBuffer(
	numEntries int,
	ctx *simcontext.GlobalContext,
	units *simcontext.ResourceHierarchy,
	uopSource simbuf.Source[RenamedUopId],
	availableDepsSource, writebackSource, retiredSource simbuf.Source[ROBUopId],
	issuedSink simbuf.Sink[ROBUopId],
	portSinks []simbuf.Sink[ROBUopId],
	retirementSink simbuf.Sink[ROBUopId],
	policy IssuePolicy,
) *ReorderBuffer {
	r := &ReorderBuffer{
		ctx:                 ctx,
		units:               units,
		uopSource:           uopSource,
		availableDepsSource: availableDepsSource,
		writebackSource:     writebackSource,
		retiredSource:       retiredSource,
		issuedSink:          issuedSink,
		portSinks:           portSinks,
		retirementSink:      retirementSink,
		policy:              policy,
	}
	r.entries = make([]robEntry, numEntries)
	r.reset()
	return r
}

func (r *ReorderBuffer) reset() {
	for i := range r.entries {
		r.entries[i] = robEntry{uop: ROBUopId{ROBEntryIndex: i}}
	}
	r.firstEmpty = 0
	r.numEmpty = len(r.entries)
	r.firstRetirable = 0
	r.inFlightDefs = map[int]int{}
}

// Init resets the reorder buffer and its issue policy for a new basic
// block.
func (r *ReorderBuffer) Init() {
	r.reset()
	r.policy.Reset()
}

// Tick runs one cycle of the reorder buffer's state machine.
func (r *ReorderBuffer) Tick(block BlockContext) error {
	r.deleteRetiredUops()
	if err := r.readNewUops(block); err != nil {
		return err
	}
	r.updateDataDependencies()
	r.updateWrittenBackUops()
	r.sendUopsForExecution()
	r.sendUopsForRetirement()
	return nil
}

func (r *ReorderBuffer) reserveEntry() *robEntry {
	if r.numEmpty == 0 {
		return nil
	}
	entry := &r.entries[r.firstEmpty]
	r.numEmpty--
	r.firstEmpty++
	if r.firstEmpty == len(r.entries) {
		r.firstEmpty = 0
	}
	return entry
}

func (r *ReorderBuffer) oldestEntryIndex() int {
	idx := r.firstEmpty + r.numEmpty
	if idx >= len(r.entries) {
		idx -= len(r.entries)
	}
	return idx
}

func (r *ReorderBuffer) releaseOldestEntry() {
	idx := r.oldestEntryIndex()
	r.entries[idx].clear()
	r.numEmpty++
}

func (r *ReorderBuffer) deleteRetiredUops() {
	for {
		retired, ok := r.retiredSource.Peek()
		if !ok {
			return
		}
		entry := &r.entries[retired.ROBEntryIndex]
		entry.state = robRetired
		for _, def := range entry.defs {
			delete(r.inFlightDefs, int(def))
		}
		r.releaseOldestEntry()
		r.retiredSource.Pop()
	}
}

func (r *ReorderBuffer) readNewUops(block BlockContext) error {
	for {
		uop, ok := r.uopSource.Peek()
		if !ok {
			return nil
		}
		entry := r.reserveEntry()
		if entry == nil {
			return nil
		}
		entry.state = robWaitingForInputs
		entry.uop.Uop = uop.Uop
		entry.defs = uop.Defs
		if err := r.setPossiblePortsAndLatency(block, entry); err != nil {
			return err
		}
		r.setInputDependencies(uop.Uses, entry)
		for _, def := range uop.Defs {
			r.inFlightDefs[int(def)] = entry.uop.ROBEntryIndex
		}
		if len(entry.unsolved) == 0 {
			entry.state = robReadyToExecute
		}
		r.uopSource.Pop()
	}
}

func (r *ReorderBuffer) setPossiblePortsAndLatency(block BlockContext, entry *robEntry) error {
	instrIdx := entry.uop.Uop.InstrIndex.BBIndex
	decomp, err := r.ctx.Decompose(block.InstructionKey(instrIdx), block.SchedClass(instrIdx))
	if err != nil {
		return err
	}
	uop := decomp.Uops[entry.uop.Uop.UopIndex]
	entry.uop.Latency = uop.Latency()
	if uop.ProcResIdx == 0 {
		entry.ports = nil
		return nil
	}
	if members, ok := r.units.SubResources[uop.ProcResIdx]; ok && len(members) > 0 {
		entry.ports = append([]int(nil), members...)
		return nil
	}
	entry.ports = []int{uop.ProcResIdx}
	return nil
}

func (r *ReorderBuffer) setInputDependencies(uses []uint32, entry *robEntry) {
	entry.unsolved = map[int]struct{}{}
	for _, use := range uses {
		definer, ok := r.inFlightDefs[int(use)]
		if !ok {
			continue
		}
		defEntry := &r.entries[definer]
		if defEntry.doneExecuting() {
			continue
		}
		if _, already := entry.unsolved[definer]; !already {
			entry.unsolved[definer] = struct{}{}
			defEntry.depends = append(defEntry.depends, entry.uop.ROBEntryIndex)
		}
	}
	// Consecutive uops of the same instruction are assumed to depend on one
	// another until per-uop read/write latencies are modeled precisely.
	if entry.uop.Uop.UopIndex != 0 {
		prevIdx := entry.uop.ROBEntryIndex - 1
		if prevIdx < 0 {
			prevIdx = len(r.entries) - 1
		}
		prev := &r.entries[prevIdx]
		if !prev.doneExecuting() {
			entry.unsolved[prevIdx] = struct{}{}
			prev.depends = append(prev.depends, entry.uop.ROBEntryIndex)
		}
	}
}

func (r *ReorderBuffer) updateDataDependencies() {
	for {
		avail, ok := r.availableDepsSource.Peek()
		if !ok {
			return
		}
		entry := &r.entries[avail.ROBEntryIndex]
		entry.state = robOutputsAvailableNextCycle
		r.updateDependentEntries(entry)
		r.availableDepsSource.Pop()
	}
}

func (r *ReorderBuffer) updateWrittenBackUops() {
	for {
		wb, ok := r.writebackSource.Peek()
		if !ok {
			return
		}
		r.entries[wb.ROBEntryIndex].state = robReadyToRetire
		r.writebackSource.Pop()
	}
}

func (r *ReorderBuffer) updateDependentEntries(entry *robEntry) {
	for _, depIdx := range entry.depends {
		dep := &r.entries[depIdx]
		delete(dep.unsolved, entry.uop.ROBEntryIndex)
		if len(dep.unsolved) == 0 {
			dep.state = robReadyToExecute
		}
	}
}

func (r *ReorderBuffer) sendUopsForExecution() {
	for i := range r.entries {
		entry := &r.entries[i]
		if entry.state != robReadyToExecute {
			continue
		}
		if len(entry.ports) == 0 {
			entry.state = robReadyToRetire
			r.updateDependentEntries(entry)
			continue
		}
		ordered := append([]int(nil), entry.ports...)
		r.policy.ComputeBestOrder(ordered)
		for _, port := range ordered {
			if !r.portSinks[port].PushMany([]ROBUopId{entry.uop}) {
				continue
			}
			r.policy.SignalIssued(port)
			if !simbuf.Push[ROBUopId](r.issuedSink, entry.uop) {
				panic(fmt.Sprintf("issued sink must never stall, uop %s", entry.uop.Format()))
			}
			entry.state = robIssued
			break
		}
	}
}

func (r *ReorderBuffer) sendUopsForRetirement() {
	for {
		entry := &r.entries[r.firstRetirable]
		if entry.state != robReadyToRetire {
			return
		}
		if !simbuf.Push[ROBUopId](r.retirementSink, entry.uop) {
			return
		}
		entry.state = robSentForRetirement
		r.firstRetirable++
		if r.firstRetirable == len(r.entries) {
			r.firstRetirable = 0
		}
	}
}
