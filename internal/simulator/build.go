package simulator

import (
	"github.com/keurnel/faucon/internal/simbuf"
	"github.com/keurnel/faucon/internal/simcomp"
	"github.com/keurnel/faucon/internal/simcontext"
)

// reorderBufferEntries is the number of in-flight uops the reorder buffer
// built by Build can track at once; not part of simcontext.TargetProfile
// since it is a pipeline-wiring choice rather than a scheduling fact about
// an instruction, sized to a real Haswell ROB (spec.md names no specific
// value).
const reorderBufferEntries = 192

// fanoutSink pushes every PushMany call to each of its sinks, in order,
// stopping (and reporting failure) at the first one that refuses. Every
// sink Build gives it is an ExecDepsBuffer, which never refuses, so this
// never leaves the underlying buffers out of sync with one another.
type fanoutSink struct {
	sinks []simbuf.Sink[simcomp.ROBUopId]
}

func (f fanoutSink) PushMany(elems []simcomp.ROBUopId) bool {
	for _, s := range f.sinks {
		if !s.PushMany(elems) {
			return false
		}
	}
	return true
}

// Build wires a complete pipeline for ctx's target profile: fetch, parse,
// decode, rename, a reorder buffer dispatching to one execution unit per
// port, and a retirer, connected by the internal/simbuf buffers spec.md
// §4.6/§4.7 names. The returned Simulator's BufferDescriptions place one
// dispatch-port buffer per ctx.Target.Ports entry at the matching buffer
// index, so callers can pass ctx.Target.Ports directly to
// internal/report's port-pressure tables.
func Build(ctx *simcontext.GlobalContext) *Simulator {
	target := ctx.Target
	sim := New()

	ports := make([]*simbuf.DispatchPort[simcomp.ROBUopId], len(target.Ports))
	portSinks := make([]simbuf.Sink[simcomp.ROBUopId], len(target.Ports))
	for i, name := range target.Ports {
		p := simbuf.NewDispatchPort[simcomp.ROBUopId](1)
		ports[i] = p
		portSinks[i] = p
		sim.AddBuffer(p, BufferDescription{DisplayName: name, ID: i})
	}

	fetchQueue := simbuf.NewFifoBuffer[simcomp.InstructionIndex](2 * target.MaxBytesPerCycle)
	sim.AddBuffer(fetchQueue, BufferDescription{DisplayName: "FetchQueue"})

	decodeQueue := simbuf.NewFifoBuffer[simcomp.InstructionIndex](4 * target.NumDecoders)
	sim.AddBuffer(decodeQueue, BufferDescription{DisplayName: "DecodeQueue"})

	uopQueue := simbuf.NewFifoBuffer[simcomp.UopId](4 * target.UopsPerCycle)
	sim.AddBuffer(uopQueue, BufferDescription{DisplayName: "UopQueue"})

	renamedQueue := simbuf.NewFifoBuffer[simcomp.RenamedUopId](4 * target.UopsPerCycle)
	sim.AddBuffer(renamedQueue, BufferDescription{DisplayName: "RenamedQueue"})

	issuedTap := simbuf.NewDevNullBuffer[simcomp.ROBUopId]()
	sim.AddBuffer(issuedTap, BufferDescription{DisplayName: "Issued"})

	availableDeps := simbuf.NewExecDepsBuffer[simcomp.ROBUopId]()
	sim.AddBuffer(availableDeps, BufferDescription{DisplayName: "AvailableDeps"})

	writeback := simbuf.NewExecDepsBuffer[simcomp.ROBUopId]()
	sim.AddBuffer(writeback, BufferDescription{DisplayName: "Writeback"})

	retirementQueue := simbuf.NewFifoBuffer[simcomp.ROBUopId](2 * target.UopsPerCycle)
	sim.AddBuffer(retirementQueue, BufferDescription{DisplayName: "RetirementQueue"})

	retiredQueue := simbuf.NewFifoBuffer[simcomp.ROBUopId](2 * target.UopsPerCycle)
	sim.AddBuffer(retiredQueue, BufferDescription{DisplayName: "RetiredQueue"})

	fetcher := simcomp.NewFetcher(target.MaxBytesPerCycle, fetchQueue)
	sim.AddComponent(Fetcher(fetcher))

	parser := simcomp.NewInstructionParser(target.NumDecoders, fetchQueue, decodeQueue)
	sim.AddComponent(Parser(parser))

	decoder := simcomp.NewInstructionDecoder(target.NumDecoders, ctx, decodeQueue, uopQueue)
	sim.AddComponent(Decoder(decoder))

	renamer := simcomp.NewRegisterRenamer(target.UopsPerCycle, target.NumPhysicalRegs, target.NumArchitecturalRegs, nil, ctx, uopQueue, renamedQueue)
	sim.AddComponent(Renamer(renamer))

	rob := simcomp.NewReorderBuffer(
		reorderBufferEntries, ctx, target.Hierarchy,
		renamedQueue, availableDeps, writeback, retiredQueue,
		issuedTap, portSinks, retirementQueue,
		simcomp.GreedyIssuePolicy{},
	)
	sim.AddComponent(ROB(rob))

	completionSink := fanoutSink{sinks: []simbuf.Sink[simcomp.ROBUopId]{availableDeps, writeback}}
	for _, p := range ports {
		unit := simcomp.NewSimplifiedExecutionUnits[simcomp.ROBUopId](p, completionSink)
		sim.AddComponent(SimplifiedExecutionUnits[simcomp.ROBUopId](unit))
	}

	retirer := simcomp.NewRetirer[simcomp.ROBUopId](ctx, retirementQueue, retiredQueue, sim.InstructionSink())
	sim.AddComponent(Retirer(retirer))

	return sim
}
