package simcontext_test

import (
	"testing"

	"github.com/keurnel/faucon/internal/simcontext"
)

func TestDecompose_SingleResource(t *testing.T) {
	sched := &simcontext.SchedClass{
		Name:           "WriteALU",
		Resources:      []simcontext.ResourceCycles{{ProcResIdx: 0, Cycles: 1}},
		NumMicroOps:    1,
		WriteLatencies: []uint32{1},
	}
	decomp, err := simcontext.Decompose(sched, nil)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if len(decomp.Uops) != 1 {
		t.Fatalf("got %d uops, want 1", len(decomp.Uops))
	}
	if decomp.Uops[0].Latency() != 1 {
		t.Errorf("latency = %d, want 1", decomp.Uops[0].Latency())
	}
}

func TestDecompose_ResourcelessQuirk(t *testing.T) {
	sched := &simcontext.SchedClass{
		Name:           "WriteNop",
		Resources:      nil,
		NumMicroOps:    1,
		WriteLatencies: []uint32{1},
	}
	decomp, err := simcontext.Decompose(sched, nil)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if len(decomp.Uops) != 1 || decomp.Uops[0].ProcResIdx != 0 {
		t.Fatalf("expected one resourceless uop, got %+v", decomp.Uops)
	}
}

func TestDecompose_LatencyDistributionSumsToMax(t *testing.T) {
	sched := &simcontext.SchedClass{
		Name: "WriteFPMul",
		Resources: []simcontext.ResourceCycles{
			{ProcResIdx: 0, Cycles: 1},
			{ProcResIdx: 1, Cycles: 1},
			{ProcResIdx: 2, Cycles: 1},
		},
		NumMicroOps:    3,
		WriteLatencies: []uint32{5},
	}
	decomp, err := simcontext.Decompose(sched, nil)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	var total uint32
	for _, u := range decomp.Uops {
		if u.Latency() == 0 {
			t.Errorf("uop %+v has zero latency", u)
		}
		total += u.Latency()
	}
	if total != 5 {
		t.Errorf("total latency = %d, want 5", total)
	}
}

func TestGlobalContext_CachesDecomposition(t *testing.T) {
	ctx := simcontext.NewGlobalContext(simcontext.HaswellLikeProfile())
	key := simcontext.InstructionKey{Opcode: 0x58, Operands: "xmm,xmm"}

	first, err := ctx.Decompose(key, "WriteALU")
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	second, err := ctx.Decompose(key, "WriteALU")
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if first != second {
		t.Errorf("expected cached pointer identity across calls")
	}
	if ctx.CacheSize() != 1 {
		t.Errorf("CacheSize() = %d, want 1", ctx.CacheSize())
	}
}

func TestGlobalContext_UnknownSchedClass(t *testing.T) {
	ctx := simcontext.NewGlobalContext(simcontext.HaswellLikeProfile())
	if _, err := ctx.Decompose(simcontext.InstructionKey{}, "NoSuchClass"); err == nil {
		t.Errorf("expected error for unknown scheduling class")
	}
}
