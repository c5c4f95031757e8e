package simulator_test

import (
	"testing"

	"github.com/keurnel/faucon/internal/simcontext"
	"github.com/keurnel/faucon/internal/simulator"
)

type aluLoopBlock struct{}

func (aluLoopBlock) NumInstructions() int { return 3 }
func (aluLoopBlock) InstructionSize(int) int { return 4 }
func (aluLoopBlock) IsLoop() bool            { return true }
func (aluLoopBlock) InstructionKey(i int) simcontext.InstructionKey {
	return simcontext.InstructionKey{Opcode: uint32(i)}
}
func (aluLoopBlock) SchedClass(int) string { return "WriteALU" }
func (b aluLoopBlock) Uses(i int) []int {
	if i == 0 {
		return nil
	}
	return []int{i - 1}
}
func (b aluLoopBlock) Defs(i int) []int { return []int{i} }

func TestBuild_RunsAThreeInstructionLoopToCompletion(t *testing.T) {
	ctx := simcontext.NewGlobalContext(simcontext.HaswellLikeProfile())
	sim := simulator.Build(ctx)

	log, err := sim.Run(aluLoopBlock{}, 10, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if log.NumCompleteIterations() != 10 {
		t.Fatalf("NumCompleteIterations = %d, want 10", log.NumCompleteIterations())
	}
	if len(log.Retirements) < 30 {
		t.Fatalf("got %d retirements, want at least 30 (3 instructions * 10 iterations)", len(log.Retirements))
	}
	if log.BufferDescriptions[0].DisplayName != "Port0" {
		t.Fatalf("BufferDescriptions[0] = %+v, want the Port0 dispatch buffer first", log.BufferDescriptions[0])
	}
}

func TestBuild_StopsAtMaxCyclesWhenLoopNeverCompletes(t *testing.T) {
	ctx := simcontext.NewGlobalContext(simcontext.HaswellLikeProfile())
	sim := simulator.Build(ctx)

	log, err := sim.Run(aluLoopBlock{}, 0, 50)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if log.NumCycles != 50 {
		t.Fatalf("NumCycles = %d, want 50", log.NumCycles)
	}
}
