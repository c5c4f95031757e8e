package analysis_test

import (
	"testing"

	"github.com/keurnel/faucon/internal/analysis"
	"github.com/keurnel/faucon/internal/simcontext"
	"github.com/keurnel/faucon/internal/simulator"
)

type testBlock struct{ n int }

func (b testBlock) NumInstructions() int { return b.n }
func (b testBlock) InstructionSize(int) int { return 1 }
func (b testBlock) IsLoop() bool            { return true }
func (b testBlock) InstructionKey(int) simcontext.InstructionKey {
	return simcontext.InstructionKey{}
}
func (b testBlock) SchedClass(int) string { return "" }
func (b testBlock) Uses(int) []int        { return nil }
func (b testBlock) Defs(int) []int        { return nil }

func TestComputePortPressure_AveragesOverCompleteIterationsOnly(t *testing.T) {
	log := &simulator.Log{
		BufferDescriptions: make([]simulator.BufferDescription, 4),
		Iterations: []simulator.IterationStats{
			{EndCycle: 2},
			{EndCycle: 3},
		},
	}
	log.Lines = []simulator.LogLine{
		{Cycle: 0, BufferIndex: 0, MsgTag: "PortPressure", Msg: "init"},
		{Cycle: 0, BufferIndex: 1, MsgTag: "PortPressure", Msg: "init"},
		{Cycle: 0, BufferIndex: 3, MsgTag: "PortPressure", Msg: "init"},
		{Cycle: 0, BufferIndex: 1, MsgTag: "PortPressure", Msg: "0,0,1"},
		{Cycle: 0, BufferIndex: 3, MsgTag: "PortPressure", Msg: "0,0,1"},
		{Cycle: 1, BufferIndex: 3, MsgTag: "PortPressure", Msg: "0,1,0.5"},
		{Cycle: 2, BufferIndex: 3, MsgTag: "PortPressure", Msg: "1,2,0.5"},
		{Cycle: 0, BufferIndex: 0, MsgTag: "Ignored", Msg: "N/A"},
		{Cycle: 0, BufferIndex: 2, MsgTag: "Ignored", Msg: "N/A"},
		// Incomplete iteration (2): must be ignored.
		{Cycle: 2, BufferIndex: 0, MsgTag: "PortPressure", Msg: "2,1,1"},
	}

	result, err := analysis.ComputePortPressure(testBlock{n: 3}, log)
	if err != nil {
		t.Fatalf("ComputePortPressure: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("got %d pressures, want 3 (buffers 0, 1, 3)", len(result))
	}

	want := []struct {
		bufIdx   int
		perIter  float64
		byInstr  []float64
	}{
		{0, 0.0, []float64{0, 0, 0}},
		{1, 0.5, []float64{0.5, 0, 0}},
		{3, 1.0, []float64{0.5, 0.25, 0.25}},
	}
	for i, w := range want {
		if result[i].BufferIndex != w.bufIdx {
			t.Errorf("result[%d].BufferIndex = %d, want %d", i, result[i].BufferIndex, w.bufIdx)
		}
		if result[i].CyclesPerIteration != w.perIter {
			t.Errorf("result[%d].CyclesPerIteration = %v, want %v", i, result[i].CyclesPerIteration, w.perIter)
		}
		for j, c := range w.byInstr {
			if result[i].CyclesPerIterationByInstruction[j] != c {
				t.Errorf("result[%d].CyclesPerIterationByInstruction[%d] = %v, want %v", i, j, result[i].CyclesPerIterationByInstruction[j], c)
			}
		}
	}
}

func TestComputeInverseThroughput_SkipsWarmupHalf(t *testing.T) {
	log := &simulator.Log{}

	result := analysis.ComputeInverseThroughput(log)
	if result.NumIterations != 0 {
		t.Fatalf("empty log: NumIterations = %d, want 0", result.NumIterations)
	}

	log.Iterations = append(log.Iterations, simulator.IterationStats{EndCycle: 2})
	result = analysis.ComputeInverseThroughput(log)
	if result.Min != 2 || result.Max != 2 || result.NumIterations != 1 {
		t.Errorf("1 iteration: got %+v, want Min=2 Max=2 NumIterations=1", result)
	}

	log.Iterations = append(log.Iterations, simulator.IterationStats{EndCycle: 15})
	result = analysis.ComputeInverseThroughput(log)
	if result.Min != 13 || result.Max != 13 || result.NumIterations != 1 {
		t.Errorf("2 iterations: got %+v, want Min=13 Max=13 NumIterations=1 (first skipped)", result)
	}

	log.Iterations = append(log.Iterations, simulator.IterationStats{EndCycle: 42})
	result = analysis.ComputeInverseThroughput(log)
	if result.Min != 13 || result.Max != 27 || result.NumIterations != 2 {
		t.Errorf("3 iterations: got %+v, want Min=13 Max=27 NumIterations=2", result)
	}

	log.Iterations = append(log.Iterations, simulator.IterationStats{EndCycle: 44})
	result = analysis.ComputeInverseThroughput(log)
	if result.Min != 2 || result.Max != 27 || result.NumIterations != 2 {
		t.Errorf("4 iterations: got %+v, want Min=2 Max=27 NumIterations=2", result)
	}
}
