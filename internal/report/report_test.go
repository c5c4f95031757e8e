package report_test

import (
	"strings"
	"testing"

	"github.com/keurnel/faucon/internal/analysis"
	"github.com/keurnel/faucon/internal/report"
	"github.com/keurnel/faucon/internal/simcomp"
	"github.com/keurnel/faucon/internal/simcontext"
	"github.com/keurnel/faucon/internal/simulator"
)

type stubBlock struct {
	sched []string
	disas []string
}

func (b stubBlock) NumInstructions() int                             { return len(b.sched) }
func (b stubBlock) InstructionSize(int) int                          { return 4 }
func (b stubBlock) IsLoop() bool                                     { return true }
func (b stubBlock) InstructionKey(i int) simcontext.InstructionKey {
	return simcontext.InstructionKey{Opcode: uint32(i)}
}
func (b stubBlock) SchedClass(i int) string { return b.sched[i] }
func (b stubBlock) Uses(int) []int          { return nil }
func (b stubBlock) Defs(int) []int          { return nil }
func (b stubBlock) Disassembly(i int) string { return b.disas[i] }

var _ simcomp.BlockContext = stubBlock{}

func TestWriteSummary(t *testing.T) {
	var buf strings.Builder
	err := report.WriteSummary(&buf, report.Summary{
		NumInstructions:   4,
		NumIterations:     10,
		TotalNumCycles:    42,
		InverseThroughput: analysis.InverseThroughput{Min: 3, Max: 5},
	})
	if err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	got := buf.String()
	for _, want := range []string{"instructions analysed: 4", "completed iterations: 10", "total cycles: 42", "3-5"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}

func TestWritePortPressureTable_BlanksZeroPressure(t *testing.T) {
	var buf strings.Builder
	ports := []string{"Port0", "Port1"}
	pressures := []analysis.PortPressure{
		{BufferIndex: 0, CyclesPerIteration: 1.5},
		{BufferIndex: 1, CyclesPerIteration: 0},
	}
	if err := report.WritePortPressureTable(&buf, ports, pressures); err != nil {
		t.Fatalf("WritePortPressureTable: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "Port0") || !strings.Contains(got, "1.50") {
		t.Errorf("table missing Port0 row: %q", got)
	}
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	last := lines[len(lines)-1]
	if strings.Contains(last, "0.00") {
		t.Errorf("zero pressure not blanked: %q", last)
	}
}

func TestWriteInstructionPressureTable_MarksResourcelessUops(t *testing.T) {
	ctx := simcontext.NewGlobalContext(simcontext.HaswellLikeProfile())
	block := stubBlock{
		sched: []string{"WriteALU", "WriteALU"},
		disas: []string{"mov eax, 1", "add eax, eax, edx"},
	}
	pressures := []analysis.PortPressure{
		{BufferIndex: 0, CyclesPerIterationByInstruction: []float64{1, 0}},
	}

	var buf strings.Builder
	err := report.WriteInstructionPressureTable(&buf, block, block, ctx, []string{"Port0"}, pressures)
	if err != nil {
		t.Fatalf("WriteInstructionPressureTable: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "mov eax, 1") || !strings.Contains(got, "add eax, eax, edx") {
		t.Errorf("table missing disassembly columns: %q", got)
	}
	if !strings.Contains(got, "#Uops") {
		t.Errorf("table missing header: %q", got)
	}
}

func TestWriteTrace_OneLinePerRetirement(t *testing.T) {
	block := stubBlock{disas: []string{"mov eax, 1", "add eax, eax, edx"}}
	log := &simulator.Log{
		Retirements: []simulator.RetirementEvent{
			{Cycle: 3, Index: simcomp.InstructionIndex{BBIndex: 0, Iteration: 0}},
			{Cycle: 4, Index: simcomp.InstructionIndex{BBIndex: 1, Iteration: 0}},
		},
	}
	var buf strings.Builder
	if err := report.WriteTrace(&buf, log, block); err != nil {
		t.Fatalf("WriteTrace: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d trace lines, want 2: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "cycle=3") || !strings.Contains(lines[0], "mov eax, 1") {
		t.Errorf("trace line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "cycle=4") || !strings.Contains(lines[1], "add eax, eax, edx") {
		t.Errorf("trace line 1 = %q", lines[1])
	}
}
