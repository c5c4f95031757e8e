package simulator_test

import (
	"testing"

	"github.com/keurnel/faucon/internal/simbuf"
	"github.com/keurnel/faucon/internal/simcomp"
	"github.com/keurnel/faucon/internal/simcontext"
	"github.com/keurnel/faucon/internal/simulator"
)

type recordingComponent struct {
	onTick []func()
	calls  int
}

func (c *recordingComponent) Init() {}

func (c *recordingComponent) Tick(simcomp.BlockContext) error {
	if c.calls < len(c.onTick) && c.onTick[c.calls] != nil {
		c.onTick[c.calls]()
	}
	c.calls++
	return nil
}

type recordingBuffer struct {
	onPropagate []func(simbuf.Logger)
	calls       int
}

func (b *recordingBuffer) Init(simbuf.Logger) {}

func (b *recordingBuffer) Propagate(log simbuf.Logger) {
	if b.calls < len(b.onPropagate) && b.onPropagate[b.calls] != nil {
		b.onPropagate[b.calls](log)
	}
	b.calls++
}

type emptyBlock struct {
	n    int
	loop bool
}

func (b emptyBlock) NumInstructions() int { return b.n }
func (b emptyBlock) InstructionSize(int) int { return 1 }
func (b emptyBlock) IsLoop() bool            { return b.loop }
func (b emptyBlock) InstructionKey(int) simcontext.InstructionKey {
	return simcontext.InstructionKey{}
}
func (b emptyBlock) SchedClass(int) string { return "" }
func (b emptyBlock) Uses(int) []int        { return nil }
func (b emptyBlock) Defs(int) []int        { return nil }

func TestSimulator_TicksComponentsThenPropagatesBuffers(t *testing.T) {
	buf1 := &recordingBuffer{onPropagate: []func(simbuf.Logger){
		func(log simbuf.Logger) { log.Log("TestTag", "A") },
	}}
	buf2 := &recordingBuffer{onPropagate: []func(simbuf.Logger){
		func(log simbuf.Logger) { log.Log("TestTag", "B") },
		func(log simbuf.Logger) { log.Log("TestTag", "D") },
	}}

	sim := simulator.New()
	sim.AddComponent(&recordingComponent{})
	sim.AddComponent(&recordingComponent{})
	sim.AddBuffer(buf1, simulator.BufferDescription{DisplayName: "BD1"})
	sim.AddBuffer(buf2, simulator.BufferDescription{DisplayName: "BD2"})

	result, err := sim.Run(emptyBlock{n: 2}, 0, 2)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.NumCycles != 2 {
		t.Fatalf("NumCycles = %d, want 2", result.NumCycles)
	}
	want := []simulator.LogLine{
		{Cycle: 0, BufferIndex: 0, MsgTag: "TestTag", Msg: "A"},
		{Cycle: 0, BufferIndex: 1, MsgTag: "TestTag", Msg: "B"},
		{Cycle: 1, BufferIndex: 1, MsgTag: "TestTag", Msg: "D"},
	}
	if len(result.Lines) != len(want) {
		t.Fatalf("Lines = %v, want %v", result.Lines, want)
	}
	for i, w := range want {
		if result.Lines[i] != w {
			t.Errorf("Lines[%d] = %+v, want %+v", i, result.Lines[i], w)
		}
	}
	if result.BufferDescriptions[0].DisplayName != "BD1" || result.BufferDescriptions[1].DisplayName != "BD2" {
		t.Errorf("BufferDescriptions = %v", result.BufferDescriptions)
	}
}

func TestSimulator_CountsCompleteIterationsAndStopsAtMaxIterations(t *testing.T) {
	sim := simulator.New()
	sink := sim.InstructionSink()

	push := func(bbIndex, iteration int) func() {
		return func() {
			if !sink.PushMany([]simcomp.InstructionIndex{{BBIndex: bbIndex, Iteration: iteration}}) {
				t.Fatalf("instruction sink must always accept a push")
			}
		}
	}

	comp := &recordingComponent{onTick: []func(){
		nil,                                        // cycle 0: nothing retires
		func() { push(0, 0)(); push(1, 0)() },       // cycle 1: iteration 0 completes
		push(0, 1),                                  // cycle 2: half of iteration 1
		push(1, 1),                                  // cycle 3: iteration 1 completes
	}}
	sim.AddComponent(comp)

	result, err := sim.Run(emptyBlock{n: 2, loop: true}, 2, 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.NumCycles != 4 {
		t.Fatalf("NumCycles = %d, want 4", result.NumCycles)
	}
	if len(result.Iterations) != 2 {
		t.Fatalf("Iterations = %v, want 2 entries", result.Iterations)
	}
	if result.Iterations[0].EndCycle != 1 || result.Iterations[1].EndCycle != 3 {
		t.Errorf("Iterations = %v, want EndCycle 1 then 3", result.Iterations)
	}
}

func TestSimulator_RunRequiresAPositiveBound(t *testing.T) {
	sim := simulator.New()
	if _, err := sim.Run(emptyBlock{n: 1}, 0, 0); err == nil {
		t.Fatalf("Run with no iteration or cycle bound must fail")
	}
}
