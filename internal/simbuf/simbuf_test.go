package simbuf_test

import (
	"fmt"
	"testing"

	"github.com/keurnel/faucon/internal/simbuf"
)

type intElem int

func (e intElem) Tag() string    { return "Elem" }
func (e intElem) Format() string { return fmt.Sprintf("%d", int(e)) }

type recordingLogger struct {
	events []string
}

func (r *recordingLogger) Log(tag, msg string) {
	r.events = append(r.events, tag+":"+msg)
}

func TestFifoBuffer_PushThenPropagateMakesElementConsumable(t *testing.T) {
	buf := simbuf.NewFifoBuffer[intElem](4)
	if _, ok := buf.Peek(); ok {
		t.Fatalf("expected empty buffer before any push")
	}
	if !buf.PushMany([]intElem{1, 2}) {
		t.Fatalf("PushMany should succeed within capacity")
	}
	if _, ok := buf.Peek(); ok {
		t.Fatalf("pushed elements must stay invisible until Propagate")
	}
	buf.Propagate(simbuf.NopLogger{})

	first, ok := buf.Peek()
	if !ok || first != 1 {
		t.Fatalf("Peek() = %v, %v; want 1, true (FIFO order)", first, ok)
	}
	buf.Pop()
	second, ok := buf.Peek()
	if !ok || second != 2 {
		t.Fatalf("Peek() after Pop = %v, %v; want 2, true", second, ok)
	}
}

func TestFifoBuffer_PushManyIsAllOrNothing(t *testing.T) {
	buf := simbuf.NewFifoBuffer[intElem](2)
	if buf.PushMany([]intElem{1, 2, 3}) {
		t.Fatalf("PushMany of 3 elements into capacity-2 buffer should fail")
	}
	buf.Propagate(simbuf.NopLogger{})
	if _, ok := buf.Peek(); ok {
		t.Fatalf("rejected push must not have staged any element")
	}
}

func TestLinkBuffer_StallsUntilConsumerDrains(t *testing.T) {
	link := simbuf.NewLinkBuffer[intElem](2)
	if !link.PushMany([]intElem{1}) {
		t.Fatalf("initial push should succeed")
	}
	link.Propagate(simbuf.NopLogger{})

	if !link.PushMany([]intElem{2}) {
		t.Fatalf("push should succeed while the link is not stalled")
	}
	// 1 has not been consumed, so this propagation stalls.
	link.Propagate(simbuf.NopLogger{})

	if link.PushMany([]intElem{3}) {
		t.Fatalf("push must be refused while the link is stalled")
	}

	elem, ok := link.Peek()
	if !ok || elem != 1 {
		t.Fatalf("Peek() = %v, %v; want 1, true", elem, ok)
	}
	link.Pop()
	link.Propagate(simbuf.NopLogger{})

	if !link.PushMany([]intElem{3}) {
		t.Fatalf("push should succeed once the link has been drained and repropagated")
	}
}

func TestCore_StallLogsPStallAndWarnsPastThreshold(t *testing.T) {
	link := simbuf.NewLinkBuffer[intElem](1)
	link.PushMany([]intElem{1})
	link.Propagate(simbuf.NopLogger{})

	log := &recordingLogger{}
	for i := 0; i < 501; i++ {
		link.Propagate(log)
	}

	found := false
	for _, e := range log.events {
		if e == "Warning:stalled for too long, this is likely a bug" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a stall warning after more than 500 stalled cycles, events: %v", log.events)
	}
}

func TestDevNullBuffer_AlwaysAcceptsAndDiscards(t *testing.T) {
	sink := simbuf.NewDevNullBuffer[intElem]()
	if !sink.PushMany([]intElem{1, 2, 3}) {
		t.Fatalf("DevNullBuffer must always accept a push")
	}
	sink.Propagate(simbuf.NopLogger{})
}

type indexedElem struct {
	val       int
	iteration int
	bb        int
}

func (e indexedElem) Tag() string    { return "Uop" }
func (e indexedElem) Format() string { return fmt.Sprintf("%d", e.val) }
func (e indexedElem) Iteration() int { return e.iteration }
func (e indexedElem) BBIndex() int   { return e.bb }

func TestDispatchPort_LogsPortPressureBeforePropagation(t *testing.T) {
	port := simbuf.NewDispatchPort[indexedElem](4)
	log := &recordingLogger{}
	port.Init(log)

	port.PushMany([]indexedElem{{val: 1, iteration: 2, bb: 3}})
	port.Propagate(log)

	wantInit := "PortPressure:init"
	wantPressure := "PortPressure:2,3,1"
	var sawInit, sawPressure bool
	for _, e := range log.events {
		if e == wantInit {
			sawInit = true
		}
		if e == wantPressure {
			sawPressure = true
		}
	}
	if !sawInit {
		t.Errorf("expected init event, got %v", log.events)
	}
	if !sawPressure {
		t.Errorf("expected port pressure event %q, got %v", wantPressure, log.events)
	}
}

type decayingElem struct {
	val     int
	latency int
}

func (e decayingElem) Tag() string           { return "Exec" }
func (e decayingElem) Format() string        { return fmt.Sprintf("%d", e.val) }
func (e decayingElem) RemainingLatency() int { return e.latency }
func (e decayingElem) Decay() decayingElem {
	if e.latency > 0 {
		e.latency--
	}
	return e
}

func TestExecDepsBuffer_HoldsElementForItsLatency(t *testing.T) {
	buf := simbuf.NewExecDepsBuffer[decayingElem]()
	buf.PushMany([]decayingElem{{val: 7, latency: 2}})

	buf.Propagate(simbuf.NopLogger{})
	if _, ok := buf.Peek(); ok {
		t.Fatalf("element with latency 2 must not be ready after one Propagate")
	}

	buf.Propagate(simbuf.NopLogger{})
	elem, ok := buf.Peek()
	if !ok || elem.val != 7 {
		t.Fatalf("Peek() = %v, %v; want val=7, true after latency elapses", elem, ok)
	}
}
