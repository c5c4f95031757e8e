package simulator

import (
	"fmt"
	"strings"

	"github.com/keurnel/faucon/internal/simbuf"
	"github.com/keurnel/faucon/internal/simcomp"
)

// BufferDescription names a buffer for the log and, optionally, an
// analysis that needs to recognize it (spec.md §4.7, §6).
type BufferDescription struct {
	DisplayName string
	// ID is an analysis-specific identifier (e.g. a dispatch port number);
	// zero if the buffer carries none.
	ID int
}

// LogLine is one state-transition event recorded during a run: which
// buffer emitted it, which cycle, and a tag/message pair whose meaning
// depends on the tag (see internal/analysis for the PortPressure and
// retirement consumers).
type LogLine struct {
	Cycle       int
	BufferIndex int
	MsgTag      string
	Msg         string
}

// IterationStats records when a loop iteration's last instruction retired.
type IterationStats struct {
	EndCycle int
}

// RetirementEvent records one instruction's retirement cycle, the raw
// material for internal/report's IACA-style execution trace.
type RetirementEvent struct {
	Cycle int
	Index simcomp.InstructionIndex
}

// Log is the complete record of a Run: every buffer transition plus
// derived iteration statistics, enough for internal/analysis and
// internal/report to reconstruct port pressure and inverse throughput
// without re-running the simulation.
type Log struct {
	BufferDescriptions []BufferDescription
	Lines              []LogLine
	Iterations         []IterationStats
	Retirements        []RetirementEvent
	NumCycles          int
}

// DebugString renders the log as one line per event, for tests and
// ad-hoc debugging; not a stable machine-readable format.
func (l *Log) DebugString() string {
	var b strings.Builder
	for _, line := range l.Lines {
		name := "?"
		if line.BufferIndex < len(l.BufferDescriptions) {
			name = l.BufferDescriptions[line.BufferIndex].DisplayName
		}
		fmt.Fprintf(&b, "cycle=%d %s %s=%s\n", line.Cycle, name, line.MsgTag, line.Msg)
	}
	return b.String()
}

// NumCompleteIterations reports how many loop iterations ran to
// completion.
func (l *Log) NumCompleteIterations() int {
	return len(l.Iterations)
}

// loggerImpl stamps every Log call from a single buffer/cycle pair with
// that buffer's index and the current cycle before appending it to Log.
type loggerImpl struct {
	log         *Log
	bufferIndex int
	cycle       int
}

// Log implements simbuf.Logger.
func (l loggerImpl) Log(tag, msg string) {
	l.log.Lines = append(l.log.Lines, LogLine{Cycle: l.cycle, BufferIndex: l.bufferIndex, MsgTag: tag, Msg: msg})
}

var _ simbuf.Logger = loggerImpl{}
