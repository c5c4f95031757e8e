// Package analysis derives port-pressure and inverse-throughput figures
// from a completed internal/simulator run, the same two analyses the
// report renderer surfaces (spec.md §6).
package analysis

import (
	"strconv"
	"strings"

	"github.com/keurnel/faucon/internal/simcomp"
	"github.com/keurnel/faucon/internal/simulator"
	"github.com/keurnel/faucon/internal/xstatus"
)

// PortPressure is how busy one dispatch port was, per basic-block
// instruction and overall, averaged across every complete loop iteration.
type PortPressure struct {
	BufferIndex                     int
	CyclesPerIteration              float64
	CyclesPerIterationByInstruction []float64 // sums to CyclesPerIteration
}

// ComputePortPressure reads every "PortPressure" log line emitted by
// internal/simbuf.DispatchPort buffers and averages the cycles each port
// dispatched per instruction over every *complete* loop iteration,
// discarding lines from an iteration that never finished so a truncated
// tail run doesn't bias the average downward.
func ComputePortPressure(block simcomp.BlockContext, log *simulator.Log) ([]PortPressure, error) {
	numComplete := log.NumCompleteIterations()

	totals := make([][]float64, len(log.BufferDescriptions))
	initialized := make([]bool, len(log.BufferDescriptions))

	for _, line := range log.Lines {
		if line.MsgTag != "PortPressure" {
			continue
		}
		if line.BufferIndex >= len(totals) {
			return nil, xstatus.Internalf("port pressure line references unknown buffer %d", line.BufferIndex)
		}
		if line.Msg == "init" {
			if initialized[line.BufferIndex] {
				return nil, xstatus.Internalf("buffer %d initialized twice", line.BufferIndex)
			}
			initialized[line.BufferIndex] = true
			totals[line.BufferIndex] = make([]float64, block.NumInstructions())
			continue
		}

		iteration, bbIndex, cycles, err := parsePortPressureLine(line.Msg)
		if err != nil {
			return nil, err
		}
		if iteration >= numComplete {
			// Ignore any incomplete iteration to avoid biasing the numbers.
			continue
		}
		if bbIndex >= len(totals[line.BufferIndex]) {
			return nil, xstatus.Internalf("port pressure line references instruction %d past block size", bbIndex)
		}
		totals[line.BufferIndex][bbIndex] += cycles
	}

	if numComplete == 0 {
		return nil, nil
	}

	var result []PortPressure
	for bufIdx, cyclesByInst := range totals {
		if !initialized[bufIdx] {
			continue // not a port
		}
		p := PortPressure{BufferIndex: bufIdx}
		for _, cycles := range cyclesByInst {
			perIter := cycles / float64(numComplete)
			p.CyclesPerIterationByInstruction = append(p.CyclesPerIterationByInstruction, perIter)
			p.CyclesPerIteration += perIter
		}
		result = append(result, p)
	}
	return result, nil
}

// parsePortPressureLine parses a "<iteration>,<bb_index>,<cycles>" message
// as emitted by internal/simbuf.DispatchPort's PrePropagate hook.
func parsePortPressureLine(msg string) (iteration, bbIndex int, cycles float64, err error) {
	parts := strings.SplitN(msg, ",", 3)
	if len(parts) != 3 {
		return 0, 0, 0, xstatus.Internalf("invalid PortPressure message %q", msg)
	}
	iteration, err1 := strconv.Atoi(parts[0])
	bbIndex, err2 := strconv.Atoi(parts[1])
	cycles, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, xstatus.Internalf("invalid PortPressure message %q", msg)
	}
	return iteration, bbIndex, cycles, nil
}
