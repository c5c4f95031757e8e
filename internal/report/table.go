// Package report renders a completed simulation's analyses (internal/
// analysis) as the textual report spec.md §6 describes: a summary line, a
// per-port pressure table, a per-instruction pressure table, and
// (supplemented) an IACA-style execution trace.
package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/keurnel/faucon/internal/analysis"
	"github.com/keurnel/faucon/internal/simcomp"
	"github.com/keurnel/faucon/internal/simcontext"
)

// disassembly is the trailing-column text source for a per-instruction
// pressure table: internal/frontend.BasicBlock satisfies this already.
type disassembly interface {
	Disassembly(i int) string
}

// Summary is the handful of headline numbers spec.md §6 prints before the
// two tables.
type Summary struct {
	NumInstructions   int
	NumIterations     int
	TotalNumCycles    int
	InverseThroughput analysis.InverseThroughput
}

// WriteSummary writes the "instructions analysed / completed iterations /
// total cycles / min-max cycles per iteration" headline.
func WriteSummary(w io.Writer, s Summary) error {
	_, err := fmt.Fprintf(w,
		"instructions analysed: %d\ncompleted iterations: %d\ntotal cycles: %d\ncycles per iteration (steady state): %d-%d\n",
		s.NumInstructions, s.NumIterations, s.TotalNumCycles, s.InverseThroughput.Min, s.InverseThroughput.Max)
	return err
}

// WritePortPressureTable renders the "Port | Cycles" table, one row per
// port, blanking pressures equal to 0.0 per spec.md §6.
func WritePortPressureTable(w io.Writer, ports []string, pressures []analysis.PortPressure) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Port\tCycles")
	for _, p := range pressures {
		fmt.Fprintf(tw, "%s\t%s\n", portName(ports, p.BufferIndex), formatCycles(p.CyclesPerIteration))
	}
	return tw.Flush()
}

// WriteInstructionPressureTable renders the "#Uops, <one column per port>,
// disassembly" table. block supplies the trailing disassembly column;
// instructions any of whose µops are resourceless are prefixed "*" in
// #Uops (spec.md §6). ctx resolves each instruction's decomposition to
// know whether any of its µops are resourceless.
func WriteInstructionPressureTable(w io.Writer, block simcomp.BlockContext, disasm disassembly, ctx *simcontext.GlobalContext, ports []string, pressures []analysis.PortPressure) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprint(tw, "#Uops")
	for _, p := range pressures {
		fmt.Fprintf(tw, "\t%s", portName(ports, p.BufferIndex))
	}
	fmt.Fprintln(tw, "\tInstruction")

	for i := 0; i < block.NumInstructions(); i++ {
		numUops, resourceless, err := numMicroOps(block, ctx, i)
		if err != nil {
			return err
		}
		uopsCol := strconv.Itoa(numUops)
		if resourceless {
			uopsCol = "*" + uopsCol
		}
		fmt.Fprint(tw, uopsCol)
		for _, p := range pressures {
			fmt.Fprintf(tw, "\t%s", formatCycles(p.CyclesPerIterationByInstruction[i]))
		}
		fmt.Fprintf(tw, "\t%s\n", disasm.Disassembly(i))
	}
	return tw.Flush()
}

// numMicroOps decomposes the i-th instruction and reports its µop count
// and whether any of its µops are resourceless (ProcResIdx == 0).
func numMicroOps(block simcomp.BlockContext, ctx *simcontext.GlobalContext, i int) (count int, resourceless bool, err error) {
	decomp, err := ctx.Decompose(block.InstructionKey(i), block.SchedClass(i))
	if err != nil {
		return 0, false, err
	}
	for _, uop := range decomp.Uops {
		if uop.ProcResIdx == 0 {
			resourceless = true
		}
	}
	return len(decomp.Uops), resourceless, nil
}

// portName returns ports[bufIdx] (simulator.Build registers the dispatch
// ports first, so buffer indices line up with the target's port list),
// falling back to the raw index if it isn't a named port (e.g. it's a
// non-DispatchPort buffer somehow carrying PortPressure lines, which should
// not happen in practice).
func portName(ports []string, bufIdx int) string {
	if bufIdx >= 0 && bufIdx < len(ports) {
		return ports[bufIdx]
	}
	return fmt.Sprintf("buffer%d", bufIdx)
}

// formatCycles blanks a zero pressure, per spec.md §6, and otherwise
// prints with two decimal places.
func formatCycles(cycles float64) string {
	if cycles == 0 {
		return ""
	}
	return strconv.FormatFloat(cycles, 'f', 2, 64)
}
