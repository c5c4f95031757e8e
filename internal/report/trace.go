package report

import (
	"fmt"
	"io"

	"github.com/keurnel/faucon/internal/simulator"
)

// WriteTrace writes an IACA-style execution trace: one line per retired
// instruction, in retirement order, giving its iteration, its position in
// the basic block, the cycle it retired on, and its disassembly. This is a
// supplemented feature (spec.md's --trace flag names the output file but
// not its structure); it is a pure consumer of the retirement events
// internal/simulator already records, not new simulation state.
func WriteTrace(w io.Writer, log *simulator.Log, disasm disassembly) error {
	for _, r := range log.Retirements {
		text := disasm.Disassembly(r.Index.BBIndex)
		if _, err := fmt.Fprintf(w, "iter=%d bb=%d cycle=%d %s\n", r.Index.Iteration, r.Index.BBIndex, r.Cycle, text); err != nil {
			return err
		}
	}
	return nil
}
