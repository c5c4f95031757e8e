package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keurnel/faucon/internal/analysis"
	"github.com/keurnel/faucon/internal/frontend"
	"github.com/keurnel/faucon/internal/report"
	"github.com/keurnel/faucon/internal/simcontext"
	"github.com/keurnel/faucon/internal/simulator"
	"github.com/keurnel/faucon/internal/xstatus"
)

var simulateFlags struct {
	logPath     string
	tracePath   string
	maxIters    int
	maxCycles   int
	loopBody    bool
	inputType   string
	targetPath  string
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <input-path>",
	Short: "Estimate the steady-state throughput of a basic block",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSimulate(cmd, args[0]); err != nil {
			cmd.PrintErrln("Error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	flags := simulateCmd.Flags()
	flags.StringVar(&simulateFlags.logPath, "log", "", "write the full per-cycle event log to this path")
	flags.StringVar(&simulateFlags.tracePath, "trace", "", "write an IACA-style execution trace to this path")
	flags.IntVar(&simulateFlags.maxIters, "max_iters", 20, "maximum number of loop iterations to simulate")
	flags.IntVar(&simulateFlags.maxCycles, "max_cycles", 100000, "maximum number of cycles to simulate")
	flags.BoolVar(&simulateFlags.loopBody, "loop_body", true, "treat the input as a loop body that wraps at its end")
	flags.StringVar(&simulateFlags.inputType, "input_type", "intel_asm", "input format: bin, intel_asm, or att_asm")
	flags.StringVar(&simulateFlags.targetPath, "target", "", "path to a TOML target profile (defaults to a built-in Haswell-like profile)")
}

func runSimulate(cmd *cobra.Command, inputPath string) error {
	block, err := loadBasicBlock(inputPath, simulateFlags.inputType, simulateFlags.loopBody)
	if err != nil {
		return err
	}

	target := simcontext.HaswellLikeProfile()
	if simulateFlags.targetPath != "" {
		target, err = simcontext.LoadTargetProfile(simulateFlags.targetPath)
		if err != nil {
			return err
		}
	}
	ctx := simcontext.NewGlobalContext(target)
	sim := simulator.Build(ctx)

	log, err := sim.Run(block, simulateFlags.maxIters, simulateFlags.maxCycles)
	if err != nil {
		return err
	}

	if simulateFlags.logPath != "" {
		if err := os.WriteFile(simulateFlags.logPath, []byte(log.DebugString()), 0o644); err != nil {
			return xstatus.Internalf("write log %s: %v", simulateFlags.logPath, err)
		}
	}
	if simulateFlags.tracePath != "" {
		f, err := os.Create(simulateFlags.tracePath)
		if err != nil {
			return xstatus.Internalf("create trace %s: %v", simulateFlags.tracePath, err)
		}
		defer f.Close()
		if err := report.WriteTrace(f, log, block); err != nil {
			return err
		}
	}

	pressures, err := analysis.ComputePortPressure(block, log)
	if err != nil {
		return err
	}
	throughput := analysis.ComputeInverseThroughput(log)

	out := cmd.OutOrStdout()
	if err := report.WriteSummary(out, report.Summary{
		NumInstructions:   block.NumInstructions(),
		NumIterations:     log.NumCompleteIterations(),
		TotalNumCycles:    log.NumCycles,
		InverseThroughput: throughput,
	}); err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := report.WritePortPressureTable(out, target.Ports, pressures); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return report.WriteInstructionPressureTable(out, block, block, ctx, target.Ports, pressures)
}

// loadBasicBlock reads inputPath and disassembles it per inputType
// ("bin", "intel_asm", or "att_asm").
func loadBasicBlock(inputPath, inputType string, loopBody bool) (*frontend.BasicBlock, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, xstatus.NotFoundf("read %s: %v", inputPath, err)
	}

	switch inputType {
	case "bin":
		region, err := frontend.IACAMarkerLocator{}.Locate(data)
		if err != nil {
			return nil, err
		}
		return frontend.NewBinaryDisassembler(loopBody).DisassembleBytes(region)
	case "intel_asm":
		return frontend.NewTextDisassembler(frontend.IntelSyntax, loopBody).Disassemble(string(data))
	case "att_asm":
		return frontend.NewTextDisassembler(frontend.ATTSyntax, loopBody).Disassemble(string(data))
	default:
		return nil, xstatus.InvalidArgumentf("unknown --input_type %q (want bin, intel_asm, or att_asm)", inputType)
	}
}
