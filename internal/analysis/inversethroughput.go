package analysis

import (
	"math"

	"github.com/keurnel/faucon/internal/simulator"
)

// InverseThroughput is the number of cycles one loop iteration takes,
// expressed as a min/max range instead of a single fractional number
// because it can vary cycle-to-cycle even at steady state.
type InverseThroughput struct {
	Min, Max int
	// NumIterations is how many trailing iterations this estimate is based
	// on; the leading half of the run is skipped to let the pipeline reach
	// steady state.
	NumIterations int
	// TotalNumCycles is the simulation's total cycle count, for an average
	// inverse throughput figure less noisy than Min/Max.
	TotalNumCycles int
}

// ComputeInverseThroughput estimates the steady-state per-iteration cycle
// count from log, skipping the first half of completed iterations so
// pipeline warm-up doesn't skew the range.
func ComputeInverseThroughput(log *simulator.Log) InverseThroughput {
	throughputs := ComputeInverseThroughputs(log)
	result := InverseThroughput{
		NumIterations:  len(throughputs),
		TotalNumCycles: log.NumCycles,
	}
	if len(throughputs) == 0 {
		return result
	}
	result.Min = math.MaxInt
	for _, t := range throughputs {
		if t < result.Min {
			result.Min = t
		}
		if t > result.Max {
			result.Max = t
		}
	}
	return result
}

// ComputeInverseThroughputs returns the per-iteration cycle count of every
// iteration after the warm-up half, in iteration order.
func ComputeInverseThroughputs(log *simulator.Log) []int {
	numComplete := log.NumCompleteIterations()
	skipped := numComplete / 2

	prevEnd := 0
	if skipped > 0 {
		prevEnd = log.Iterations[skipped-1].EndCycle
	}

	var out []int
	for i := skipped; i < numComplete; i++ {
		end := log.Iterations[i].EndCycle
		out = append(out, end-prevEnd)
		prevEnd = end
	}
	return out
}
