package simcomp

import "golang.org/x/exp/slices"

// IssuePolicy orders a uop's possible issue ports so the reorder buffer
// tries the preferred one first, and tracks whatever state it needs to do
// so across SignalIssued calls.
type IssuePolicy interface {
	Reset()
	SignalIssued(port int)
	ComputeBestOrder(possiblePorts []int)
}

// GreedyIssuePolicy never reorders: the first port in PossiblePorts order
// is always tried first.
type GreedyIssuePolicy struct{}

// Reset implements IssuePolicy.
func (GreedyIssuePolicy) Reset() {}

// SignalIssued implements IssuePolicy.
func (GreedyIssuePolicy) SignalIssued(int) {}

// ComputeBestOrder implements IssuePolicy.
func (GreedyIssuePolicy) ComputeBestOrder([]int) {}

// LeastLoadedIssuePolicy tracks how many uops have issued to each port and
// orders possible ports ascending by that load, favoring idle ports.
type LeastLoadedIssuePolicy struct {
	loads []int
}

// NewLeastLoadedIssuePolicy builds a LeastLoadedIssuePolicy.
func NewLeastLoadedIssuePolicy() *LeastLoadedIssuePolicy {
	return &LeastLoadedIssuePolicy{}
}

// Reset implements IssuePolicy.
func (p *LeastLoadedIssuePolicy) Reset() {
	p.loads = nil
}

// SignalIssued implements IssuePolicy.
func (p *LeastLoadedIssuePolicy) SignalIssued(port int) {
	if port >= len(p.loads) {
		grown := make([]int, port+1)
		copy(grown, p.loads)
		p.loads = grown
	}
	p.loads[port]++
}

func (p *LeastLoadedIssuePolicy) load(port int) int {
	if port < len(p.loads) {
		return p.loads[port]
	}
	return 0
}

// ComputeBestOrder implements IssuePolicy.
func (p *LeastLoadedIssuePolicy) ComputeBestOrder(possiblePorts []int) {
	slices.SortStableFunc(possiblePorts, func(a, b int) bool {
		return p.load(a) < p.load(b)
	})
}
