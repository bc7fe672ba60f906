package harness

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/meshwcett/simulator/pkg/graph"
	"github.com/meshwcett/simulator/pkg/routing"
)

// Algorithm is one of the four routing policies the harness can drive a run
// with, plus the "all" convenience value that expands to every one of them.
type Algorithm string

const (
	AlgorithmHopCount    Algorithm = "hop"
	AlgorithmWCETT       Algorithm = "wcett"
	AlgorithmWCETTLBPost Algorithm = "wcett_lb_post"
	AlgorithmWCETTLBPre  Algorithm = "wcett_lb_pre"
	AlgorithmAll         Algorithm = "all"
)

// Algorithms is every concrete (non-"all") algorithm, in the order the
// harness reports them.
var Algorithms = []Algorithm{AlgorithmHopCount, AlgorithmWCETT, AlgorithmWCETTLBPost, AlgorithmWCETTLBPre}

// Expand resolves AlgorithmAll to the full Algorithms list and leaves any
// concrete algorithm as a single-element slice.
func (a Algorithm) Expand() []Algorithm {
	if a == AlgorithmAll {
		out := make([]Algorithm, len(Algorithms))
		copy(out, Algorithms)
		return out
	}
	return []Algorithm{a}
}

// NewPolicy builds the graph.Policy instance for this algorithm.
func (a Algorithm) NewPolicy(log *zap.Logger) (graph.Policy, error) {
	switch a {
	case AlgorithmHopCount:
		return routing.HopCount{}, nil
	case AlgorithmWCETT:
		return routing.NewWCETT(), nil
	case AlgorithmWCETTLBPost:
		return routing.NewWCETTLBPost(log), nil
	case AlgorithmWCETTLBPre:
		return routing.NewWCETTLBPre(log), nil
	default:
		return nil, fmt.Errorf("harness: unknown algorithm %q", a)
	}
}

// IsLoadBalanced reports whether this algorithm is one of the two WCETT-LB
// variants, which get an extra per-packet transit CSV/histogram in the
// harness's output bundle.
func (a Algorithm) IsLoadBalanced() bool {
	return a == AlgorithmWCETTLBPost || a == AlgorithmWCETTLBPre
}
