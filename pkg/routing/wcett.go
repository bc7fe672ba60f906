package routing

import (
	"github.com/meshwcett/simulator/pkg/graph"
	"github.com/meshwcett/simulator/pkg/metrics"
)

// WCETT picks, among every valid simple path src->dst, the one with the
// lowest Weighted Cumulative ETT — channel-aware, but blind to congestion.
type WCETT struct {
	PacketSize int
	Beta       float64
	MaxDepth   int
}

var _ graph.Policy = WCETT{}

// NewWCETT builds a WCETT policy with the standard packet size and beta.
func NewWCETT() WCETT {
	return WCETT{PacketSize: metrics.DefaultPacketSize, Beta: metrics.DefaultBeta, MaxDepth: graph.DefaultMaxPathDepth}
}

func (WCETT) Name() string      { return "wcett" }
func (WCETT) WaitsForAck() bool { return false }

func (w WCETT) ComputeNextHop(g *graph.Graph, src, dst uint64) (uint64, bool) {
	path, ok := w.bestPath(g, src, dst)
	if !ok {
		return 0, false
	}
	return path[1], true
}

func (w WCETT) bestPath(g *graph.Graph, src, dst uint64) ([]uint64, bool) {
	if src == dst {
		return nil, false
	}
	candidates := validCandidates(g, src, dst, w.MaxDepth)
	if len(candidates) == 0 {
		return nil, false
	}

	var best []uint64
	bestScore := 0.0
	for _, path := range candidates {
		edges, ok := metrics.PathEdges(g, path)
		if !ok || len(edges) == 0 {
			continue
		}
		score := metrics.WCETT(edges, w.packetSize(), w.beta())
		if best == nil || score < bestScore {
			best = path
			bestScore = score
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

func (w WCETT) packetSize() int {
	if w.PacketSize == 0 {
		return metrics.DefaultPacketSize
	}
	return w.PacketSize
}

func (w WCETT) beta() float64 {
	if w.Beta == 0 {
		return metrics.DefaultBeta
	}
	return w.Beta
}

// validCandidates enumerates every simple path src->dst and discards those
// that route a Client through its interior.
func validCandidates(g *graph.Graph, src, dst uint64, maxDepth int) [][]uint64 {
	all := g.AllPaths(src, dst, maxDepth)
	out := make([][]uint64, 0, len(all))
	for _, p := range all {
		if len(p) >= 2 && g.IsValidPath(p) {
			out = append(out, p)
		}
	}
	return out
}
