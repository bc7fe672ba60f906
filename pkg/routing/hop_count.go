package routing

import "github.com/meshwcett/simulator/pkg/graph"

// HopCount is the simplest policy: next hop is the first step of
// Graph.HopCountPath's fewest-hops path, with no regard for loss,
// bandwidth, or channel diversity.
type HopCount struct{}

var _ graph.Policy = HopCount{}

func (HopCount) Name() string       { return "hop_count" }
func (HopCount) WaitsForAck() bool { return false }

func (HopCount) ComputeNextHop(g *graph.Graph, src, dst uint64) (uint64, bool) {
	if src == dst {
		return 0, false
	}
	path, ok := g.HopCountPath(src, dst)
	if !ok || len(path) < 2 {
		return 0, false
	}
	return path[1], true
}
