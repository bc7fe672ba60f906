package routing

import "github.com/meshwcett/simulator/pkg/graph"

// Populate fills every node's routing table with a next hop to every other
// node in g, using policy to compute each entry. It is the one-time pass
// run before traffic starts; after that, entries are only ever refreshed by
// the policy's own UpdatePath rule (for LBPolicy variants). Graph.Send does
// not fill in a missing entry.
func Populate(g *graph.Graph, policy graph.Policy) {
	ids := g.NodeIDs()
	for _, src := range ids {
		srcNode, ok := g.Node(src)
		if !ok {
			continue
		}
		for _, dst := range ids {
			if src == dst {
				continue
			}
			nextHop, ok := policy.ComputeNextHop(g, src, dst)
			if !ok {
				continue
			}
			srcNode.SetNextHop(dst, nextHop)
		}
	}
}
