package graph

import (
	"math"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// DefaultMaxPathDepth bounds how many hops path enumeration will follow
// before abandoning a branch, keeping DFS enumeration of a dense mesh from
// blowing up combinatorially.
const DefaultMaxPathDepth = 10

// IsValidPath reports whether a node-id sequence is a legal path: every
// consecutive pair must be connected by a currently active edge, and no
// Client node may appear anywhere but as the first or final element.
func (g *Graph) IsValidPath(path []uint64) bool {
	if len(path) == 0 {
		return false
	}
	for i, id := range path {
		n, ok := g.Node(id)
		if !ok {
			return false
		}
		if n.Role == Client && i != 0 && i != len(path)-1 {
			return false
		}
	}
	for i := 0; i+1 < len(path); i++ {
		e, ok := g.EdgeBetween(path[i], path[i+1])
		if !ok || !e.Active() {
			return false
		}
	}
	return true
}

// AllPaths enumerates every simple path from src to dst via depth-first
// search, honoring the Client-as-leaf-only rule and skipping inactive
// edges, down to maxDepth hops. Traversal visits neighbors in the
// insertion order recorded on each node, so the result order is
// deterministic across calls against the same graph state.
func (g *Graph) AllPaths(src, dst uint64, maxDepth int) [][]uint64 {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxPathDepth
	}

	var out [][]uint64
	visited := map[uint64]bool{src: true}
	path := []uint64{src}

	var walk func(current uint64)
	walk = func(current uint64) {
		if current == dst {
			found := make([]uint64, len(path))
			copy(found, path)
			out = append(out, found)
			return
		}
		if len(path) > maxDepth {
			return
		}
		node, ok := g.Node(current)
		if !ok {
			return
		}
		if node.Role == Client && current != src {
			return
		}
		for _, next := range node.NeighborList() {
			if visited[next] {
				continue
			}
			edge, ok := g.EdgeBetween(current, next)
			if !ok || !edge.Active() {
				continue
			}
			visited[next] = true
			path = append(path, next)
			walk(next)
			path = path[:len(path)-1]
			visited[next] = false
		}
	}
	walk(src)
	return out
}

// HopCountPath returns the shortest src->dst path by hop count. It mirrors
// the graph wrapped into a gonum WeightedUndirectedGraph with every edge at
// unit weight (so Dijkstra's distance is exactly the hop count), excludes
// every Client node other than src/dst from the mirror since a Client may
// only ever be a path endpoint, and skips inactive edges. The mirror is
// rebuilt from scratch on every call rather than kept incrementally in
// sync, trading some redundant work for not having to thread edge
// activation/deactivation into a second graph representation.
func (g *Graph) HopCountPath(src, dst uint64) ([]uint64, bool) {
	if src == dst {
		return []uint64{src}, true
	}

	g.mu.RLock()
	wg := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for id, n := range g.Nodes {
		if n.Role == Client && id != src && id != dst {
			continue
		}
		wg.AddNode(simple.Node(id))
	}
	for _, e := range g.Edges {
		if !e.Active() {
			continue
		}
		from, to := wg.Node(int64(e.SrcID)), wg.Node(int64(e.DstID))
		if from == nil || to == nil {
			continue
		}
		wg.SetWeightedEdge(wg.NewWeightedEdge(from, to, 1))
	}
	g.mu.RUnlock()

	if wg.Node(int64(src)) == nil || wg.Node(int64(dst)) == nil {
		return nil, false
	}

	shortest := path.DijkstraFrom(simple.Node(src), wg)
	nodes, _ := shortest.To(int64(dst))
	if len(nodes) == 0 {
		return nil, false
	}
	out := make([]uint64, len(nodes))
	for i, n := range nodes {
		out[i] = uint64(n.ID())
	}
	return out, true
}
