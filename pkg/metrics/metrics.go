// Package metrics computes the link- and path-quality scores the routing
// policies rank candidate paths by: per-edge ETT, whole-path WCETT, and the
// load-balanced WCETT-LB extension used by the two congestion-aware
// variants.
package metrics

import (
	"github.com/meshwcett/simulator/pkg/graph"
)

// DefaultBeta is WCETT's weight between the sum-of-ETT term and the
// worst-channel term.
const DefaultBeta = 0.5

// DefaultPacketSize is the packet size, in bytes, metric computation
// assumes when no concrete packet is in flight yet (route pre-population,
// congestion-monitor path comparisons).
const DefaultPacketSize = 1024

// mbpsToBytesPerSecond converts a link's rated bandwidth from Mbps to
// bytes/s, the unit ETT's size/bandwidth division needs.
const mbpsToBytesPerSecond = 125000

// ETX returns the expected transmission count for a link with the given
// per-attempt loss probability p. The two algebraically equivalent forms
// seen across this codebase's history — 1/(1-p)^2 and 1/(1-q) with
// q = 1-(1-p)^2 — agree exactly, since 1-q = (1-p)^2; ETX uses the former
// directly.
func ETX(lossRate float64) float64 {
	retention := 1 - lossRate
	return 1 / (retention * retention)
}

// ETT returns the expected transmission time for sending a packet of
// packetSize bytes across e: ETX scaled by size over the edge's rated
// bandwidth.
func ETT(e *graph.Edge, packetSize int) float64 {
	bytesPerSecond := e.BandwidthMbps * mbpsToBytesPerSecond
	return ETX(e.LossRate) * (float64(packetSize) / bytesPerSecond)
}

// WCETT returns the Weighted Cumulative ETT for a sequence of edges forming
// a path: (1-beta) times the sum of each edge's ETT, plus beta times the
// largest per-channel ETT sum along the path — the term that penalizes
// paths that reuse one channel repeatedly and so can't exploit spatial
// channel diversity.
func WCETT(edges []*graph.Edge, packetSize int, beta float64) float64 {
	if len(edges) == 0 {
		return 0
	}

	var ettSum float64
	channelSums := make(map[int]float64)
	for _, e := range edges {
		ett := ETT(e, packetSize)
		ettSum += ett
		channelSums[e.Channel] += ett
	}

	var maxChannel float64
	for _, sum := range channelSums {
		if sum > maxChannel {
			maxChannel = sum
		}
	}

	return (1-beta)*ettSum + beta*maxChannel
}

// MinETT scans every active edge in g and returns the smallest ETT found,
// at the standard packet size. Returns 1.0 if the graph has no active
// edges, matching the no-signal fallback used upstream of this call.
func MinETT(g *graph.Graph) float64 {
	min := 0.0
	found := false
	for _, id := range g.NodeIDs() {
		node, ok := g.Node(id)
		if !ok {
			continue
		}
		for _, neighborID := range node.NeighborList() {
			e, ok := g.EdgeBetween(id, neighborID)
			if !ok || !e.Active() {
				continue
			}
			ett := ETT(e, DefaultPacketSize)
			if !found || ett < min {
				min = ett
				found = true
			}
		}
	}
	if !found {
		return 1.0
	}
	return min
}

// TrafficConcentration returns, for every node in g, the number of other
// nodes whose routing table currently names it as a next hop — the N_i
// term the load-balanced metrics use to penalize heavily relied-upon
// interior nodes.
func TrafficConcentration(g *graph.Graph) map[uint64]int {
	concentration := make(map[uint64]int)
	for _, id := range g.NodeIDs() {
		concentration[id] = 0
	}
	for _, id := range g.NodeIDs() {
		node, ok := g.Node(id)
		if !ok {
			continue
		}
		counted := make(map[uint64]bool)
		for _, dest := range node.RoutingDestinations() {
			hop, ok := node.NextHop(dest)
			if !ok || counted[hop] {
				continue
			}
			counted[hop] = true
			if _, tracked := concentration[hop]; tracked {
				concentration[hop]++
			}
		}
	}
	return concentration
}

// QueueBandwidthTerm returns a node's instantaneous ql/b signal: its
// current queue length divided by the total active-neighbor bandwidth,
// or the raw queue length if the node has no active neighbors.
func QueueBandwidthTerm(g *graph.Graph, node *graph.Node) float64 {
	var totalBW float64
	var count int
	for _, neighborID := range node.NeighborList() {
		e, ok := g.EdgeBetween(node.ID, neighborID)
		if ok && e.Active() {
			totalBW += e.BandwidthMbps
			count++
		}
	}
	ql := float64(node.QueueLen())
	if count == 0 || totalBW == 0 {
		return ql
	}
	return ql / totalBW
}

// PathEdges resolves a node-id path to its constituent edges. Returns
// false if any consecutive pair is not connected.
func PathEdges(g *graph.Graph, path []uint64) ([]*graph.Edge, bool) {
	if len(path) < 2 {
		return nil, len(path) == 1
	}
	edges := make([]*graph.Edge, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		e, ok := g.EdgeBetween(path[i], path[i+1])
		if !ok {
			return nil, false
		}
		edges = append(edges, e)
	}
	return edges, true
}

// WCETTLB computes the load-balanced WCETT extension: the base WCETT plus,
// for each interior (non-endpoint) node on the path, that node's queue/
// bandwidth term plus the network's minimum ETT scaled by the node's
// current traffic concentration.
func WCETTLB(g *graph.Graph, path []uint64, packetSize int) float64 {
	edges, ok := PathEdges(g, path)
	if !ok {
		return 0
	}
	base := WCETT(edges, packetSize, DefaultBeta)
	if len(path) <= 2 {
		return base
	}

	minETT := MinETT(g)
	concentration := TrafficConcentration(g)

	var penalty float64
	for _, id := range path[1 : len(path)-1] {
		node, ok := g.Node(id)
		if !ok {
			continue
		}
		penalty += QueueBandwidthTerm(g, node) + minETT*float64(concentration[id])
	}
	return base + penalty
}
