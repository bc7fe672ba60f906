package graph

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/meshwcett/simulator/pkg/packet"
)

const (
	maxSendRetries = 3
	ackWaitPoll    = 5 * time.Millisecond
	ackWaitBudget  = 500 * time.Millisecond
)

// Graph is the mesh network: a node set, an edge set, and whichever routing
// Policy is currently governing next-hop decisions. Graph itself never
// imports package routing; it only ever talks to Policy through this
// package's own interface, so the dependency runs one way.
type Graph struct {
	mu     sync.RWMutex
	Nodes  map[uint64]*Node
	Edges  map[uint64]*Edge
	Policy Policy

	Transport TransportConfig

	log *zap.Logger
}

// NewGraph constructs an empty Graph. A nil logger falls back to a no-op
// logger.
func NewGraph(policy Policy, log *zap.Logger) *Graph {
	if log == nil {
		log = zap.NewNop()
	}
	return &Graph{
		Nodes:     make(map[uint64]*Node),
		Edges:     make(map[uint64]*Edge),
		Policy:    policy,
		Transport: DefaultTransportConfig(),
		log:       log,
	}
}

// CreateNode adds a new node of the given role and returns it.
func (g *Graph) CreateNode(role Role) *Node {
	n := NewNode(role)
	g.mu.Lock()
	g.Nodes[n.ID] = n
	g.mu.Unlock()
	return n
}

// Node looks up a node by id.
func (g *Graph) Node(id uint64) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.Nodes[id]
	return n, ok
}

// NodeIDs returns a snapshot of every node id in the graph, in map order
// (callers that need determinism should sort).
func (g *Graph) NodeIDs() []uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]uint64, 0, len(g.Nodes))
	for id := range g.Nodes {
		out = append(out, id)
	}
	return out
}

// EdgeBetween returns the edge connecting a and b, if one exists. Scans the
// edge set linearly, mirroring how small a mesh's edge count stays relative
// to lookups against it.
func (g *Graph) EdgeBetween(a, b uint64) (*Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, e := range g.Edges {
		if (e.SrcID == a && e.DstID == b) || (e.SrcID == b && e.DstID == a) {
			return e, true
		}
	}
	return nil, false
}

// AddEdge creates an edge between a and b with the given bandwidth and loss
// rate, and records the adjacency on both endpoints. It is a no-op — and
// returns the existing edge — if the pair is already adjacent.
func (g *Graph) AddEdge(a, b uint64, bandwidthMbps, lossRate float64) (*Edge, bool) {
	if existing, ok := g.EdgeBetween(a, b); ok {
		return existing, false
	}

	nodeA, okA := g.Node(a)
	nodeB, okB := g.Node(b)
	if !okA || !okB {
		return nil, false
	}

	e := NewEdge(a, b, bandwidthMbps, lossRate)
	g.mu.Lock()
	g.Edges[e.ID] = e
	g.mu.Unlock()

	nodeA.AddNeighbor(b)
	nodeB.AddNeighbor(a)
	return e, true
}

// Send walks a packet from src to dst hop by hop, consulting the routing
// table at each intermediate node, retrying a lossy edge send up to
// maxSendRetries times, and — for policies that opt in via WaitsForAck —
// pausing briefly after each hop for a matching ACK before continuing. A
// routing-table miss fails with no_route_found; nothing is recomputed.
func (g *Graph) Send(src, dst uint64, p *packet.Packet) SendResult {
	srcNode, okSrc := g.Node(src)
	_, okDst := g.Node(dst)
	if !okSrc || !okDst {
		return fail(OutcomeInvalidNodeID)
	}

	current := srcNode
	for current.ID != dst {
		nextHopID, ok := current.NextHop(dst)
		if !ok {
			return fail(OutcomeNoRouteFound)
		}

		edge, ok := g.EdgeBetween(current.ID, nextHopID)
		if !ok {
			return fail(OutcomeNodesNotConnected)
		}
		nextNode, ok := g.Node(nextHopID)
		if !ok {
			return fail(OutcomeInvalidNodeID)
		}

		result := g.sendHopWithRetry(edge, current, nextNode, p)
		if !result.Success {
			return result
		}

		current.RecordSent(p.ID)
		p.AddHop(nextNode.ID)

		if g.Policy != nil && g.Policy.WaitsForAck() {
			g.awaitAck(current, nextNode, p.SrcID)
		}

		// Currently unreachable: a queue-full drop is already returned
		// synchronously as OutcomeBufferFull by sendHopWithRetry above, and
		// nothing else appends to nextNode's dropped-packet list. Kept so a
		// future node-side drop (see OutcomeDroppedAtDestination) has
		// somewhere to surface without touching this loop again.
		if nextNode.WasDropped(p.ID) {
			return fail(OutcomeDroppedAtDestination)
		}
		current = nextNode
	}

	p.Delivered()
	return ok()
}

// sendHopWithRetry attempts a single edge hop, retrying only on the
// stochastic packet_loss outcome.
func (g *Graph) sendHopWithRetry(e *Edge, from, to *Node, p *packet.Packet) SendResult {
	var result SendResult
	for attempt := 0; attempt < maxSendRetries; attempt++ {
		result = e.SendAlongEdge(g.Transport, from, to, p)
		if result.Success || !result.Reason.Retryable() {
			return result
		}
		g.log.Debug("retrying lossy hop",
			zap.Uint64("from", from.ID), zap.Uint64("to", to.ID), zap.Int("attempt", attempt))
	}
	return fail(OutcomeMaxTries)
}

// awaitAck blocks briefly for `from` to observe an ACK that `to` emitted
// addressed to the packet's original source, bounded by ackWaitBudget so a
// missing ACK never hangs the send. Used only by the predictive WCETT-LB
// policy.
func (g *Graph) awaitAck(from, to *Node, originalSrc uint64) {
	deadline := time.Now().Add(ackWaitBudget)
	for time.Now().Before(deadline) {
		if from.HasAckFrom(to.ID, originalSrc) {
			return
		}
		time.Sleep(ackWaitPoll)
	}
}
