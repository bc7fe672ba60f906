package graph

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/meshwcett/simulator/pkg/packet"
)

// Role classifies a node's position in the mesh.
type Role int

const (
	// Gateway (IGW) terminates traffic originating from Clients.
	Gateway Role = iota
	// Router (MR) is an interior forwarding node.
	Router
	// Client (C) is a leaf; it may only appear as a path endpoint.
	Client
)

func (r Role) String() string {
	switch r {
	case Gateway:
		return "Gateway"
	case Router:
		return "Router"
	case Client:
		return "Client"
	default:
		return "Unknown"
	}
}

// bufferCapacity returns the role-dependent bound on a node's inbound queue.
// Gateways absorb far more concurrent traffic than interior routers; roles
// with no explicit entry fall back to the router capacity.
func bufferCapacity(r Role) int {
	switch r {
	case Gateway:
		return 150
	case Router:
		return 75
	default:
		return 75
	}
}

// DroppedPacket records a packet that a node refused or discarded, along
// with why.
type DroppedPacket struct {
	PacketID uint64
	SrcID    uint64
	DstID    uint64
	At       time.Time
	Reason   string
}

// Advisory is a WCETT-LB congestion notice multicast by a predictive-variant
// node to its children: one metric observation per (dst, path) pair the
// sender currently routes through itself.
type Advisory struct {
	Entries      []AdvisoryEntry
	Timestamp    time.Time
	StateChanged bool
}

// AdvisoryEntry is a single (destination, path, metric) tuple inside an
// Advisory.
type AdvisoryEntry struct {
	Dest   uint64
	Path   []uint64
	Metric float64
}

// congestionState holds the reactive and predictive congestion bookkeeping
// a node tracks for the load-balanced routing variants. It is guarded by
// Node.mu.
type congestionState struct {
	lastQueueSize      int
	lastSignal         float64
	lastChangeAt       time.Time
	congested          bool
	reportedCongestion bool

	predictedCongestion bool
	lastMulticast       time.Time

	// advisories is keyed by the neighbor id that sent the advisory.
	advisories map[uint64]Advisory
}

// QueueItem is what flows through a Node's inbound channel: the packet plus
// the id of whichever node handed it off.
type QueueItem struct {
	Packet   *packet.Packet
	SenderID uint64
}

// Node is a mesh participant: a stable id, a role, adjacency, a routing
// table, a bounded inbound queue, and the congestion/bookkeeping state the
// runtime workers and routing policies mutate while the simulation runs.
//
// Node intentionally holds no reference back to its owning Graph: callers
// pass the Graph explicitly to any method that needs to look at other nodes
// or edges.
type Node struct {
	ID        uint64
	Role      Role
	Neighbors []uint64 // insertion order from topology construction

	Queue chan QueueItem

	running atomic.Bool

	mu sync.RWMutex

	routingTable map[uint64]uint64 // dest id -> next-hop neighbor id
	congestion   congestionState

	received       []*packet.Packet
	sentTimestamps map[uint64]time.Time
	dropped        []DroppedPacket
}

// NewNode constructs a Node of the given role with a fresh process-wide id.
func NewNode(role Role) *Node {
	return &Node{
		ID:             nextNodeID(),
		Role:           role,
		Neighbors:      nil,
		Queue:          make(chan QueueItem, bufferCapacity(role)),
		routingTable:   make(map[uint64]uint64),
		sentTimestamps: make(map[uint64]time.Time),
		congestion: congestionState{
			advisories: make(map[uint64]Advisory),
		},
	}
}

// QueueLen reports the current number of items buffered in the node's
// inbound queue. This never exceeds the node's role-specific capacity,
// which holds automatically because Queue is a fixed-capacity buffered
// channel.
func (n *Node) QueueLen() int {
	return len(n.Queue)
}

// QueueCap returns the node's configured queue capacity.
func (n *Node) QueueCap() int {
	return cap(n.Queue)
}

// AddNeighbor records an adjacency in insertion order. Called once by
// Graph.AddEdge; never mutated afterward except by deactivation, which
// leaves adjacency untouched (an inactive edge is still a neighbor, just an
// unusable one — path enumeration skips it by checking edge.Active, not by
// removing the neighbor).
func (n *Node) AddNeighbor(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Neighbors = append(n.Neighbors, id)
}

// NeighborList returns a snapshot of the node's adjacency in insertion
// order.
func (n *Node) NeighborList() []uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]uint64, len(n.Neighbors))
	copy(out, n.Neighbors)
	return out
}

// NextHop returns the routing table's next hop for dest, if any.
//
// This read is not serialized against a concurrent write by the owning
// node's congestion-monitor worker; a mid-flight packet may observe either
// the old or new entry, and the system tolerates that as long as whatever
// it observes is a valid neighbor id.
func (n *Node) NextHop(dest uint64) (uint64, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	hop, ok := n.routingTable[dest]
	return hop, ok
}

// SetNextHop writes a routing table entry. The single writer is either the
// policy's initial population pass or the owning node's congestion-monitor
// worker.
func (n *Node) SetNextHop(dest, nextHop uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routingTable[dest] = nextHop
}

// RoutingDestinations returns a snapshot of the destinations currently
// present in the routing table, for the monitor loop's per-destination
// path-update pass.
func (n *Node) RoutingDestinations() []uint64 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]uint64, 0, len(n.routingTable))
	for dest := range n.routingTable {
		out = append(out, dest)
	}
	return out
}

// AppendReceived records a packet as received by this node (used for both
// DATA delivery bookkeeping and ACK arrival tracking).
func (n *Node) AppendReceived(p *packet.Packet) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.received = append(n.received, p)
}

// HasAckFrom reports whether an ACK matching (from, to) is present in the
// node's received list — used by the predictive variant's bounded ACK wait.
func (n *Node) HasAckFrom(from, to uint64) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, p := range n.received {
		if p.Kind == packet.AckKind && p.SrcID == from && p.DstID == to {
			return true
		}
	}
	return false
}

// ClearAcks drops any ACKs already queued in the received list, so a fresh
// wait for the next hop's ACK does not observe a stale one.
func (n *Node) ClearAcks() {
	n.mu.Lock()
	defer n.mu.Unlock()
	filtered := n.received[:0]
	for _, p := range n.received {
		if p.Kind != packet.AckKind {
			filtered = append(filtered, p)
		}
	}
	n.received = filtered
}

// RecordSent stamps the time a packet left this node on its way to the next
// hop.
func (n *Node) RecordSent(packetID uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sentTimestamps[packetID] = time.Now()
}

// RecordDrop appends a dropped-packet bookkeeping entry.
func (n *Node) RecordDrop(d DroppedPacket) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dropped = append(n.dropped, d)
}

// WasDropped reports whether the given packet id is in this node's
// dropped-packet list — used to detect dropped_at_destination at the end
// of a hop-by-hop send.
func (n *Node) WasDropped(packetID uint64) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, d := range n.dropped {
		if d.PacketID == packetID {
			return true
		}
	}
	return false
}
