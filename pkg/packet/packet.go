// Package packet implements the transit record that flows through the mesh
// simulator: a monotonic id, its route-taken trace, and the timestamps that
// let the harness compute end-to-end transit time.
package packet

import (
	"sync/atomic"
	"time"
)

// Kind distinguishes a data payload from its acknowledgment.
type Kind string

const (
	// DataKind is an ordinary payload packet injected by the traffic
	// generator.
	DataKind Kind = "DATA"
	// AckKind is emitted by a node's processing worker in response to a
	// DATA packet and consumed by the original sender.
	AckKind Kind = "ACK"
)

// AckSize is the fixed byte size of an acknowledgment packet.
const AckSize = 64

var idCounter uint64

// NextID returns a process-wide monotonic packet id. It is safe to call
// concurrently from multiple sender goroutines.
func NextID() uint64 {
	return atomic.AddUint64(&idCounter, 1) - 1
}

// ResetIDs zeroes the global packet id counter. Intended for test isolation
// between independent simulation runs in the same process.
func ResetIDs() {
	atomic.StoreUint64(&idCounter, 0)
}

// Packet is a transit record for a single DATA or ACK send.
//
// Invariant: RouteTaken[0] == SrcID, and DeliveredAt is non-zero if and only
// if the last element of RouteTaken equals DstID.
type Packet struct {
	ID      uint64
	SrcID   uint64
	DstID   uint64
	Size    int
	Kind    Kind
	Created time.Time

	// DeliveredAt is set on terminal receipt at the destination.
	DeliveredAt time.Time

	// RouteTaken is appended to on each successful hop, starting with Src.
	RouteTaken []uint64
}

// NewData creates a DATA packet from src to dst with the given payload size
// in bytes. The route trace starts with src, per the invariant above.
func NewData(src, dst uint64, size int) *Packet {
	return &Packet{
		ID:         NextID(),
		SrcID:      src,
		DstID:      dst,
		Size:       size,
		Kind:       DataKind,
		Created:    time.Now(),
		RouteTaken: []uint64{src},
	}
}

// NewAck creates an acknowledgment packet addressed back to the sender of
// the DATA packet being acknowledged. Acks carry no payload beyond AckSize
// and are never forwarded hop-by-hop by the core: they are handed directly
// to the sender, which records them in its received list without queueing.
func NewAck(from, to uint64) *Packet {
	return &Packet{
		ID:      NextID(),
		SrcID:   from,
		DstID:   to,
		Size:    AckSize,
		Kind:    AckKind,
		Created: time.Now(),
	}
}

// Delivered marks the packet as having arrived at its final destination.
func (p *Packet) Delivered() {
	p.DeliveredAt = time.Now()
}

// IsDelivered reports whether the packet has been marked delivered.
func (p *Packet) IsDelivered() bool {
	return !p.DeliveredAt.IsZero()
}

// TransitTime returns the elapsed time between creation and delivery. It is
// only meaningful once IsDelivered reports true.
func (p *Packet) TransitTime() time.Duration {
	if !p.IsDelivered() {
		return 0
	}
	return p.DeliveredAt.Sub(p.Created)
}

// AddHop appends a node id to the route trace, recording a successful hop.
func (p *Packet) AddHop(nodeID uint64) {
	p.RouteTaken = append(p.RouteTaken, nodeID)
}
