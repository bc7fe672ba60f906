package graph

import (
	"math/rand"
	"sync/atomic"
)

// Edge is an undirected link between two nodes: stable id, endpoints,
// bandwidth, loss rate, and a channel label used by WCETT's worst-channel
// term.
//
// Invariant: a Graph holds exactly one Edge per unordered endpoint pair;
// Graph.AddEdge is a no-op if the pair is already adjacent.
type Edge struct {
	ID            uint64
	SrcID, DstID  uint64
	BandwidthMbps float64
	LossRate      float64
	Channel       int // drawn uniformly from {1,2,3} at creation

	active atomic.Bool
}

// NewEdge constructs an Edge with a fresh process-wide id and a randomly
// drawn channel label, active by default.
func NewEdge(src, dst uint64, bandwidthMbps, lossRate float64) *Edge {
	e := &Edge{
		ID:            nextEdgeID(),
		SrcID:         src,
		DstID:         dst,
		BandwidthMbps: bandwidthMbps,
		LossRate:      lossRate,
		Channel:       1 + rand.Intn(3),
	}
	e.active.Store(true)
	return e
}

// Active reports whether the edge currently carries traffic.
func (e *Edge) Active() bool {
	return e.active.Load()
}

// Deactivate marks the edge inactive. Subsequent sends across it fail with
// edge_inactive; path enumeration and HopCount skip it from that point on.
func (e *Edge) Deactivate() {
	e.active.Store(false)
}

// Activate restores the edge to service.
func (e *Edge) Activate() {
	e.active.Store(true)
}

// Other returns the endpoint of the edge that is not id. It is only
// meaningful when id is one of the edge's two endpoints.
func (e *Edge) Other(id uint64) uint64 {
	if e.SrcID == id {
		return e.DstID
	}
	return e.SrcID
}

// HasEndpoint reports whether id is one of the edge's two endpoints.
func (e *Edge) HasEndpoint(id uint64) bool {
	return e.SrcID == id || e.DstID == id
}
