package graph

// Policy is the routing-protocol trait every routing algorithm implements.
// Graph holds the
// active policy as this interface so that graph — which needs to populate
// and consult routing tables — never imports the concrete routing package;
// the concrete policies live in package routing and import graph instead.
type Policy interface {
	// Name identifies the policy for logging and result files.
	Name() string

	// ComputeNextHop returns the next hop a packet at src should take to
	// reach dst, used to pre-populate routing tables before traffic
	// starts. Graph.Send never calls it; a missing table entry fails the
	// send with no_route_found.
	ComputeNextHop(g *Graph, src, dst uint64) (nextHop uint64, ok bool)

	// WaitsForAck reports whether Graph.Send should pause after each hop
	// for a matching ACK before proceeding — true only for the predictive
	// WCETT-LB variant.
	WaitsForAck() bool
}

// LBPolicy is implemented additionally by the two WCETT-LB variants: they
// cache full paths and can compute an alternative that avoids a given set
// of nodes, and they participate in the per-tick congestion feedback loop.
type LBPolicy interface {
	Policy

	// AlternativePath re-enumerates paths src->dst, discarding any whose
	// interior intersects avoid, and returns the argmin by WCETT-LB.
	AlternativePath(g *Graph, src, dst uint64, avoid map[uint64]bool) ([]uint64, bool)

	// UpdatePath is the per-(node,dest) path-update rule invoked once per
	// congestion-monitor tick.
	UpdatePath(g *Graph, nodeID, destID uint64)

	// CachedPath returns the full node-id path currently cached for
	// (src,dst), if any.
	CachedPath(src, dst uint64) ([]uint64, bool)
}
