package graph

import "sync/atomic"

var (
	nodeIDCounter uint64
	edgeIDCounter uint64
)

func nextNodeID() uint64 {
	return atomic.AddUint64(&nodeIDCounter, 1) - 1
}

func nextEdgeID() uint64 {
	return atomic.AddUint64(&edgeIDCounter, 1) - 1
}

// ResetIDs zeroes the node and edge id counters. Intended for test
// isolation between independent topology builds in the same process; never
// call it while a Graph from a previous build is still in use.
func ResetIDs() {
	atomic.StoreUint64(&nodeIDCounter, 0)
	atomic.StoreUint64(&edgeIDCounter, 0)
}
