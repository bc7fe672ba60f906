package meshrt

import (
	"time"

	"go.uber.org/zap"

	"github.com/meshwcett/simulator/pkg/graph"
)

// stopJoinTimeout is how long StopNetwork sleeps, once for the whole
// network, to let every node's workers notice the running flag has dropped.
const stopJoinTimeout = 2 * time.Second

// StartNode starts a single node's processing and congestion-monitor
// workers. It is a no-op, reporting already_running, if the node is
// already started.
func StartNode(g *graph.Graph, n *graph.Node, log *zap.Logger) graph.SendResult {
	if log == nil {
		log = zap.NewNop()
	}
	if !n.MarkStarted() {
		return graph.SendResult{Success: false, Reason: graph.OutcomeAlreadyRunning}
	}
	go processPackets(g, n, log)
	go monitorCongestion(g, n, log)
	return graph.SendResult{Success: true, Reason: graph.OutcomeSuccess}
}

// EnsureRunning starts the node's workers if they are not already running,
// silently no-op'ing otherwise. Used by the harness before injecting a
// packet whose src or dst may not have been started yet.
func EnsureRunning(g *graph.Graph, nodeID uint64, log *zap.Logger) {
	n, ok := g.Node(nodeID)
	if !ok {
		return
	}
	StartNode(g, n, log)
}

// StartNetwork starts every node in the graph.
func StartNetwork(g *graph.Graph, log *zap.Logger) {
	for _, id := range g.NodeIDs() {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		StartNode(g, n, log)
	}
}

// StopNetwork flips every node's running flag and then sleeps for
// stopJoinTimeout before returning; it does not check whether the workers
// have actually exited.
func StopNetwork(g *graph.Graph) {
	for _, id := range g.NodeIDs() {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		n.SetRunning(false)
	}
	time.Sleep(stopJoinTimeout)
}
