package meshrt

import (
	"time"

	"go.uber.org/zap"

	"github.com/meshwcett/simulator/pkg/graph"
	"github.com/meshwcett/simulator/pkg/routing"
)

// monitorTick is the congestion-monitor worker's polling interval.
const monitorTick = time.Second

// monitorCongestion is a node's congestion-monitor worker. Every tick it
// refreshes the node's congestion state in whatever way its policy defines
// (reactive observation or predictive multicast), then runs the policy's
// per-destination path-update rule over every entry currently in the
// node's routing table. Policies that aren't load-balanced (HopCount,
// WCETT) make this tick a no-op beyond the liveness poll.
func monitorCongestion(g *graph.Graph, n *graph.Node, log *zap.Logger) {
	for n.Running() {
		time.Sleep(monitorTick)
		if !n.Running() {
			return
		}
		tick(g, n)
	}
}

func tick(g *graph.Graph, n *graph.Node) {
	switch p := g.Policy.(type) {
	case *routing.WCETTLBPost:
		p.UpdateCongestion(g, n.ID)
		for _, dest := range n.RoutingDestinations() {
			p.UpdatePath(g, n.ID, dest)
		}
	case *routing.WCETTLBPre:
		p.Predict(g, n.ID)
		for _, dest := range n.RoutingDestinations() {
			p.UpdatePath(g, n.ID, dest)
		}
	}
}
