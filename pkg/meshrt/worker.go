// Package meshrt owns the concurrent runtime every node runs while a
// simulation is in flight: one packet-processing worker and one
// congestion-monitor worker per node, started and stopped by Graph-level
// lifecycle calls. It sits above package graph rather than inside it so
// that Node never needs a back-reference to the Graph that drives it.
package meshrt

import (
	"time"

	"go.uber.org/zap"

	"github.com/meshwcett/simulator/pkg/graph"
	"github.com/meshwcett/simulator/pkg/packet"
)

const (
	// dequeueTimeout bounds how long a processing worker blocks on an
	// empty queue before re-checking its running flag.
	dequeueTimeout = time.Second

	// queueProcessTime is how long a router-class node takes to process
	// one packet off its queue; gateways process at a small fraction of
	// this to model their beefier uplink hardware.
	queueProcessTime    = 50 * time.Millisecond
	gatewayProcessScale = 0.01
)

// processPackets is a node's packet-processing worker: it drains the
// node's inbound queue, appends each packet to the received list, pays the
// role-dependent processing delay, and — for DATA packets — emits an ACK
// straight back to the sender.
func processPackets(g *graph.Graph, n *graph.Node, log *zap.Logger) {
	for n.Running() {
		select {
		case item := <-n.Queue:
			handleItem(g, n, item, log)
		case <-time.After(dequeueTimeout):
		}
	}
}

func handleItem(g *graph.Graph, n *graph.Node, item graph.QueueItem, log *zap.Logger) {
	n.AppendReceived(item.Packet)

	if n.Role == graph.Gateway {
		time.Sleep(time.Duration(float64(queueProcessTime) * gatewayProcessScale))
	} else {
		time.Sleep(queueProcessTime)
	}

	if item.Packet.Kind == packet.DataKind {
		emitAck(g, n, item, log)
	}
}

// emitAck builds an ACK addressed to the DATA packet's original source and
// hands it directly to the immediate sender's ReceiveMessage — one hop
// backward, not routed through the mesh. ReceiveMessage appends ACKs to the
// received list without queueing them.
func emitAck(g *graph.Graph, n *graph.Node, item graph.QueueItem, log *zap.Logger) {
	sender, ok := g.Node(item.SenderID)
	if !ok {
		return
	}
	ack := packet.NewAck(n.ID, item.Packet.SrcID)
	sender.ReceiveMessage(ack, n.ID)
	log.Debug("emitted ack",
		zap.Uint64("node", n.ID), zap.Uint64("to", sender.ID), zap.Uint64("packet", item.Packet.ID))
}
