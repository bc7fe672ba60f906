package graph

import (
	"time"

	"github.com/meshwcett/simulator/pkg/packet"
)

// ReceiveMessage is the receive path invoked by a sending edge. ACKs bypass
// the queue entirely — they
// must never be dropped by buffer pressure, since senders block waiting for
// them — and are appended straight to the received list. DATA packets are
// offered to the bounded inbound queue with a non-blocking send; if the
// queue is full the packet is dropped with reason "buffer_full" and
// recorded in the node's dropped-packet list.
func (n *Node) ReceiveMessage(p *packet.Packet, senderID uint64) bool {
	if p.Kind == packet.AckKind {
		n.AppendReceived(p)
		return true
	}

	select {
	case n.Queue <- QueueItem{Packet: p, SenderID: senderID}:
		return true
	default:
		n.RecordDrop(DroppedPacket{
			PacketID: p.ID,
			SrcID:    p.SrcID,
			DstID:    p.DstID,
			At:       time.Now(),
			Reason:   "buffer_full",
		})
		return false
	}
}
