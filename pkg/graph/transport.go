package graph

import (
	"math/rand"
	"time"

	"github.com/meshwcett/simulator/pkg/packet"
)

// defaultDelayScale tunes how much simulated transmission time an edge send
// actually sleeps for. Kept as configuration rather than baked-in semantics,
// since the scale factor was tuned empirically rather than derived.
const defaultDelayScale = 0.01

// TransportConfig holds the tunable constants of the edge transport model.
type TransportConfig struct {
	// DelayScale multiplies size/bandwidth to get the simulated
	// transmission sleep, in seconds per byte-per-Mbps.
	DelayScale float64
}

// DefaultTransportConfig returns the empirically tuned defaults.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{DelayScale: defaultDelayScale}
}

// SendAlongEdge validates the edge is active and that src/dst match one of
// its two orientations, rolls for stochastic loss, sleeps proportionally to
// size/bandwidth, then attempts delivery into dst's inbound queue.
func (e *Edge) SendAlongEdge(cfg TransportConfig, src, dst *Node, p *packet.Packet) SendResult {
	if !e.Active() {
		return fail(OutcomeEdgeInactive)
	}
	if !e.HasEndpoint(src.ID) {
		return fail(OutcomeInvalidSrc)
	}
	if !e.HasEndpoint(dst.ID) {
		return fail(OutcomeInvalidDst)
	}
	if rand.Float64() < e.LossRate {
		return fail(OutcomePacketLoss)
	}

	tx := float64(p.Size) / e.BandwidthMbps * cfg.DelayScale
	if tx > 0 {
		time.Sleep(time.Duration(tx * float64(time.Second)))
	}

	if !dst.ReceiveMessage(p, src.ID) {
		return fail(OutcomeBufferFull)
	}
	return ok()
}
