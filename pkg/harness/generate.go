package harness

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/meshwcett/simulator/pkg/graph"
	"github.com/meshwcett/simulator/pkg/meshrt"
	"github.com/meshwcett/simulator/pkg/packet"
)

const (
	// defaultConcurrencyCap bounds in-flight per-packet forwarding
	// goroutines for large runs.
	defaultConcurrencyCap = 50

	// defaultPacketSize is the DATA payload size the generator injects.
	defaultPacketSize = 1024

	// stallSleep is how long the generator waits before re-checking the
	// concurrency cap once it is full.
	stallSleep = time.Millisecond
)

// PacketOutcome is one injected packet's terminal record: whether it
// succeeded, why not if it didn't, and — when delivered — its transit
// time, everything the end-of-run aggregation in aggregate.go needs.
type PacketOutcome struct {
	PacketID    uint64
	Success     bool
	Reason      graph.Outcome
	Size        int
	TransitTime time.Duration
	Delivered   bool
}

// endpoints returns every current Client node id (candidate sources) and
// every current Gateway node id (candidate destinations). A graph with no
// gateway yields an empty gateways slice, which Generate reports as a failure
// before any traffic runs.
func endpoints(g *graph.Graph) (clients, gateways []uint64) {
	for _, id := range g.NodeIDs() {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		switch n.Role {
		case graph.Client:
			clients = append(clients, id)
		case graph.Gateway:
			gateways = append(gateways, id)
		}
	}
	return clients, gateways
}

// Generate injects DATA packets at a rate-paced rate of loadPerSecond
// packets/second for the given duration, one goroutine per packet bounded
// by cfg.ConcurrencyCap in-flight at once. Each packet picks a uniform
// random Client source and Gateway destination; the actual hop-by-hop
// forwarding, retry, and ACK-wait logic
// already lives in graph.Graph.Send, so this loop's job is purely the
// pacing and endpoint selection around it.
func Generate(g *graph.Graph, cfg *Config, loadPerSecond float64, duration time.Duration, log *zap.Logger) ([]PacketOutcome, error) {
	if log == nil {
		log = zap.NewNop()
	}
	clients, gateways := endpoints(g)
	if len(gateways) == 0 {
		return nil, errNoGateway
	}
	if len(clients) == 0 {
		return nil, errNoClient
	}

	concurrencyCap := cfg.ConcurrencyCap
	if concurrencyCap <= 0 {
		concurrencyCap = defaultConcurrencyCap
	}
	size := cfg.PacketSize
	if size <= 0 {
		size = defaultPacketSize
	}

	sem := make(chan struct{}, concurrencyCap)
	var mu sync.Mutex
	var outcomes []PacketOutcome
	var wg sync.WaitGroup

	interval := time.Duration(float64(time.Second) / loadPerSecond)
	nextEmit := time.Now()
	deadline := time.Now().Add(duration)

	for time.Now().Before(deadline) {
		now := time.Now()
		if now.Before(nextEmit) {
			time.Sleep(nextEmit.Sub(now))
			continue
		}
		select {
		case sem <- struct{}{}:
		default:
			time.Sleep(stallSleep)
			continue
		}
		nextEmit = nextEmit.Add(interval)

		src := clients[rand.Intn(len(clients))]
		dst := gateways[rand.Intn(len(gateways))]

		wg.Add(1)
		go func(src, dst uint64) {
			defer wg.Done()
			defer func() { <-sem }()

			meshrt.EnsureRunning(g, src, log)
			meshrt.EnsureRunning(g, dst, log)

			p := packet.NewData(src, dst, size)
			result := g.Send(src, dst, p)

			o := PacketOutcome{
				PacketID: p.ID,
				Success:  result.Success,
				Reason:   result.Reason,
				Size:     p.Size,
			}
			if p.IsDelivered() {
				o.Delivered = true
				o.TransitTime = p.TransitTime()
			}

			mu.Lock()
			outcomes = append(outcomes, o)
			mu.Unlock()

			log.Debug("packet outcome",
				zap.Uint64("packet", p.ID), zap.Uint64("src", src), zap.Uint64("dst", dst),
				zap.Bool("success", o.Success), zap.String("reason", string(o.Reason)))
		}(src, dst)
	}

	wg.Wait()
	return outcomes, nil
}
