package routing

import (
	"time"

	"go.uber.org/zap"

	"github.com/meshwcett/simulator/pkg/graph"
	"github.com/meshwcett/simulator/pkg/metrics"
)

// WCETTLBPre is the predictive load-balanced policy: every node tracks its
// own ql/b signal and, on a state change or a forced periodic tick,
// proactively multicasts its current per-destination WCETT-LB scores to
// every node that routes through it, so children can switch ahead of an
// actual congestion event rather than after one.
type WCETTLBPre struct {
	PacketSize int
	MaxDepth   int
	cache      *PathCache
	log        *zap.Logger
}

var _ graph.LBPolicy = (*WCETTLBPre)(nil)

// NewWCETTLBPre builds a predictive load-balanced policy with its own path
// cache and logger.
func NewWCETTLBPre(log *zap.Logger) *WCETTLBPre {
	if log == nil {
		log = zap.NewNop()
	}
	return &WCETTLBPre{
		PacketSize: metrics.DefaultPacketSize,
		MaxDepth:   graph.DefaultMaxPathDepth,
		cache:      NewPathCache(DefaultPathCacheCapacity),
		log:        log,
	}
}

func (p *WCETTLBPre) Name() string      { return "wcett_lb_pre" }
func (p *WCETTLBPre) WaitsForAck() bool { return true }

func (p *WCETTLBPre) packetSize() int {
	if p.PacketSize == 0 {
		return metrics.DefaultPacketSize
	}
	return p.PacketSize
}

func (p *WCETTLBPre) depth() int {
	if p.MaxDepth == 0 {
		return graph.DefaultMaxPathDepth
	}
	return p.MaxDepth
}

// ComputeNextHop scores every Client-respecting valid path by WCETT-LB and
// caches the winner.
func (p *WCETTLBPre) ComputeNextHop(g *graph.Graph, src, dst uint64) (uint64, bool) {
	if src == dst {
		return 0, false
	}
	best, ok := p.bestAmong(g, validCandidates(g, src, dst, p.depth()))
	if !ok {
		return 0, false
	}
	p.cache.Put(src, dst, best)
	return best[1], true
}

func (p *WCETTLBPre) bestAmong(g *graph.Graph, candidates [][]uint64) ([]uint64, bool) {
	var best []uint64
	bestScore := 0.0
	for _, path := range candidates {
		if len(path) < 2 {
			continue
		}
		if _, ok := metrics.PathEdges(g, path); !ok {
			continue
		}
		score := metrics.WCETTLB(g, path, p.packetSize())
		if best == nil || score < bestScore {
			best = path
			bestScore = score
		}
	}
	return best, best != nil
}

// CachedPath returns the full path currently cached for (src,dst).
func (p *WCETTLBPre) CachedPath(src, dst uint64) ([]uint64, bool) {
	return p.cache.Get(src, dst)
}

// AlternativePath re-scores every Client-respecting path src->dst that
// avoids every node in avoid.
func (p *WCETTLBPre) AlternativePath(g *graph.Graph, src, dst uint64, avoid map[uint64]bool) ([]uint64, bool) {
	candidates := validCandidates(g, src, dst, p.depth())
	filtered := candidates[:0]
	for _, path := range candidates {
		if !intersectsInterior(path, avoid) {
			filtered = append(filtered, path)
		}
	}
	return p.bestAmong(g, filtered)
}

// Predict recomputes nodeID's predicted-congestion flag from its current
// ql/b signal and, if the flag just changed or the force-multicast
// interval has elapsed, pushes a fresh advisory to every node that
// currently routes through it. Intended to be called once per
// congestion-monitor tick.
func (p *WCETTLBPre) Predict(g *graph.Graph, nodeID uint64) {
	node, ok := g.Node(nodeID)
	if !ok {
		return
	}
	signal := metrics.QueueBandwidthTerm(g, node)
	changed := node.UpdatePredictedCongestion(signal, CongestionThreshold)

	snap := node.Congestion()
	forceDue := snap.LastMulticast.IsZero() ||
		time.Since(snap.LastMulticast) >= AdvisoryForceInterval*time.Second

	if !changed && !forceDue {
		return
	}
	node.MarkMulticast()
	p.multicast(g, nodeID, changed)
}

func (p *WCETTLBPre) multicast(g *graph.Graph, nodeID uint64, stateChanged bool) {
	node, ok := g.Node(nodeID)
	if !ok {
		return
	}

	entries := make([]graph.AdvisoryEntry, 0)
	for _, destID := range node.RoutingDestinations() {
		path, ok := p.cache.Get(nodeID, destID)
		if !ok {
			continue
		}
		edges, ok := metrics.PathEdges(g, path)
		if !ok || len(edges) == 0 {
			continue
		}
		entries = append(entries, graph.AdvisoryEntry{
			Dest:   destID,
			Path:   path,
			Metric: metrics.WCETTLB(g, path, p.packetSize()),
		})
	}

	advisory := graph.Advisory{
		Entries:      entries,
		Timestamp:    time.Now(),
		StateChanged: stateChanged,
	}

	for _, childID := range childNodes(g, nodeID) {
		child, ok := g.Node(childID)
		if !ok {
			continue
		}
		child.PutAdvisory(nodeID, advisory)
	}
}

// childNodes returns every node whose routing table names nodeID as next
// hop for at least one destination.
func childNodes(g *graph.Graph, nodeID uint64) []uint64 {
	var children []uint64
	for _, id := range g.NodeIDs() {
		if id == nodeID {
			continue
		}
		node, ok := g.Node(id)
		if !ok {
			continue
		}
		for _, dest := range node.RoutingDestinations() {
			if hop, ok := node.NextHop(dest); ok && hop == nodeID {
				children = append(children, id)
				break
			}
		}
	}
	return children
}

// UpdatePath runs the predictive path-update rule for (nodeID, destID): if
// the node's advisory inbox holds a live entry, re-enumerate every
// Client-respecting path and switch to the best-scoring alternative, but
// only when it beats the current path's WCETT-LB by at least
// LoadBalanceThreshold.
func (p *WCETTLBPre) UpdatePath(g *graph.Graph, nodeID, destID uint64) {
	node, ok := g.Node(nodeID)
	if !ok {
		return
	}

	live := node.LiveAdvisories(AdvisoryFreshness * time.Second)
	if len(live) == 0 {
		return
	}
	stateChanged := false
	for _, adv := range live {
		if adv.StateChanged {
			stateChanged = true
		}
	}

	currentPath, ok := p.cache.Get(nodeID, destID)
	if !ok || len(currentPath) < 2 {
		return
	}
	currentMetric := metrics.WCETTLB(g, currentPath, p.packetSize())

	candidates := validCandidates(g, nodeID, destID, p.depth())
	var best []uint64
	bestScore := 0.0
	for _, path := range candidates {
		if pathsEqual(path, currentPath) {
			continue
		}
		if _, ok := metrics.PathEdges(g, path); !ok {
			continue
		}
		score := metrics.WCETTLB(g, path, p.packetSize())
		if best == nil || score < bestScore {
			best = path
			bestScore = score
		}
	}
	if best == nil {
		p.log.Warn("no alternative path found",
			zap.Uint64("node", nodeID), zap.Uint64("dest", destID))
		return
	}

	if currentMetric-bestScore >= LoadBalanceThreshold {
		p.cache.Put(nodeID, destID, best)
		node.SetNextHop(destID, best[1])
		p.log.Info("proactively switched path",
			zap.Uint64("node", nodeID), zap.Uint64("dest", destID),
			zap.Uint64s("from", currentPath), zap.Uint64s("to", best))
	} else if stateChanged {
		p.log.Warn("failed to find alternative with sufficient improvement",
			zap.Uint64("node", nodeID), zap.Uint64("dest", destID))
	}
}
