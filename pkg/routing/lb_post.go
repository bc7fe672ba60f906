package routing

import (
	"time"

	"go.uber.org/zap"

	"github.com/meshwcett/simulator/pkg/graph"
	"github.com/meshwcett/simulator/pkg/metrics"
)

// WCETTLBPost is the reactive load-balanced policy: a transit node only
// reports itself as congested, and only after its ql/b signal has already
// crossed the threshold, and path updates fire off that after-the-fact
// signal.
type WCETTLBPost struct {
	PacketSize int
	MaxDepth   int
	cache      *PathCache
	log        *zap.Logger
}

var _ graph.LBPolicy = (*WCETTLBPost)(nil)

// NewWCETTLBPost builds a reactive load-balanced policy with its own path
// cache and logger.
func NewWCETTLBPost(log *zap.Logger) *WCETTLBPost {
	if log == nil {
		log = zap.NewNop()
	}
	return &WCETTLBPost{
		PacketSize: metrics.DefaultPacketSize,
		MaxDepth:   graph.DefaultMaxPathDepth,
		cache:      NewPathCache(DefaultPathCacheCapacity),
		log:        log,
	}
}

func (p *WCETTLBPost) Name() string      { return "wcett_lb_post" }
func (p *WCETTLBPost) WaitsForAck() bool { return false }

func (p *WCETTLBPost) packetSize() int {
	if p.PacketSize == 0 {
		return metrics.DefaultPacketSize
	}
	return p.PacketSize
}

// ComputeNextHop scores every simple path AllPaths enumerates (which already
// keeps Clients out of the interior) by WCETT-LB and caches the winner's
// full path alongside returning its first hop. It does not write the
// node's routing table.
func (p *WCETTLBPost) ComputeNextHop(g *graph.Graph, src, dst uint64) (uint64, bool) {
	if src == dst {
		return 0, false
	}
	best, ok := p.bestAmong(g, g.AllPaths(src, dst, p.depth()))
	if !ok {
		return 0, false
	}
	p.cache.Put(src, dst, best)
	return best[1], true
}

func (p *WCETTLBPost) depth() int {
	if p.MaxDepth == 0 {
		return graph.DefaultMaxPathDepth
	}
	return p.MaxDepth
}

func (p *WCETTLBPost) bestAmong(g *graph.Graph, candidates [][]uint64) ([]uint64, bool) {
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
func (p *WCETTLBPost) CachedPath(src, dst uint64) ([]uint64, bool) {
	return p.cache.Get(src, dst)
}

// UpdateCongestion recomputes nodeID's reactive congestion flag from its
// current ql/b signal. Intended to be called once per congestion-monitor
// tick, ahead of that tick's per-destination UpdatePath pass.
func (p *WCETTLBPost) UpdateCongestion(g *graph.Graph, nodeID uint64) {
	node, ok := g.Node(nodeID)
	if !ok {
		return
	}
	signal := metrics.QueueBandwidthTerm(g, node)
	node.UpdateReactiveCongestion(signal, CongestionThreshold)
}

// AlternativePath re-scores every simple path src->dst that avoids every
// node in avoid, returning the WCETT-LB-minimizing survivor.
func (p *WCETTLBPost) AlternativePath(g *graph.Graph, src, dst uint64, avoid map[uint64]bool) ([]uint64, bool) {
	candidates := g.AllPaths(src, dst, p.depth())
	filtered := candidates[:0]
	for _, path := range candidates {
		if !intersectsInterior(path, avoid) {
			filtered = append(filtered, path)
		}
	}
	return p.bestAmong(g, filtered)
}

// UpdatePath runs the reactive congestion-feedback rule for (nodeID,
// destID): if any interior node of the cached path has a fresh reported
// congestion flag, look for an alternative that avoids those nodes, and
// commit to it only if its WCETT-LB beats the current path's by more than
// LoadBalanceThreshold.
func (p *WCETTLBPost) UpdatePath(g *graph.Graph, nodeID, destID uint64) {
	node, ok := g.Node(nodeID)
	if !ok {
		return
	}
	currentPath, ok := p.cache.Get(nodeID, destID)
	if !ok || len(currentPath) < 2 {
		return
	}

	congested := map[uint64]bool{}
	for _, interiorID := range currentPath[1 : len(currentPath)-1] {
		interior, ok := g.Node(interiorID)
		if !ok {
			continue
		}
		if interior.ReportedCongestionFresh(ReactiveCongestionFreshness * time.Second) {
			congested[interiorID] = true
		}
	}
	if len(congested) == 0 {
		return
	}

	currentMetric := metrics.WCETTLB(g, currentPath, p.packetSize())
	newPath, found := p.AlternativePath(g, nodeID, destID, congested)
	if !found || pathsEqual(newPath, currentPath) {
		p.log.Warn("no alternative path avoiding congested nodes",
			zap.Uint64("node", nodeID), zap.Uint64("dest", destID))
		return
	}

	newMetric := metrics.WCETTLB(g, newPath, p.packetSize())
	if currentMetric-newMetric > LoadBalanceThreshold {
		p.cache.Put(nodeID, destID, newPath)
		node.SetNextHop(destID, newPath[1])
		p.log.Info("switched path",
			zap.Uint64("node", nodeID), zap.Uint64("dest", destID),
			zap.Uint64s("from", currentPath), zap.Uint64s("to", newPath))
	}
}

func intersectsInterior(path []uint64, avoid map[uint64]bool) bool {
	if len(path) <= 2 {
		return false
	}
	for _, id := range path[1 : len(path)-1] {
		if avoid[id] {
			return true
		}
	}
	return false
}

func pathsEqual(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
