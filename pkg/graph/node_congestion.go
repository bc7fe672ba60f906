package graph

import "time"

// CongestionSnapshot is a read-only view of a node's congestion bookkeeping,
// returned by Node.Congestion for callers (metrics, monitor loop, tests)
// that need to inspect state without holding the node's lock.
type CongestionSnapshot struct {
	LastQueueSize       int
	LastSignal          float64
	LastChangeAt        time.Time
	Congested           bool
	ReportedCongestion  bool
	PredictedCongestion bool
	LastMulticast       time.Time
}

// Congestion returns a snapshot of the node's current congestion state.
func (n *Node) Congestion() CongestionSnapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	c := n.congestion
	return CongestionSnapshot{
		LastQueueSize:       c.lastQueueSize,
		LastSignal:          c.lastSignal,
		LastChangeAt:        c.lastChangeAt,
		Congested:           c.congested,
		ReportedCongestion:  c.reportedCongestion,
		PredictedCongestion: c.predictedCongestion,
		LastMulticast:       c.lastMulticast,
	}
}

// UpdateReactiveCongestion applies the reactive (WCETT-LB-Post) state
// transition: congested flips true the instant the ql/b signal crosses the
// threshold from below, flips false the instant it drops back below it, and
// a fresh false-to-true transition stamps the reported-congestion flag and
// timestamp that the path-update rule later checks for freshness.
func (n *Node) UpdateReactiveCongestion(signal, threshold float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.congestion.lastSignal = signal
	n.congestion.lastQueueSize = n.QueueLen()

	wasCongested := n.congestion.congested
	switch {
	case signal >= threshold && !wasCongested:
		n.congestion.congested = true
		n.congestion.reportedCongestion = true
		n.congestion.lastChangeAt = time.Now()
	case signal < threshold && wasCongested:
		n.congestion.congested = false
	}
}

// UpdatePredictedCongestion applies the predictive (WCETT-LB-Pre) state
// transition: predicted-congestion simply tracks whether the current ql/b
// signal is at or above the threshold. It returns whether the state changed
// from the prior tick, which the caller uses to decide whether a multicast
// is due.
func (n *Node) UpdatePredictedCongestion(signal, threshold float64) (changed bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.congestion.lastSignal = signal
	n.congestion.lastQueueSize = n.QueueLen()

	was := n.congestion.predictedCongestion
	now := signal >= threshold
	n.congestion.predictedCongestion = now
	return now != was
}

// MarkMulticast stamps the last-multicast time, used to force a periodic
// re-send. Advisory freshness is judged by each Advisory's own Timestamp.
func (n *Node) MarkMulticast() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.congestion.lastMulticast = time.Now()
}

// ReportedCongestionFresh reports whether this node's reported-congestion
// flag is set and its timestamp is within the given freshness window —
// the reactive path-update rule's per-node test.
func (n *Node) ReportedCongestionFresh(within time.Duration) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.congestion.reportedCongestion &&
		time.Since(n.congestion.lastChangeAt) < within

}

// PutAdvisory stores the latest advisory received from a neighbor, keyed by
// that neighbor's id.
func (n *Node) PutAdvisory(fromID uint64, adv Advisory) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.congestion.advisories[fromID] = adv
}

// LiveAdvisories returns the advisories in this node's inbox whose
// timestamp is within the given freshness window.
func (n *Node) LiveAdvisories(within time.Duration) map[uint64]Advisory {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[uint64]Advisory)
	for from, adv := range n.congestion.advisories {
		if time.Since(adv.Timestamp) < within {
			out[from] = adv
		}
	}
	return out
}
