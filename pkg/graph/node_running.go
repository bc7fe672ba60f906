package graph

// Running reports whether the node's workers are (or should be) active.
func (n *Node) Running() bool {
	return n.running.Load()
}

// SetRunning flips the running flag. The processing and congestion-monitor
// workers poll this at roughly 1s granularity; setting it false causes both
// to observe the change and exit within one queue-read timeout.
func (n *Node) SetRunning(v bool) {
	n.running.Store(v)
}

// MarkStarted sets the running flag if not already set, returning false if
// the node was already running, so callers can no-op a duplicate start.
func (n *Node) MarkStarted() bool {
	return n.running.CompareAndSwap(false, true)
}
