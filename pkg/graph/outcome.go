package graph

// Outcome is the terminal-result taxonomy a single-hop edge send or a full
// graph-level send resolves to exactly one of.
type Outcome string

const (
	// OutcomeSuccess means the operation completed with no error.
	OutcomeSuccess Outcome = "success"

	// Edge-precondition failures.
	OutcomeEdgeInactive Outcome = "edge_inactive"
	OutcomeInvalidSrc   Outcome = "invalid_src"
	OutcomeInvalidDst   Outcome = "invalid_dst"

	// Stochastic / capacity failures.
	OutcomePacketLoss Outcome = "packet_loss"
	OutcomeBufferFull Outcome = "buffer_full"

	// Graph-level send failures.
	OutcomeInvalidNodeID     Outcome = "invalid_node_id"
	OutcomeNoRouteFound      Outcome = "no_route_found"
	OutcomeNodesNotConnected Outcome = "nodes_not_connected"
	OutcomeMaxTries          Outcome = "max_tries"

	// OutcomeDroppedAtDestination names the case where a packet a hop
	// queued successfully is later dropped by the destination's own
	// processing (as opposed to rejected up front with OutcomeBufferFull).
	// Nothing in the current node-queue worker drops an accepted packet
	// after the fact, so Graph.Send never produces this outcome today; it
	// is kept in the taxonomy as the documented landing spot for the day a
	// node-side drop (TTL expiry, a congestion-triggered queue cull) is
	// added, rather than inventing a new outcome string for it then.
	OutcomeDroppedAtDestination Outcome = "dropped_at_destination"

	// OutcomeAlreadyRunning is returned by a node-start call that found the
	// node already running; it is not a failure, just a no-op signal.
	OutcomeAlreadyRunning Outcome = "already_running"
)

// Retryable reports whether a hop that failed with this outcome should be
// retried by the caller's retry loop. Only a stochastic packet_loss is
// retried locally; every other failure aborts the send immediately.
func (o Outcome) Retryable() bool {
	return o == OutcomePacketLoss
}

// SendResult is the terminal outcome of a single edge-level or graph-level
// send.
type SendResult struct {
	Success bool
	Reason  Outcome
}

func ok() SendResult                { return SendResult{Success: true, Reason: OutcomeSuccess} }
func fail(reason Outcome) SendResult { return SendResult{Success: false, Reason: reason} }
