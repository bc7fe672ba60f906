// Package routing implements the routing-policy family every node's
// routing table is populated and refreshed by: plain hop count, static
// WCETT, and the two congestion-aware WCETT-LB variants.
package routing

// CongestionThreshold is the ql/b signal level (σ) at or above which a node
// considers itself congested, for both the reactive and predictive
// variants.
const CongestionThreshold = 0.5

// LoadBalanceThreshold is the minimum WCETT-LB improvement (δ) a candidate
// path must show over the current one before a node commits to switching.
const LoadBalanceThreshold = 0.4

// ReactiveCongestionFreshness bounds how long a reactive congestion report
// stays actionable after it fires.
const ReactiveCongestionFreshness = 5 // seconds

// AdvisoryFreshness bounds how long a predictive-variant advisory stays
// actionable after it is multicast.
const AdvisoryFreshness = 3 // seconds

// AdvisoryForceInterval is the maximum gap between predictive-variant
// multicasts even when the congestion prediction hasn't changed.
const AdvisoryForceInterval = 3 // seconds
