package harness

import (
	"errors"
	"time"
)

// errNoGateway and errNoClient are returned by Generate before any traffic
// runs: a graph with no gateway or no client means the harness reports
// failure before any traffic runs.
var (
	errNoGateway = errors.New("harness: graph has no gateway node")
	errNoClient  = errors.New("harness: graph has no client node")
)

// LoadResult is the aggregated outcome of one (algorithm, load) run: the
// four summary figures the harness's end-of-run aggregation defines, plus
// the per-packet transit list the LB variants' CSV/histogram output needs.
type LoadResult struct {
	Load           float64
	Total          int
	Successful     int
	ErrorRatePct   float64
	ThroughputKbps float64
	MeanTransitSec float64
	TransitTimes   []PacketTransit
}

// PacketTransit is one delivered packet's id and transit time, the exact
// shape the LB variants' CSV output (packet_id,transmission_time_seconds)
// needs.
type PacketTransit struct {
	PacketID        uint64
	TransmissionSec float64
}

// Aggregate reduces a run's raw packet outcomes into a LoadResult, per
// error rate as a percentage of (total-ok)/total, throughput
// in Kbps from successfully delivered bytes over wall-clock duration, and
// mean end-to-end transit time averaged over only the delivered packets.
func Aggregate(load float64, outcomes []PacketOutcome, elapsed time.Duration) LoadResult {
	res := LoadResult{Load: load, Total: len(outcomes)}
	if res.Total == 0 {
		return res
	}

	var deliveredBytes int
	var transitSum time.Duration
	for _, o := range outcomes {
		if !o.Success {
			continue
		}
		res.Successful++
		deliveredBytes += o.Size
		transitSum += o.TransitTime
		res.TransitTimes = append(res.TransitTimes, PacketTransit{
			PacketID:        o.PacketID,
			TransmissionSec: o.TransitTime.Seconds(),
		})
	}

	res.ErrorRatePct = float64(res.Total-res.Successful) / float64(res.Total) * 100

	elapsedSec := elapsed.Seconds()
	if res.Successful > 0 && elapsedSec > 0 {
		res.ThroughputKbps = float64(deliveredBytes) * 8 / 1000 / elapsedSec
		res.MeanTransitSec = transitSum.Seconds() / float64(res.Successful)
	}

	return res
}
