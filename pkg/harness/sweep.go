package harness

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/meshwcett/simulator/pkg/meshrt"
	"github.com/meshwcett/simulator/pkg/routing"
	"github.com/meshwcett/simulator/pkg/topology"
)

// AlgorithmResult is one algorithm's results across the whole load series,
// shaped exactly like the harness's JSON output schema: parallel
// "er"/"throughput"/"tx" arrays, one entry per load point.
type AlgorithmResult struct {
	ER         []float64 `json:"er"`
	Throughput []float64 `json:"throughput"`
	TX         []float64 `json:"tx"`

	// transits accumulates every delivered packet's transit time across
	// the whole load series, for the LB variants' CSV/histogram output.
	// Not part of the JSON schema; populated only for load-balanced
	// algorithms.
	transits []PacketTransit
}

// Transits returns the accumulated per-packet transit times for this
// algorithm's whole load series (only non-empty for the LB variants).
func (a AlgorithmResult) Transits() []PacketTransit {
	return a.transits
}

// SweepResult is a complete run's output: the load series tested and one
// AlgorithmResult per algorithm driven.
type SweepResult struct {
	Topology string
	Duration int
	Loads    []float64
	Results  map[Algorithm]AlgorithmResult
}

// Sweep drives every algorithm in cfg.Algorithm's Expand() across the
// configured load ladder, matching original_source/sim.py's
// run_all_sims / run_single_algorithm_sim: one network is built per
// algorithm and kept running across its whole load series, so congestion
// state and any LB path switches from one load point carry into the next,
// rather than resetting between them.
func Sweep(cfg *Config, log *zap.Logger) (SweepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}

	spec, ok := topology.ByName(cfg.Topology)
	if !ok {
		return SweepResult{}, fmt.Errorf("harness: unknown topology %q", cfg.Topology)
	}

	loads := cfg.LoadSeries()
	out := SweepResult{
		Topology: spec.Name,
		Duration: cfg.DurationSeconds,
		Loads:    loads,
		Results:  make(map[Algorithm]AlgorithmResult),
	}

	for _, alg := range Algorithm(cfg.Algorithm).Expand() {
		ar, err := runAlgorithm(spec, alg, cfg, log)
		if err != nil {
			return SweepResult{}, fmt.Errorf("harness: sweep %s: %w", alg, err)
		}
		out.Results[alg] = ar
	}

	return out, nil
}

// runAlgorithm builds one network for alg, populates its routing tables,
// starts it, and drives it through every load point in cfg.LoadSeries in
// turn before stopping it.
func runAlgorithm(spec topology.Spec, alg Algorithm, cfg *Config, log *zap.Logger) (AlgorithmResult, error) {
	policy, err := alg.NewPolicy(log)
	if err != nil {
		return AlgorithmResult{}, err
	}

	g := topology.Build(spec, policy, log)
	routing.Populate(g, policy)
	meshrt.StartNetwork(g, log)
	defer meshrt.StopNetwork(g)

	duration := time.Duration(cfg.DurationSeconds) * time.Second

	var ar AlgorithmResult
	for _, load := range cfg.LoadSeries() {
		if !cfg.Quiet {
			log.Info("running load point",
				zap.String("algorithm", string(alg)), zap.Float64("load", load))
		}

		start := time.Now()
		outcomes, err := Generate(g, cfg, load, duration, log)
		elapsed := time.Since(start)
		if err != nil {
			return AlgorithmResult{}, fmt.Errorf("load %v pkt/s: %w", load, err)
		}

		res := Aggregate(load, outcomes, elapsed)
		ar.ER = append(ar.ER, res.ErrorRatePct)
		ar.Throughput = append(ar.Throughput, res.ThroughputKbps)
		ar.TX = append(ar.TX, res.MeanTransitSec)
		if alg.IsLoadBalanced() {
			ar.transits = append(ar.transits, res.TransitTimes...)
		}

		if !cfg.Quiet {
			log.Info("load point complete",
				zap.String("algorithm", string(alg)), zap.Float64("load", load),
				zap.Float64("error_rate_pct", res.ErrorRatePct),
				zap.Float64("throughput_kbps", res.ThroughputKbps),
				zap.Float64("mean_transit_sec", res.MeanTransitSec))
		}
	}
	return ar, nil
}
