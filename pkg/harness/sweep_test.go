package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshwcett/simulator/pkg/graph"
)

func TestSweepRejectsUnknownTopology(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Topology = "nonsense"
	_, err := Sweep(cfg, nil)
	assert.Error(t, err)
}

func TestSweepProducesOneResultPerLoadPointPerAlgorithm(t *testing.T) {
	graph.ResetIDs()
	cfg := DefaultConfig()
	cfg.Algorithm = string(AlgorithmHopCount)
	cfg.DurationSeconds = 0
	cfg.BaseLoad = 50

	start := time.Now()
	sweep, err := Sweep(cfg, nil)
	require.NoError(t, err)
	// A 0s duration per load point keeps this test fast regardless of
	// machine speed; it still exercises the full per-point aggregation.
	assert.Less(t, time.Since(start), 5*time.Second)

	require.Contains(t, sweep.Results, AlgorithmHopCount)
	ar := sweep.Results[AlgorithmHopCount]
	assert.Len(t, ar.ER, len(cfg.LoadSeries()))
	assert.Len(t, ar.Throughput, len(cfg.LoadSeries()))
	assert.Len(t, ar.TX, len(cfg.LoadSeries()))
	assert.Empty(t, ar.Transits(), "hop-count is not load-balanced")
}

func TestSweepAllExpandsToEveryAlgorithm(t *testing.T) {
	graph.ResetIDs()
	cfg := DefaultConfig()
	cfg.DurationSeconds = 0
	cfg.Algorithm = string(AlgorithmAll)

	sweep, err := Sweep(cfg, nil)
	require.NoError(t, err)
	assert.Len(t, sweep.Results, len(Algorithms))
	for _, alg := range Algorithms {
		assert.Contains(t, sweep.Results, alg)
	}
}
