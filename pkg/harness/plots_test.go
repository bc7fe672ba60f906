package harness

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogramBinsStaysWithinBounds(t *testing.T) {
	assert.Equal(t, 1, histogramBins(0))
	assert.Equal(t, 1, histogramBins(1))
	assert.Equal(t, 10, histogramBins(10))
	assert.Equal(t, 50, histogramBins(1000))
}

func TestSeriesColorCyclesThroughPalette(t *testing.T) {
	first := seriesColor(0)
	fifth := seriesColor(4)
	assert.Equal(t, first, fifth)
}

func TestWritePlotsRendersOneFilePerMetric(t *testing.T) {
	dir := t.TempDir()
	sweep := SweepResult{
		Topology: "small",
		Duration: 60,
		Loads:    []float64{5, 10, 15},
		Results: map[Algorithm]AlgorithmResult{
			AlgorithmHopCount: {ER: []float64{1, 2, 3}, Throughput: []float64{100, 90, 80}, TX: []float64{0.1, 0.2, 0.3}},
			AlgorithmWCETT:    {ER: []float64{0.5, 1, 1.5}, Throughput: []float64{120, 110, 100}, TX: []float64{0.08, 0.15, 0.2}},
		},
	}

	paths, err := WritePlots(dir, sweep)
	require.NoError(t, err)
	assert.Len(t, paths, len(plottedMetrics))
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestWriteTransitHistogramRendersFile(t *testing.T) {
	dir := t.TempDir()
	transits := []PacketTransit{
		{PacketID: 1, TransmissionSec: 0.1},
		{PacketID: 2, TransmissionSec: 0.2},
		{PacketID: 3, TransmissionSec: 0.15},
	}

	path, err := WriteTransitHistogram(dir, AlgorithmWCETTLBPost, transits)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
