package harness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meshwcett/simulator/pkg/graph"
)

func TestAggregateEmptyOutcomesIsAllZero(t *testing.T) {
	res := Aggregate(5, nil, time.Second)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0, res.Successful)
	assert.Zero(t, res.ErrorRatePct)
	assert.Zero(t, res.ThroughputKbps)
	assert.Zero(t, res.MeanTransitSec)
	assert.Empty(t, res.TransitTimes)
}

func TestAggregateComputesErrorRateAndThroughput(t *testing.T) {
	outcomes := []PacketOutcome{
		{PacketID: 1, Success: true, Size: 1000, TransitTime: 100 * time.Millisecond},
		{PacketID: 2, Success: true, Size: 1000, TransitTime: 300 * time.Millisecond},
		{PacketID: 3, Success: false, Reason: graph.OutcomePacketLoss},
		{PacketID: 4, Success: false, Reason: graph.OutcomeBufferFull},
	}

	res := Aggregate(10, outcomes, time.Second)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Successful)
	assert.InDelta(t, 50.0, res.ErrorRatePct, 1e-9)
	// 2000 bytes * 8 bits / 1000 / 1s = 16 Kbps.
	assert.InDelta(t, 16.0, res.ThroughputKbps, 1e-9)
	// mean of 100ms and 300ms is 200ms.
	assert.InDelta(t, 0.2, res.MeanTransitSec, 1e-9)
	assert.Len(t, res.TransitTimes, 2)
}

func TestAggregateAllFailuresLeavesThroughputAndTransitZero(t *testing.T) {
	outcomes := []PacketOutcome{
		{PacketID: 1, Success: false, Reason: graph.OutcomeNoRouteFound},
	}
	res := Aggregate(1, outcomes, time.Second)
	assert.InDelta(t, 100.0, res.ErrorRatePct, 1e-9)
	assert.Zero(t, res.ThroughputKbps)
	assert.Zero(t, res.MeanTransitSec)
}
