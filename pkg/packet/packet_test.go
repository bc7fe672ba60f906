package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataRouteInvariant(t *testing.T) {
	ResetIDs()
	p := NewData(1, 5, 1024)
	require.Equal(t, []uint64{1}, p.RouteTaken)
	assert.Equal(t, DataKind, p.Kind)
	assert.False(t, p.IsDelivered())
}

func TestDeliveredSetsInvariant(t *testing.T) {
	ResetIDs()
	p := NewData(1, 5, 1024)
	p.AddHop(3)
	p.AddHop(5)
	p.Delivered()

	require.True(t, p.IsDelivered())
	assert.Equal(t, uint64(5), p.RouteTaken[len(p.RouteTaken)-1])
	assert.Greater(t, p.TransitTime().Nanoseconds(), int64(-1))
}

func TestNewAckFixedSize(t *testing.T) {
	ResetIDs()
	ack := NewAck(2, 1)
	assert.Equal(t, AckKind, ack.Kind)
	assert.Equal(t, AckSize, ack.Size)
	assert.Equal(t, uint64(2), ack.SrcID)
	assert.Equal(t, uint64(1), ack.DstID)
}

func TestNextIDMonotonic(t *testing.T) {
	ResetIDs()
	a := NextID()
	b := NextID()
	assert.Equal(t, a+1, b)
}
