package meshrt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshwcett/simulator/pkg/graph"
	"github.com/meshwcett/simulator/pkg/packet"
	"github.com/meshwcett/simulator/pkg/routing"
)

func buildLine(t *testing.T) (*graph.Graph, []uint64) {
	t.Helper()
	graph.ResetIDs()
	packet.ResetIDs()
	g := graph.NewGraph(routing.HopCount{}, nil)
	gw := g.CreateNode(graph.Gateway)
	r1 := g.CreateNode(graph.Router)
	cl := g.CreateNode(graph.Client)
	g.AddEdge(gw.ID, r1.ID, 54, 0)
	g.AddEdge(r1.ID, cl.ID, 54, 0)
	routing.Populate(g, routing.HopCount{})
	return g, []uint64{gw.ID, r1.ID, cl.ID}
}

func TestStartNodeTwiceReportsAlreadyRunning(t *testing.T) {
	g, ids := buildLine(t)
	n, _ := g.Node(ids[0])
	defer n.SetRunning(false)

	first := StartNode(g, n, nil)
	assert.True(t, first.Success)

	second := StartNode(g, n, nil)
	assert.False(t, second.Success)
	assert.Equal(t, graph.OutcomeAlreadyRunning, second.Reason)
}

func TestProcessingWorkerEmitsAckForDataPacket(t *testing.T) {
	g, ids := buildLine(t)
	cl, _ := g.Node(ids[2])
	r1, _ := g.Node(ids[1])

	StartNode(g, cl, nil)
	defer cl.SetRunning(false)

	p := packet.NewData(r1.ID, cl.ID, 512)
	ok := cl.ReceiveMessage(p, r1.ID)
	require.True(t, ok)

	require.Eventually(t, func() bool {
		return r1.HasAckFrom(cl.ID, r1.ID)
	}, time.Second, 10*time.Millisecond, "expected client to ack the data packet back to r1")
}

func TestStopNetworkFlipsRunningFlagsOnAllNodes(t *testing.T) {
	g, ids := buildLine(t)
	StartNetwork(g, nil)

	for _, id := range ids {
		n, _ := g.Node(id)
		require.True(t, n.Running())
	}

	done := make(chan struct{})
	go func() {
		StopNetwork(g)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("StopNetwork did not return in time")
	}

	for _, id := range ids {
		n, _ := g.Node(id)
		assert.False(t, n.Running())
	}
}
