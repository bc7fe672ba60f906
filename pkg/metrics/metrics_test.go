package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshwcett/simulator/pkg/graph"
)

// TestETXIdentity resolves this repo's one open question about the two ETX
// formulas seen in its history: q = 1-(1-p)^2, etx = 1/(1-q) is
// algebraically identical to 1/(1-p)^2, since 1-q = (1-p)^2. Both forms
// must agree to floating-point precision for every loss rate.
func TestETXIdentity(t *testing.T) {
	for _, p := range []float64{0, 0.01, 0.1, 0.3, 0.5, 0.9, 0.99} {
		q := 1 - (1-p)*(1-p)
		viaQ := 1 / (1 - q)
		direct := ETX(p)
		assert.InDelta(t, viaQ, direct, 1e-9, "p=%v", p)
	}
}

func TestETTPositiveAndFinite(t *testing.T) {
	graph.ResetIDs()
	e := graph.NewEdge(1, 2, 54, 0.1)
	ett := ETT(e, DefaultPacketSize)
	assert.Greater(t, ett, 0.0)
	assert.Less(t, ett, 1e12)
}

func buildTwoChannelPath(t *testing.T) (*graph.Graph, []uint64, []*graph.Edge) {
	t.Helper()
	graph.ResetIDs()
	g := graph.NewGraph(nil, nil)
	a := g.CreateNode(graph.Gateway)
	b := g.CreateNode(graph.Router)
	c := g.CreateNode(graph.Router)

	e1, _ := g.AddEdge(a.ID, b.ID, 54, 0)
	e2, _ := g.AddEdge(b.ID, c.ID, 54, 0)
	return g, []uint64{a.ID, b.ID, c.ID}, []*graph.Edge{e1, e2}
}

func TestWCETTAtLeastWorstChannelSum(t *testing.T) {
	_, _, edges := buildTwoChannelPath(t)
	// Force both edges onto the same channel so the worst-channel sum
	// equals the full ETT sum — WCETT must then equal that sum exactly
	// regardless of beta.
	edges[0].Channel = 1
	edges[1].Channel = 1

	wcett := WCETT(edges, DefaultPacketSize, DefaultBeta)
	ettSum := ETT(edges[0], DefaultPacketSize) + ETT(edges[1], DefaultPacketSize)
	assert.InDelta(t, ettSum, wcett, 1e-9)
}

func TestWCETTNeverBelowMaxSingleEdgeETT(t *testing.T) {
	_, _, edges := buildTwoChannelPath(t)
	edges[0].Channel = 1
	edges[1].Channel = 2

	wcett := WCETT(edges, DefaultPacketSize, DefaultBeta)
	maxSingle := ETT(edges[0], DefaultPacketSize)
	if e1 := ETT(edges[1], DefaultPacketSize); e1 > maxSingle {
		maxSingle = e1
	}
	assert.GreaterOrEqual(t, wcett, maxSingle)
}

func TestWCETTLBAddsNonNegativePenaltyOnInteriorNodes(t *testing.T) {
	g, ids, _ := buildTwoChannelPath(t)
	path := ids // a -> b -> c, b is interior

	base := func() float64 {
		edges, ok := PathEdges(g, path)
		require.True(t, ok)
		return WCETT(edges, DefaultPacketSize, DefaultBeta)
	}()

	lb := WCETTLB(g, path, DefaultPacketSize)
	assert.GreaterOrEqual(t, lb, base)
}

func TestWCETTLBEqualsBaseWithNoInteriorNodes(t *testing.T) {
	graph.ResetIDs()
	g := graph.NewGraph(nil, nil)
	a := g.CreateNode(graph.Gateway)
	b := g.CreateNode(graph.Client)
	g.AddEdge(a.ID, b.ID, 54, 0)

	path := []uint64{a.ID, b.ID}
	edges, _ := PathEdges(g, path)
	base := WCETT(edges, DefaultPacketSize, DefaultBeta)
	lb := WCETTLB(g, path, DefaultPacketSize)
	assert.InDelta(t, base, lb, 1e-9)
}

func TestMinETTFallsBackWhenNoActiveEdges(t *testing.T) {
	graph.ResetIDs()
	g := graph.NewGraph(nil, nil)
	g.CreateNode(graph.Gateway)
	assert.Equal(t, 1.0, MinETT(g))
}

func TestTrafficConcentrationCountsNextHopUsage(t *testing.T) {
	g, ids, _ := buildTwoChannelPath(t)
	a, bID, c := ids[0], ids[1], ids[2]
	nodeA, _ := g.Node(a)
	nodeA.SetNextHop(c, bID)

	concentration := TrafficConcentration(g)
	assert.Equal(t, 1, concentration[bID])
}
