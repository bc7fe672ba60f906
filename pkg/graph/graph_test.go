package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshwcett/simulator/pkg/packet"
)

// hopCountStub is a minimal Policy used to fill routing tables in these
// tests without depending on package routing.
type hopCountStub struct{}

func (hopCountStub) Name() string { return "hop-count-stub" }
func (hopCountStub) WaitsForAck() bool { return false }
func (hopCountStub) ComputeNextHop(g *Graph, src, dst uint64) (uint64, bool) {
	path, ok := g.HopCountPath(src, dst)
	if !ok || len(path) < 2 {
		return 0, false
	}
	return path[1], true
}

func newLineGraph(t *testing.T) (*Graph, []uint64) {
	t.Helper()
	ResetIDs()
	packet.ResetIDs()
	g := NewGraph(hopCountStub{}, nil)

	gw := g.CreateNode(Gateway)
	r1 := g.CreateNode(Router)
	r2 := g.CreateNode(Router)
	cl := g.CreateNode(Client)

	_, added := g.AddEdge(gw.ID, r1.ID, 54, 0)
	require.True(t, added)
	_, added = g.AddEdge(r1.ID, r2.ID, 54, 0)
	require.True(t, added)
	_, added = g.AddEdge(r2.ID, cl.ID, 54, 0)
	require.True(t, added)

	return g, []uint64{gw.ID, r1.ID, r2.ID, cl.ID}
}

func TestAddEdgeNoOpWhenAlreadyAdjacent(t *testing.T) {
	g, ids := newLineGraph(t)
	before := len(g.Edges)
	_, added := g.AddEdge(ids[0], ids[1], 10, 0.1)
	assert.False(t, added)
	assert.Len(t, g.Edges, before)
}

func TestEdgeBetweenIsSymmetric(t *testing.T) {
	g, ids := newLineGraph(t)
	fwd, ok := g.EdgeBetween(ids[0], ids[1])
	require.True(t, ok)
	rev, ok := g.EdgeBetween(ids[1], ids[0])
	require.True(t, ok)
	assert.Equal(t, fwd.ID, rev.ID)
}

func TestHopCountPathOnLineGraph(t *testing.T) {
	g, ids := newLineGraph(t)
	path, ok := g.HopCountPath(ids[0], ids[3])
	require.True(t, ok)
	assert.Equal(t, ids, path)
}

func TestAllPathsExcludesClientAsInterior(t *testing.T) {
	ResetIDs()
	g := NewGraph(hopCountStub{}, nil)
	a := g.CreateNode(Gateway)
	b := g.CreateNode(Client) // would-be interior client
	c := g.CreateNode(Router)
	d := g.CreateNode(Client)

	g.AddEdge(a.ID, b.ID, 54, 0)
	g.AddEdge(b.ID, c.ID, 54, 0)
	g.AddEdge(a.ID, c.ID, 54, 0)
	g.AddEdge(c.ID, d.ID, 54, 0)

	paths := g.AllPaths(a.ID, d.ID, DefaultMaxPathDepth)
	for _, p := range paths {
		for i, id := range p {
			if id == b.ID {
				assert.Equal(t, 0, i, "client must only appear as src, never interior")
			}
		}
	}
	// the a->c->d path must still be found
	found := false
	for _, p := range paths {
		if len(p) == 3 && p[0] == a.ID && p[1] == c.ID && p[2] == d.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAllPathsSkipsInactiveEdges(t *testing.T) {
	g, ids := newLineGraph(t)
	e, _ := g.EdgeBetween(ids[1], ids[2])
	e.Deactivate()

	paths := g.AllPaths(ids[0], ids[3], DefaultMaxPathDepth)
	assert.Empty(t, paths)
}

func TestIsValidPathRejectsBrokenAdjacency(t *testing.T) {
	g, ids := newLineGraph(t)
	assert.True(t, g.IsValidPath(ids))
	assert.False(t, g.IsValidPath([]uint64{ids[0], ids[2]}))
}

func TestSendDeliversAlongRoute(t *testing.T) {
	g, ids := newLineGraph(t)
	// Send only follows routing tables, so fill them first.
	for _, src := range ids {
		n, _ := g.Node(src)
		for _, dst := range ids {
			if hop, ok := (hopCountStub{}).ComputeNextHop(g, src, dst); ok {
				n.SetNextHop(dst, hop)
			}
		}
	}
	p := packet.NewData(ids[0], ids[3], 512)

	result := g.Send(ids[0], ids[3], p)
	require.True(t, result.Success)
	assert.True(t, p.IsDelivered())
	assert.Equal(t, ids, p.RouteTaken)
}

func TestSendReportsNodesNotConnectedWhenRouteTableStale(t *testing.T) {
	g, ids := newLineGraph(t)
	gw, _ := g.Node(ids[0])
	// Poison the route to point at a non-neighbor; Send should discover the
	// missing edge rather than silently proceeding.
	gw.SetNextHop(ids[3], ids[2])

	p := packet.NewData(ids[0], ids[3], 512)
	result := g.Send(ids[0], ids[3], p)
	assert.Equal(t, OutcomeNodesNotConnected, result.Reason)
}

func TestSendReportsInvalidNodeID(t *testing.T) {
	g, _ := newLineGraph(t)
	p := packet.NewData(999, 998, 512)
	result := g.Send(999, 998, p)
	assert.Equal(t, OutcomeInvalidNodeID, result.Reason)
}
