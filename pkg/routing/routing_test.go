package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshwcett/simulator/pkg/graph"
)

// diamondGraph builds gw -(ch1,lossy)-> a -> client and gw -(ch2,clean)-> b
// -> client: two disjoint paths of equal hop count where the top branch is
// penalized by loss, so every WCETT-aware policy must prefer the bottom.
func diamondGraph(t *testing.T) (*graph.Graph, map[string]uint64) {
	t.Helper()
	graph.ResetIDs()
	g := graph.NewGraph(nil, nil)

	gw := g.CreateNode(graph.Gateway)
	top := g.CreateNode(graph.Router)
	bottom := g.CreateNode(graph.Router)
	client := g.CreateNode(graph.Client)

	eTop1, _ := g.AddEdge(gw.ID, top.ID, 54, 0.5)
	eTop2, _ := g.AddEdge(top.ID, client.ID, 54, 0.5)
	eTop1.Channel, eTop2.Channel = 1, 1

	eBot1, _ := g.AddEdge(gw.ID, bottom.ID, 54, 0)
	eBot2, _ := g.AddEdge(bottom.ID, client.ID, 54, 0)
	eBot1.Channel, eBot2.Channel = 2, 3

	return g, map[string]uint64{
		"gw": gw.ID, "top": top.ID, "bottom": bottom.ID, "client": client.ID,
	}
}

func TestHopCountIgnoresLossPicksEitherEqualLengthBranch(t *testing.T) {
	g, ids := diamondGraph(t)
	hop, ok := HopCount{}.ComputeNextHop(g, ids["gw"], ids["client"])
	require.True(t, ok)
	assert.Contains(t, []uint64{ids["top"], ids["bottom"]}, hop)
}

func TestWCETTPrefersLowLossBranch(t *testing.T) {
	g, ids := diamondGraph(t)
	w := NewWCETT()
	hop, ok := w.ComputeNextHop(g, ids["gw"], ids["client"])
	require.True(t, ok)
	assert.Equal(t, ids["bottom"], hop)
}

func TestWCETTReturnsFalseWhenSrcEqualsDst(t *testing.T) {
	g, ids := diamondGraph(t)
	_, ok := NewWCETT().ComputeNextHop(g, ids["gw"], ids["gw"])
	assert.False(t, ok)
}

func TestPopulateFillsEveryPair(t *testing.T) {
	g, ids := diamondGraph(t)
	Populate(g, NewWCETT())

	gw, _ := g.Node(ids["gw"])
	hop, ok := gw.NextHop(ids["client"])
	require.True(t, ok)
	assert.Equal(t, ids["bottom"], hop)
}

func TestWCETTLBPostCachesWinningPath(t *testing.T) {
	g, ids := diamondGraph(t)
	p := NewWCETTLBPost(nil)
	hop, ok := p.ComputeNextHop(g, ids["gw"], ids["client"])
	require.True(t, ok)
	assert.Equal(t, ids["bottom"], hop)

	cached, ok := p.CachedPath(ids["gw"], ids["client"])
	require.True(t, ok)
	assert.Equal(t, []uint64{ids["gw"], ids["bottom"], ids["client"]}, cached)
}

func TestWCETTLBPostUpdatePathSwitchesAwayFromCongestedInterior(t *testing.T) {
	g, ids := diamondGraph(t)
	p := NewWCETTLBPost(nil)
	Populate(g, p)
	_, ok := p.ComputeNextHop(g, ids["gw"], ids["client"])
	require.True(t, ok)

	// Fill the bottom branch's interior node's queue so its ql/b signal
	// (75/108) crosses the threshold and it reports fresh congestion; the
	// queue term then outweighs the top branch's loss penalty by more than
	// LoadBalanceThreshold.
	bottom, _ := g.Node(ids["bottom"])
	for i := 0; i < bottom.QueueCap(); i++ {
		bottom.Queue <- graph.QueueItem{}
	}
	p.UpdateCongestion(g, ids["bottom"])
	require.True(t, bottom.Congestion().ReportedCongestion)

	p.UpdatePath(g, ids["gw"], ids["client"])

	gw, _ := g.Node(ids["gw"])
	hop, ok := gw.NextHop(ids["client"])
	require.True(t, ok)
	assert.Equal(t, ids["top"], hop, "should have switched off the congested bottom branch")
}

func TestWCETTLBPostUpdatePathNoOpWithoutCongestionReport(t *testing.T) {
	g, ids := diamondGraph(t)
	p := NewWCETTLBPost(nil)
	Populate(g, p)
	_, ok := p.ComputeNextHop(g, ids["gw"], ids["client"])
	require.True(t, ok)

	p.UpdatePath(g, ids["gw"], ids["client"])

	gw, _ := g.Node(ids["gw"])
	hop, _ := gw.NextHop(ids["client"])
	assert.Equal(t, ids["bottom"], hop)
}

func lineGraph(t *testing.T) (*graph.Graph, []uint64) {
	t.Helper()
	graph.ResetIDs()
	g := graph.NewGraph(nil, nil)
	gw := g.CreateNode(graph.Gateway)
	r1 := g.CreateNode(graph.Router)
	r2 := g.CreateNode(graph.Router)
	cl := g.CreateNode(graph.Client)
	g.AddEdge(gw.ID, r1.ID, 54, 0)
	g.AddEdge(r1.ID, r2.ID, 54, 0)
	g.AddEdge(r2.ID, cl.ID, 54, 0)
	return g, []uint64{gw.ID, r1.ID, r2.ID, cl.ID}
}

func TestWCETTLBPreMulticastReachesChildren(t *testing.T) {
	g, ids := lineGraph(t)
	gwID, r1ID, r2ID, clID := ids[0], ids[1], ids[2], ids[3]

	p := NewWCETTLBPre(nil)
	Populate(g, p)

	r1, _ := g.Node(r1ID)
	hop, ok := r1.NextHop(clID)
	require.True(t, ok)
	require.Equal(t, r2ID, hop, "r1 must route to the client via r2")

	r2, _ := g.Node(r2ID)
	for i := 0; i < r2.QueueCap(); i++ {
		r2.Queue <- graph.QueueItem{}
	}

	p.Predict(g, r2ID)

	live := r1.LiveAdvisories(AdvisoryFreshness * time.Second)
	require.Len(t, live, 1)
	advisory, ok := live[r2ID]
	require.True(t, ok)
	assert.True(t, advisory.StateChanged)

	_ = gwID
}
