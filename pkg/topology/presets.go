package topology

import "github.com/meshwcett/simulator/pkg/graph"

// Small is a one-gateway, six-router, six-client mesh: routers mr1-mr3 uplink
// to the gateway, each feeds one of mr4-mr6, and mr4-mr5-mr6 are chained;
// each client attaches to one or two routers. Node index 0 is the gateway;
// indices 1-6 are routers; indices 7-12 are clients.
func Small() Spec {
	const (
		igw = 0
		mr1 = 1
		mr2 = 2
		mr3 = 3
		mr4 = 4
		mr5 = 5
		mr6 = 6
		c7  = 7
		c8  = 8
		c9  = 9
		c10 = 10
		c11 = 11
		c12 = 12
	)
	return Spec{
		Name: "small",
		Roles: []graph.Role{
			graph.Gateway,                                             // igw
			graph.Router, graph.Router, graph.Router,                  // mr1-mr3
			graph.Router, graph.Router, graph.Router,                  // mr4-mr6
			graph.Client, graph.Client, graph.Client,                  // c7-c9
			graph.Client, graph.Client, graph.Client,                  // c10-c12
		},
		Edges: []EdgeSpec{
			{A: igw, B: mr1, BandwidthMbps: 20, LossRate: 0.1},
			{A: igw, B: mr2, BandwidthMbps: 60, LossRate: 0.1},
			{A: igw, B: mr3, BandwidthMbps: 40, LossRate: 0.1},

			{A: mr1, B: mr4, BandwidthMbps: 20, LossRate: 0.1},
			{A: mr2, B: mr5, BandwidthMbps: 150, LossRate: 0.1},
			{A: mr3, B: mr6, BandwidthMbps: 5, LossRate: 0.1},
			{A: mr4, B: mr5, BandwidthMbps: 150, LossRate: 0.1},
			{A: mr5, B: mr6, BandwidthMbps: 70, LossRate: 0.1},

			{A: c7, B: mr1, BandwidthMbps: 45, LossRate: 0.1},
			{A: c7, B: mr4, BandwidthMbps: 55, LossRate: 0.1},
			{A: c8, B: mr1, BandwidthMbps: 45, LossRate: 0.1},
			{A: c8, B: mr5, BandwidthMbps: 180, LossRate: 0.1},
			{A: c9, B: mr4, BandwidthMbps: 55, LossRate: 0.1},
			{A: c10, B: mr6, BandwidthMbps: 35, LossRate: 0.1},
			{A: c10, B: mr5, BandwidthMbps: 180, LossRate: 0.1},
			{A: c11, B: mr3, BandwidthMbps: 45, LossRate: 0.1},
			{A: c11, B: mr6, BandwidthMbps: 75, LossRate: 0.1},
			{A: c12, B: mr3, BandwidthMbps: 45, LossRate: 0.1},
		},
	}
}

// Big is a two-gateway, ten-router, six-client mesh with deliberately
// uneven link quality (a weak igw1-mr4 uplink, a congested mr4 hub
// touching five other routers) so the load-balanced policies have
// somewhere genuine to route around. Node index 0-1 are gateways; 2-11 are
// routers; 12-17 are clients.
func Big() Spec {
	const (
		igw0 = 0
		igw1 = 1
		mr2  = 2
		mr3  = 3
		mr4  = 4
		mr5  = 5
		mr6  = 6
		mr7  = 7
		mr8  = 8
		mr9  = 9
		mr10 = 10
		mr11 = 11
		c12  = 12
		c13  = 13
		c14  = 14
		c15  = 15
		c16  = 16
		c17  = 17
	)
	return Spec{
		Name: "big",
		Roles: []graph.Role{
			graph.Gateway, graph.Gateway, // igw0, igw1
			graph.Router, graph.Router, graph.Router, graph.Router, graph.Router, // mr2-mr6
			graph.Router, graph.Router, graph.Router, graph.Router, graph.Router, // mr7-mr11
			graph.Client, graph.Client, graph.Client, // c12-c14
			graph.Client, graph.Client, graph.Client, // c15-c17
		},
		Edges: []EdgeSpec{
			{A: igw0, B: igw1, BandwidthMbps: 350, LossRate: 0.01},

			{A: igw0, B: mr2, BandwidthMbps: 180, LossRate: 0.02},
			{A: igw0, B: mr3, BandwidthMbps: 220, LossRate: 0.02},
			{A: igw1, B: mr3, BandwidthMbps: 200, LossRate: 0.02},
			{A: igw1, B: mr4, BandwidthMbps: 40, LossRate: 0.12},
			{A: igw1, B: mr5, BandwidthMbps: 190, LossRate: 0.03},

			{A: mr2, B: mr3, BandwidthMbps: 180, LossRate: 0.03},
			{A: mr2, B: mr6, BandwidthMbps: 120, LossRate: 0.05},
			{A: mr3, B: mr4, BandwidthMbps: 100, LossRate: 0.05},
			{A: mr3, B: mr6, BandwidthMbps: 160, LossRate: 0.15},
			{A: mr4, B: mr5, BandwidthMbps: 130, LossRate: 0.04},
			{A: mr4, B: mr7, BandwidthMbps: 60, LossRate: 0.06},
			{A: mr4, B: mr8, BandwidthMbps: 50, LossRate: 0.08},
			{A: mr4, B: mr9, BandwidthMbps: 35, LossRate: 0.10},
			{A: mr6, B: mr7, BandwidthMbps: 25, LossRate: 0.08},
			{A: mr6, B: mr10, BandwidthMbps: 180, LossRate: 0.06},
			{A: mr7, B: mr8, BandwidthMbps: 140, LossRate: 0.05},
			{A: mr8, B: mr10, BandwidthMbps: 160, LossRate: 0.04},
			{A: mr8, B: mr11, BandwidthMbps: 140, LossRate: 0.06},
			{A: mr9, B: mr11, BandwidthMbps: 150, LossRate: 0.05},

			{A: c12, B: mr2, BandwidthMbps: 80, LossRate: 0.15},
			{A: c12, B: mr6, BandwidthMbps: 85, LossRate: 0.18},
			{A: c13, B: mr6, BandwidthMbps: 75, LossRate: 0.15},
			{A: c13, B: mr10, BandwidthMbps: 90, LossRate: 0.20},
			{A: c14, B: mr10, BandwidthMbps: 85, LossRate: 0.15},
			{A: c14, B: mr7, BandwidthMbps: 70, LossRate: 0.18},
			{A: c14, B: mr8, BandwidthMbps: 80, LossRate: 0.15},
			{A: c15, B: mr10, BandwidthMbps: 80, LossRate: 0.16},
			{A: c15, B: mr8, BandwidthMbps: 75, LossRate: 0.14},
			{A: c15, B: mr11, BandwidthMbps: 85, LossRate: 0.17},
			{A: c16, B: mr11, BandwidthMbps: 80, LossRate: 0.15},
			{A: c16, B: mr9, BandwidthMbps: 75, LossRate: 0.16},
			{A: c17, B: mr9, BandwidthMbps: 80, LossRate: 0.15},
			{A: c17, B: mr5, BandwidthMbps: 90, LossRate: 0.18},
		},
	}
}

// ByName resolves a key from the harness's topology flag
// ("0 = small, 1 = big") or its string form to a Spec.
func ByName(name string) (Spec, bool) {
	switch name {
	case "0", "small":
		return Small(), true
	case "1", "big":
		return Big(), true
	default:
		return Spec{}, false
	}
}
