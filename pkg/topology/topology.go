// Package topology builds the fixed Gateway/Router/Client meshes the
// harness runs simulations against. Construction of a topology is
// deliberately kept outside package graph: graph only needs a node-role
// sequence and an edge list to build a Graph, exactly the external
// interface this package exposes.
package topology

import (
	"go.uber.org/zap"

	"github.com/meshwcett/simulator/pkg/graph"
)

// EdgeSpec is one edge addition, referencing endpoints by their position in
// a Spec's Roles slice rather than by node id (ids aren't known until the
// nodes are actually created against a live Graph).
type EdgeSpec struct {
	A, B          int
	BandwidthMbps float64
	LossRate      float64
}

// Spec is a topology blueprint: a node-role creation sequence followed by
// an edge-addition sequence, matching the external interface the harness
// feeds into a fresh Graph.
type Spec struct {
	Name  string
	Roles []graph.Role
	Edges []EdgeSpec
}

// Build constructs a fresh Graph from a Spec under the given routing
// policy, creating nodes in Roles order and then adding every edge in
// Edges order.
func Build(spec Spec, policy graph.Policy, log *zap.Logger) *graph.Graph {
	g := graph.NewGraph(policy, log)
	nodes := make([]*graph.Node, len(spec.Roles))
	for i, role := range spec.Roles {
		nodes[i] = g.CreateNode(role)
	}
	for _, e := range spec.Edges {
		g.AddEdge(nodes[e.A].ID, nodes[e.B].ID, e.BandwidthMbps, e.LossRate)
	}
	return g
}
