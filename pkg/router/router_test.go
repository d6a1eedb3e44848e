package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitcat/pkg/graph"
	"transitcat/pkg/router"
)

func TestBuildRouteDirectEdge(t *testing.T) {
	g := graph.New(2)
	g.AddEdge(0, 1, 4.5)

	r := router.New(g)
	r.Build()

	route, ok := r.BuildRoute(0, 1)
	require.True(t, ok)
	assert.Equal(t, 4.5, route.TotalWeight)
	assert.Equal(t, []graph.EdgeID{0}, route.Edges)
}

func TestBuildRouteSameVertex(t *testing.T) {
	g := graph.New(3)
	r := router.New(g)
	r.Build()

	route, ok := r.BuildRoute(1, 1)
	require.True(t, ok)
	assert.Equal(t, 0.0, route.TotalWeight)
	assert.Empty(t, route.Edges)
}

func TestBuildRouteUnreachable(t *testing.T) {
	g := graph.New(2)
	r := router.New(g)
	r.Build()

	_, ok := r.BuildRoute(0, 1)
	assert.False(t, ok)
}

func TestBuildRoutePicksShortestOfMultiple(t *testing.T) {
	// 0 -> 1 -> 2 costs 10, 0 -> 2 direct costs 3.
	g := graph.New(3)
	g.AddEdge(0, 1, 5)
	g.AddEdge(1, 2, 5)
	direct := g.AddEdge(0, 2, 3)

	r := router.New(g)
	r.Build()

	route, ok := r.BuildRoute(0, 2)
	require.True(t, ok)
	assert.Equal(t, 3.0, route.TotalWeight)
	assert.Equal(t, []graph.EdgeID{direct}, route.Edges)
}

func TestBuildRouteMultiHopOrder(t *testing.T) {
	g := graph.New(4)
	e0 := g.AddEdge(0, 1, 1)
	e1 := g.AddEdge(1, 2, 1)
	e2 := g.AddEdge(2, 3, 1)

	r := router.New(g)
	r.Build()

	route, ok := r.BuildRoute(0, 3)
	require.True(t, ok)
	assert.Equal(t, 3.0, route.TotalWeight)
	assert.Equal(t, []graph.EdgeID{e0, e1, e2}, route.Edges)
}

func TestSetTableBypassesBuild(t *testing.T) {
	g := graph.New(2)
	eid := g.AddEdge(0, 1, 9)

	r := router.New(g)
	r.SetTable([][]router.Record{
		{{Present: true, Weight: 0}, {Present: true, Weight: 9, PredEdge: eid}},
		{{Present: false}, {Present: true, Weight: 0}},
	})

	route, ok := r.BuildRoute(0, 1)
	require.True(t, ok)
	assert.Equal(t, 9.0, route.TotalWeight)
}
