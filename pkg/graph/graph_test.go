package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitcat/pkg/graph"
)

func TestAddEdgeAssignsStableIDs(t *testing.T) {
	g := graph.New(3)
	e0 := g.AddEdge(0, 1, 5)
	e1 := g.AddEdge(1, 2, 7)
	e2 := g.AddEdge(0, 2, 1)

	assert.Equal(t, graph.EdgeID(0), e0)
	assert.Equal(t, graph.EdgeID(1), e1)
	assert.Equal(t, graph.EdgeID(2), e2)
	require.Equal(t, 3, g.EdgeCount())

	assert.Equal(t, graph.Edge{From: 0, To: 1, Weight: 5}, g.Edge(e0))
}

func TestIncidentFromOrder(t *testing.T) {
	g := graph.New(2)
	first := g.AddEdge(0, 1, 1)
	second := g.AddEdge(0, 1, 2)

	assert.Equal(t, []graph.EdgeID{first, second}, g.IncidentFrom(0))
	assert.Empty(t, g.IncidentFrom(1))
}

func TestWeaklyConnectedComponents(t *testing.T) {
	g := graph.New(4)
	g.AddEdge(0, 1, 1)
	g.AddEdge(1, 0, 1)
	// vertices 2,3 form an isolated pair.
	g.AddEdge(2, 3, 1)

	groups := graph.WeaklyConnectedComponents(g)
	assert.Len(t, groups, 2)

	sizes := make(map[int]int)
	for _, members := range groups {
		sizes[len(members)]++
	}
	assert.Equal(t, map[int]int{2: 2}, sizes)
}

func TestComponentsReportsLargestSize(t *testing.T) {
	g := graph.New(5)
	g.AddEdge(0, 1, 1)
	g.AddEdge(1, 2, 1)
	g.AddEdge(3, 4, 1)

	stats := graph.Components(g)
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, uint32(3), stats.LargestSize)
}
