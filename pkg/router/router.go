// Package router precomputes all-pairs shortest paths over a
// pkg/graph.Graph with non-negative edge weights, and extracts individual
// routes from the precomputed table.
//
// The reference implementation's relaxation is a bespoke dynamic-program
// over source/destination pairs seeded with direct edges; this instead
// runs one Dijkstra per source vertex, which spec.md explicitly allows
// ("an implementation using V invocations of Dijkstra is correct") and
// which is what the teacher's pkg/routing/dijkstra.go already does for
// single-pair queries — generalized here to run for every vertex and
// retain the full table instead of discarding it after one query.
package router

import (
	"math"

	"transitcat/pkg/graph"
)

// Record holds the shortest-path distance and predecessor edge from a
// fixed source vertex to one target vertex. Present is false when the
// target is unreachable from the source.
type Record struct {
	Weight   float64
	PredEdge graph.EdgeID
	Present  bool
}

// Route is the result of extracting a shortest path between two vertices.
type Route struct {
	TotalWeight float64
	Edges       []graph.EdgeID
}

// Router holds a precomputed all-pairs shortest-path table over a Graph.
type Router struct {
	g     *graph.Graph
	table [][]Record // table[s][t]
}

// New creates a Router bound to g, with no table computed yet.
func New(g *graph.Graph) *Router {
	return &Router{g: g}
}

// Build runs Dijkstra from every vertex to populate the all-pairs table.
func (r *Router) Build() {
	n := r.g.VertexCount()
	table := make([][]Record, n)
	for s := uint32(0); s < n; s++ {
		table[s] = dijkstraFrom(r.g, graph.VertexID(s))
	}
	r.table = table
}

// SetTable installs a previously computed table (e.g. loaded from a
// Snapshot) without rebuilding it.
func (r *Router) SetTable(table [][]Record) {
	r.table = table
}

// Table returns the underlying all-pairs table, for serialization.
func (r *Router) Table() [][]Record {
	return r.table
}

// dijkstraFrom runs single-source Dijkstra from src and returns the
// resulting per-target record row.
func dijkstraFrom(g *graph.Graph, src graph.VertexID) []Record {
	n := g.VertexCount()
	dist := make([]float64, n)
	predEdge := make([]graph.EdgeID, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[src] = 0

	var h minHeap
	h.Push(uint32(src), 0)

	for h.Len() > 0 {
		top := h.Pop()
		u := top.vertex
		if visited[u] {
			continue
		}
		if top.dist > dist[u] {
			continue
		}
		visited[u] = true

		for _, eid := range g.IncidentFrom(graph.VertexID(u)) {
			e := g.Edge(eid)
			v := uint32(e.To)
			if visited[v] {
				continue
			}
			nd := dist[u] + e.Weight
			if nd < dist[v] {
				dist[v] = nd
				predEdge[v] = eid
				h.Push(v, nd)
			}
		}
	}

	row := make([]Record, n)
	for v := uint32(0); v < n; v++ {
		if math.IsInf(dist[v], 1) {
			continue
		}
		row[v] = Record{Weight: dist[v], PredEdge: predEdge[v], Present: true}
	}
	return row
}

// BuildRoute extracts the shortest path from s to t by walking predecessor
// edges backward from t to s and reversing. Returns false if t is
// unreachable from s. When s == t, returns an empty path with weight 0
// without consulting the table.
func (r *Router) BuildRoute(s, t graph.VertexID) (Route, bool) {
	if s == t {
		return Route{}, true
	}
	rec := r.table[s][t]
	if !rec.Present {
		return Route{}, false
	}

	var edges []graph.EdgeID
	cur := t
	for cur != s {
		eid := r.recordAt(s, cur).PredEdge
		edges = append(edges, eid)
		cur = r.g.Edge(eid).From
	}
	// Reverse into source->target order.
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
	return Route{TotalWeight: rec.Weight, Edges: edges}, true
}

func (r *Router) recordAt(s, t graph.VertexID) Record {
	return r.table[s][t]
}
