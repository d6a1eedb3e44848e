// Package graph implements a directed weighted multigraph with stable
// integer vertex and edge IDs, built by append-only insertion. It has no
// notion of stops or buses — TransitRouter (pkg/transitrouter) is the
// layer that gives vertices and edges transit meaning.
package graph

// VertexID identifies a vertex by its allocation order.
type VertexID uint32

// EdgeID identifies an edge by its insertion order.
type EdgeID uint32

// Edge is a directed, weighted connection between two vertices.
type Edge struct {
	From   VertexID
	To     VertexID
	Weight float64
}

// Graph is a directed weighted multigraph. Vertices are allocated in one
// block by New; edges are appended one at a time via AddEdge.
// There is no edge or vertex removal.
type Graph struct {
	vertexCount uint32
	edges       []Edge
	incidentOut [][]EdgeID // incidentOut[v] = edges leaving v, in insertion order
}

// New creates a Graph with the given number of vertices and no edges.
func New(vertexCount uint32) *Graph {
	return &Graph{
		vertexCount: vertexCount,
		incidentOut: make([][]EdgeID, vertexCount),
	}
}

// AddEdge appends a new directed edge and returns its stable ID.
func (g *Graph) AddEdge(from, to VertexID, weight float64) EdgeID {
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge{From: from, To: to, Weight: weight})
	g.incidentOut[from] = append(g.incidentOut[from], id)
	return id
}

// Edge returns the edge for id.
func (g *Graph) Edge(id EdgeID) Edge {
	return g.edges[id]
}

// IncidentFrom returns the IDs of edges leaving vertex v, in the order
// they were added.
func (g *Graph) IncidentFrom(v VertexID) []EdgeID {
	return g.incidentOut[v]
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// VertexCount returns the number of vertices in the graph.
func (g *Graph) VertexCount() uint32 { return g.vertexCount }
