package graph

// UnionFind is a disjoint-set structure with path halving and union by
// rank, used to compute weakly-connected components of a Graph.
type UnionFind struct {
	parent []uint32
	rank   []byte
	size   []uint32
}

// NewUnionFind creates a UnionFind over n elements, each in its own set.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range parent {
		parent[i] = uint32(i)
		size[i] = 1
	}
	return &UnionFind{parent: parent, rank: make([]byte, n), size: size}
}

// Find returns the representative of the set containing x.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already joined.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx, ry := uf.Find(x), uf.Find(y)
	if rx == ry {
		return false
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// WeaklyConnectedComponents partitions g's vertices into weakly-connected
// groups (direction of edges ignored), keyed by each group's representative
// vertex.
func WeaklyConnectedComponents(g *Graph) map[VertexID][]VertexID {
	n := g.VertexCount()
	uf := unionFindOver(g)
	groups := make(map[VertexID][]VertexID)
	for v := uint32(0); v < n; v++ {
		root := VertexID(uf.Find(v))
		groups[root] = append(groups[root], VertexID(v))
	}
	return groups
}

// ComponentStats summarizes a graph's weakly-connected components: how many
// groups there are and how many vertices the largest one covers. Unlike the
// teacher's cmd/preprocess, which calls LargestComponent to discard every
// node outside the largest component, a transit network built from
// independent bus systems (spec scenario: two disjoint networks, a cross-
// network route query reporting "not found") is a valid, non-error input —
// so this is surfaced as a build-time diagnostic, never as a rejection.
type ComponentStats struct {
	Count       int
	LargestSize uint32
}

// Components computes ComponentStats for g, reading back the UnionFind size
// bookkeeping accumulated during the union passes to find the largest group
// without a second full walk over the vertex set.
func Components(g *Graph) ComponentStats {
	n := g.VertexCount()
	uf := unionFindOver(g)
	var largest uint32
	roots := make(map[uint32]bool)
	for v := uint32(0); v < n; v++ {
		root := uf.Find(v)
		roots[root] = true
		if uf.size[root] > largest {
			largest = uf.size[root]
		}
	}
	return ComponentStats{Count: len(roots), LargestSize: largest}
}

// unionFindOver runs the union passes shared by WeaklyConnectedComponents
// and Components: every edge, direction ignored, merges its endpoints.
func unionFindOver(g *Graph) *UnionFind {
	n := g.VertexCount()
	uf := NewUnionFind(n)
	for v := uint32(0); v < n; v++ {
		for _, eid := range g.IncidentFrom(VertexID(v)) {
			e := g.Edge(eid)
			uf.Union(v, uint32(e.To))
		}
	}
	return uf
}
