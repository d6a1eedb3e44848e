// Package transitrouter translates a populated catalogue.Catalogue into a
// routing graph and answers shortest-itinerary queries over it.
//
// Every stop owns two vertices, wait_begin and wait_end, joined by a wait
// edge. Bus edges always leave a wait_end and enter a wait_begin, so a
// path through the graph alternates "wait at a stop" with "ride a bus",
// and a transfer always pays for exactly one wait. This mirrors the
// reference TransportRouter's StopPairVertexId / AddWaitEdges / AddBusEdges
// split exactly; only the shortest-path backend underneath differs.
package transitrouter

import (
	"transitcat/pkg/catalogue"
	"transitcat/pkg/graph"
	"transitcat/pkg/router"
)

// RoutingSettings configures wait and travel time conversion.
type RoutingSettings struct {
	BusWaitTimeMin float64
	BusVelocityKmh float64
}

// VertexPair is the wait_begin/wait_end vertex pair owned by one stop.
type VertexPair struct {
	WaitBegin graph.VertexID
	WaitEnd   graph.VertexID
}

// EdgeLabel identifies what kind of leg an edge represents. Exactly one of
// the two kinds is populated, selected by Kind.
type EdgeLabel struct {
	Kind      EdgeKind
	Stop      catalogue.StopID // valid when Kind == Wait
	Bus       catalogue.BusID  // valid when Kind == Ride
	SpanCount int              // valid when Kind == Ride
	Time      float64
}

// EdgeKind discriminates EdgeLabel's two variants.
type EdgeKind int

const (
	// Wait labels the edge crossing from a stop's wait_begin to its wait_end.
	Wait EdgeKind = iota
	// Ride labels a bus-edge crossing between two stops' vertices.
	Ride
)

// Itinerary is the result of a successful Route query.
type Itinerary struct {
	TotalTime float64
	Steps     []EdgeLabel
}

// TransitRouter holds the routing graph derived from a Catalogue, the
// precomputed all-pairs shortest-path table over it, and the label for
// every edge.
type TransitRouter struct {
	settings   RoutingSettings
	g          *graph.Graph
	r          *router.Router
	vertexOf   map[catalogue.StopID]VertexPair
	edgeLabels []EdgeLabel
	components graph.ComponentStats
}

// Build constructs the full routing graph for cat under settings and runs
// the all-pairs shortest-path precomputation.
func Build(cat *catalogue.Catalogue, settings RoutingSettings) *TransitRouter {
	stops := cat.AllStops()
	vertexCount := uint32(2 * len(stops))
	g := graph.New(vertexCount)

	vertexOf := make(map[catalogue.StopID]VertexPair, len(stops))
	for i, s := range stops {
		vertexOf[s.ID] = VertexPair{
			WaitBegin: graph.VertexID(2 * i),
			WaitEnd:   graph.VertexID(2*i + 1),
		}
	}

	tr := &TransitRouter{
		settings: settings,
		g:        g,
		vertexOf: vertexOf,
	}

	tr.addWaitEdges(stops)
	tr.addBusEdges(cat)
	tr.components = graph.Components(g)

	tr.r = router.New(g)
	tr.r.Build()
	return tr
}

// New assembles a TransitRouter from components already reconstructed from
// a snapshot, skipping the O(V^3) Build step.
func New(settings RoutingSettings, g *graph.Graph, table [][]router.Record, vertexOf map[catalogue.StopID]VertexPair, edgeLabels []EdgeLabel) *TransitRouter {
	r := router.New(g)
	r.SetTable(table)
	return &TransitRouter{
		settings:   settings,
		g:          g,
		r:          r,
		vertexOf:   vertexOf,
		edgeLabels: edgeLabels,
	}
}

// RoutingSettings returns the settings the router was built with.
func (tr *TransitRouter) RoutingSettings() RoutingSettings { return tr.settings }

// Components reports weakly-connected-component statistics over the built
// routing graph, for the caller to log as a build-time diagnostic. A
// network built from several independent bus systems is valid input — this
// is informational, not a build failure.
func (tr *TransitRouter) Components() graph.ComponentStats { return tr.components }

// Graph returns the underlying routing graph, for serialization.
func (tr *TransitRouter) Graph() *graph.Graph { return tr.g }

// Table returns the precomputed all-pairs table, for serialization.
func (tr *TransitRouter) Table() [][]router.Record { return tr.r.Table() }

// EdgeLabels returns the edge_id -> label array, for serialization.
func (tr *TransitRouter) EdgeLabels() []EdgeLabel { return tr.edgeLabels }

// VertexIDsFor returns the wait_begin/wait_end vertex pair for stop, and
// whether the stop is known to the router.
func (tr *TransitRouter) VertexIDsFor(stop catalogue.StopID) (VertexPair, bool) {
	pair, ok := tr.vertexOf[stop]
	return pair, ok
}

func (tr *TransitRouter) addWaitEdges(stops []catalogue.Stop) {
	tr.edgeLabels = make([]EdgeLabel, 0, tr.g.VertexCount())
	for _, s := range stops {
		pair := tr.vertexOf[s.ID]
		id := tr.g.AddEdge(pair.WaitBegin, pair.WaitEnd, tr.settings.BusWaitTimeMin)
		tr.setLabel(id, EdgeLabel{Kind: Wait, Stop: s.ID, Time: tr.settings.BusWaitTimeMin})
	}
}

// addBusEdges mirrors the reference's two-pass construction exactly: the
// forward pass always walks the listed route as-is (for a cyclic bus this
// is already a closed loop back to its first stop), and a non-cyclic bus
// additionally gets a second pass over the route reversed. It does NOT
// walk EffectiveRoute — that concatenated there-and-back path is only a
// BusStat convenience, and walking it here would double-count every span.
func (tr *TransitRouter) addBusEdges(cat *catalogue.Catalogue) {
	metersPerMinute := tr.settings.BusVelocityKmh * 1000 / 60
	for _, b := range cat.AllBuses() {
		tr.addBusEdgesOneDirection(cat, b, b.Route, metersPerMinute)
		if !b.IsCyclic {
			reversed := make([]catalogue.StopID, len(b.Route))
			for i, s := range b.Route {
				reversed[len(b.Route)-1-i] = s
			}
			tr.addBusEdgesOneDirection(cat, b, reversed, metersPerMinute)
		}
	}
}

// addBusEdgesOneDirection adds, for every pair i<j along route, an edge
// from route[i]'s wait_end to route[j]'s wait_begin, weighted by the
// cumulative road distance from route[i] to route[j]. This is
// intentionally O(len(route)^2): the reference implementation walks the
// same nested loop, accumulating distance as span_count grows rather than
// querying an all-pairs distance table that doesn't exist for buses.
func (tr *TransitRouter) addBusEdgesOneDirection(cat *catalogue.Catalogue, b catalogue.Bus, route []catalogue.StopID, metersPerMinute float64) {
	for i := 0; i < len(route); i++ {
		from := route[i]
		var cumulative uint64
		for j := i + 1; j < len(route); j++ {
			cumulative += cat.RoadDistance(route[j-1], route[j])
			to := route[j]
			span := j - i
			timeMin := float64(cumulative) / metersPerMinute

			fromVertex := tr.vertexOf[from].WaitEnd
			toVertex := tr.vertexOf[to].WaitBegin
			id := tr.g.AddEdge(fromVertex, toVertex, timeMin)
			tr.setLabel(id, EdgeLabel{Kind: Ride, Bus: b.ID, SpanCount: span, Time: timeMin})
		}
	}
}

func (tr *TransitRouter) setLabel(id graph.EdgeID, label EdgeLabel) {
	for uint32(len(tr.edgeLabels)) <= uint32(id) {
		tr.edgeLabels = append(tr.edgeLabels, EdgeLabel{})
	}
	tr.edgeLabels[id] = label
}

// Route answers a shortest-itinerary query from stop `from` to stop `to`.
// The search runs wait_begin(from) -> wait_begin(to), so a ride arriving
// back at `from` itself always pays its trailing wait, unless from == to.
// Returns false if either stop is unknown to the router or no path exists.
func (tr *TransitRouter) Route(from, to catalogue.StopID) (Itinerary, bool) {
	fromPair, ok := tr.vertexOf[from]
	if !ok {
		return Itinerary{}, false
	}
	toPair, ok := tr.vertexOf[to]
	if !ok {
		return Itinerary{}, false
	}

	route, ok := tr.r.BuildRoute(fromPair.WaitBegin, toPair.WaitBegin)
	if !ok {
		return Itinerary{}, false
	}

	steps := make([]EdgeLabel, len(route.Edges))
	for i, eid := range route.Edges {
		steps[i] = tr.edgeLabels[eid]
	}
	return Itinerary{TotalTime: route.TotalWeight, Steps: steps}, true
}
