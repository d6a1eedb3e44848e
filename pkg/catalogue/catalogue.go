// Package catalogue holds the in-memory transit catalogue: stops, buses,
// the inter-stop road-distance table, and the derived per-bus statistics
// and per-stop incidence sets described by the transport-catalogue engine.
//
// Entities are append-only: once added, a Stop or Bus is never mutated or
// removed, and is identified for the rest of the catalogue's lifetime by
// its insertion-order index (StopID / BusID). This mirrors the original
// implementation's raw back-pointers into two append-only containers,
// reworked as stable integer handles so a Snapshot can reference entities
// natively (see pkg/snapshot).
package catalogue

import (
	"errors"
	"fmt"
	"sort"

	"transitcat/pkg/geo"
)

// StopID identifies a Stop by its insertion order.
type StopID uint32

// BusID identifies a Bus by its insertion order.
type BusID uint32

// Coordinates is a geographic point in degrees.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Stop is a named geographic point. Immutable after AddStop.
type Stop struct {
	ID    StopID
	Name  string
	Coord Coordinates
}

// Bus is a named transit line. Immutable after AddBus.
type Bus struct {
	ID       BusID
	Name     string
	IsCyclic bool
	Route    []StopID // as listed in the input, before reflection
}

// EffectiveRoute returns the route actually traversed: the listed route
// for cyclic buses, or the listed route concatenated with its reverse
// (minus the pivot) for non-cyclic buses.
func (b Bus) EffectiveRoute() []StopID {
	if b.IsCyclic || len(b.Route) == 0 {
		return b.Route
	}
	out := make([]StopID, 0, 2*len(b.Route)-1)
	out = append(out, b.Route...)
	for i := len(b.Route) - 2; i >= 0; i-- {
		out = append(out, b.Route[i])
	}
	return out
}

// BusStat is derived on demand by BusStat, never stored on the Bus itself.
type BusStat struct {
	StopCount       int
	UniqueStopCount int
	RouteLength     uint64
	Curvature       float64
}

// Errors returned by build-time mutations.
var (
	ErrDuplicateName = errors.New("duplicate name")
	ErrUnknownStop   = errors.New("unknown stop")
	ErrUnknownBus    = errors.New("unknown bus")
)

type distanceKey struct {
	from StopID
	to   StopID
}

// Catalogue is the append-only store of stops, buses and road distances.
type Catalogue struct {
	stops      []Stop
	buses      []Bus
	stopByName map[string]StopID
	busByName  map[string]BusID
	distances  map[distanceKey]uint64
	incidence  map[StopID]map[BusID]struct{}
	statCache  []BusStat // lazily filled by BusStat, or preloaded by Restore
	statKnown  []bool
}

// New creates an empty Catalogue.
func New() *Catalogue {
	return &Catalogue{
		stopByName: make(map[string]StopID),
		busByName:  make(map[string]BusID),
		distances:  make(map[distanceKey]uint64),
		incidence:  make(map[StopID]map[BusID]struct{}),
	}
}

// AddStop appends a new stop. Fails with ErrDuplicateName if the name is
// already registered.
func (c *Catalogue) AddStop(name string, lat, lng float64) (StopID, error) {
	if _, exists := c.stopByName[name]; exists {
		return 0, fmt.Errorf("add stop %q: %w", name, ErrDuplicateName)
	}
	id := StopID(len(c.stops))
	c.stops = append(c.stops, Stop{ID: id, Name: name, Coord: Coordinates{Lat: lat, Lng: lng}})
	c.stopByName[name] = id
	c.incidence[id] = make(map[BusID]struct{})
	return id, nil
}

// AddDistance records the road distance from one stop to another,
// overwriting any prior value for the same ordered pair. Fails with
// ErrUnknownStop if either stop is not registered.
func (c *Catalogue) AddDistance(fromName, toName string, meters uint64) error {
	from, ok := c.stopByName[fromName]
	if !ok {
		return fmt.Errorf("add distance from %q: %w", fromName, ErrUnknownStop)
	}
	to, ok := c.stopByName[toName]
	if !ok {
		return fmt.Errorf("add distance to %q: %w", toName, ErrUnknownStop)
	}
	c.distances[distanceKey{from, to}] = meters
	return nil
}

// AddBus appends a new bus. Fails with ErrDuplicateName if the name is
// already registered, or ErrUnknownStop if any listed stop is missing.
// Incidence is recorded for every distinct stop along the route.
func (c *Catalogue) AddBus(name string, isCyclic bool, stopNames []string) (BusID, error) {
	if _, exists := c.busByName[name]; exists {
		return 0, fmt.Errorf("add bus %q: %w", name, ErrDuplicateName)
	}
	route := make([]StopID, len(stopNames))
	for i, sn := range stopNames {
		id, ok := c.stopByName[sn]
		if !ok {
			return 0, fmt.Errorf("add bus %q: stop %q: %w", name, sn, ErrUnknownStop)
		}
		route[i] = id
	}

	id := BusID(len(c.buses))
	c.buses = append(c.buses, Bus{ID: id, Name: name, IsCyclic: isCyclic, Route: route})
	c.busByName[name] = id
	c.statCache = append(c.statCache, BusStat{})
	c.statKnown = append(c.statKnown, false)

	seen := make(map[StopID]struct{}, len(route))
	for _, sid := range route {
		if _, dup := seen[sid]; dup {
			continue
		}
		seen[sid] = struct{}{}
		c.incidence[sid][id] = struct{}{}
	}
	return id, nil
}

// FindStop returns the stop registered under name, if any.
func (c *Catalogue) FindStop(name string) (StopID, bool) {
	id, ok := c.stopByName[name]
	return id, ok
}

// FindBus returns the bus registered under name, if any.
func (c *Catalogue) FindBus(name string) (BusID, bool) {
	id, ok := c.busByName[name]
	return id, ok
}

// Stop returns the stop for id. Panics on an out-of-range id, which can
// only happen for a handle fabricated outside this package.
func (c *Catalogue) Stop(id StopID) Stop {
	return c.stops[id]
}

// Bus returns the bus for id.
func (c *Catalogue) Bus(id BusID) Bus {
	return c.buses[id]
}

// StopCount returns the number of registered stops.
func (c *Catalogue) StopCount() int { return len(c.stops) }

// BusCount returns the number of registered buses.
func (c *Catalogue) BusCount() int { return len(c.buses) }

// RoadDistance returns the recorded (from,to) distance, falling back to
// the (to,from) entry, or 0 if neither is recorded.
func (c *Catalogue) RoadDistance(from, to StopID) uint64 {
	if d, ok := c.distances[distanceKey{from, to}]; ok {
		return d
	}
	if d, ok := c.distances[distanceKey{to, from}]; ok {
		return d
	}
	return 0
}

// StopInfo returns the set of buses incident to stop, and false if the
// stop is not registered.
func (c *Catalogue) StopInfo(id StopID) (map[BusID]struct{}, bool) {
	buses, ok := c.incidence[id]
	return buses, ok
}

// BusStat returns route statistics for bus, computing and memoizing them
// on first access. A Catalogue reconstructed by Restore has every stat
// preloaded, since a restored catalogue carries no distance table to
// recompute them from.
func (c *Catalogue) BusStat(id BusID) BusStat {
	if c.statKnown[id] {
		return c.statCache[id]
	}
	stat := c.computeBusStat(id)
	c.statCache[id] = stat
	c.statKnown[id] = true
	return stat
}

func (c *Catalogue) computeBusStat(id BusID) BusStat {
	bus := c.buses[id]
	route := bus.EffectiveRoute()

	var stat BusStat
	if bus.IsCyclic {
		stat.StopCount = len(bus.Route)
	} else {
		stat.StopCount = 2*len(bus.Route) - 1
	}

	unique := make(map[StopID]struct{}, len(route))
	for _, sid := range route {
		unique[sid] = struct{}{}
	}
	stat.UniqueStopCount = len(unique)

	// The reference implementation seeds route_length for non-cyclic buses
	// with RoadDistance(last, last), which is 0 unless the input supplies
	// an explicit reflexive (x,x) distance entry. Preserved verbatim.
	var routeLength uint64
	var geodesic float64
	if !bus.IsCyclic && len(bus.Route) > 0 {
		last := bus.Route[len(bus.Route)-1]
		routeLength = c.RoadDistance(last, last)
	}

	for i := 1; i < len(bus.Route); i++ {
		prev, cur := bus.Route[i-1], bus.Route[i]
		d := geo.Distance(c.stops[prev].Coord.Lat, c.stops[prev].Coord.Lng,
			c.stops[cur].Coord.Lat, c.stops[cur].Coord.Lng)
		if bus.IsCyclic {
			geodesic += d
			routeLength += c.RoadDistance(prev, cur)
		} else {
			geodesic += 2 * d
			routeLength += c.RoadDistance(prev, cur) + c.RoadDistance(cur, prev)
		}
	}

	stat.RouteLength = routeLength
	if geodesic != 0 {
		stat.Curvature = float64(routeLength) / geodesic
	}
	return stat
}

// SortedBuses returns all buses in lexicographic name order.
func (c *Catalogue) SortedBuses() []Bus {
	result := make([]Bus, len(c.buses))
	copy(result, c.buses)
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// NonEmptySortedStops returns stops with at least one incident bus, in
// lexicographic name order.
func (c *Catalogue) NonEmptySortedStops() []Stop {
	var result []Stop
	for _, s := range c.stops {
		if len(c.incidence[s.ID]) > 0 {
			result = append(result, s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// AllStops returns every registered stop in insertion order.
func (c *Catalogue) AllStops() []Stop {
	result := make([]Stop, len(c.stops))
	copy(result, c.stops)
	return result
}

// AllBuses returns every registered bus in insertion order.
func (c *Catalogue) AllBuses() []Bus {
	result := make([]Bus, len(c.buses))
	copy(result, c.buses)
	return result
}

// Restore rebuilds a Catalogue from a snapshot's already-validated stops,
// buses and precomputed per-bus statistics. stats must be indexed by BusID
// and is installed directly into the stat cache; no distance table is
// reconstructed, since a restored catalogue never recomputes a BusStat.
func Restore(stops []Stop, buses []Bus, stats []BusStat) *Catalogue {
	c := &Catalogue{
		stops:      stops,
		buses:      buses,
		stopByName: make(map[string]StopID, len(stops)),
		busByName:  make(map[string]BusID, len(buses)),
		distances:  make(map[distanceKey]uint64),
		incidence:  make(map[StopID]map[BusID]struct{}, len(stops)),
		statCache:  stats,
		statKnown:  make([]bool, len(buses)),
	}
	for _, s := range stops {
		c.stopByName[s.Name] = s.ID
		c.incidence[s.ID] = make(map[BusID]struct{})
	}
	for _, b := range buses {
		c.busByName[b.Name] = b.ID
	}
	for i := range c.statKnown {
		c.statKnown[i] = true
	}
	for _, b := range buses {
		seen := make(map[StopID]struct{}, len(b.Route))
		for _, sid := range b.Route {
			if _, dup := seen[sid]; dup {
				continue
			}
			seen[sid] = struct{}{}
			c.incidence[sid][b.ID] = struct{}{}
		}
	}
	return c
}
