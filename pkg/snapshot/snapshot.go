// Package snapshot persists the fully-built Catalogue, Renderer output
// and TransitRouter graph into a single binary file, and reconstructs
// them from it without re-running any of the build-time computation
// (route reflection, BusStat, SphereProjector, all-pairs Dijkstra).
//
// Layout, in order, following the header Write/Read install in binary.go:
// stop array, bus array with precomputed BusStat, render settings,
// projected polylines and circles, routing settings, graph edge list,
// the all-pairs router table, the stop -> vertex-pair map, and the
// edge -> label array. Every cross-reference is an insertion-order
// integer ID, stable across the round trip, per the teacher's CSR
// convention of treating array position itself as the identifier.
package snapshot

import (
	"fmt"
	"io"

	"transitcat/pkg/catalogue"
	"transitcat/pkg/graph"
	"transitcat/pkg/renderer"
	"transitcat/pkg/router"
	"transitcat/pkg/transitrouter"
)

// Bundle holds everything a served process needs to answer any query.
type Bundle struct {
	Catalogue      *catalogue.Catalogue
	RenderSettings renderer.Settings
	Polylines      []renderer.ProjectedPolyline
	Circles        []renderer.ProjectedCircle
	TransitRouter  *transitrouter.TransitRouter
}

// Save writes bundle to path as a single binary file, via a temp file
// and atomic rename so a crash mid-write never corrupts an existing
// snapshot.
func Save(path string, bundle Bundle) error {
	return Write(path, func(w io.Writer) error {
		if err := writeCatalogue(w, bundle.Catalogue); err != nil {
			return fmt.Errorf("catalogue: %w", err)
		}
		if err := writeRenderer(w, bundle.RenderSettings, bundle.Polylines, bundle.Circles); err != nil {
			return fmt.Errorf("renderer: %w", err)
		}
		if err := writeTransitRouter(w, bundle.TransitRouter); err != nil {
			return fmt.Errorf("transitrouter: %w", err)
		}
		return nil
	})
}

// Load reconstructs a Bundle from path.
func Load(path string) (Bundle, error) {
	var bundle Bundle
	err := Read(path, func(r io.Reader) error {
		cat, err := readCatalogue(r)
		if err != nil {
			return fmt.Errorf("catalogue: %w", err)
		}
		bundle.Catalogue = cat

		settings, polylines, circles, err := readRenderer(r)
		if err != nil {
			return fmt.Errorf("renderer: %w", err)
		}
		bundle.RenderSettings = settings
		bundle.Polylines = polylines
		bundle.Circles = circles

		tr, err := readTransitRouter(r, cat)
		if err != nil {
			return fmt.Errorf("transitrouter: %w", err)
		}
		bundle.TransitRouter = tr
		return nil
	})
	return bundle, err
}

// ---------- Catalogue ----------

func writeCatalogue(w io.Writer, cat *catalogue.Catalogue) error {
	stops := cat.AllStops()
	if err := writeUint32(w, uint32(len(stops))); err != nil {
		return err
	}
	for _, s := range stops {
		if err := writeString(w, s.Name); err != nil {
			return err
		}
		if err := writeFloat64(w, s.Coord.Lat); err != nil {
			return err
		}
		if err := writeFloat64(w, s.Coord.Lng); err != nil {
			return err
		}
		buses, _ := cat.StopInfo(s.ID)
		ids := make([]uint32, 0, len(buses))
		for b := range buses {
			ids = append(ids, uint32(b))
		}
		if err := writeUint32(w, uint32(len(ids))); err != nil {
			return err
		}
		if err := writeUint32Slice(w, ids); err != nil {
			return err
		}
	}

	buses := cat.AllBuses()
	if err := writeUint32(w, uint32(len(buses))); err != nil {
		return err
	}
	for _, b := range buses {
		if err := writeString(w, b.Name); err != nil {
			return err
		}
		if err := writeBool(w, b.IsCyclic); err != nil {
			return err
		}
		route := make([]uint32, len(b.Route))
		for i, sid := range b.Route {
			route[i] = uint32(sid)
		}
		if err := writeUint32(w, uint32(len(route))); err != nil {
			return err
		}
		if err := writeUint32Slice(w, route); err != nil {
			return err
		}
		stat := cat.BusStat(b.ID)
		if err := writeUint32(w, uint32(stat.StopCount)); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(stat.UniqueStopCount)); err != nil {
			return err
		}
		if err := writeUint64(w, stat.RouteLength); err != nil {
			return err
		}
		if err := writeFloat64(w, stat.Curvature); err != nil {
			return err
		}
	}
	return nil
}

func readCatalogue(r io.Reader) (*catalogue.Catalogue, error) {
	stopCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	stops := make([]catalogue.Stop, stopCount)
	for i := range stops {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		lat, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		lng, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		n, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		// Incidence is rederived by Restore from bus routes; the persisted
		// incident-bus-id list only needs to be consumed from the stream.
		if _, err := readUint32Slice(r, int(n)); err != nil {
			return nil, err
		}
		stops[i] = catalogue.Stop{ID: catalogue.StopID(i), Name: name, Coord: catalogue.Coordinates{Lat: lat, Lng: lng}}
	}

	busCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	buses := make([]catalogue.Bus, busCount)
	stats := make([]catalogue.BusStat, busCount)
	for i := range buses {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		isCyclic, err := readBool(r)
		if err != nil {
			return nil, err
		}
		n, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		routeRaw, err := readUint32Slice(r, int(n))
		if err != nil {
			return nil, err
		}
		route := make([]catalogue.StopID, len(routeRaw))
		for j, v := range routeRaw {
			route[j] = catalogue.StopID(v)
		}

		stopCountStat, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		uniqueStopCount, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		routeLength, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		curvature, err := readFloat64(r)
		if err != nil {
			return nil, err
		}

		buses[i] = catalogue.Bus{ID: catalogue.BusID(i), Name: name, IsCyclic: isCyclic, Route: route}
		stats[i] = catalogue.BusStat{
			StopCount:       int(stopCountStat),
			UniqueStopCount: int(uniqueStopCount),
			RouteLength:     routeLength,
			Curvature:       curvature,
		}
	}

	return catalogue.Restore(stops, buses, stats), nil
}

// ---------- Renderer ----------

func writeRenderer(w io.Writer, settings renderer.Settings, polylines []renderer.ProjectedPolyline, circles []renderer.ProjectedCircle) error {
	if err := writeRenderSettings(w, settings); err != nil {
		return err
	}

	if err := writeUint32(w, uint32(len(polylines))); err != nil {
		return err
	}
	for _, pl := range polylines {
		if err := writeUint32(w, uint32(pl.Bus)); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(len(pl.Points))); err != nil {
			return err
		}
		for _, p := range pl.Points {
			if err := writeFloat64(w, p.X); err != nil {
				return err
			}
			if err := writeFloat64(w, p.Y); err != nil {
				return err
			}
		}
	}

	if err := writeUint32(w, uint32(len(circles))); err != nil {
		return err
	}
	for _, c := range circles {
		if err := writeUint32(w, uint32(c.Stop)); err != nil {
			return err
		}
		if err := writeFloat64(w, c.Point.X); err != nil {
			return err
		}
		if err := writeFloat64(w, c.Point.Y); err != nil {
			return err
		}
	}
	return nil
}

func readRenderer(r io.Reader) (renderer.Settings, []renderer.ProjectedPolyline, []renderer.ProjectedCircle, error) {
	settings, err := readRenderSettings(r)
	if err != nil {
		return renderer.Settings{}, nil, nil, err
	}

	polyCount, err := readUint32(r)
	if err != nil {
		return renderer.Settings{}, nil, nil, err
	}
	polylines := make([]renderer.ProjectedPolyline, polyCount)
	for i := range polylines {
		busID, err := readUint32(r)
		if err != nil {
			return renderer.Settings{}, nil, nil, err
		}
		n, err := readUint32(r)
		if err != nil {
			return renderer.Settings{}, nil, nil, err
		}
		points := make([]renderer.Point, n)
		for j := range points {
			x, err := readFloat64(r)
			if err != nil {
				return renderer.Settings{}, nil, nil, err
			}
			y, err := readFloat64(r)
			if err != nil {
				return renderer.Settings{}, nil, nil, err
			}
			points[j] = renderer.Point{X: x, Y: y}
		}
		polylines[i] = renderer.ProjectedPolyline{Bus: catalogue.BusID(busID), Points: points}
	}

	circleCount, err := readUint32(r)
	if err != nil {
		return renderer.Settings{}, nil, nil, err
	}
	circles := make([]renderer.ProjectedCircle, circleCount)
	for i := range circles {
		stopID, err := readUint32(r)
		if err != nil {
			return renderer.Settings{}, nil, nil, err
		}
		x, err := readFloat64(r)
		if err != nil {
			return renderer.Settings{}, nil, nil, err
		}
		y, err := readFloat64(r)
		if err != nil {
			return renderer.Settings{}, nil, nil, err
		}
		circles[i] = renderer.ProjectedCircle{Stop: catalogue.StopID(stopID), Point: renderer.Point{X: x, Y: y}}
	}

	return settings, polylines, circles, nil
}

func writeRenderSettings(w io.Writer, s renderer.Settings) error {
	fields := []float64{s.Width, s.Height, s.Padding, s.StopRadius, s.LineWidth}
	for _, f := range fields {
		if err := writeFloat64(w, f); err != nil {
			return err
		}
	}
	if err := writeUint32(w, uint32(s.BusLabelFontSize)); err != nil {
		return err
	}
	if err := writeFloat64(w, s.BusLabelOffset.X); err != nil {
		return err
	}
	if err := writeFloat64(w, s.BusLabelOffset.Y); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(s.StopLabelFontSize)); err != nil {
		return err
	}
	if err := writeFloat64(w, s.StopLabelOffset.X); err != nil {
		return err
	}
	if err := writeFloat64(w, s.StopLabelOffset.Y); err != nil {
		return err
	}
	if err := writeColor(w, s.UnderlayerColor); err != nil {
		return err
	}
	if err := writeFloat64(w, s.UnderlayerWidth); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(s.Palette))); err != nil {
		return err
	}
	for _, c := range s.Palette {
		if err := writeColor(w, c); err != nil {
			return err
		}
	}
	return nil
}

func readRenderSettings(r io.Reader) (renderer.Settings, error) {
	var s renderer.Settings
	vals := make([]float64, 5)
	for i := range vals {
		v, err := readFloat64(r)
		if err != nil {
			return s, err
		}
		vals[i] = v
	}
	s.Width, s.Height, s.Padding, s.StopRadius, s.LineWidth = vals[0], vals[1], vals[2], vals[3], vals[4]

	busFontSize, err := readUint32(r)
	if err != nil {
		return s, err
	}
	s.BusLabelFontSize = int(busFontSize)
	bx, err := readFloat64(r)
	if err != nil {
		return s, err
	}
	by, err := readFloat64(r)
	if err != nil {
		return s, err
	}
	s.BusLabelOffset = renderer.Point{X: bx, Y: by}

	stopFontSize, err := readUint32(r)
	if err != nil {
		return s, err
	}
	s.StopLabelFontSize = int(stopFontSize)
	sx, err := readFloat64(r)
	if err != nil {
		return s, err
	}
	sy, err := readFloat64(r)
	if err != nil {
		return s, err
	}
	s.StopLabelOffset = renderer.Point{X: sx, Y: sy}

	s.UnderlayerColor, err = readColor(r)
	if err != nil {
		return s, err
	}
	s.UnderlayerWidth, err = readFloat64(r)
	if err != nil {
		return s, err
	}

	n, err := readUint32(r)
	if err != nil {
		return s, err
	}
	s.Palette = make([]renderer.Color, n)
	for i := range s.Palette {
		s.Palette[i], err = readColor(r)
		if err != nil {
			return s, err
		}
	}
	return s, nil
}

func writeColor(w io.Writer, c renderer.Color) error {
	kind, name, r, g, b, a := c.Encode()
	if err := writeByte(w, kind); err != nil {
		return err
	}
	if err := writeString(w, name); err != nil {
		return err
	}
	if err := writeByte(w, r); err != nil {
		return err
	}
	if err := writeByte(w, g); err != nil {
		return err
	}
	if err := writeByte(w, b); err != nil {
		return err
	}
	return writeFloat64(w, a)
}

func readColor(r io.Reader) (renderer.Color, error) {
	kind, err := readByte(r)
	if err != nil {
		return renderer.Color{}, err
	}
	name, err := readString(r)
	if err != nil {
		return renderer.Color{}, err
	}
	red, err := readByte(r)
	if err != nil {
		return renderer.Color{}, err
	}
	green, err := readByte(r)
	if err != nil {
		return renderer.Color{}, err
	}
	blue, err := readByte(r)
	if err != nil {
		return renderer.Color{}, err
	}
	a, err := readFloat64(r)
	if err != nil {
		return renderer.Color{}, err
	}
	return renderer.DecodeColor(kind, name, red, green, blue, a), nil
}

// ---------- TransitRouter ----------

func writeTransitRouter(w io.Writer, tr *transitrouter.TransitRouter) error {
	settings := tr.RoutingSettings()
	if err := writeFloat64(w, settings.BusWaitTimeMin); err != nil {
		return err
	}
	if err := writeFloat64(w, settings.BusVelocityKmh); err != nil {
		return err
	}

	g := tr.Graph()
	if err := writeUint32(w, g.VertexCount()); err != nil {
		return err
	}
	edgeCount := g.EdgeCount()
	if err := writeUint32(w, uint32(edgeCount)); err != nil {
		return err
	}
	for i := 0; i < edgeCount; i++ {
		e := g.Edge(graph.EdgeID(i))
		if err := writeUint32(w, uint32(e.From)); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(e.To)); err != nil {
			return err
		}
		if err := writeFloat64(w, e.Weight); err != nil {
			return err
		}
	}

	table := tr.Table()
	n := g.VertexCount()
	for s := uint32(0); s < n; s++ {
		row := table[s]
		for t := uint32(0); t < n; t++ {
			rec := row[t]
			if err := writeBool(w, rec.Present); err != nil {
				return err
			}
			if !rec.Present {
				continue
			}
			if err := writeFloat64(w, rec.Weight); err != nil {
				return err
			}
			if err := writeUint32(w, uint32(rec.PredEdge)); err != nil {
				return err
			}
		}
	}

	stopCount := n / 2
	if err := writeUint32(w, stopCount); err != nil {
		return err
	}
	for sid := catalogue.StopID(0); uint32(sid) < stopCount; sid++ {
		pair, _ := tr.VertexIDsFor(sid)
		if err := writeUint32(w, uint32(pair.WaitBegin)); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(pair.WaitEnd)); err != nil {
			return err
		}
	}

	labels := tr.EdgeLabels()
	if err := writeUint32(w, uint32(len(labels))); err != nil {
		return err
	}
	for _, l := range labels {
		if err := writeByte(w, byte(l.Kind)); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(l.Stop)); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(l.Bus)); err != nil {
			return err
		}
		if err := writeUint32(w, uint32(l.SpanCount)); err != nil {
			return err
		}
		if err := writeFloat64(w, l.Time); err != nil {
			return err
		}
	}
	return nil
}

func readTransitRouter(r io.Reader, cat *catalogue.Catalogue) (*transitrouter.TransitRouter, error) {
	waitTime, err := readFloat64(r)
	if err != nil {
		return nil, err
	}
	velocity, err := readFloat64(r)
	if err != nil {
		return nil, err
	}
	settings := transitrouter.RoutingSettings{BusWaitTimeMin: waitTime, BusVelocityKmh: velocity}

	vertexCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	edgeCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	g := graph.New(vertexCount)
	for i := uint32(0); i < edgeCount; i++ {
		from, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		to, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		weight, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		g.AddEdge(graph.VertexID(from), graph.VertexID(to), weight)
	}

	table := make([][]router.Record, vertexCount)
	for s := uint32(0); s < vertexCount; s++ {
		row := make([]router.Record, vertexCount)
		for t := uint32(0); t < vertexCount; t++ {
			present, err := readBool(r)
			if err != nil {
				return nil, err
			}
			if !present {
				continue
			}
			weight, err := readFloat64(r)
			if err != nil {
				return nil, err
			}
			predEdge, err := readUint32(r)
			if err != nil {
				return nil, err
			}
			row[t] = router.Record{Present: true, Weight: weight, PredEdge: graph.EdgeID(predEdge)}
		}
		table[s] = row
	}

	stopCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	vertexOf := make(map[catalogue.StopID]transitrouter.VertexPair, stopCount)
	for i := uint32(0); i < stopCount; i++ {
		waitBegin, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		waitEnd, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		vertexOf[catalogue.StopID(i)] = transitrouter.VertexPair{
			WaitBegin: graph.VertexID(waitBegin),
			WaitEnd:   graph.VertexID(waitEnd),
		}
	}

	labelCount, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	labels := make([]transitrouter.EdgeLabel, labelCount)
	for i := range labels {
		kind, err := readByte(r)
		if err != nil {
			return nil, err
		}
		stopID, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		busID, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		spanCount, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		t, err := readFloat64(r)
		if err != nil {
			return nil, err
		}
		labels[i] = transitrouter.EdgeLabel{
			Kind:      transitrouter.EdgeKind(kind),
			Stop:      catalogue.StopID(stopID),
			Bus:       catalogue.BusID(busID),
			SpanCount: int(spanCount),
			Time:      t,
		}
	}

	return transitrouter.New(settings, g, table, vertexOf, labels), nil
}
