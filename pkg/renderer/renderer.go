// Package renderer projects a catalogue's stop coordinates onto a 2D
// canvas and emits an SVG document, following the reference
// MapRenderer's fixed walk: bus polylines, then bus-name labels, then
// stop circles, then stop-name labels.
package renderer

import "transitcat/pkg/catalogue"

// Settings configures the projection canvas and drawing style. With an
// empty Palette, bus lines and bus-name labels are still emitted, painted
// with the color "none".
type Settings struct {
	Width             float64
	Height            float64
	Padding           float64
	StopRadius        float64
	LineWidth         float64
	BusLabelFontSize  int
	BusLabelOffset    Point
	StopLabelFontSize int
	StopLabelOffset   Point
	UnderlayerColor   Color
	UnderlayerWidth   float64
	Palette           []Color
}

// ProjectedPolyline is one bus's rendered line, in the snapshot's
// persisted shape: the bus it belongs to and its projected points in the
// order the line is drawn, following the bus's EffectiveRoute (there and
// back for a non-cyclic bus).
type ProjectedPolyline struct {
	Bus    catalogue.BusID
	Points []Point
}

// ProjectedCircle is one stop's rendered marker.
type ProjectedCircle struct {
	Stop  catalogue.StopID
	Point Point
}

// RenderMap computes the SVG document, and the projected polylines and
// circles that the snapshot persists so that a served process can redraw
// the map query without re-running projection from scratch.
func RenderMap(cat *catalogue.Catalogue, settings Settings) (*Document, []ProjectedPolyline, []ProjectedCircle) {
	stops := cat.NonEmptySortedStops()
	projector := buildProjector(stops, settings)

	polylines := buildPolylines(cat, projector)
	circles := buildCircles(stops, projector)

	doc := assembleDocument(polylines, circles, settings, func(id catalogue.StopID) string {
		return cat.Stop(id).Name
	})

	projectedPolylines := make([]ProjectedPolyline, len(polylines))
	for i, pl := range polylines {
		projectedPolylines[i] = ProjectedPolyline{Bus: pl.bus, Points: pl.points}
	}
	return doc, projectedPolylines, circles
}

// RenderFromProjection rebuilds the SVG document straight from a
// snapshot's persisted ProjectedPolylines/ProjectedCircles, without
// re-running SphereProjector. cat supplies bus names/cyclic flags and
// stop names for labeling; it is not re-projected.
func RenderFromProjection(cat *catalogue.Catalogue, polylines []ProjectedPolyline, circles []ProjectedCircle, settings Settings) *Document {
	busLines := make([]busPolyline, len(polylines))
	for i, pl := range polylines {
		bus := cat.Bus(pl.Bus)
		busLines[i] = busPolyline{
			bus: pl.Bus, name: bus.Name, isCyclic: bus.IsCyclic, index: i,
			points: pl.Points, firstPos: pl.Points[0], lastPos: pl.Points[len(bus.Route)-1],
		}
	}
	return assembleDocument(busLines, circles, settings, func(id catalogue.StopID) string {
		return cat.Stop(id).Name
	})
}

func assembleDocument(polylines []busPolyline, circles []ProjectedCircle, settings Settings, stopName func(catalogue.StopID) string) *Document {
	doc := NewDocument()
	for _, pl := range polylines {
		doc.Add(toSVGPolyline(pl, paletteColorFor(settings, pl.index), settings))
	}
	addBusLabels(doc, polylines, settings)
	for _, c := range circles {
		doc.Add(toSVGCircle(c, settings))
	}
	addStopLabels(doc, circles, settings, stopName)
	return doc
}

// busPolyline is an internal intermediate carrying the bus name, cyclic
// flag and palette rank alongside the projected points, so label
// placement can reuse the same rank without recomputing "which
// non-empty bus number is this". firstPos/lastPos are the projected
// positions of the one-way route's first and last stop — not
// points[0]/points[len(points)-1], since points walks the reflected
// there-and-back path for non-cyclic buses and both its ends sit at the
// first stop.
type busPolyline struct {
	bus      catalogue.BusID
	name     string
	isCyclic bool
	index    int // rank among non-empty-route buses, for palette lookup
	points   []Point
	firstPos Point
	lastPos  Point
}

func buildProjector(stops []catalogue.Stop, settings Settings) SphereProjector {
	coords := make([]GeoPoint, len(stops))
	for i, s := range stops {
		coords[i] = GeoPoint{Lat: s.Coord.Lat, Lng: s.Coord.Lng}
	}
	return NewSphereProjector(coords, settings.Width, settings.Height, settings.Padding)
}

func buildPolylines(cat *catalogue.Catalogue, projector SphereProjector) []busPolyline {
	var result []busPolyline
	rank := 0
	for _, bus := range cat.SortedBuses() {
		if len(bus.Route) == 0 {
			continue
		}
		route := bus.EffectiveRoute()
		points := make([]Point, len(route))
		for i, stopID := range route {
			stop := cat.Stop(stopID)
			points[i] = projector.Project(GeoPoint{Lat: stop.Coord.Lat, Lng: stop.Coord.Lng})
		}
		result = append(result, busPolyline{
			bus: bus.ID, name: bus.Name, isCyclic: bus.IsCyclic, index: rank, points: points,
			firstPos: points[0], lastPos: points[len(bus.Route)-1],
		})
		rank++
	}
	return result
}

func buildCircles(stops []catalogue.Stop, projector SphereProjector) []ProjectedCircle {
	circles := make([]ProjectedCircle, len(stops))
	for i, s := range stops {
		circles[i] = ProjectedCircle{
			Stop:  s.ID,
			Point: projector.Project(GeoPoint{Lat: s.Coord.Lat, Lng: s.Coord.Lng}),
		}
	}
	return circles
}

func toSVGPolyline(pl busPolyline, color Color, settings Settings) *Polyline {
	line := NewPolyline().
		SetFillColor(NoneColor).
		SetStrokeColor(color).
		SetStrokeWidth(settings.LineWidth).
		SetStrokeLineCap("round").
		SetStrokeLineJoin("round")
	for _, p := range pl.points {
		line.AddPoint(p)
	}
	return line
}

func toSVGCircle(c ProjectedCircle, settings Settings) *Circle {
	return NewCircle().
		SetCenter(c.Point).
		SetRadius(settings.StopRadius).
		SetFillColor(NamedColor("white"))
}

func paletteColorFor(settings Settings, index int) Color {
	if len(settings.Palette) == 0 {
		return NoneColor
	}
	return settings.Palette[index%len(settings.Palette)]
}

func addBusLabels(doc *Document, polylines []busPolyline, settings Settings) {
	for _, pl := range polylines {
		color := paletteColorFor(settings, pl.index)

		doc.Add(busUnderlayer(pl.name, pl.firstPos, settings))
		doc.Add(busLabel(pl.name, pl.firstPos, color, settings))

		if !pl.isCyclic && pl.firstPos != pl.lastPos {
			doc.Add(busUnderlayer(pl.name, pl.lastPos, settings))
			doc.Add(busLabel(pl.name, pl.lastPos, color, settings))
		}
	}
}

func busUnderlayer(name string, pos Point, settings Settings) *Text {
	return NewText().
		SetFillColor(settings.UnderlayerColor).
		SetStrokeColor(settings.UnderlayerColor).
		SetStrokeWidth(settings.UnderlayerWidth).
		SetStrokeLineCap("round").
		SetStrokeLineJoin("round").
		SetPosition(pos).
		SetOffset(settings.BusLabelOffset).
		SetFontSize(settings.BusLabelFontSize).
		SetFontFamily("Verdana").
		SetFontWeight("bold").
		SetData(name)
}

func busLabel(name string, pos Point, color Color, settings Settings) *Text {
	return NewText().
		SetFillColor(color).
		SetPosition(pos).
		SetOffset(settings.BusLabelOffset).
		SetFontSize(settings.BusLabelFontSize).
		SetFontFamily("Verdana").
		SetFontWeight("bold").
		SetData(name)
}

func addStopLabels(doc *Document, circles []ProjectedCircle, settings Settings, stopName func(catalogue.StopID) string) {
	for _, c := range circles {
		name := stopName(c.Stop)
		doc.Add(stopUnderlayer(name, c.Point, settings))
		doc.Add(stopLabel(name, c.Point, settings))
	}
}

func stopUnderlayer(name string, pos Point, settings Settings) *Text {
	return NewText().
		SetFillColor(settings.UnderlayerColor).
		SetStrokeColor(settings.UnderlayerColor).
		SetStrokeWidth(settings.UnderlayerWidth).
		SetStrokeLineCap("round").
		SetStrokeLineJoin("round").
		SetPosition(pos).
		SetOffset(settings.StopLabelOffset).
		SetFontSize(settings.StopLabelFontSize).
		SetFontFamily("Verdana").
		SetData(name)
}

func stopLabel(name string, pos Point, settings Settings) *Text {
	return NewText().
		SetFillColor(NamedColor("black")).
		SetPosition(pos).
		SetOffset(settings.StopLabelOffset).
		SetFontSize(settings.StopLabelFontSize).
		SetFontFamily("Verdana").
		SetData(name)
}
