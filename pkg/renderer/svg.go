package renderer

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Point is a planar coordinate in the SVG output, after SphereProjector
// has mapped a stop's geo coordinates onto it.
type Point struct {
	X, Y float64
}

// pathProps holds the stroke/fill attributes shared by every drawable
// primitive, mirroring the reference svg::PathProps mixin. Zero-value
// fields are simply omitted from the rendered tag.
type pathProps struct {
	fillColor   *Color
	strokeColor *Color
	strokeWidth *float64
	lineCap     string
	lineJoin    string
}

func (p *pathProps) writeAttrs(b *strings.Builder) {
	if p.fillColor != nil {
		fmt.Fprintf(b, ` fill="%s"`, p.fillColor)
	}
	if p.strokeColor != nil {
		fmt.Fprintf(b, ` stroke="%s"`, p.strokeColor)
	}
	if p.strokeWidth != nil {
		fmt.Fprintf(b, ` stroke-width="%g"`, *p.strokeWidth)
	}
	if p.lineCap != "" {
		fmt.Fprintf(b, ` stroke-linecap="%s"`, p.lineCap)
	}
	if p.lineJoin != "" {
		fmt.Fprintf(b, ` stroke-linejoin="%s"`, p.lineJoin)
	}
}

// Polyline models an SVG <polyline>, built by chained setters.
type Polyline struct {
	pathProps
	points []Point
}

// NewPolyline starts an empty polyline.
func NewPolyline() *Polyline { return &Polyline{} }

func (pl *Polyline) SetFillColor(c Color) *Polyline   { pl.fillColor = &c; return pl }
func (pl *Polyline) SetStrokeColor(c Color) *Polyline { pl.strokeColor = &c; return pl }
func (pl *Polyline) SetStrokeWidth(w float64) *Polyline {
	pl.strokeWidth = &w
	return pl
}
func (pl *Polyline) SetStrokeLineCap(v string) *Polyline  { pl.lineCap = v; return pl }
func (pl *Polyline) SetStrokeLineJoin(v string) *Polyline { pl.lineJoin = v; return pl }

// AddPoint appends a vertex to the polyline.
func (pl *Polyline) AddPoint(p Point) *Polyline {
	pl.points = append(pl.points, p)
	return pl
}

func (pl *Polyline) render(b *strings.Builder) {
	b.WriteString("<polyline points=\"")
	for i, p := range pl.points {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%g,%g", p.X, p.Y)
	}
	b.WriteString("\"")
	pl.writeAttrs(b)
	b.WriteString("/>")
}

// Circle models an SVG <circle>.
type Circle struct {
	pathProps
	center Point
	radius float64
}

// NewCircle starts a unit-radius circle at the origin.
func NewCircle() *Circle { return &Circle{radius: 1} }

func (c *Circle) SetCenter(p Point) *Circle    { c.center = p; return c }
func (c *Circle) SetRadius(r float64) *Circle  { c.radius = r; return c }
func (c *Circle) SetFillColor(col Color) *Circle {
	c.fillColor = &col
	return c
}

func (c *Circle) render(b *strings.Builder) {
	fmt.Fprintf(b, `<circle cx="%g" cy="%g" r="%g"`, c.center.X, c.center.Y, c.radius)
	c.writeAttrs(b)
	b.WriteString("/>")
}

// Text models an SVG <text>.
type Text struct {
	pathProps
	pos        Point
	offset     Point
	fontSize   int
	fontFamily string
	fontWeight string
	data       string
}

// NewText starts an empty text label with font size 1 (the reference
// default; callers always override it via SetFontSize).
func NewText() *Text { return &Text{fontSize: 1} }

func (t *Text) SetPosition(p Point) *Text        { t.pos = p; return t }
func (t *Text) SetOffset(p Point) *Text          { t.offset = p; return t }
func (t *Text) SetFontSize(size int) *Text       { t.fontSize = size; return t }
func (t *Text) SetFontFamily(name string) *Text  { t.fontFamily = name; return t }
func (t *Text) SetFontWeight(weight string) *Text { t.fontWeight = weight; return t }
func (t *Text) SetData(data string) *Text        { t.data = data; return t }
func (t *Text) SetFillColor(c Color) *Text       { t.fillColor = &c; return t }
func (t *Text) SetStrokeColor(c Color) *Text     { t.strokeColor = &c; return t }
func (t *Text) SetStrokeWidth(w float64) *Text {
	t.strokeWidth = &w
	return t
}
func (t *Text) SetStrokeLineCap(v string) *Text  { t.lineCap = v; return t }
func (t *Text) SetStrokeLineJoin(v string) *Text { t.lineJoin = v; return t }

func (t *Text) render(b *strings.Builder) {
	fmt.Fprintf(b, `<text x="%g" y="%g" dx="%g" dy="%g" font-size="%d"`,
		t.pos.X, t.pos.Y, t.offset.X, t.offset.Y, t.fontSize)
	if t.fontFamily != "" {
		fmt.Fprintf(b, ` font-family="%s"`, t.fontFamily)
	}
	if t.fontWeight != "" {
		fmt.Fprintf(b, ` font-weight="%s"`, t.fontWeight)
	}
	t.writeAttrs(b)
	b.WriteString(">")
	xml.EscapeText(b, []byte(t.data))
	b.WriteString("</text>")
}

// primitive is any of Polyline, Circle, Text; Document holds them in the
// order they were added and renders them in that order.
type primitive interface {
	render(b *strings.Builder)
}

var (
	_ primitive = (*Polyline)(nil)
	_ primitive = (*Circle)(nil)
	_ primitive = (*Text)(nil)
)

// Document is an SVG document assembled by repeated Add calls, rendered
// to text in insertion order.
type Document struct {
	objects []primitive
}

// NewDocument starts an empty document.
func NewDocument() *Document { return &Document{} }

// Add appends a primitive to the document.
func (d *Document) Add(p primitive) {
	d.objects = append(d.objects, p)
}

// Render writes the document as a complete standalone SVG text.
func (d *Document) Render() string {
	var b strings.Builder
	b.WriteString(xml.Header)
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" version="1.1">`)
	for _, obj := range d.objects {
		obj.render(&b)
	}
	b.WriteString("</svg>")
	return b.String()
}
