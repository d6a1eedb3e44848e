package renderer

import "math"

const epsilon = 1e-6

func isZero(v float64) bool { return math.Abs(v) < epsilon }

// GeoPoint is a coordinate pair in degrees, the input to SphereProjector.
type GeoPoint struct {
	Lat, Lng float64
}

// SphereProjector maps a bounded set of geo coordinates onto a
// width x height canvas with padding on every side, preserving aspect
// ratio by using whichever of the horizontal/vertical zoom factors is
// smaller. Built once per render from the full set of stop coordinates.
type SphereProjector struct {
	padding float64
	minLng  float64
	maxLat  float64
	zoom    float64
}

// NewSphereProjector computes the projection parameters for points. An
// empty points slice yields a degenerate projector (zoom 0) that maps
// everything to (padding, padding); callers should not invoke it, as
// there is nothing to render.
func NewSphereProjector(points []GeoPoint, width, height, padding float64) SphereProjector {
	if len(points) == 0 {
		return SphereProjector{padding: padding}
	}

	minLng, maxLng := points[0].Lng, points[0].Lng
	minLat, maxLat := points[0].Lat, points[0].Lat
	for _, p := range points[1:] {
		minLng = math.Min(minLng, p.Lng)
		maxLng = math.Max(maxLng, p.Lng)
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
	}

	var widthZoom, heightZoom float64
	haveWidthZoom := !isZero(maxLng - minLng)
	if haveWidthZoom {
		widthZoom = (width - 2*padding) / (maxLng - minLng)
	}
	haveHeightZoom := !isZero(maxLat - minLat)
	if haveHeightZoom {
		heightZoom = (height - 2*padding) / (maxLat - minLat)
	}

	var zoom float64
	switch {
	case haveWidthZoom && haveHeightZoom:
		zoom = math.Min(widthZoom, heightZoom)
	case haveWidthZoom:
		zoom = widthZoom
	case haveHeightZoom:
		zoom = heightZoom
	}

	return SphereProjector{padding: padding, minLng: minLng, maxLat: maxLat, zoom: zoom}
}

// Project maps a geo coordinate onto canvas coordinates.
func (sp SphereProjector) Project(p GeoPoint) Point {
	return Point{
		X: (p.Lng-sp.minLng)*sp.zoom + sp.padding,
		Y: (sp.maxLat-p.Lat)*sp.zoom + sp.padding,
	}
}
