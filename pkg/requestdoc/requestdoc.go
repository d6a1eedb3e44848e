// Package requestdoc defines the JSON request document shapes read by
// the engine, and the ingest logic that turns a parsed
// base_requests array into a populated catalogue.Catalogue. The document
// tree itself is a plain value tree (no Dict/Array builder state machine):
// the wire format is an external collaborator, not core behavior, so
// encoding/json struct tags are enough to describe it, the way the
// teacher's pkg/api/models.go describes its HTTP bodies.
package requestdoc

import (
	"encoding/json"
	"fmt"

	"transitcat/pkg/catalogue"
	"transitcat/pkg/renderer"
	"transitcat/pkg/transitrouter"
)

// Document is the full stdin request document. base_requests and
// stat_requests are read as raw messages and decoded by kind, since a
// request document mixes Stop/Bus (or Bus/Stop/Map/Route) shapes under a
// shared "type" discriminator.
type Document struct {
	SerializationSettings SerializationSettings `json:"serialization_settings"`
	BaseRequests          []json.RawMessage     `json:"base_requests"`
	RenderSettings        RenderSettings        `json:"render_settings"`
	RoutingSettings       RoutingSettings       `json:"routing_settings"`
	StatRequests          []json.RawMessage     `json:"stat_requests"`
}

// SerializationSettings names the snapshot file path shared by both phases.
type SerializationSettings struct {
	File string `json:"file"`
}

// RenderSettings mirrors render_settings verbatim; Offset is decoded from
// a 2-element [x,y] JSON array.
type RenderSettings struct {
	Width             float64        `json:"width"`
	Height            float64        `json:"height"`
	Padding           float64        `json:"padding"`
	StopRadius        float64        `json:"stop_radius"`
	LineWidth         float64        `json:"line_width"`
	BusLabelFontSize  int            `json:"bus_label_font_size"`
	BusLabelOffset    Offset         `json:"bus_label_offset"`
	StopLabelFontSize int            `json:"stop_label_font_size"`
	StopLabelOffset   Offset         `json:"stop_label_offset"`
	UnderlayerColor   renderer.Color `json:"underlayer_color"`
	UnderlayerWidth   float64        `json:"underlayer_width"`
	ColorPalette      []renderer.Color `json:"color_palette"`
}

// Offset is a [x, y] JSON pair used for label offsets.
type Offset struct {
	X float64
	Y float64
}

// UnmarshalJSON decodes a 2-element [x, y] array.
func (o *Offset) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("requestdoc: offset must be a [x,y] array: %w", err)
	}
	o.X, o.Y = pair[0], pair[1]
	return nil
}

// MarshalJSON encodes back to a 2-element [x, y] array.
func (o Offset) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{o.X, o.Y})
}

// RoutingSettings mirrors routing_settings verbatim.
type RoutingSettings struct {
	BusWaitTime float64 `json:"bus_wait_time"`
	BusVelocity float64 `json:"bus_velocity"`
}

// ToRendererSettings converts the document shape into renderer.Settings.
func (r RenderSettings) ToRendererSettings() renderer.Settings {
	return renderer.Settings{
		Width:             r.Width,
		Height:            r.Height,
		Padding:           r.Padding,
		StopRadius:        r.StopRadius,
		LineWidth:         r.LineWidth,
		BusLabelFontSize:  r.BusLabelFontSize,
		BusLabelOffset:    renderer.Point{X: r.BusLabelOffset.X, Y: r.BusLabelOffset.Y},
		StopLabelFontSize: r.StopLabelFontSize,
		StopLabelOffset:   renderer.Point{X: r.StopLabelOffset.X, Y: r.StopLabelOffset.Y},
		UnderlayerColor:   r.UnderlayerColor,
		UnderlayerWidth:   r.UnderlayerWidth,
		Palette:           r.ColorPalette,
	}
}

// ToTransitRouterSettings converts the document shape into
// transitrouter.RoutingSettings.
func (r RoutingSettings) ToTransitRouterSettings() transitrouter.RoutingSettings {
	return transitrouter.RoutingSettings{
		BusWaitTimeMin: r.BusWaitTime,
		BusVelocityKmh: r.BusVelocity,
	}
}

// baseRequestHeader peeks at the discriminator shared by every
// base_requests element.
type baseRequestHeader struct {
	Type string `json:"type"`
}

// stopRequest is the Stop variant of a base_requests element.
type stopRequest struct {
	Name          string            `json:"name"`
	Latitude      float64           `json:"latitude"`
	Longitude     float64           `json:"longitude"`
	RoadDistances map[string]uint64 `json:"road_distances"`
}

// busRequest is the Bus variant of a base_requests element.
type busRequest struct {
	Name        string   `json:"name"`
	IsRoundtrip bool     `json:"is_roundtrip"`
	Stops       []string `json:"stops"`
}

// IngestBaseRequests populates cat from the document's base_requests array,
// in three passes: every Stop is added first, then every Stop's
// road_distances (so a distance naming a stop declared later in the array
// still resolves), then every Bus (so a route naming any stop resolves
// regardless of where in the array it was declared relative to the bus).
func IngestBaseRequests(cat *catalogue.Catalogue, raws []json.RawMessage) error {
	stops := make([]stopRequest, 0, len(raws))
	buses := make([]busRequest, 0, len(raws))

	for _, raw := range raws {
		var hdr baseRequestHeader
		if err := json.Unmarshal(raw, &hdr); err != nil {
			return fmt.Errorf("requestdoc: base_requests entry: %w", err)
		}
		switch hdr.Type {
		case "Stop":
			var s stopRequest
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("requestdoc: stop request: %w", err)
			}
			stops = append(stops, s)
		case "Bus":
			var b busRequest
			if err := json.Unmarshal(raw, &b); err != nil {
				return fmt.Errorf("requestdoc: bus request: %w", err)
			}
			buses = append(buses, b)
		default:
			return fmt.Errorf("requestdoc: base_requests entry: unknown type %q", hdr.Type)
		}
	}

	for _, s := range stops {
		if _, err := cat.AddStop(s.Name, s.Latitude, s.Longitude); err != nil {
			return fmt.Errorf("requestdoc: %w", err)
		}
	}
	for _, s := range stops {
		for dest, meters := range s.RoadDistances {
			if err := cat.AddDistance(s.Name, dest, meters); err != nil {
				return fmt.Errorf("requestdoc: %w", err)
			}
		}
	}
	for _, b := range buses {
		if _, err := cat.AddBus(b.Name, b.IsRoundtrip, b.Stops); err != nil {
			return fmt.Errorf("requestdoc: %w", err)
		}
	}
	return nil
}

// StatRequestKind discriminates a stat_requests element.
type StatRequestKind string

const (
	StatBus  StatRequestKind = "Bus"
	StatStop StatRequestKind = "Stop"
	StatMap  StatRequestKind = "Map"
	StatRoute StatRequestKind = "Route"
)

// StatRequest is the union of all four stat_requests shapes; unused fields
// for a given Type are left zero.
type StatRequest struct {
	ID   int             `json:"id"`
	Type StatRequestKind  `json:"type"`
	Name string          `json:"name,omitempty"`
	From string          `json:"from,omitempty"`
	To   string          `json:"to,omitempty"`
}

// ParseStatRequests decodes the document's stat_requests array.
func ParseStatRequests(raws []json.RawMessage) ([]StatRequest, error) {
	result := make([]StatRequest, len(raws))
	for i, raw := range raws {
		if err := json.Unmarshal(raw, &result[i]); err != nil {
			return nil, fmt.Errorf("requestdoc: stat_requests[%d]: %w", i, err)
		}
	}
	return result, nil
}
