package renderer

import (
	"encoding/json"
	"fmt"
)

// Color is an SVG paint value: either a named color string, an opaque
// "rgb(r,g,b)" triple, or a translucent "rgba(r,g,b,a)" quadruple. The
// zero value is the empty Color, rendered as the SVG keyword "none".
//
// In render_settings JSON a color is a tagged union without an explicit
// tag: a bare string, a 3-element array of 0-255 ints, or a 4-element
// array of 0-255 ints plus a 0-1 float opacity.
type Color struct {
	kind    colorKind
	name    string
	r, g, b uint8
	a       float64
}

type colorKind int

const (
	colorNone colorKind = iota
	colorNamed
	colorRGB
	colorRGBA
)

// NoneColor is the absence of a color, rendered as "none".
var NoneColor = Color{kind: colorNone}

// NamedColor wraps an SVG/CSS color keyword such as "white" or "black".
func NamedColor(name string) Color {
	return Color{kind: colorNamed, name: name}
}

// RGB builds an opaque color from 0-255 channel values.
func RGB(r, g, b uint8) Color {
	return Color{kind: colorRGB, r: r, g: g, b: b}
}

// RGBA builds a translucent color from 0-255 channel values and an
// opacity in [0,1].
func RGBA(r, g, b uint8, a float64) Color {
	return Color{kind: colorRGBA, r: r, g: g, b: b, a: a}
}

// String renders the color as an SVG attribute value.
func (c Color) String() string {
	switch c.kind {
	case colorNone:
		return "none"
	case colorNamed:
		return c.name
	case colorRGB:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.r, c.g, c.b)
	case colorRGBA:
		return fmt.Sprintf("rgba(%d,%d,%d,%g)", c.r, c.g, c.b, c.a)
	default:
		return "none"
	}
}

// UnmarshalJSON accepts a bare color name, a [r,g,b] triple, or a
// [r,g,b,a] quadruple.
func (c *Color) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*c = NamedColor(name)
		return nil
	}

	var nums []float64
	if err := json.Unmarshal(data, &nums); err != nil {
		return fmt.Errorf("renderer: color must be a string or a [r,g,b] / [r,g,b,a] array: %w", err)
	}
	switch len(nums) {
	case 3:
		*c = RGB(uint8(nums[0]), uint8(nums[1]), uint8(nums[2]))
	case 4:
		*c = RGBA(uint8(nums[0]), uint8(nums[1]), uint8(nums[2]), nums[3])
	default:
		return fmt.Errorf("renderer: color array must have 3 or 4 elements, got %d", len(nums))
	}
	return nil
}

// Encode exposes a Color's tag and fields for a caller (the snapshot
// codec) that needs to persist it without depending on JSON.
func (c Color) Encode() (kind byte, name string, r, g, b uint8, a float64) {
	return byte(c.kind), c.name, c.r, c.g, c.b, c.a
}

// DecodeColor rebuilds a Color from the fields Encode returned.
func DecodeColor(kind byte, name string, r, g, b uint8, a float64) Color {
	return Color{kind: colorKind(kind), name: name, r: r, g: g, b: b, a: a}
}

// MarshalJSON round-trips a Color back to its most compact JSON form, for
// use by the snapshot codec's human-debuggable sibling paths (none exist
// today, but this keeps Color a well-behaved JSON type on both ends).
func (c Color) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case colorNone:
		return json.Marshal("")
	case colorNamed:
		return json.Marshal(c.name)
	case colorRGB:
		return json.Marshal([]uint8{c.r, c.g, c.b})
	case colorRGBA:
		return json.Marshal([]float64{float64(c.r), float64(c.g), float64(c.b), c.a})
	default:
		return json.Marshal("")
	}
}
