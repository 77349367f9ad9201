package render

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

var (
	White       = Color{R: 1, G: 1, B: 1, A: 1}
	Black       = Color{A: 1}
	Transparent = Color{}
)

// Gray returns an opaque gray with all channels set to v.
func Gray(v float64) Color {
	return Color{R: v, G: v, B: v, A: 1}
}

// Lerp interpolates component-wise between c and o.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// Clamp limits every channel to [0, 1].
func (c Color) Clamp() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// Hex formats the color as #RRGGBBAA.
func (c Color) Hex() string {
	c = c.Clamp()
	return fmt.Sprintf("#%02x%02x%02x%02x",
		uint8(math.Round(c.R*255)), uint8(math.Round(c.G*255)),
		uint8(math.Round(c.B*255)), uint8(math.Round(c.A*255)))
}

// ParseHex parses #RGB, #RGBA, #RRGGBB and #RRGGBBAA colors.
func ParseHex(s string) Color {
	return fromGG(gg.Hex(s))
}

func (c Color) toGG() gg.RGBA {
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func fromGG(c gg.RGBA) Color {
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
