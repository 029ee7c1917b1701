package frame

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

// Black is the unlit pixel.
var Black = Color{}

// IsLit reports whether any channel is non-zero.
func (c Color) IsLit() bool {
	return c != Black
}

// Clamp converts a channel computed in float math to a byte, clamping to
// [0,255] and truncating toward zero.
func Clamp(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// RGB builds a Color from float channels, clamping each one.
func RGB(r, g, b float64) Color {
	return Color{R: Clamp(r), G: Clamp(g), B: Clamp(b)}
}

// HSV builds a Color from hue in degrees and saturation/value in [0,1].
func HSV(h, s, v float64) Color {
	return FromColorful(colorful.Hsv(h, s, v))
}

// FromColorful converts a go-colorful color, clamping out-of-gamut values.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

// Colorful converts to a go-colorful color for blending.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Scale multiplies every channel by f, used to apply display brightness.
func (c Color) Scale(f float64) Color {
	return RGB(float64(c.R)*f, float64(c.G)*f, float64(c.B)*f)
}

// Hex renders the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}
