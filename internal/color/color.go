package color

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBA represents a pixel color with 8-bit RGBA components.
type RGBA struct {
	R, G, B, A uint8
}

// RGB is the color of a shape. Alpha is dropped once a pixel has been
// classified as solid.
type RGB struct {
	R, G, B uint8
}

// White is the default background color.
var White = RGB{255, 255, 255}

// FromStdColor converts a standard library color to RGBA.
func FromStdColor(c color.Color) RGBA {
	r, g, b, a := c.RGBA()
	return RGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(a >> 8),
	}
}

// ToStdColor converts RGBA to a standard library color.
func (c RGBA) ToStdColor() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// RGB drops the alpha channel.
func (c RGBA) RGB() RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// IsSolid reports whether c is fully opaque and differs from the background.
// With bg == White this is the "opaque and not pure white" foreground policy.
func IsSolid(c RGBA, bg RGB) bool {
	return c.A == 255 && c.RGB() != bg
}

// ToStdColor converts RGB to an opaque standard library color.
func (c RGB) ToStdColor() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return c.colorful().Hex()
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return c.Hex()
}

func (c RGB) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// ParseHex parses a hex color string like "#000", "#000000", "#FF00FF".
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(s, "#")
	var r, g, b uint8
	switch len(s) {
	case 3:
		_, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r = r*16 + r
		g = g*16 + g
		b = b*16 + b
	case 6:
		_, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b)
		if err != nil {
			return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	default:
		return RGB{}, fmt.Errorf("invalid hex color %q: must be 3 or 6 hex digits", s)
	}
	return RGB{R: r, G: g, B: b}, nil
}

// DistanceLAB computes the Euclidean distance in CIELAB space between two colors.
func DistanceLAB(a, b RGB) float64 {
	return a.colorful().DistanceLab(b.colorful())
}

// WeightedMean computes the weighted mean of a set of colors.
// weights[i] corresponds to colors[i]. If weights is nil, equal weights are used.
func WeightedMean(colors []RGB, weights []int) RGB {
	if len(colors) == 0 {
		return RGB{}
	}
	var totalR, totalG, totalB float64
	var totalW float64
	for i, c := range colors {
		w := 1.0
		if weights != nil {
			w = float64(weights[i])
		}
		totalR += float64(c.R) * w
		totalG += float64(c.G) * w
		totalB += float64(c.B) * w
		totalW += w
	}
	if totalW == 0 {
		return RGB{}
	}
	return RGB{
		R: uint8(math.Round(totalR / totalW)),
		G: uint8(math.Round(totalG / totalW)),
		B: uint8(math.Round(totalB / totalW)),
	}
}
