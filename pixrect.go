// Package pixrect decomposes raster images into per-color shapes.
//
// Every maximal 4-connected group of identically colored solid pixels becomes
// one shape: a single pixel, an axis-aligned box, or a complex shape made of
// non-overlapping rectangles and leftover points that exactly cover the
// region. A pixel is solid when it is fully opaque and differs from the
// background color (white by default).
//
// Usage as a library:
//
//	img, _ := pixrect.LoadImage("sprite.png")
//	l, _ := pixrect.Decompose(img, pixrect.DefaultOptions())
//	for _, c := range l.Colors {
//		for _, s := range l.Shapes[c] {
//			fmt.Println(c.Hex(), s.Kind, s.BBox())
//		}
//	}
//
// Or use the file-based convenience:
//
//	l, err := pixrect.DecomposeFile("sprite.png", pixrect.DefaultOptions())
package pixrect

import (
	"context"
	"image"
	"io"
	"log/slog"

	"github.com/maax3v3/pixrect/internal/color"
	"github.com/maax3v3/pixrect/internal/export"
	"github.com/maax3v3/pixrect/internal/geom"
	"github.com/maax3v3/pixrect/internal/imaging"
	"github.com/maax3v3/pixrect/internal/layout"
	"github.com/maax3v3/pixrect/internal/logging"
	"github.com/maax3v3/pixrect/internal/pipeline"
	"github.com/maax3v3/pixrect/internal/renderer"
)

type (
	// Point is a pixel coordinate.
	Point = geom.Point
	// BBox is an inclusive axis-aligned box.
	BBox = geom.BBox
	// Kind tags the variant held by a Shape.
	Kind = geom.Kind
	// Shape is a Pixel, a Box or a Complex region.
	Shape = geom.Shape
	// ComplexGeometry is an irregular region with its exact rectangle cover.
	ComplexGeometry = geom.ComplexGeometry
	// InnerGeometry is the list of rectangles and points covering a region.
	InnerGeometry = geom.InnerGeometry
	// Color is a shape color.
	Color = color.RGB
	// Layout maps colors to their shapes in discovery order.
	Layout = layout.Layout
	// Stats summarizes a Layout.
	Stats = layout.Stats
	// Format is an output encoding for WriteLayout.
	Format = export.Format
)

// Shape kinds.
const (
	KindPixel   = geom.KindPixel
	KindBox     = geom.KindBox
	KindComplex = geom.KindComplex
)

// Output formats.
const (
	FormatJSON = export.FormatJSON
	FormatYAML = export.FormatYAML
	FormatSVG  = export.FormatSVG
)

// Options configures the decomposition.
type Options struct {
	// Background is the color treated as empty space.
	// Default: white.
	Background Color

	// MaxColors merges similar colors until at most this many remain
	// before shapes are extracted. 0 keeps exact colors.
	// Default: 0.
	MaxColors int

	// Verify re-rasterizes the result and fails if it does not reproduce
	// the solid pixels of the input exactly.
	// Default: false.
	Verify bool
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{Background: color.White}
}

func (o Options) pipeline() pipeline.Options {
	return pipeline.Options{Background: o.Background, MaxColors: o.MaxColors, Verify: o.Verify}
}

// SetLogger sets the logger used by the library. nil silences it, which is
// also the default. Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	logging.SetLogger(l)
}

// Logger returns the logger used by the library.
func Logger() *slog.Logger {
	return logging.Logger()
}

// ParseHexColor parses a hex color string like "#000", "#FF00FF".
func ParseHexColor(hex string) (Color, error) {
	return color.ParseHex(hex)
}

// LoadImage reads an image from disk. Supports PNG, JPEG, GIF, WEBP, BMP and
// TIFF.
func LoadImage(path string) (image.Image, error) {
	return imaging.Load(path)
}

// Decompose extracts the shapes of img.
func Decompose(img image.Image, opts Options) (*Layout, error) {
	return DecomposeContext(context.Background(), img, opts)
}

// DecomposeContext is Decompose with cancellation, checked between
// components.
func DecomposeContext(ctx context.Context, img image.Image, opts Options) (*Layout, error) {
	return pipeline.Decompose(ctx, img, opts.pipeline())
}

// DecomposeFile loads an image from path and decomposes it. Load errors are
// returned unchanged.
func DecomposeFile(path string, opts Options) (*Layout, error) {
	img, err := LoadImage(path)
	if err != nil {
		return nil, err
	}
	return Decompose(img, opts)
}

// Summarize computes statistics over l.
func Summarize(l *Layout) Stats {
	return layout.Summarize(l)
}

// Render rasterizes l onto a background-colored image of its size.
func Render(l *Layout, background Color) *image.RGBA {
	cfg := renderer.DefaultConfig()
	cfg.Background = background
	return renderer.Render(l, cfg)
}

// WriteLayout encodes l to w.
func WriteLayout(w io.Writer, l *Layout, f Format) error {
	return export.Write(w, l, f)
}
