package renderer

import (
	"errors"
	"fmt"
	"image"
	stdcolor "image/color"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/maax3v3/pixrect/internal/color"
	"github.com/maax3v3/pixrect/internal/detection"
	"github.com/maax3v3/pixrect/internal/geom"
	"github.com/maax3v3/pixrect/internal/layout"
)

// Config holds rendering configuration.
type Config struct {
	Background color.RGB // fill for cells no shape covers
	Scale      int       // output pixels per layout cell
}

// DefaultConfig returns sensible default rendering configuration.
func DefaultConfig() Config {
	return Config{
		Background: color.White,
		Scale:      1,
	}
}

// Render rasterizes a layout: every cell of every shape is painted in its
// color over the background.
func Render(l *layout.Layout, cfg Config) *image.RGBA {
	scale := max(cfg.Scale, 1)
	out := image.NewRGBA(image.Rect(0, 0, l.Width*scale, l.Height*scale))

	bg := cfg.Background.ToStdColor()
	for y := 0; y < out.Bounds().Dy(); y++ {
		for x := 0; x < out.Bounds().Dx(); x++ {
			out.SetRGBA(x, y, bg)
		}
	}

	for _, c := range l.Colors {
		fill := c.ToStdColor()
		for _, s := range l.Shapes[c] {
			eachPrimitive(s, func(b geom.BBox) {
				fillBox(out, b, scale, fill)
			})
		}
	}

	return out
}

// eachPrimitive calls fn for every rectangle that draws s. Points are passed
// as single-cell boxes.
func eachPrimitive(s geom.Shape, fn func(geom.BBox)) {
	switch s.Kind {
	case geom.KindPixel:
		fn(geom.BBox{Min: s.Pixel, Max: s.Pixel})
	case geom.KindBox:
		fn(s.Box)
	case geom.KindComplex:
		inner := s.Complex.Inner()
		for _, b := range inner.BBoxes {
			fn(b)
		}
		for _, p := range inner.Points {
			fn(geom.BBox{Min: p, Max: p})
		}
	}
}

func fillBox(img *image.RGBA, b geom.BBox, scale int, col stdcolor.RGBA) {
	for y := b.Min.Y * scale; y < (b.Max.Y+1)*scale; y++ {
		for x := b.Min.X * scale; x < (b.Max.X+1)*scale; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// ErrMismatch is returned by Verify when the rendered layout differs from
// the source grid.
var ErrMismatch = errors.New("reconstruction mismatch")

// Verify renders l at scale 1 and checks that its solid pixels, with their
// colors, are exactly those of dm.
func Verify(l *layout.Layout, dm *detection.Map) error {
	if l.Width != dm.Width || l.Height != dm.Height {
		return fmt.Errorf("%w: layout is %dx%d, source is %dx%d",
			ErrMismatch, l.Width, l.Height, dm.Width, dm.Height)
	}

	covered := make([]int, dm.Width*dm.Height)
	mismatch := func(x, y int, what string) error {
		return fmt.Errorf("%w at (%d,%d): %s", ErrMismatch, x, y, what)
	}

	for _, c := range l.Colors {
		for _, s := range l.Shapes[c] {
			var err error
			eachPrimitive(s, func(b geom.BBox) {
				for _, p := range b.Cells() {
					if err != nil {
						return
					}
					if p.X >= dm.Width || p.Y >= dm.Height {
						err = mismatch(p.X, p.Y, "outside the image")
						return
					}
					i := p.Y*dm.Width + p.X
					covered[i]++
					switch {
					case covered[i] > 1:
						err = mismatch(p.X, p.Y, "covered more than once")
					case !dm.Solid[i]:
						err = mismatch(p.X, p.Y, "background pixel covered")
					case dm.Colors[i] != c:
						err = mismatch(p.X, p.Y, fmt.Sprintf("color %v, source %v", c, dm.Colors[i]))
					}
				}
			})
			if err != nil {
				return err
			}
		}
	}

	for i, solid := range dm.Solid {
		if solid && covered[i] == 0 {
			return mismatch(i%dm.Width, i/dm.Width, "solid pixel not covered")
		}
	}
	return nil
}

// WriteSVG writes the layout as an SVG document with one group per color
// and one rect per primitive.
func WriteSVG(w io.Writer, l *layout.Layout, cfg Config) error {
	scale := max(cfg.Scale, 1)
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(l.Width*scale, l.Height*scale, `shape-rendering="crispEdges"`)
	for _, c := range l.Colors {
		canvas.Gstyle("fill:" + c.Hex())
		for _, s := range l.Shapes[c] {
			eachPrimitive(s, func(b geom.BBox) {
				canvas.Rect(b.Min.X*scale, b.Min.Y*scale, b.Width()*scale, b.Height()*scale)
			})
		}
		canvas.Gend()
	}
	canvas.End()
	return ew.err
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
