// Package export encodes a layout as JSON, YAML or SVG.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/maax3v3/pixrect/internal/geom"
	"github.com/maax3v3/pixrect/internal/layout"
	"github.com/maax3v3/pixrect/internal/renderer"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatSVG  Format = "svg"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported names.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps a name ("json", "yaml"/"yml", "svg") to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("%w %q (supported: json, yaml, svg)", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatYAML:
		return "application/yaml"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "application/json"
	}
}

// Document is the serialized form of a layout.
type Document struct {
	Width  int          `json:"width" yaml:"width"`
	Height int          `json:"height" yaml:"height"`
	Colors []ColorGroup `json:"colors" yaml:"colors"`
}

// ColorGroup holds the shapes of one color in discovery order.
type ColorGroup struct {
	Color  string     `json:"color" yaml:"color"`
	Shapes []ShapeDoc `json:"shapes" yaml:"shapes"`
}

// ShapeDoc describes one shape. Point is set for pixels, Box for boxes, and
// BBox, Rects and Points for complex shapes.
type ShapeDoc struct {
	Kind   string   `json:"kind" yaml:"kind"`
	Cells  int      `json:"cells" yaml:"cells"`
	Point  *[2]int  `json:"point,omitempty" yaml:"point,omitempty"`
	Box    *BoxDoc  `json:"box,omitempty" yaml:"box,omitempty"`
	BBox   *BoxDoc  `json:"bbox,omitempty" yaml:"bbox,omitempty"`
	Rects  []BoxDoc `json:"rects,omitempty" yaml:"rects,omitempty"`
	Points [][2]int `json:"points,omitempty" yaml:"points,omitempty"`
}

// BoxDoc is an inclusive box given by its corners.
type BoxDoc struct {
	Min [2]int `json:"min" yaml:"min,flow"`
	Max [2]int `json:"max" yaml:"max,flow"`
}

func pointDoc(p geom.Point) [2]int {
	return [2]int{p.X, p.Y}
}

func boxDoc(b geom.BBox) BoxDoc {
	return BoxDoc{Min: pointDoc(b.Min), Max: pointDoc(b.Max)}
}

// NewDocument converts l into its serialized form.
func NewDocument(l *layout.Layout) Document {
	doc := Document{
		Width:  l.Width,
		Height: l.Height,
		Colors: make([]ColorGroup, 0, len(l.Colors)),
	}
	for _, c := range l.Colors {
		shapes := l.Shapes[c]
		g := ColorGroup{Color: c.Hex(), Shapes: make([]ShapeDoc, 0, len(shapes))}
		for _, s := range shapes {
			g.Shapes = append(g.Shapes, shapeDoc(s))
		}
		doc.Colors = append(doc.Colors, g)
	}
	return doc
}

func shapeDoc(s geom.Shape) ShapeDoc {
	d := ShapeDoc{Kind: s.Kind.String(), Cells: s.Len()}
	switch s.Kind {
	case geom.KindPixel:
		p := pointDoc(s.Pixel)
		d.Point = &p
	case geom.KindBox:
		b := boxDoc(s.Box)
		d.Box = &b
	case geom.KindComplex:
		outer := boxDoc(s.Complex.BBox())
		d.BBox = &outer
		inner := s.Complex.Inner()
		for _, b := range inner.BBoxes {
			d.Rects = append(d.Rects, boxDoc(b))
		}
		for _, p := range inner.Points {
			d.Points = append(d.Points, pointDoc(p))
		}
	}
	return d
}

// Write encodes l to w in the given format.
func Write(w io.Writer, l *layout.Layout, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(l))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(l)); err != nil {
			return err
		}
		return enc.Close()
	case FormatSVG:
		return renderer.WriteSVG(w, l, renderer.DefaultConfig())
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, string(f))
	}
}
