// Package layout groups decomposed shapes by color.
package layout

import (
	"context"

	"github.com/maax3v3/pixrect/internal/color"
	"github.com/maax3v3/pixrect/internal/detection"
	"github.com/maax3v3/pixrect/internal/geom"
	"github.com/maax3v3/pixrect/internal/logging"
	"github.com/maax3v3/pixrect/internal/shape"
	"github.com/maax3v3/pixrect/internal/zone"
)

// Layout maps every color of an image to its shapes. Shapes of one color are
// in row-major discovery order; Colors lists the colors in the order their
// first shape was discovered.
type Layout struct {
	Width, Height int
	Colors        []color.RGB
	Shapes        map[color.RGB][]geom.Shape
}

// New returns an empty layout for a width x height grid.
func New(width, height int) *Layout {
	return &Layout{
		Width:  width,
		Height: height,
		Shapes: make(map[color.RGB][]geom.Shape),
	}
}

// Add appends s to the shapes of c.
func (l *Layout) Add(c color.RGB, s geom.Shape) {
	if _, ok := l.Shapes[c]; !ok {
		l.Colors = append(l.Colors, c)
	}
	l.Shapes[c] = append(l.Shapes[c], s)
}

// Len returns the total number of shapes.
func (l *Layout) Len() int {
	n := 0
	for _, shapes := range l.Shapes {
		n += len(shapes)
	}
	return n
}

// Build extracts the components of the classified grid and simplifies each
// one. The context is checked between components.
func Build(ctx context.Context, dm *detection.Map) (*Layout, error) {
	log := logging.Logger()

	adj := zone.BuildAdjacency(dm)
	comps := zone.FindComponents(adj)
	log.Debug("components extracted", "solid", adj.Len(), "components", len(comps))

	l := New(dm.Width, dm.Height)
	for _, comp := range comps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l.Add(comp.Color, shape.Simplify(comp.Points, comp.Color))
	}

	log.Debug("layout built", "colors", len(l.Colors), "shapes", l.Len())
	return l, nil
}
