// Package shape turns connected pixel regions into the most compact shape
// that describes them: a pixel, a box, or a complex region decomposed into
// non-overlapping rectangles and leftover points.
package shape

import (
	"github.com/maax3v3/pixrect/internal/color"
	"github.com/maax3v3/pixrect/internal/geom"
)

// Simplify classifies a component's points. A single point becomes a Pixel,
// a set that tiles its bounding box becomes a Box, anything else is
// decomposed into a Complex shape.
//
// The set is owned by the returned shape and must not be modified afterwards.
// Components are never empty; an empty set yields an empty Complex shape
// whose bounding box is the origin.
func Simplify(points geom.PointSet, c color.RGB) geom.Shape {
	if points.Len() == 1 {
		for p := range points {
			return geom.PixelShape(p)
		}
	}

	b := points.BBox()
	if points.Len() > 0 && b.Area() == points.Len() {
		return geom.BoxShape(b)
	}

	inner := Decompose(points, b, c)
	cg := geom.NewComplexGeometry(points, inner)
	if len(inner.BBoxes) == 0 && len(inner.Points) == 1 {
		return geom.PixelShape(inner.Points[0])
	}
	if box, ok := cg.AsBBox(); ok {
		return geom.BoxShape(box)
	}
	return geom.ComplexShape(cg)
}
