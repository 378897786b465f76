package shape

import (
	"github.com/maax3v3/pixrect/internal/color"
	"github.com/maax3v3/pixrect/internal/geom"
	"github.com/maax3v3/pixrect/internal/zone"
)

// region is a pending piece of work for Decompose.
type region struct {
	points geom.PointSet
	bbox   geom.BBox
	// simplify is set for remainder pieces: they are emitted directly when
	// they are a single cell or a full box, and decomposed otherwise.
	simplify bool
}

// Decompose splits points, whose bounding box is outer, into rectangles and
// single cells that cover it exactly without overlap.
//
// Each step takes the tallest vertical run of the region (the first one
// found, scanning columns left to right and runs top to bottom), extracts
// every maximal horizontal span of columns that fill that height band, and
// then handles what is left. The remainder may fall apart into several
// 4-connected pieces; each piece is simplified on its own and its result is
// merged in. Pieces are processed depth first in row-major discovery order
// from an explicit stack, so deep inputs do not grow the goroutine stack.
func Decompose(points geom.PointSet, outer geom.BBox, c color.RGB) geom.InnerGeometry {
	var out geom.InnerGeometry
	if points.Len() == 0 {
		return out
	}

	stack := []region{{points: points, bbox: outer}}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if r.simplify {
			if r.points.Len() == 1 {
				out.Points = append(out.Points, r.bbox.Min)
				continue
			}
			if r.bbox.Area() == r.points.Len() {
				out.BBoxes = append(out.BBoxes, r.bbox)
				continue
			}
		}

		rest := r.points.Clone()
		for _, rect := range extract(r.points, r.bbox) {
			if rect.IsDegenerate() {
				out.Points = append(out.Points, rect.Min)
			} else {
				out.BBoxes = append(out.BBoxes, rect)
			}
			for _, p := range rect.Cells() {
				delete(rest, p)
			}
		}
		if rest.Len() == 0 {
			continue
		}

		pieces := zone.FindComponents(zone.AdjacencyOf(rest, c))
		for i := len(pieces) - 1; i >= 0; i-- {
			stack = append(stack, region{
				points:   pieces[i].Points,
				bbox:     pieces[i].Points.BBox(),
				simplify: true,
			})
		}
	}

	return out
}

// extract performs one decomposition step: it finds the height band of the
// tallest run and returns the maximal rectangles spanning that band.
func extract(points geom.PointSet, b geom.BBox) []geom.BBox {
	minY, maxY, ok := tallestRun(points, b)
	if !ok {
		return nil
	}
	return bandRects(points, b, minY, maxY)
}

// tallestRun returns the y-range of the longest vertical run of points
// inside b. Only a strictly longer run replaces the current best, so the
// earliest run wins ties.
func tallestRun(points geom.PointSet, b geom.BBox) (minY, maxY int, ok bool) {
	best := 0
	for x := b.Min.X; x <= b.Max.X; x++ {
		run := 0
		for y := b.Min.Y; y <= b.Max.Y; y++ {
			if points.Has(geom.Pt(x, y)) {
				run++
				continue
			}
			if run > best {
				best = run
				minY, maxY = y-run, y-1
			}
			run = 0
		}
		if run > best {
			best = run
			minY, maxY = b.Max.Y-run+1, b.Max.Y
		}
	}
	return minY, maxY, best > 0
}

// bandRects returns one rectangle per maximal run of consecutive columns
// that contain every y in [minY, maxY].
func bandRects(points geom.PointSet, b geom.BBox, minY, maxY int) []geom.BBox {
	var rects []geom.BBox
	start := -1
	for x := b.Min.X; x <= b.Max.X; x++ {
		if columnFilled(points, x, minY, maxY) {
			if start < 0 {
				start = x
			}
			continue
		}
		if start >= 0 {
			rects = append(rects, geom.NewBBox(geom.Pt(start, minY), geom.Pt(x-1, maxY)))
			start = -1
		}
	}
	if start >= 0 {
		rects = append(rects, geom.NewBBox(geom.Pt(start, minY), geom.Pt(b.Max.X, maxY)))
	}
	return rects
}

func columnFilled(points geom.PointSet, x, minY, maxY int) bool {
	for y := minY; y <= maxY; y++ {
		if !points.Has(geom.Pt(x, y)) {
			return false
		}
	}
	return true
}
