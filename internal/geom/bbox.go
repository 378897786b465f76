package geom

import "fmt"

// BBox is an inclusive axis-aligned box. Min == Max is a single cell.
type BBox struct {
	Min, Max Point
}

// NewBBox returns the box spanning the two corners, whatever their order.
func NewBBox(a, b Point) BBox {
	return BBox{
		Min: Point{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		Max: Point{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

func (b BBox) Width() int  { return b.Max.X - b.Min.X + 1 }
func (b BBox) Height() int { return b.Max.Y - b.Min.Y + 1 }
func (b BBox) Area() int   { return b.Width() * b.Height() }

// IsDegenerate reports whether the box is a single cell.
func (b BBox) IsDegenerate() bool {
	return b.Min == b.Max
}

// Contains reports whether p lies inside b.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Overlaps reports whether b and o share at least one cell.
func (b BBox) Overlaps(o BBox) bool {
	return b.Min.X <= o.Max.X && o.Min.X <= b.Max.X &&
		b.Min.Y <= o.Max.Y && o.Min.Y <= b.Max.Y
}

// Cells returns every cell of the box in row-major order.
func (b BBox) Cells() []Point {
	pts := make([]Point, 0, b.Area())
	for y := b.Min.Y; y <= b.Max.Y; y++ {
		for x := b.Min.X; x <= b.Max.X; x++ {
			pts = append(pts, Point{X: x, Y: y})
		}
	}
	return pts
}

func (b BBox) String() string {
	return fmt.Sprintf("%v-%v", b.Min, b.Max)
}
