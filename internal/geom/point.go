// Package geom holds the value types produced by shape decomposition:
// points, axis-aligned boxes, point sets and the Pixel/Box/Complex shape union.
package geom

import (
	"fmt"
	"sort"
)

// Point is a pixel coordinate. Coordinates are never negative.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Neighbor returns p translated by (dx, dy). The second result is false when
// the translation would leave the non-negative quadrant. Image bounds are the
// caller's concern.
func (p Point) Neighbor(dx, dy int) (Point, bool) {
	x, y := p.X+dx, p.Y+dy
	if x < 0 || y < 0 {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// less orders points row-major: by Y, then by X.
func less(a, b Point) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// SortRowMajor sorts pts in place, top row first, left to right.
func SortRowMajor(pts []Point) {
	sort.Slice(pts, func(i, j int) bool { return less(pts[i], pts[j]) })
}

// PointSet is an unordered set of points.
type PointSet map[Point]struct{}

// NewPointSet builds a set from the given points.
func NewPointSet(pts ...Point) PointSet {
	s := make(PointSet, len(pts))
	for _, p := range pts {
		s[p] = struct{}{}
	}
	return s
}

// Add inserts p.
func (s PointSet) Add(p Point) {
	s[p] = struct{}{}
}

// Has reports whether p is a member.
func (s PointSet) Has(p Point) bool {
	_, ok := s[p]
	return ok
}

// Len returns the number of members.
func (s PointSet) Len() int {
	return len(s)
}

// Clone returns an independent copy of s.
func (s PointSet) Clone() PointSet {
	c := make(PointSet, len(s))
	for p := range s {
		c[p] = struct{}{}
	}
	return c
}

// Equal reports whether s and o hold exactly the same points.
func (s PointSet) Equal(o PointSet) bool {
	if len(s) != len(o) {
		return false
	}
	for p := range s {
		if !o.Has(p) {
			return false
		}
	}
	return true
}

// Sorted returns the members in row-major order.
func (s PointSet) Sorted() []Point {
	pts := make([]Point, 0, len(s))
	for p := range s {
		pts = append(pts, p)
	}
	SortRowMajor(pts)
	return pts
}

// BBox returns the smallest box containing every member. An empty set yields
// the degenerate box at the origin.
func (s PointSet) BBox() BBox {
	if len(s) == 0 {
		return BBox{}
	}
	first := true
	var b BBox
	for p := range s {
		if first {
			b = BBox{Min: p, Max: p}
			first = false
			continue
		}
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
	}
	return b
}

// FillsBBox reports whether the set covers every cell of its bounding box.
func (s PointSet) FillsBBox() bool {
	return len(s) > 0 && s.BBox().Area() == len(s)
}
