package geom

import (
	"errors"
	"fmt"
)

// Kind identifies which variant a Shape holds.
type Kind uint8

const (
	// KindPixel is a single-cell shape.
	KindPixel Kind = iota
	// KindBox is a shape that exactly fills its bounding box.
	KindBox
	// KindComplex is any other shape, stored with its rectangle decomposition.
	KindComplex
)

func (k Kind) String() string {
	switch k {
	case KindPixel:
		return "pixel"
	case KindBox:
		return "box"
	case KindComplex:
		return "complex"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Shape is a tagged union: exactly one of Pixel, Box or Complex is meaningful,
// selected by Kind. Use the constructors so that degenerate boxes are stored
// as pixels.
type Shape struct {
	Kind    Kind
	Pixel   Point
	Box     BBox
	Complex *ComplexGeometry
}

// PixelShape returns a single-cell shape.
func PixelShape(p Point) Shape {
	return Shape{Kind: KindPixel, Pixel: p}
}

// BoxShape returns a box shape, or a pixel shape when b is a single cell.
func BoxShape(b BBox) Shape {
	if b.IsDegenerate() {
		return PixelShape(b.Min)
	}
	return Shape{Kind: KindBox, Box: b}
}

// ComplexShape wraps an irregular geometry.
func ComplexShape(cg *ComplexGeometry) Shape {
	return Shape{Kind: KindComplex, Complex: cg}
}

// BBox returns the outer bounding box of the shape.
func (s Shape) BBox() BBox {
	switch s.Kind {
	case KindPixel:
		return BBox{Min: s.Pixel, Max: s.Pixel}
	case KindComplex:
		return s.Complex.BBox()
	default:
		return s.Box
	}
}

// Len returns the number of cells the shape covers.
func (s Shape) Len() int {
	switch s.Kind {
	case KindPixel:
		return 1
	case KindComplex:
		return s.Complex.Len()
	default:
		return s.Box.Area()
	}
}

// Primitives returns how many rectangles and points describe the shape.
func (s Shape) Primitives() int {
	if s.Kind == KindComplex {
		return s.Complex.Inner().Len()
	}
	return 1
}

// Points returns the cells covered by the shape.
func (s Shape) Points() PointSet {
	switch s.Kind {
	case KindPixel:
		return NewPointSet(s.Pixel)
	case KindComplex:
		return s.Complex.Points().Clone()
	default:
		return NewPointSet(s.Box.Cells()...)
	}
}

// InnerGeometry is a decomposition of a point set into rectangles and
// leftover single cells.
type InnerGeometry struct {
	BBoxes []BBox
	Points []Point
}

// Len returns the number of primitives.
func (g InnerGeometry) Len() int {
	return len(g.BBoxes) + len(g.Points)
}

// Merge appends the primitives of o.
func (g *InnerGeometry) Merge(o InnerGeometry) {
	g.BBoxes = append(g.BBoxes, o.BBoxes...)
	g.Points = append(g.Points, o.Points...)
}

// Cells returns the union of all cells covered by the primitives.
func (g InnerGeometry) Cells() PointSet {
	s := make(PointSet, len(g.Points))
	for _, b := range g.BBoxes {
		for _, p := range b.Cells() {
			s.Add(p)
		}
	}
	for _, p := range g.Points {
		s.Add(p)
	}
	return s
}

// ErrInexactCover is returned by Validate when a decomposition does not
// reproduce its source set cell for cell.
var ErrInexactCover = errors.New("inexact cover")

// Validate checks that the primitives are pairwise disjoint, that no
// rectangle is a single cell, and that together they cover exactly want.
func (g InnerGeometry) Validate(want PointSet) error {
	seen := make(PointSet, want.Len())
	claim := func(p Point, what string) error {
		if seen.Has(p) {
			return fmt.Errorf("%w: %s covers %v twice", ErrInexactCover, what, p)
		}
		if !want.Has(p) {
			return fmt.Errorf("%w: %s covers %v outside the set", ErrInexactCover, what, p)
		}
		seen.Add(p)
		return nil
	}
	for _, b := range g.BBoxes {
		if b.IsDegenerate() {
			return fmt.Errorf("%w: degenerate rectangle %v", ErrInexactCover, b)
		}
		for _, p := range b.Cells() {
			if err := claim(p, "rectangle "+b.String()); err != nil {
				return err
			}
		}
	}
	for _, p := range g.Points {
		if err := claim(p, "point"); err != nil {
			return err
		}
	}
	if seen.Len() != want.Len() {
		return fmt.Errorf("%w: %d of %d cells covered", ErrInexactCover, seen.Len(), want.Len())
	}
	return nil
}

// ComplexGeometry is an irregular region: the source cells, their outer
// bounding box and a rectangle decomposition that covers them exactly.
type ComplexGeometry struct {
	points PointSet
	bbox   BBox
	inner  InnerGeometry
}

// NewComplexGeometry records points and their decomposition. The set is
// owned by the geometry afterwards and must not be modified by the caller.
func NewComplexGeometry(points PointSet, inner InnerGeometry) *ComplexGeometry {
	return &ComplexGeometry{
		points: points,
		bbox:   points.BBox(),
		inner:  inner,
	}
}

// Points returns the source cells. The set must not be modified.
func (c *ComplexGeometry) Points() PointSet { return c.points }

// BBox returns the outer bounding box.
func (c *ComplexGeometry) BBox() BBox { return c.bbox }

// Inner returns the rectangle decomposition.
func (c *ComplexGeometry) Inner() InnerGeometry { return c.inner }

// Len returns the number of source cells.
func (c *ComplexGeometry) Len() int { return len(c.points) }

// AsBBox returns the outer box and true when the points fill it entirely.
func (c *ComplexGeometry) AsBBox() (BBox, bool) {
	if c.bbox.Area() != len(c.points) {
		return BBox{}, false
	}
	return c.bbox, true
}
