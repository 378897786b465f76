package zone

import (
	"github.com/maax3v3/pixrect/internal/color"
	"github.com/maax3v3/pixrect/internal/detection"
	"github.com/maax3v3/pixrect/internal/geom"
)

// dirs lists the 4-connected neighbour offsets: left, right, up, down.
var dirs = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Adjacency links every foreground pixel to its same-colored 4-neighbours.
type Adjacency struct {
	// Order holds the keys of Neighbors in row-major order.
	Order     []geom.Point
	Neighbors map[geom.Point][]geom.Point
	Colors    map[geom.Point]color.RGB
}

func newAdjacency(capacity int) *Adjacency {
	return &Adjacency{
		Order:     make([]geom.Point, 0, capacity),
		Neighbors: make(map[geom.Point][]geom.Point, capacity),
		Colors:    make(map[geom.Point]color.RGB, capacity),
	}
}

// Len returns the number of foreground pixels.
func (a *Adjacency) Len() int {
	return len(a.Order)
}

// BuildAdjacency scans the classified grid once. Solid pixels become keys;
// a neighbour is linked when it is in bounds, solid and has exactly the same
// RGB color. The relation is symmetric by construction.
func BuildAdjacency(dm *detection.Map) *Adjacency {
	w, h := dm.Width, dm.Height
	adj := newAdjacency(dm.Count())

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !dm.At(x, y) {
				continue
			}
			p := geom.Pt(x, y)
			c := dm.ColorAt(x, y)
			near := make([]geom.Point, 0, 4)
			for _, d := range dirs {
				n, ok := p.Neighbor(d[0], d[1])
				if !ok || n.X >= w || n.Y >= h {
					continue
				}
				if !dm.At(n.X, n.Y) || dm.ColorAt(n.X, n.Y) != c {
					continue
				}
				near = append(near, n)
			}
			adj.Order = append(adj.Order, p)
			adj.Neighbors[p] = near
			adj.Colors[p] = c
		}
	}

	return adj
}

// AdjacencyOf builds the adjacency of an arbitrary point set, all of one
// color. Membership in points replaces the solid predicate and only the
// bounding box of the set is scanned.
func AdjacencyOf(points geom.PointSet, c color.RGB) *Adjacency {
	adj := newAdjacency(points.Len())
	if points.Len() == 0 {
		return adj
	}
	b := points.BBox()

	for y := b.Min.Y; y <= b.Max.Y; y++ {
		for x := b.Min.X; x <= b.Max.X; x++ {
			p := geom.Pt(x, y)
			if !points.Has(p) {
				continue
			}
			near := make([]geom.Point, 0, 4)
			for _, d := range dirs {
				if n, ok := p.Neighbor(d[0], d[1]); ok && points.Has(n) {
					near = append(near, n)
				}
			}
			adj.Order = append(adj.Order, p)
			adj.Neighbors[p] = near
			adj.Colors[p] = c
		}
	}

	return adj
}

// Component is a maximal 4-connected set of same-colored foreground pixels.
type Component struct {
	ID     int
	Color  color.RGB
	Points geom.PointSet
}

// FindComponents partitions the adjacency keys into connected components.
// Seeds are taken in row-major order, so components are returned in the
// order their top-left-most pixel appears in the grid. Collection is
// depth-first over an explicit stack.
func FindComponents(adj *Adjacency) []Component {
	visited := make(map[geom.Point]struct{}, adj.Len())
	var comps []Component

	for _, seed := range adj.Order {
		if _, ok := visited[seed]; ok {
			continue
		}
		comp := Component{
			ID:     len(comps),
			Color:  adj.Colors[seed],
			Points: make(geom.PointSet),
		}
		visited[seed] = struct{}{}
		stack := []geom.Point{seed}

		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp.Points.Add(p)

			for _, n := range adj.Neighbors[p] {
				if _, ok := visited[n]; ok {
					continue
				}
				visited[n] = struct{}{}
				stack = append(stack, n)
			}
		}

		comps = append(comps, comp)
	}

	return comps
}
