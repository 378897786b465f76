package layout

import (
	"github.com/maax3v3/pixrect/internal/geom"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a layout.
type Stats struct {
	Colors  int
	Shapes  int
	Pixels  int
	Boxes   int
	Complex int

	// Rectangles and Points count the primitives needed to draw the layout:
	// boxes and inner rectangles, pixels and inner points.
	Rectangles int
	Points     int

	Cells       int
	MeanCells   float64
	StdDevCells float64
	MaxCells    int

	// Ratio is primitives per covered cell; lower is more compact.
	Ratio float64
}

// Summarize computes the statistics of l.
func Summarize(l *Layout) Stats {
	st := Stats{Colors: len(l.Colors)}
	var sizes []float64

	for _, c := range l.Colors {
		for _, s := range l.Shapes[c] {
			st.Shapes++
			sizes = append(sizes, float64(s.Len()))
			switch s.Kind {
			case geom.KindPixel:
				st.Pixels++
				st.Points++
			case geom.KindBox:
				st.Boxes++
				st.Rectangles++
			case geom.KindComplex:
				st.Complex++
				inner := s.Complex.Inner()
				st.Rectangles += len(inner.BBoxes)
				st.Points += len(inner.Points)
			}
		}
	}

	if len(sizes) == 0 {
		return st
	}
	st.Cells = int(floats.Sum(sizes))
	st.MaxCells = int(floats.Max(sizes))
	st.MeanCells, st.StdDevCells = stat.MeanStdDev(sizes, nil)
	if len(sizes) == 1 {
		st.StdDevCells = 0
	}
	st.Ratio = float64(st.Rectangles+st.Points) / float64(st.Cells)
	return st
}
