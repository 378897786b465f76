package detection

import (
	"image"

	"github.com/maax3v3/pixrect/internal/color"
)

// Map holds the classified pixel grid. Both slices are row-major:
// index = y*Width + x. Colors is only meaningful where Solid is true.
type Map struct {
	Width, Height int
	Solid         []bool
	Colors        []color.RGB
}

// At returns whether the pixel at (x, y) is solid.
func (m *Map) At(x, y int) bool {
	return m.Solid[y*m.Width+x]
}

// ColorAt returns the color of the pixel at (x, y).
func (m *Map) ColorAt(x, y int) color.RGB {
	return m.Colors[y*m.Width+x]
}

// Count returns the number of solid pixels.
func (m *Map) Count() int {
	count := 0
	for _, s := range m.Solid {
		if s {
			count++
		}
	}
	return count
}

// Histogram returns the distinct solid colors in row-major discovery order
// together with their pixel counts.
func (m *Map) Histogram() ([]color.RGB, []int) {
	index := make(map[color.RGB]int)
	var colors []color.RGB
	var counts []int
	for i, s := range m.Solid {
		if !s {
			continue
		}
		c := m.Colors[i]
		idx, ok := index[c]
		if !ok {
			idx = len(colors)
			index[c] = idx
			colors = append(colors, c)
			counts = append(counts, 0)
		}
		counts[idx]++
	}
	return colors, counts
}

// Remap replaces the color of every solid pixel with f(color).
func (m *Map) Remap(f func(color.RGB) color.RGB) {
	for i, s := range m.Solid {
		if s {
			m.Colors[i] = f(m.Colors[i])
		}
	}
}

// ClearColor marks every solid pixel of color c as background and returns
// how many were cleared.
func (m *Map) ClearColor(c color.RGB) int {
	n := 0
	for i, s := range m.Solid {
		if s && m.Colors[i] == c {
			m.Solid[i] = false
			m.Colors[i] = color.RGB{}
			n++
		}
	}
	return n
}

// Classifier decides which pixels of an image are foreground.
type Classifier interface {
	Detect(img image.Image) *Map
}

// SolidClassifier marks a pixel as solid when it is fully opaque and its
// color differs from Background. Neighboring solid pixels belong together
// only when their RGB values are identical; that decision is left to the
// adjacency builder, which compares Colors.
type SolidClassifier struct {
	Background color.RGB
}

// Detect scans every pixel of img once.
func (d *SolidClassifier) Detect(img image.Image) *Map {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	dm := &Map{
		Width:  w,
		Height: h,
		Solid:  make([]bool, w*h),
		Colors: make([]color.RGB, w*h),
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := color.FromStdColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			if color.IsSolid(px, d.Background) {
				dm.Solid[y*w+x] = true
				dm.Colors[y*w+x] = px.RGB()
			}
		}
	}

	return dm
}

// Detect is a convenience wrapper that classifies against a white background.
func Detect(img image.Image) *Map {
	d := &SolidClassifier{Background: color.White}
	return d.Detect(img)
}
