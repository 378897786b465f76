package aggregation

import (
	"math"

	"github.com/maax3v3/pixrect/internal/color"
	"github.com/maax3v3/pixrect/internal/detection"
)

// Palette maps each source color to a reduced palette entry.
type Palette struct {
	Entries []color.RGB       // the distinct palette entries
	Index   map[color.RGB]int // source color -> index into Entries
}

// Lookup returns the palette entry replacing c. Unknown colors map to themselves.
func (p *Palette) Lookup(c color.RGB) color.RGB {
	if idx, ok := p.Index[c]; ok {
		return p.Entries[idx]
	}
	return c
}

// ReduceColors takes distinct colors with their pixel counts and reduces
// them to at most maxColors entries by iteratively merging the two closest
// colors (in CIELAB space) into their count-weighted mean.
// If maxColors is 0, no reduction is performed.
func ReduceColors(colors []color.RGB, counts []int, maxColors int) *Palette {
	type colorGroup struct {
		color   color.RGB
		members []int // indexes into colors
	}

	groups := make([]colorGroup, len(colors))
	for i, c := range colors {
		groups[i] = colorGroup{color: c, members: []int{i}}
	}

	// Iteratively merge closest pair until we are within maxColors
	for maxColors > 0 && len(groups) > maxColors {
		bestDist := math.MaxFloat64
		bestI, bestJ := 0, 1
		for i := 0; i < len(groups); i++ {
			for j := i + 1; j < len(groups); j++ {
				d := color.DistanceLAB(groups[i].color, groups[j].color)
				if d < bestDist {
					bestDist = d
					bestI = i
					bestJ = j
				}
			}
		}

		// Merge bestJ into bestI
		merged := append(groups[bestI].members, groups[bestJ].members...)
		mc := make([]color.RGB, len(merged))
		mw := make([]int, len(merged))
		for k, idx := range merged {
			mc[k] = colors[idx]
			mw[k] = counts[idx]
		}
		groups[bestI] = colorGroup{
			color:   color.WeightedMean(mc, mw),
			members: merged,
		}

		groups = append(groups[:bestJ], groups[bestJ+1:]...)
	}

	p := &Palette{
		Entries: make([]color.RGB, len(groups)),
		Index:   make(map[color.RGB]int, len(colors)),
	}
	for i, g := range groups {
		p.Entries[i] = g.color
		for _, idx := range g.members {
			p.Index[colors[idx]] = i
		}
	}
	return p
}

// Reduce limits the solid colors of dm to maxColors, rewriting dm in place.
// With maxColors == 0 the grid is left untouched. Pixels whose merged color
// lands exactly on background stop being solid, since a solid pixel never
// has the background color.
func Reduce(dm *detection.Map, maxColors int, background color.RGB) *Palette {
	colors, counts := dm.Histogram()
	p := ReduceColors(colors, counts, maxColors)
	if len(p.Entries) < len(colors) {
		dm.Remap(p.Lookup)
		dm.ClearColor(background)
	}
	return p
}
