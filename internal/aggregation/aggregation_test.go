package aggregation

import (
	"testing"

	"github.com/maax3v3/pixrect/internal/color"
	"github.com/maax3v3/pixrect/internal/detection"
)

var (
	red  = color.RGB{R: 255, G: 0, B: 0}
	blue = color.RGB{R: 0, G: 0, B: 255}
)

func TestReduceColors_Empty(t *testing.T) {
	p := ReduceColors(nil, nil, 5)
	if len(p.Entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(p.Entries))
	}
	if len(p.Index) != 0 {
		t.Errorf("expected 0 mappings, got %d", len(p.Index))
	}
}

func TestReduceColors_NoReduction(t *testing.T) {
	colors := []color.RGB{red, {R: 0, G: 255, B: 0}, blue}
	p := ReduceColors(colors, []int{1, 1, 1}, 0) // 0 = unlimited

	if len(p.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(p.Entries))
	}
	for _, c := range colors {
		if got := p.Lookup(c); got != c {
			t.Errorf("Lookup(%v) = %v, want identity", c, got)
		}
	}
}

func TestReduceColors_MergesClosest(t *testing.T) {
	darkRed := color.RGB{R: 250, G: 0, B: 0}
	colors := []color.RGB{red, blue, darkRed}
	p := ReduceColors(colors, []int{3, 5, 1}, 2)

	if len(p.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(p.Entries))
	}
	if p.Lookup(red) != p.Lookup(darkRed) {
		t.Errorf("red and dark red should merge: %v vs %v", p.Lookup(red), p.Lookup(darkRed))
	}
	if p.Lookup(blue) != blue {
		t.Errorf("blue should be untouched, got %v", p.Lookup(blue))
	}
	// (255*3 + 250*1) / 4 = 253.75
	if got := p.Lookup(red); got != (color.RGB{R: 254, G: 0, B: 0}) {
		t.Errorf("weighted mean: got %v, want {254,0,0}", got)
	}
}

func TestReduceColors_ToOne(t *testing.T) {
	colors := []color.RGB{{R: 0, G: 0, B: 0}, {R: 100, G: 100, B: 100}, {R: 200, G: 200, B: 200}}
	p := ReduceColors(colors, []int{1, 1, 1}, 1)
	if len(p.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(p.Entries))
	}
	if p.Entries[0] != (color.RGB{R: 100, G: 100, B: 100}) {
		t.Errorf("got %v, want the mean {100,100,100}", p.Entries[0])
	}
}

func TestLookup_UnknownColor(t *testing.T) {
	p := ReduceColors([]color.RGB{red}, []int{1}, 0)
	c := color.RGB{R: 1, G: 2, B: 3}
	if got := p.Lookup(c); got != c {
		t.Errorf("unknown color remapped to %v", got)
	}
}

func TestReduce_RewritesGrid(t *testing.T) {
	dm := &detection.Map{
		Width:  4,
		Height: 1,
		Solid:  []bool{true, true, false, true},
		Colors: []color.RGB{red, {R: 250, G: 0, B: 0}, {}, blue},
	}
	p := Reduce(dm, 2, color.White)
	if len(p.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(p.Entries))
	}
	if dm.ColorAt(0, 0) != dm.ColorAt(1, 0) {
		t.Errorf("anti-aliased neighbours not merged: %v %v", dm.ColorAt(0, 0), dm.ColorAt(1, 0))
	}
	if dm.ColorAt(3, 0) != blue {
		t.Errorf("blue changed to %v", dm.ColorAt(3, 0))
	}
}

func TestReduce_ZeroLeavesGrid(t *testing.T) {
	dm := &detection.Map{
		Width:  2,
		Height: 1,
		Solid:  []bool{true, true},
		Colors: []color.RGB{red, {R: 250, G: 0, B: 0}},
	}
	Reduce(dm, 0, color.White)
	if dm.ColorAt(0, 0) != red || dm.ColorAt(1, 0) != (color.RGB{R: 250, G: 0, B: 0}) {
		t.Errorf("grid modified with maxColors=0: %v", dm.Colors)
	}
}

func TestReduce_MergedIntoBackgroundIsCleared(t *testing.T) {
	// Two near-white edge pixels average to pure white.
	dm := &detection.Map{
		Width:  3,
		Height: 1,
		Solid:  []bool{true, true, false},
		Colors: []color.RGB{{R: 254, G: 255, B: 255}, {R: 255, G: 255, B: 254}, {}},
	}
	p := Reduce(dm, 1, color.White)
	if len(p.Entries) != 1 || p.Entries[0] != color.White {
		t.Fatalf("expected palette [white], got %v", p.Entries)
	}
	for x := 0; x < 3; x++ {
		if dm.At(x, 0) {
			t.Errorf("pixel %d is solid with color %v", x, dm.ColorAt(x, 0))
		}
	}
	if colors, _ := dm.Histogram(); len(colors) != 0 {
		t.Errorf("background color still in histogram: %v", colors)
	}
}

func TestReduce_OtherBackgroundKeepsWhite(t *testing.T) {
	dm := &detection.Map{
		Width:  2,
		Height: 1,
		Solid:  []bool{true, true},
		Colors: []color.RGB{{R: 254, G: 255, B: 255}, {R: 255, G: 255, B: 254}},
	}
	Reduce(dm, 1, color.RGB{})
	if !dm.At(0, 0) || !dm.At(1, 0) || dm.ColorAt(0, 0) != color.White {
		t.Errorf("white is foreground against a black background: %v %v", dm.Solid, dm.Colors)
	}
}
