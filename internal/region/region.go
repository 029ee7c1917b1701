// Package region partitions the display's columns between the routines that
// draw on it. Every routine gets an exclusive, contiguous column range that
// spans the full display height, which is what lets routines write pixels
// concurrently without locking.
package region

import (
	"fmt"

	"github.com/rileyhilliard/pixelbar/internal/errors"
)

// Region is a half-open column range [XStart, XEnd) owned by one routine.
type Region struct {
	Owner  string
	XStart int
	XEnd   int
}

// Width returns the number of columns in the region.
func (r Region) Width() int {
	return r.XEnd - r.XStart
}

// Contains reports whether column x belongs to the region.
func (r Region) Contains(x int) bool {
	return x >= r.XStart && x < r.XEnd
}

// Overlaps reports whether two regions share any column.
func (r Region) Overlaps(o Region) bool {
	return r.XStart < o.XEnd && o.XStart < r.XEnd
}

func (r Region) String() string {
	return fmt.Sprintf("%s[%d,%d)", r.Owner, r.XStart, r.XEnd)
}

// Layout is the result of an allocation.
type Layout struct {
	// Filler is nil when no filler routine was requested.
	Filler *Region
	// Bars holds one single-column region per bar, in declaration order.
	Bars []Region
}

// All returns every allocated region, filler first.
func (l Layout) All() []Region {
	out := make([]Region, 0, len(l.Bars)+1)
	if l.Filler != nil {
		out = append(out, *l.Filler)
	}
	return append(out, l.Bars...)
}

// Allocate assigns columns on a display of the given width. Bars take the
// rightmost columns, stacking right to left: bars[0] gets width-1, bars[1]
// gets width-2 and so on. A filler, if named, gets everything to the left
// of the bars.
func Allocate(width int, bars []string, filler string) (Layout, error) {
	if width <= 0 {
		return Layout{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Display width must be positive, got %d", width),
			"Set --width to the number of columns on your display.")
	}

	if filler == "" && len(bars) == 0 {
		return Layout{}, errors.New(errors.ErrConfig,
			"Nothing to display",
			"Pick a filler with --filler or at least one bar with --bar.")
	}

	if filler != "" && len(bars) >= width {
		return Layout{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("%d bars leave no room for the '%s' filler on a %d column display", len(bars), filler, width),
			"Drop a bar, or run without a filler so bars can use the whole width.")
	}

	if len(bars) > width {
		return Layout{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("%d bars don't fit on a %d column display", len(bars), width),
			"Use at most one bar per column.")
	}

	layout := Layout{Bars: make([]Region, 0, len(bars))}
	for i, name := range bars {
		x := width - i - 1
		layout.Bars = append(layout.Bars, Region{Owner: name, XStart: x, XEnd: x + 1})
	}

	if filler != "" {
		layout.Filler = &Region{Owner: filler, XStart: 0, XEnd: width - len(bars)}
	}

	return layout, nil
}
