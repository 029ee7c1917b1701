package region

import (
	"fmt"
	"testing"

	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func barNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("bar%d", i)
	}
	return names
}

func TestAllocate_BarsStackRightToLeft(t *testing.T) {
	layout, err := Allocate(8, []string{"internet", "load"}, "sparkle")
	require.NoError(t, err)

	require.Len(t, layout.Bars, 2)
	assert.Equal(t, Region{Owner: "internet", XStart: 7, XEnd: 8}, layout.Bars[0])
	assert.Equal(t, Region{Owner: "load", XStart: 6, XEnd: 7}, layout.Bars[1])

	require.NotNil(t, layout.Filler)
	assert.Equal(t, Region{Owner: "sparkle", XStart: 0, XEnd: 6}, *layout.Filler)
}

func TestAllocate_FillerOnly(t *testing.T) {
	layout, err := Allocate(8, nil, "rainbow")
	require.NoError(t, err)

	assert.Empty(t, layout.Bars)
	require.NotNil(t, layout.Filler)
	assert.Equal(t, 8, layout.Filler.Width())
}

func TestAllocate_BarsMayUseWholeWidthWithoutFiller(t *testing.T) {
	layout, err := Allocate(3, barNames(3), "")
	require.NoError(t, err)

	assert.Nil(t, layout.Filler)
	assert.Len(t, layout.Bars, 3)
	assert.Equal(t, 0, layout.Bars[2].XStart)
}

func TestAllocate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		bars   []string
		filler string
	}{
		{name: "bars fill width with filler", width: 4, bars: barNames(4), filler: "sparkle"},
		{name: "more bars than width with filler", width: 4, bars: barNames(6), filler: "matrix"},
		{name: "more bars than width without filler", width: 2, bars: barNames(3)},
		{name: "nothing requested", width: 8},
		{name: "zero width", width: 0, filler: "rainbow"},
		{name: "negative width", width: -1, bars: barNames(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Allocate(tt.width, tt.bars, tt.filler)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig), "expected CONFIG error, got %v", err)
		})
	}
}

// For every width and bar count with room for a filler, the regions are
// pairwise disjoint and cover [0,width) exactly once.
func TestAllocate_DisjointExactCover(t *testing.T) {
	for width := 1; width <= 32; width++ {
		for barCount := 0; barCount < width; barCount++ {
			layout, err := Allocate(width, barNames(barCount), "filler")
			require.NoError(t, err, "width=%d bars=%d", width, barCount)

			covered := make([]int, width)
			for _, r := range layout.All() {
				require.GreaterOrEqual(t, r.XStart, 0)
				require.LessOrEqual(t, r.XEnd, width)
				require.Greater(t, r.Width(), 0, "empty region %s", r)
				for x := r.XStart; x < r.XEnd; x++ {
					covered[x]++
				}
			}
			for x, n := range covered {
				require.Equal(t, 1, n, "width=%d bars=%d column %d covered %d times", width, barCount, x, n)
			}

			all := layout.All()
			for i := range all {
				for j := i + 1; j < len(all); j++ {
					assert.False(t, all[i].Overlaps(all[j]), "%s overlaps %s", all[i], all[j])
				}
			}
		}
	}
}

func TestRegion_Helpers(t *testing.T) {
	r := Region{Owner: "sparkle", XStart: 0, XEnd: 6}

	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(5))
	assert.False(t, r.Contains(6))
	assert.False(t, r.Contains(-1))
	assert.Equal(t, "sparkle[0,6)", r.String())

	assert.True(t, r.Overlaps(Region{XStart: 5, XEnd: 7}))
	assert.False(t, r.Overlaps(Region{XStart: 6, XEnd: 7}))
}
