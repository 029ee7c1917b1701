// Package frame holds the shared pixel grid.
//
// Routines never write to the grid directly. Each one gets a Canvas scoped
// to its region: a private staging area it can mutate without locks. A
// Canvas.Present commits the staged region into the shared front frame and
// flushes the whole frame to the driver under the buffer's mutex, so
// presents from different routines are serialized and never show a
// half-drawn region.
package frame

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/region"
)

// Buffer is the committed state of the display.
type Buffer struct {
	width  int
	height int
	driver Driver

	mu    sync.Mutex // guards front and every driver call
	front []Color

	presents atomic.Uint64
}

// NewBuffer creates a buffer sized to the driver's shape.
func NewBuffer(d Driver) *Buffer {
	w, h := d.Shape()
	return &Buffer{
		width:  w,
		height: h,
		driver: d,
		front:  make([]Color, w*h),
	}
}

// Width returns the grid width.
func (b *Buffer) Width() int { return b.width }

// Height returns the grid height.
func (b *Buffer) Height() int { return b.height }

// Presents returns the number of successful flushes.
func (b *Buffer) Presents() uint64 {
	return b.presents.Load()
}

func (b *Buffer) inGrid(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Pixel returns the committed color at (x,y).
func (b *Buffer) Pixel(x, y int) (Color, error) {
	if !b.inGrid(x, y) {
		return Black, errors.NewOutOfBounds(x, y, b.bounds())
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.front[y*b.width+x], nil
}

// Snapshot returns a copy of the committed frame in row-major order.
func (b *Buffer) Snapshot() []Color {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Color, len(b.front))
	copy(out, b.front)
	return out
}

func (b *Buffer) bounds() string {
	return fmt.Sprintf("the %dx%d display", b.width, b.height)
}

// Canvas returns a staging area for r. The region must lie inside the grid.
func (b *Buffer) Canvas(r region.Region) (*Canvas, error) {
	if r.Width() <= 0 || r.XStart < 0 || r.XEnd > b.width {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Region %s doesn't fit %s", r, b.bounds()),
			"Regions come from region.Allocate with the display width.")
	}
	return &Canvas{
		buf:    b,
		region: r,
		pixels: make([]Color, r.Width()*b.height),
	}, nil
}

// Clear blanks the whole display. Used on shutdown.
func (b *Buffer) Clear() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.front {
		b.front[i] = Black
	}
	return b.flushLocked()
}

// flushLocked writes the front frame to the driver. b.mu must be held.
func (b *Buffer) flushLocked() error {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			b.driver.SetPixel(x, y, b.front[y*b.width+x])
		}
	}
	if err := b.driver.Show(); err != nil {
		return errors.WrapWithCode(err, errors.ErrHardware,
			"Display flush failed",
			"Check the display connection; pixelbar stops when the display is gone.")
	}
	b.presents.Add(1)
	return nil
}

// Canvas is one routine's private view of its region. It is not safe for
// use by more than one goroutine.
type Canvas struct {
	buf    *Buffer
	region region.Region
	pixels []Color
}

// Region returns the columns this canvas owns.
func (c *Canvas) Region() region.Region { return c.region }

// Height returns the grid height.
func (c *Canvas) Height() int { return c.buf.height }

func (c *Canvas) index(x, y int) (int, error) {
	if !c.buf.inGrid(x, y) {
		return 0, errors.NewOutOfBounds(x, y, c.buf.bounds())
	}
	if !c.region.Contains(x) {
		return 0, errors.NewOutOfBounds(x, y, "region "+c.region.String())
	}
	return y*c.region.Width() + (x - c.region.XStart), nil
}

// SetPixel stages a color at absolute display coordinates (x,y).
func (c *Canvas) SetPixel(x, y int, col Color) error {
	i, err := c.index(x, y)
	if err != nil {
		return err
	}
	c.pixels[i] = col
	return nil
}

// Pixel returns the staged color at (x,y).
func (c *Canvas) Pixel(x, y int) (Color, error) {
	i, err := c.index(x, y)
	if err != nil {
		return Black, err
	}
	return c.pixels[i], nil
}

// Fill stages col on every pixel of the region.
func (c *Canvas) Fill(col Color) {
	for i := range c.pixels {
		c.pixels[i] = col
	}
}

// Present commits the staged region and flushes the full frame.
func (c *Canvas) Present() error {
	b := c.buf
	w := c.region.Width()

	b.mu.Lock()
	defer b.mu.Unlock()

	for y := 0; y < b.height; y++ {
		copy(b.front[y*b.width+c.region.XStart:y*b.width+c.region.XEnd], c.pixels[y*w:(y+1)*w])
	}
	return b.flushLocked()
}
