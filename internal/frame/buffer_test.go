package frame

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver records what was shown. Show copies staged pixels into frames.
type fakeDriver struct {
	mu      sync.Mutex
	w, h    int
	staged  []Color
	frames  [][]Color
	showErr error
	inShow  bool
	overlap bool
}

func newFakeDriver(w, h int) *fakeDriver {
	return &fakeDriver{w: w, h: h, staged: make([]Color, w*h)}
}

func (d *fakeDriver) Shape() (int, int)           { return d.w, d.h }
func (d *fakeDriver) SetBrightness(float64) error { return nil }
func (d *fakeDriver) Close() error                { return nil }
func (d *fakeDriver) SetPixel(x, y int, c Color)  { d.staged[y*d.w+x] = c }

func (d *fakeDriver) lastFrame() []Color {
	return d.frames[len(d.frames)-1]
}

func (d *fakeDriver) pixel(f []Color, x, y int) Color {
	return f[y*d.w+x]
}

func (d *fakeDriver) Show() error {
	d.mu.Lock()
	if d.inShow {
		d.overlap = true
	}
	d.inShow = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.inShow = false
		d.mu.Unlock()
	}()

	if d.showErr != nil {
		return d.showErr
	}
	f := make([]Color, len(d.staged))
	copy(f, d.staged)
	d.frames = append(d.frames, f)
	return nil
}

func TestCanvas_SetPixelBounds(t *testing.T) {
	buf := NewBuffer(newFakeDriver(8, 4))
	c, err := buf.Canvas(region.Region{Owner: "sparkle", XStart: 0, XEnd: 7})
	require.NoError(t, err)

	tests := []struct {
		name string
		x, y int
		ok   bool
	}{
		{name: "origin", x: 0, y: 0, ok: true},
		{name: "last owned column", x: 6, y: 3, ok: true},
		{name: "column owned by a bar", x: 7, y: 0},
		{name: "past display width", x: 8, y: 0},
		{name: "negative x", x: -1, y: 0},
		{name: "past display height", x: 0, y: 4},
		{name: "negative y", x: 0, y: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.SetPixel(tt.x, tt.y, Color{R: 1})
			_, getErr := c.Pixel(tt.x, tt.y)
			if tt.ok {
				assert.NoError(t, err)
				assert.NoError(t, getErr)
				return
			}
			assert.True(t, errors.IsCode(err, errors.ErrBounds), "got %v", err)
			assert.True(t, errors.IsCode(getErr, errors.ErrBounds), "got %v", getErr)
		})
	}
}

func TestBuffer_PixelBounds(t *testing.T) {
	buf := NewBuffer(newFakeDriver(8, 4))

	_, err := buf.Pixel(8, 0)
	assert.True(t, errors.IsCode(err, errors.ErrBounds))

	_, err = buf.Pixel(7, 3)
	assert.NoError(t, err)
}

func TestBuffer_CanvasRejectsForeignRegion(t *testing.T) {
	buf := NewBuffer(newFakeDriver(8, 4))

	_, err := buf.Canvas(region.Region{Owner: "x", XStart: 6, XEnd: 9})
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	_, err = buf.Canvas(region.Region{Owner: "x", XStart: 3, XEnd: 3})
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestCanvas_StagedUntilPresent(t *testing.T) {
	drv := newFakeDriver(4, 2)
	buf := NewBuffer(drv)
	c, err := buf.Canvas(region.Region{Owner: "bar", XStart: 3, XEnd: 4})
	require.NoError(t, err)

	red := Color{R: 255}
	require.NoError(t, c.SetPixel(3, 1, red))

	committed, err := buf.Pixel(3, 1)
	require.NoError(t, err)
	assert.Equal(t, Black, committed, "writes stay private until Present")

	require.NoError(t, c.Present())

	committed, err = buf.Pixel(3, 1)
	require.NoError(t, err)
	assert.Equal(t, red, committed)
	assert.Equal(t, red, drv.pixel(drv.lastFrame(), 3, 1))
	assert.Equal(t, uint64(1), buf.Presents())
}

func TestCanvas_PresentKeepsOtherRegions(t *testing.T) {
	drv := newFakeDriver(4, 2)
	buf := NewBuffer(drv)
	filler, err := buf.Canvas(region.Region{Owner: "filler", XStart: 0, XEnd: 3})
	require.NoError(t, err)
	bar, err := buf.Canvas(region.Region{Owner: "bar", XStart: 3, XEnd: 4})
	require.NoError(t, err)

	white := Color{R: 255, G: 255, B: 255}
	green := Color{G: 200}

	bar.Fill(white)
	require.NoError(t, bar.Present())

	filler.Fill(green)
	require.NoError(t, filler.Present())

	f := drv.lastFrame()
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			assert.Equal(t, green, drv.pixel(f, x, y))
		}
		assert.Equal(t, white, drv.pixel(f, 3, y), "bar column survives the filler's present")
	}
}

func TestCanvas_PresentWrapsDriverFailure(t *testing.T) {
	drv := newFakeDriver(2, 2)
	drv.showErr = stderrors.New("usb: device disconnected")
	buf := NewBuffer(drv)
	c, err := buf.Canvas(region.Region{Owner: "filler", XStart: 0, XEnd: 2})
	require.NoError(t, err)

	err = c.Present()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrHardware))
	assert.ErrorIs(t, err, drv.showErr)
	assert.Equal(t, uint64(0), buf.Presents())
}

// Concurrent presents from disjoint canvases never overlap inside the
// driver and every region ends up committed.
func TestCanvas_ConcurrentPresentsAreSerialized(t *testing.T) {
	const width, height = 8, 4
	drv := newFakeDriver(width, height)
	buf := NewBuffer(drv)

	layout, err := region.Allocate(width, []string{"b0", "b1", "b2"}, "filler")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i, r := range layout.All() {
		c, err := buf.Canvas(r)
		require.NoError(t, err)

		wg.Add(1)
		go func(c *Canvas, shade uint8) {
			defer wg.Done()
			for n := 0; n < 200; n++ {
				c.Fill(Color{R: shade, G: uint8(n)})
				if err := c.Present(); err != nil {
					t.Error(err)
					return
				}
			}
		}(c, uint8(10*(i+1)))
	}
	wg.Wait()

	assert.False(t, drv.overlap, "driver Show calls overlapped")
	assert.Equal(t, uint64(800), buf.Presents())

	snap := buf.Snapshot()
	for i, r := range layout.All() {
		for y := 0; y < height; y++ {
			for x := r.XStart; x < r.XEnd; x++ {
				assert.Equal(t, Color{R: uint8(10 * (i + 1)), G: 199}, snap[y*width+x])
			}
		}
	}
}

func TestBuffer_Clear(t *testing.T) {
	drv := newFakeDriver(2, 1)
	buf := NewBuffer(drv)
	c, err := buf.Canvas(region.Region{Owner: "f", XStart: 0, XEnd: 2})
	require.NoError(t, err)

	c.Fill(Color{B: 9})
	require.NoError(t, c.Present())
	require.NoError(t, buf.Clear())

	for _, px := range drv.lastFrame() {
		assert.Equal(t, Black, px)
	}
}
