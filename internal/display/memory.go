package display

import (
	"sync"

	"github.com/rileyhilliard/pixelbar/internal/frame"
)

// Memory is an in-memory driver. It remembers what was shown and can be
// told to fail or to report a quit, which makes it the driver of choice in
// tests.
type Memory struct {
	mu         sync.Mutex
	width      int
	height     int
	pending    []frame.Color
	shown      []frame.Color
	brightness float64
	shows      int
	closed     bool
	showErr    error

	done     chan struct{}
	quitOnce sync.Once
}

func NewMemory(width, height int) *Memory {
	return &Memory{
		width:      width,
		height:     height,
		pending:    make([]frame.Color, width*height),
		shown:      make([]frame.Color, width*height),
		brightness: 1,
		done:       make(chan struct{}),
	}
}

func (m *Memory) Shape() (int, int) { return m.width, m.height }

func (m *Memory) SetBrightness(b float64) error {
	if err := checkBrightness(b); err != nil {
		return err
	}
	m.mu.Lock()
	m.brightness = b
	m.mu.Unlock()
	return nil
}

// Brightness returns the last brightness set.
func (m *Memory) Brightness() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.brightness
}

func (m *Memory) SetPixel(x, y int, c frame.Color) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.mu.Lock()
	m.pending[y*m.width+x] = c
	m.mu.Unlock()
}

func (m *Memory) Show() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.showErr != nil {
		return m.showErr
	}
	copy(m.shown, m.pending)
	m.shows++
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Done is closed once Quit is called.
func (m *Memory) Done() <-chan struct{} { return m.done }

// Quit behaves like a user pressing the quit key.
func (m *Memory) Quit() {
	m.quitOnce.Do(func() { close(m.done) })
}

// FailShows makes every following Show return err. nil clears it.
func (m *Memory) FailShows(err error) {
	m.mu.Lock()
	m.showErr = err
	m.mu.Unlock()
}

// Pixel returns the shown color at (x, y); pixels set since the last Show
// are not visible yet.
func (m *Memory) Pixel(x, y int) frame.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return frame.Black
	}
	return m.shown[y*m.width+x]
}

// Frame returns a copy of the shown pixels in row-major order.
func (m *Memory) Frame() []frame.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]frame.Color(nil), m.shown...)
}

// Shows counts successful Show calls.
func (m *Memory) Shows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shows
}

// Closed reports whether Close was called.
func (m *Memory) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
