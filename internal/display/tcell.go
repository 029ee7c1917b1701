package display

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/frame"
)

// cellsPerPixel keeps pixels roughly square in a terminal.
const cellsPerPixel = 2

// Tcell draws the grid on a tcell screen. q, Esc and Ctrl+C close Done.
type Tcell struct {
	screen tcell.Screen
	width  int
	height int

	mu         sync.Mutex
	pixels     []frame.Color
	brightness float64

	done      chan struct{}
	quitOnce  sync.Once
	closeOnce sync.Once
}

// NewTcell takes over the terminal.
func NewTcell(width, height int) (*Tcell, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrHardware,
			"Couldn't open the terminal screen",
			"Run from an interactive terminal or use --display=memory")
	}
	return newTcell(s, width, height)
}

func newTcell(s tcell.Screen, width, height int) (*Tcell, error) {
	if err := s.Init(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrHardware,
			"Couldn't initialize the terminal screen",
			"Check TERM is set to something tcell understands")
	}
	s.HideCursor()
	s.Clear()

	t := &Tcell{
		screen:     s,
		width:      width,
		height:     height,
		pixels:     make([]frame.Color, width*height),
		brightness: 1,
		done:       make(chan struct{}),
	}
	go t.poll()
	return t, nil
}

func (t *Tcell) poll() {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			// Screen finalized.
			return
		case *tcell.EventKey:
			if isQuitKey(ev) {
				t.quit()
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q'
	}
	return false
}

func (t *Tcell) quit() {
	t.quitOnce.Do(func() { close(t.done) })
}

func (t *Tcell) Shape() (int, int) { return t.width, t.height }

func (t *Tcell) Done() <-chan struct{} { return t.done }

func (t *Tcell) SetBrightness(b float64) error {
	if err := checkBrightness(b); err != nil {
		return err
	}
	t.mu.Lock()
	t.brightness = b
	t.mu.Unlock()
	return nil
}

func (t *Tcell) SetPixel(x, y int, c frame.Color) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return
	}
	t.mu.Lock()
	t.pixels[y*t.width+x] = c
	t.mu.Unlock()
}

func (t *Tcell) Show() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			c := t.pixels[y*t.width+x].Scale(t.brightness)
			style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
			for i := 0; i < cellsPerPixel; i++ {
				t.screen.SetContent(x*cellsPerPixel+i, y, ' ', nil, style)
			}
		}
	}
	t.screen.Show()
	return nil
}

func (t *Tcell) Close() error {
	t.closeOnce.Do(func() {
		t.screen.Fini()
	})
	return nil
}
