package display

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/frame"
)

// frameMsg carries one shown frame into the Bubble Tea program.
type frameMsg struct {
	pixels []frame.Color
}

type gridKeyMap struct {
	Quit key.Binding
}

var gridKeys = gridKeyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "quit"),
	),
}

// gridModel renders the pixel grid. It never mutates pixels itself; every
// frame arrives as a frameMsg.
type gridModel struct {
	width    int
	height   int
	pixels   []frame.Color
	renderer *lipgloss.Renderer
	onQuit   func()
}

func newGridModel(width, height int, r *lipgloss.Renderer, onQuit func()) gridModel {
	return gridModel{
		width:    width,
		height:   height,
		pixels:   make([]frame.Color, width*height),
		renderer: r,
		onQuit:   onQuit,
	}
}

func (m gridModel) Init() tea.Cmd {
	return nil
}

func (m gridModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, gridKeys.Quit) {
			if m.onQuit != nil {
				m.onQuit()
			}
			return m, tea.Quit
		}
	case frameMsg:
		if len(msg.pixels) == len(m.pixels) {
			m.pixels = msg.pixels
		}
	}
	return m, nil
}

func (m gridModel) View() string {
	var b strings.Builder
	cell := strings.Repeat(" ", cellsPerPixel)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			c := m.pixels[y*m.width+x]
			b.WriteString(m.renderer.NewStyle().Background(lipgloss.Color(c.Hex())).Render(cell))
		}
		b.WriteByte('\n')
	}
	help := gridKeys.Quit.Help()
	b.WriteString(m.renderer.NewStyle().Faint(true).Render(help.Key + " " + help.Desc))
	return b.String()
}

// TUI simulates the grid inside a Bubble Tea program. Frames are handed to
// the program with Send, so Show never touches the terminal directly.
type TUI struct {
	width  int
	height int
	send   func(tea.Msg)
	stop   func()

	mu         sync.Mutex
	pixels     []frame.Color
	brightness float64
	runErr     error

	done     chan struct{}
	quitOnce sync.Once
}

// NewTUI starts a Bubble Tea program on the alternate screen.
func NewTUI(width, height int) (*TUI, error) {
	t := newTUI(width, height)

	output := termenv.NewOutput(os.Stdout)
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(output.EnvColorProfile())

	p := tea.NewProgram(newGridModel(width, height, r, t.quit), tea.WithAltScreen())
	exited := make(chan struct{})
	t.send = p.Send
	t.stop = func() {
		p.Quit()
		<-exited
	}

	go func() {
		defer close(exited)
		if _, err := p.Run(); err != nil {
			t.mu.Lock()
			t.runErr = errors.WrapWithCode(err, errors.ErrHardware,
				"Terminal UI stopped unexpectedly",
				"Run from an interactive terminal or use --display=memory")
			t.mu.Unlock()
		}
		// The program ending for any reason counts as a quit.
		t.quit()
	}()
	return t, nil
}

func newTUI(width, height int) *TUI {
	return &TUI{
		width:      width,
		height:     height,
		send:       func(tea.Msg) {},
		stop:       func() {},
		pixels:     make([]frame.Color, width*height),
		brightness: 1,
		done:       make(chan struct{}),
	}
}

func (t *TUI) quit() {
	t.quitOnce.Do(func() { close(t.done) })
}

func (t *TUI) Shape() (int, int) { return t.width, t.height }

func (t *TUI) Done() <-chan struct{} { return t.done }

func (t *TUI) SetBrightness(b float64) error {
	if err := checkBrightness(b); err != nil {
		return err
	}
	t.mu.Lock()
	t.brightness = b
	t.mu.Unlock()
	return nil
}

func (t *TUI) SetPixel(x, y int, c frame.Color) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return
	}
	t.mu.Lock()
	t.pixels[y*t.width+x] = c
	t.mu.Unlock()
}

// Show hands the frame to the program. Once the program has stopped it
// reports why, or nothing if the user quit.
func (t *TUI) Show() error {
	t.mu.Lock()
	if t.runErr != nil {
		err := t.runErr
		t.mu.Unlock()
		return err
	}
	out := make([]frame.Color, len(t.pixels))
	for i, c := range t.pixels {
		out[i] = c.Scale(t.brightness)
	}
	t.mu.Unlock()

	select {
	case <-t.done:
		return nil
	default:
	}
	t.send(frameMsg{pixels: out})
	return nil
}

func (t *TUI) Close() error {
	t.stop()
	return nil
}
