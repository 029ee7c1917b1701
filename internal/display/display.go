// Package display provides the frame.Driver backends pixelbar can draw on.
//
// memory keeps pixels in RAM and is what tests and headless runs use. tcell
// and tui simulate the LED grid in a terminal, two character cells per
// pixel. opc streams frames to an Open Pixel Control server such as
// fadecandy.
package display

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/term"

	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/frame"
	"github.com/rileyhilliard/pixelbar/internal/logger"
)

// Backend names accepted by Open.
const (
	BackendAuto   = "auto"
	BackendMemory = "memory"
	BackendTcell  = "tcell"
	BackendTUI    = "tui"
	BackendOPC    = "opc"
)

// Backends lists every backend name, auto first.
func Backends() []string {
	return []string{BackendAuto, BackendMemory, BackendTcell, BackendTUI, BackendOPC}
}

// Options configures Open.
type Options struct {
	Backend    string
	Width      int
	Height     int
	Brightness float64
	// OPCAddr is the host:port of the Open Pixel Control server.
	OPCAddr string
	Log     logger.Logger
}

// isTerminal reports whether stdout is a terminal. Swapped in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Resolve turns "auto" into a concrete backend name.
func Resolve(backend string) string {
	if backend != "" && backend != BackendAuto {
		return backend
	}
	if isTerminal() {
		return BackendTUI
	}
	return BackendMemory
}

// OwnsTerminal reports whether backend draws on the controlling terminal,
// so nothing else may write there until the driver is closed.
func OwnsTerminal(backend string) bool {
	switch Resolve(backend) {
	case BackendTcell, BackendTUI:
		return true
	}
	return false
}

// Open creates the driver for opts.Backend and applies the brightness.
func Open(opts Options) (frame.Driver, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid display size %dx%d", opts.Width, opts.Height),
			"Width and height must both be positive")
	}
	log := logger.WithPrefix(opts.Log, "[display]")

	backend := Resolve(opts.Backend)
	log.Debug("opening %s backend %dx%d", backend, opts.Width, opts.Height)

	var (
		d   frame.Driver
		err error
	)
	switch backend {
	case BackendMemory:
		d = NewMemory(opts.Width, opts.Height)
	case BackendTcell:
		d, err = NewTcell(opts.Width, opts.Height)
	case BackendTUI:
		d, err = NewTUI(opts.Width, opts.Height)
	case BackendOPC:
		d, err = DialOPC(opts.OPCAddr, opts.Width, opts.Height)
	default:
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown display backend '%s'", opts.Backend),
			fmt.Sprintf("Pick one of: %v", Backends()))
	}
	if err != nil {
		return nil, err
	}

	if err := d.SetBrightness(opts.Brightness); err != nil {
		_ = d.Close()
		return nil, err
	}
	return d, nil
}

func checkBrightness(b float64) error {
	if b < 0 || b > 1 || math.IsNaN(b) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Brightness %v is out of range", b),
			"Use a value between 0 and 1")
	}
	return nil
}
