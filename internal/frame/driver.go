package frame

// Driver is the physical or simulated display a Buffer flushes to.
// Implementations live in internal/display.
type Driver interface {
	// Shape returns the fixed grid size.
	Shape() (width, height int)
	// SetBrightness sets the global brightness in [0,1].
	SetBrightness(b float64) error
	// SetPixel stages a pixel; nothing is visible until Show.
	SetPixel(x, y int, c Color)
	// Show pushes the staged pixels to the device.
	Show() error
	// Close releases the device.
	Close() error
}

// Interrupter is implemented by drivers that own the keyboard (terminal
// simulators). Done is closed when the user asks to quit.
type Interrupter interface {
	Done() <-chan struct{}
}
