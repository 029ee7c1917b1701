package animation

import (
	"context"
	"math"
	"time"

	"github.com/rileyhilliard/pixelbar/internal/frame"
)

const (
	// RainbowFrame is the fixed delay between rainbow frames.
	RainbowFrame = 10 * time.Millisecond

	rainbowOffset = 30.0
	rainbowRows   = 4
)

// RainbowPixel is the color of pixel (x, y) at phase i: three sine waves
// of slightly different spatial frequency, one per channel.
func RainbowPixel(x, y int, i float64) frame.Color {
	fx, fy := float64(x), float64(y)
	r := (math.Cos((fx+i)/2)+math.Cos((fy+i)/2))*64 + 128
	g := (math.Sin((fx+i)/1.5)+math.Sin((fy+i)/2))*64 + 128
	b := (math.Sin((fx+i)/2)+math.Cos((fy+i)/1.5))*64 + 128
	return frame.RGB(r+rainbowOffset, g+rainbowOffset, b+rainbowOffset)
}

// Rainbow scrolls a smooth color field across the region. The load sets
// the scroll speed; the frame rate is fixed.
type Rainbow struct {
	env   Env
	phase float64
}

// NewRainbow creates a rainbow routine starting at phase 0.
func NewRainbow(env Env) *Rainbow {
	return &Rainbow{env: env.withDefaults("rainbow")}
}

func (r *Rainbow) Name() string { return "rainbow" }

// Phase is the current animation phase.
func (r *Rainbow) Phase() float64 { return r.phase }

// Draw paints the top rows of the region for the current phase.
func (r *Rainbow) Draw() error {
	reg := r.env.Surface.Region()
	rows := min(rainbowRows, r.env.Surface.Height())
	for y := 0; y < rows; y++ {
		for x := reg.XStart; x < reg.XEnd; x++ {
			if err := r.env.Surface.SetPixel(x, y, RainbowPixel(x, y, r.phase)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run draws a frame every RainbowFrame until ctx is cancelled. The phase
// step follows the load, re-read every UpdateRate.
func (r *Rainbow) Run(ctx context.Context) error {
	n := iterations(r.env.UpdateRate, RainbowFrame)
	for {
		step := RainbowStep(r.env.Load.Value())
		for i := 0; i < n; i++ {
			r.phase += step
			if err := r.Draw(); err != nil {
				return err
			}
			if err := r.env.Surface.Present(); err != nil {
				return err
			}
			if !sleep(ctx, RainbowFrame) {
				return nil
			}
		}
	}
}
