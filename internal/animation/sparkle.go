package animation

import (
	"context"

	"github.com/rileyhilliard/pixelbar/internal/frame"
)

// Sparkle lights random pixels with random colors, faster as the load rises.
type Sparkle struct {
	env         Env
	maxResample int
}

// NewSparkle creates a sparkle routine for env.Surface. Missing Env fields
// get their defaults.
func NewSparkle(env Env) *Sparkle {
	env = env.withDefaults("sparkle")
	return &Sparkle{
		env:         env,
		maxResample: env.Surface.Region().Width() * env.Surface.Height(),
	}
}

func (s *Sparkle) Name() string { return "sparkle" }

func (s *Sparkle) randomPixel() (int, int) {
	r := s.env.Surface.Region()
	return r.XStart + s.env.Rand.IntN(r.Width()), s.env.Rand.IntN(s.env.Surface.Height())
}

// Step lights one pixel. When the chosen pixel is already lit it is turned
// off and another one is chosen, so every pixel passes through black before
// getting a new color. After maxResample lit picks in a row the last pick is
// reused.
func (s *Sparkle) Step() error {
	surf := s.env.Surface
	x, y := s.randomPixel()
	for attempt := 0; ; attempt++ {
		c, err := surf.Pixel(x, y)
		if err != nil {
			return err
		}
		if !c.IsLit() {
			break
		}
		if err := surf.SetPixel(x, y, frame.Black); err != nil {
			return err
		}
		if attempt >= s.maxResample {
			break
		}
		x, y = s.randomPixel()
	}
	return surf.SetPixel(x, y, s.env.Color(s.env.Rand))
}

// Run steps and presents until ctx is cancelled, re-reading the load every
// UpdateRate to pick the tick.
func (s *Sparkle) Run(ctx context.Context) error {
	for {
		tick := SparkleTick(s.env.Load.Value())
		n := iterations(s.env.UpdateRate, tick)
		s.env.Log.Debug("tick %s for %d steps", tick, n)
		for i := 0; i < n; i++ {
			if err := s.Step(); err != nil {
				return err
			}
			if err := s.env.Surface.Present(); err != nil {
				return err
			}
			if !sleep(ctx, tick) {
				return nil
			}
		}
	}
}
