package animation

import (
	"context"
	"runtime"

	"github.com/rileyhilliard/pixelbar/internal/frame"
	"github.com/rileyhilliard/pixelbar/internal/metric"
)

// Bar colors for the connectivity bar.
var (
	ConnectedColor    = frame.Color{R: 255, G: 255, B: 255}
	DisconnectedColor = frame.Color{R: 255, G: 127, B: 80}
)

// Bar fills its whole region with one color picked from a metric slot,
// repainting once per update cycle.
type Bar struct {
	name  string
	env   Env
	slot  *metric.Slot
	color func(v float64) frame.Color
}

// NewConnectivityBar shows white while the ping target answers and coral
// while it does not.
func NewConnectivityBar(env Env) *Bar {
	env = env.withDefaults("internet")
	return &Bar{
		name: "internet",
		env:  env,
		slot: env.Connectivity,
		color: func(v float64) frame.Color {
			if v >= 0.5 {
				return ConnectedColor
			}
			return DisconnectedColor
		},
	}
}

// NewLoadBar shades from green to red as the one minute load average
// approaches the CPU count.
func NewLoadBar(env Env) *Bar {
	env = env.withDefaults("load")
	cpus := runtime.NumCPU()
	return &Bar{
		name: "load",
		env:  env,
		slot: env.Load,
		color: func(v float64) frame.Color {
			return LoadColor(v, cpus)
		},
	}
}

func (b *Bar) Name() string { return b.name }

// Draw paints the region for the slot's current value without presenting.
func (b *Bar) Draw() frame.Color {
	c := b.color(b.slot.Value())
	b.env.Surface.Fill(c)
	return c
}

// Run redraws the bar every UpdateRate until ctx is cancelled.
func (b *Bar) Run(ctx context.Context) error {
	for {
		b.Draw()
		if err := b.env.Surface.Present(); err != nil {
			return err
		}
		if !sleep(ctx, b.env.UpdateRate) {
			return nil
		}
	}
}
