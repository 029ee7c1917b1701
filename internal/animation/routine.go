// Package animation implements the routines that draw on the display.
//
// A routine owns one region of the grid through a Surface. It reads the
// metric slots it was handed, derives its tick from them, mutates its
// region and presents, until its context is cancelled. Routines share no
// state with each other; everything they need arrives in Env when they are
// constructed.
package animation

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/rileyhilliard/pixelbar/internal/frame"
	"github.com/rileyhilliard/pixelbar/internal/logger"
	"github.com/rileyhilliard/pixelbar/internal/metric"
	"github.com/rileyhilliard/pixelbar/internal/region"
)

// DefaultUpdateRate is how long a routine runs on one load reading before
// re-reading it.
const DefaultUpdateRate = 5 * time.Second

// Surface is the part of the display a routine may draw on.
// *frame.Canvas implements it.
type Surface interface {
	Region() region.Region
	Height() int
	SetPixel(x, y int, c frame.Color) error
	Pixel(x, y int) (frame.Color, error)
	Fill(c frame.Color)
	Present() error
}

// Routine is one concurrently running animation.
type Routine interface {
	Name() string
	// Run draws until ctx is cancelled, returning nil, or until drawing
	// fails, returning the error.
	Run(ctx context.Context) error
}

// Env is everything a routine gets at spawn time.
type Env struct {
	Surface Surface

	// Load and Connectivity are nil unless the routine's factory lists the
	// kind in Metrics.
	Load         *metric.Slot
	Connectivity *metric.Slot

	UpdateRate time.Duration
	Rand       *rand.Rand
	Log        logger.Logger

	// Color picks sparkle colors; nil means RandomColor.
	Color ColorFunc
}

func (e Env) withDefaults(name string) Env {
	if e.UpdateRate <= 0 {
		e.UpdateRate = DefaultUpdateRate
	}
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	e.Log = logger.WithPrefix(e.Log, "["+name+"]")
	if e.Color == nil {
		e.Color = RandomColor
	}
	return e
}

// sleep waits for d or until ctx is done, reporting false in the latter case.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// iterations is how many ticks fit in one update cycle, at least one.
func iterations(updateRate, tick time.Duration) int {
	if tick <= 0 {
		return 1
	}
	n := int(updateRate / tick)
	if n < 1 {
		return 1
	}
	return n
}
