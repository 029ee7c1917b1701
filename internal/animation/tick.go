package animation

import (
	"math"
	"time"
)

const (
	// tickLoadCap is the load above which sparkle and matrix stop speeding up.
	tickLoadCap = 12.0
	// rainbowLoadCap is the load at which the rainbow reaches full speed.
	rainbowLoadCap = 10.0
)

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// SparkleTick is the delay between sparkles: one second when the machine is
// idle-ish, shrinking with the square of the load above 1, down to 1/144s
// at load 12.
func SparkleTick(load float64) time.Duration {
	if load <= 1 || math.IsNaN(load) {
		return time.Second
	}
	load = math.Min(load, tickLoadCap)
	return seconds(1 / (load * load))
}

// MatrixTick is the delay between matrix rain steps: a quarter second up to
// load 1, then 0.5/load² capped at load 12.
func MatrixTick(load float64) time.Duration {
	if load <= 1 || math.IsNaN(load) {
		return 250 * time.Millisecond
	}
	load = math.Min(load, tickLoadCap)
	return seconds(0.5 / (load * load))
}

// RainbowStep is how far the rainbow phase advances per frame.
func RainbowStep(load float64) float64 {
	if load <= 0 || math.IsNaN(load) {
		return 0
	}
	return math.Min(load, rainbowLoadCap) / rainbowLoadCap
}
