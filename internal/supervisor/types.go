package supervisor

import (
	"time"

	"github.com/rileyhilliard/pixelbar/internal/animation"
)

// Outcome says why a run ended.
type Outcome string

const (
	// OutcomeInterrupted means the parent context was cancelled (a signal).
	OutcomeInterrupted Outcome = "interrupted"
	// OutcomeQuit means the display reported a quit key.
	OutcomeQuit Outcome = "quit"
	// OutcomeTimeLimit means the configured time budget ran out.
	OutcomeTimeLimit Outcome = "time-limit"
	// OutcomeFailed means a task returned an error.
	OutcomeFailed Outcome = "failed"
)

// TimeLimitExitCode is the process status for a run that hit its budget.
const TimeLimitExitCode = 3

// Config holds what to draw and for how long.
type Config struct {
	// Filler is the name of the routine on the left of the grid, or empty.
	Filler string
	// Bars are single-column routines from the right edge inward.
	Bars []string

	TimeLimit    time.Duration // 0 runs until interrupted
	UpdateRate   time.Duration // how long routines keep one load reading
	SparkleColor string        // sparkle color function name
	Seed         uint64        // 0 seeds every routine randomly
}

// DefaultConfig returns the layout pixelbar starts with.
func DefaultConfig() Config {
	return Config{
		Filler:       "sparkle",
		Bars:         []string{"internet"},
		UpdateRate:   animation.DefaultUpdateRate,
		SparkleColor: "random",
	}
}

// TaskResult records how one task ended.
type TaskResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// Result summarizes a finished run.
type Result struct {
	Outcome  Outcome
	Duration time.Duration
	Presents uint64
	Tasks    []TaskResult
}

// Failed returns the tasks that ended with an error.
func (r *Result) Failed() []TaskResult {
	var out []TaskResult
	for _, t := range r.Tasks {
		if t.Err != nil {
			out = append(out, t)
		}
	}
	return out
}
