// Package supervisor wires a pixelbar run together: it allocates regions,
// starts the metric samplers the chosen routines need, runs every routine
// in one task group and tears everything down when the run ends.
package supervisor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rileyhilliard/pixelbar/internal/animation"
	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/frame"
	"github.com/rileyhilliard/pixelbar/internal/logger"
	"github.com/rileyhilliard/pixelbar/internal/metric"
	"github.com/rileyhilliard/pixelbar/internal/region"
)

// Task is an extra long-running job that lives and dies with the run,
// such as the metrics endpoint.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Supervisor owns one run of the animation engine.
type Supervisor struct {
	cfg    Config
	driver frame.Driver
	buffer *frame.Buffer
	hub    *metric.Hub
	base   logger.Logger
	log    logger.Logger
	extra  []Task
}

// New prepares a run on driver, sampling metrics through hub.
func New(cfg Config, driver frame.Driver, hub *metric.Hub, log logger.Logger) *Supervisor {
	if cfg.UpdateRate <= 0 {
		cfg.UpdateRate = animation.DefaultUpdateRate
	}
	return &Supervisor{
		cfg:    cfg,
		driver: driver,
		buffer: frame.NewBuffer(driver),
		hub:    hub,
		base:   log,
		log:    logger.WithPrefix(log, "[supervisor]"),
	}
}

// Buffer returns the shared frame buffer.
func (s *Supervisor) Buffer() *frame.Buffer { return s.buffer }

// AddTask runs t alongside the routines. Must be called before Run.
func (s *Supervisor) AddTask(t Task) {
	s.extra = append(s.extra, t)
}

type placement struct {
	factory animation.Factory
	region  region.Region
	canvas  *frame.Canvas
}

// plan validates the configuration against the grid. Nothing is started
// when it fails.
func (s *Supervisor) plan() ([]placement, animation.ColorFunc, error) {
	layout, err := region.Allocate(s.buffer.Width(), s.cfg.Bars, s.cfg.Filler)
	if err != nil {
		return nil, nil, err
	}

	colorFn, err := animation.LookupColorFunc(s.cfg.SparkleColor)
	if err != nil {
		return nil, nil, err
	}

	var out []placement
	if layout.Filler != nil {
		f, err := animation.Lookup(layout.Filler.Owner, animation.RoleFiller)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, placement{factory: f, region: *layout.Filler})
	}
	for _, r := range layout.Bars {
		f, err := animation.Lookup(r.Owner, animation.RoleBar)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, placement{factory: f, region: r})
	}
	for i := range out {
		for _, kind := range out[i].factory.Metrics {
			if _, err := s.hub.Slot(kind); err != nil {
				return nil, nil, err
			}
		}
		if out[i].canvas, err = s.buffer.Canvas(out[i].region); err != nil {
			return nil, nil, err
		}
	}
	return out, colorFn, nil
}

func (s *Supervisor) rand(i int) *rand.Rand {
	if s.cfg.Seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(s.cfg.Seed, uint64(i)))
}

// Run draws until ctx is cancelled, the time limit passes, the display
// reports a quit or a task fails. Configuration problems are returned
// before any task starts. A task failure is returned as the error; every
// other ending returns a nil error and is described by Result.Outcome.
func (s *Supervisor) Run(ctx context.Context) (*Result, error) {
	placements, colorFn, err := s.plan()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	g := newGroup(ctx, s.log)

	for i, p := range placements {
		env := animation.Env{
			Surface:    p.canvas,
			UpdateRate: s.cfg.UpdateRate,
			Rand:       s.rand(i),
			Log:        s.base,
			Color:      colorFn,
		}
		for _, kind := range p.factory.Metrics {
			if _, err := s.hub.Start(kind, g); err != nil {
				g.stop()
				_ = g.Wait()
				return nil, err
			}
			slot, _ := s.hub.Slot(kind)
			switch kind {
			case metric.KindLoad:
				env.Load = slot
			case metric.KindConnectivity:
				env.Connectivity = slot
			}
		}

		routine := p.factory.New(env)
		s.log.Info("%s on %s", routine.Name(), p.region)
		g.Go(fmt.Sprintf("routine/%s", p.region), routine.Run)
	}
	for _, t := range s.extra {
		g.Go(t.Name, t.Run)
	}

	outcome := s.watch(ctx, g)
	g.stop()
	taskErr := g.Wait()
	if taskErr != nil {
		outcome = OutcomeFailed
	}

	if err := s.buffer.Clear(); err != nil {
		s.log.Warn("couldn't clear the display: %v", err)
	}

	res := &Result{
		Outcome:  outcome,
		Duration: time.Since(start),
		Presents: s.buffer.Presents(),
		Tasks:    g.Results(),
	}
	s.log.Info("run ended (%s) after %s, %d frames", res.Outcome, res.Duration.Round(time.Millisecond), res.Presents)
	return res, taskErr
}

// watch blocks until something ends the run and says what it was.
func (s *Supervisor) watch(ctx context.Context, g *group) Outcome {
	var timeout <-chan time.Time
	if s.cfg.TimeLimit > 0 {
		t := time.NewTimer(s.cfg.TimeLimit)
		defer t.Stop()
		timeout = t.C
	}

	var quit <-chan struct{}
	if in, ok := s.driver.(frame.Interrupter); ok {
		quit = in.Done()
	}

	select {
	case <-timeout:
		return OutcomeTimeLimit
	case <-quit:
		return OutcomeQuit
	case <-g.Done():
		if ctx.Err() != nil {
			return OutcomeInterrupted
		}
		return OutcomeFailed
	}
}

// ExitError maps a finished run to the process exit status the CLI uses:
// a run that hit its time limit exits with TimeLimitExitCode.
func ExitError(res *Result) error {
	if res != nil && res.Outcome == OutcomeTimeLimit {
		return errors.NewExitError(TimeLimitExitCode)
	}
	return nil
}
