package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pixelbar/internal/config"
	"github.com/rileyhilliard/pixelbar/internal/display"
	"github.com/rileyhilliard/pixelbar/internal/logger"
	"github.com/rileyhilliard/pixelbar/internal/metric"
	"github.com/rileyhilliard/pixelbar/internal/supervisor"
	"github.com/rileyhilliard/pixelbar/internal/telemetry"
	"github.com/rileyhilliard/pixelbar/internal/ui"
)

func newRunCmd() *cobra.Command {
	f := &RunFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the animations until interrupted",
		Long: `Start the configured filler and bars and keep them drawing until Ctrl-C,
a quit key on terminal displays, a task failure, or --time-limit.

Bars stack from the right edge inward in the order given; the filler takes
every remaining column on the left.

Exit status is 0 after Ctrl-C or a quit key, 3 when the time limit is
reached, and 1 on any error.

Examples:
  pixelbar run --filler matrix --bar load
  pixelbar run --display tcell --width 16 --height 8
  pixelbar run --display memory --time-limit 30s --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, f)
		},
	}
	AddRunFlags(cmd, f)
	return cmd
}

func runCommand(cmd *cobra.Command, f *RunFlags) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return runPixelbar(cmd.Context(), cfg, runOutput{
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		summary: f.Summary,
	}, logger.Default())
}

// openDisplay is swapped in tests.
var openDisplay = display.Open

type runOutput struct {
	out     io.Writer
	errOut  io.Writer
	summary bool
}

// runPixelbar validates cfg, opens the display and supervises one run.
func runPixelbar(ctx context.Context, cfg *config.Config, o runOutput, log logger.Logger) error {
	if err := config.Validate(cfg); err != nil {
		return err
	}

	// A terminal display owns the screen until it closes; log lines wait.
	release := func() {}
	if display.OwnsTerminal(cfg.Display.Backend) {
		held := logger.NewHeldLogger(log)
		log, release = held, held.Release
	}
	defer release()

	hub := metric.NewHub(metric.DefaultSpecs(cfg.Sampling.PingHost, cfg.Sampling.PingTimeout, cfg.Sampling.Interval), log)

	driver, err := openDisplay(display.Options{
		Backend:    cfg.Display.Backend,
		Width:      cfg.Display.Width,
		Height:     cfg.Display.Height,
		Brightness: cfg.Display.Brightness,
		OPCAddr:    cfg.Display.OPCAddr,
		Log:        log,
	})
	if err != nil {
		return err
	}
	closed := false
	closeDisplay := func() {
		if closed {
			return
		}
		closed = true
		if cerr := driver.Close(); cerr != nil {
			log.Warn("closing display: %v", cerr)
		}
		release()
	}
	defer closeDisplay()

	sup := supervisor.New(supervisor.Config{
		Filler:       cfg.Layout.Filler,
		Bars:         cfg.Layout.Bars,
		TimeLimit:    cfg.Run.TimeLimit,
		UpdateRate:   cfg.Run.UpdateRate,
		SparkleColor: cfg.Layout.SparkleColor,
		Seed:         cfg.Run.Seed,
	}, driver, hub, log)

	if addr := cfg.Telemetry.Addr; addr != "" {
		exp := telemetry.New(hub, sup.Buffer(), log)
		sup.AddTask(supervisor.Task{
			Name: "telemetry",
			Run: func(ctx context.Context) error {
				return exp.Serve(ctx, addr)
			},
		})
	}

	res, runErr := sup.Run(ctx)
	// The terminal must be back before anything is printed to it.
	closeDisplay()

	if res != nil && o.summary {
		fmt.Fprint(o.errOut, ui.RenderSummary(summaryOf(res)))
	}
	if runErr != nil {
		return runErr
	}

	if res.Outcome == supervisor.OutcomeTimeLimit {
		fmt.Fprintln(o.out, "Time limit reached!")
	}
	return supervisor.ExitError(res)
}

func summaryOf(res *supervisor.Result) *ui.RunSummary {
	s := &ui.RunSummary{
		Outcome:  string(res.Outcome),
		Duration: res.Duration,
		Frames:   res.Presents,
	}
	for _, t := range res.Tasks {
		s.Tasks = append(s.Tasks, ui.TaskLine{Name: t.Name, Duration: t.Duration, Err: t.Err})
	}
	return s
}
