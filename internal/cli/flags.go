package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/rileyhilliard/pixelbar/internal/animation"
	"github.com/rileyhilliard/pixelbar/internal/config"
	"github.com/rileyhilliard/pixelbar/internal/display"
	"github.com/rileyhilliard/pixelbar/internal/errors"
)

// RunFlags holds the flags shared by the root command, "run" and "config".
// Values only take effect when the flag is set on the command line;
// otherwise PIXELBAR_* variables and defaults decide.
type RunFlags struct {
	Display      string
	Width        int
	Height       int
	Brightness   float64
	OPCAddr      string
	Filler       string
	Bars         []string
	SparkleColor string
	TimeLimit    time.Duration
	UpdateRate   time.Duration
	PollInterval time.Duration
	PingHost     string
	PingTimeout  time.Duration
	Seed         uint64
	MetricsAddr  string
	Summary      bool
}

// flagKeys maps each run flag to the config key it overrides.
var flagKeys = map[string]string{
	"display":       "display.backend",
	"width":         "display.width",
	"height":        "display.height",
	"brightness":    "display.brightness",
	"opc-addr":      "display.opc_addr",
	"filler":        "layout.filler",
	"bar":           "layout.bars",
	"sparkle-color": "layout.sparkle_color",
	"time-limit":    "run.time_limit",
	"update-rate":   "run.update_rate",
	"poll-interval": "sampling.interval",
	"ping-host":     "sampling.ping_host",
	"ping-timeout":  "sampling.ping_timeout",
	"seed":          "run.seed",
	"metrics-addr":  "telemetry.addr",
}

// AddRunFlags registers the layout, display and timing flags on a command.
// Defaults shown in --help come from config.DefaultConfig.
func AddRunFlags(cmd *cobra.Command, f *RunFlags) {
	d := config.DefaultConfig()
	fs := cmd.Flags()

	fs.StringVar(&f.Display, "display", d.Display.Backend,
		fmt.Sprintf("display backend (%s)", strings.Join(display.Backends(), ", ")))
	fs.IntVar(&f.Width, "width", d.Display.Width, "grid width in pixels")
	fs.IntVar(&f.Height, "height", d.Display.Height, "grid height in pixels")
	fs.Float64Var(&f.Brightness, "brightness", d.Display.Brightness, "brightness between 0 and 1")
	fs.StringVar(&f.OPCAddr, "opc-addr", d.Display.OPCAddr, "Open Pixel Control server for --display opc")

	fs.StringVar(&f.Filler, "filler", d.Layout.Filler,
		fmt.Sprintf("filler routine (%s), empty for none", strings.Join(animation.Names(animation.RoleFiller), ", ")))
	fs.StringSliceVar(&f.Bars, "bar", d.Layout.Bars,
		fmt.Sprintf("bar routine, repeat for more (%s); the first is rightmost", strings.Join(animation.Names(animation.RoleBar), ", ")))
	fs.StringVar(&f.SparkleColor, "sparkle-color", d.Layout.SparkleColor,
		fmt.Sprintf("sparkle color (%s)", strings.Join(animation.ColorFuncNames(), ", ")))

	fs.DurationVar(&f.TimeLimit, "time-limit", d.Run.TimeLimit, "stop after this long and exit with status 3 (0 runs forever)")
	fs.DurationVar(&f.UpdateRate, "update-rate", d.Run.UpdateRate, "how long routines keep one load reading")
	fs.DurationVar(&f.PollInterval, "poll-interval", d.Sampling.Interval, "metric sampling interval")
	fs.StringVar(&f.PingHost, "ping-host", d.Sampling.PingHost, "host the internet bar pings")
	fs.DurationVar(&f.PingTimeout, "ping-timeout", d.Sampling.PingTimeout, "ping timeout")
	fs.Uint64Var(&f.Seed, "seed", d.Run.Seed, "random seed for repeatable animations (0 is random)")
	fs.StringVar(&f.MetricsAddr, "metrics-addr", d.Telemetry.Addr, "serve Prometheus metrics on this address, e.g. :9090")
	fs.BoolVar(&f.Summary, "summary", false, "print a per-task summary when the run ends")
}

// bindRunFlags makes every run flag an override for its config key.
func bindRunFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Couldn't bind --%s", name),
				"This is a bug in pixelbar's flag setup")
		}
	}
	return nil
}

// loadConfig resolves defaults, PIXELBAR_* variables and the flags set on
// cmd, in increasing order of precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.NewViper()
	if err := bindRunFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	return config.Load(v)
}
