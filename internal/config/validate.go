package config

import (
	"fmt"
	"math"
	"net"
	"slices"

	"github.com/rileyhilliard/pixelbar/internal/animation"
	"github.com/rileyhilliard/pixelbar/internal/display"
	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/region"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but pixelbar only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest pixelbar release")
	}

	if err := validateDisplay(cfg.Display); err != nil {
		return err
	}
	if err := validateLayout(cfg.Layout, cfg.Display.Width); err != nil {
		return err
	}
	if err := validateTimings(cfg); err != nil {
		return err
	}

	if cfg.Telemetry.Addr != "" {
		if _, _, err := net.SplitHostPort(cfg.Telemetry.Addr); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Metrics address '%s' isn't host:port", cfg.Telemetry.Addr),
				"Use something like :9090 or 127.0.0.1:9090")
		}
	}
	return nil
}

func validateDisplay(d DisplayConfig) error {
	if !slices.Contains(display.Backends(), d.Backend) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown display backend '%s'", d.Backend),
			fmt.Sprintf("Pick one of: %v", display.Backends()))
	}
	if d.Width <= 0 || d.Height <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Invalid display size %dx%d", d.Width, d.Height),
			"Width and height must both be positive")
	}
	if d.Brightness < 0 || d.Brightness > 1 || math.IsNaN(d.Brightness) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Brightness %v is out of range", d.Brightness),
			"Use a value between 0 and 1")
	}
	if d.Backend == display.BackendOPC {
		if _, _, err := net.SplitHostPort(d.OPCAddr); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("OPC address '%s' isn't host:port", d.OPCAddr),
				"fcserver listens on 127.0.0.1:7890 by default")
		}
	}
	return nil
}

func validateLayout(l LayoutConfig, width int) error {
	if l.Filler != "" {
		if _, err := animation.Lookup(l.Filler, animation.RoleFiller); err != nil {
			return err
		}
	}
	for _, b := range l.Bars {
		if _, err := animation.Lookup(b, animation.RoleBar); err != nil {
			return err
		}
	}
	if _, err := animation.LookupColorFunc(l.SparkleColor); err != nil {
		return err
	}
	_, err := region.Allocate(width, l.Bars, l.Filler)
	return err
}

func validateTimings(cfg *Config) error {
	positive := []struct {
		name string
		flag string
		val  float64
	}{
		{"Sampling interval", "--poll-interval", cfg.Sampling.Interval.Seconds()},
		{"Ping timeout", "--ping-timeout", cfg.Sampling.PingTimeout.Seconds()},
		{"Update rate", "--update-rate", cfg.Run.UpdateRate.Seconds()},
	}
	for _, p := range positive {
		if p.val <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s must be positive", p.name),
				fmt.Sprintf("Set %s to a duration like 5s", p.flag))
		}
	}
	if cfg.Run.TimeLimit < 0 {
		return errors.New(errors.ErrConfig,
			"Time limit can't be negative",
			"Use 0 to run until interrupted")
	}
	return nil
}
