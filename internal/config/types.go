package config

import "time"

// CurrentConfigVersion is the schema version of the printed configuration.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config is the resolved pixelbar configuration: defaults, then
// PIXELBAR_* environment variables, then flags.
type Config struct {
	Version   int             `yaml:"version" mapstructure:"version"`
	Display   DisplayConfig   `yaml:"display" mapstructure:"display"`
	Layout    LayoutConfig    `yaml:"layout" mapstructure:"layout"`
	Sampling  SamplingConfig  `yaml:"sampling" mapstructure:"sampling"`
	Run       RunConfig       `yaml:"run" mapstructure:"run"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// DisplayConfig selects and sizes the pixel grid.
type DisplayConfig struct {
	// Backend is "auto", "memory", "tcell", "tui" or "opc".
	Backend string `yaml:"backend" mapstructure:"backend"`

	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`

	// Brightness in [0,1], applied by the driver.
	Brightness float64 `yaml:"brightness" mapstructure:"brightness"`

	// OPCAddr is the host:port of the Open Pixel Control server.
	OPCAddr string `yaml:"opc_addr" mapstructure:"opc_addr"`
}

// LayoutConfig picks the routines and where they go.
type LayoutConfig struct {
	// Filler takes every column left of the bars. Empty means none.
	Filler string `yaml:"filler" mapstructure:"filler"`

	// Bars take one column each, the first at the right edge.
	Bars []string `yaml:"bars" mapstructure:"bars"`

	// SparkleColor is "random" or "hue".
	SparkleColor string `yaml:"sparkle_color" mapstructure:"sparkle_color"`
}

// SamplingConfig controls the background metric samplers.
type SamplingConfig struct {
	Interval    time.Duration `yaml:"interval" mapstructure:"interval"`
	PingHost    string        `yaml:"ping_host" mapstructure:"ping_host"`
	PingTimeout time.Duration `yaml:"ping_timeout" mapstructure:"ping_timeout"`
}

// RunConfig controls a single run.
type RunConfig struct {
	// TimeLimit stops the run and exits with status 3. 0 runs forever.
	TimeLimit time.Duration `yaml:"time_limit" mapstructure:"time_limit"`

	// UpdateRate is how long routines keep one load reading.
	UpdateRate time.Duration `yaml:"update_rate" mapstructure:"update_rate"`

	// Seed makes the animations repeatable. 0 picks a random seed.
	Seed uint64 `yaml:"seed" mapstructure:"seed"`
}

// TelemetryConfig controls the Prometheus endpoint.
type TelemetryConfig struct {
	// Addr to serve /metrics on. Empty disables it.
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns a Config with sensible defaults: an 8x4 grid at
// 30% brightness with sparkle filling everything left of an internet bar.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Display: DisplayConfig{
			Backend:    "auto",
			Width:      8,
			Height:     4,
			Brightness: 0.3,
			OPCAddr:    "127.0.0.1:7890",
		},
		Layout: LayoutConfig{
			Filler:       "sparkle",
			Bars:         []string{"internet"},
			SparkleColor: "random",
		},
		Sampling: SamplingConfig{
			Interval:    5 * time.Second,
			PingHost:    "8.8.8.8",
			PingTimeout: 100 * time.Millisecond,
		},
		Run: RunConfig{
			UpdateRate: 5 * time.Second,
		},
	}
}
