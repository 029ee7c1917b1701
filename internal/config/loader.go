package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/pixelbar/internal/errors"
)

// EnvPrefix prefixes every environment override, e.g.
// PIXELBAR_DISPLAY_BACKEND or PIXELBAR_LAYOUT_BARS=internet,load.
const EnvPrefix = "PIXELBAR"

// NewViper returns a viper instance holding the defaults and reading
// PIXELBAR_* environment variables. Callers bind their flags to it before
// calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers every key so AutomaticEnv can find it on Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("display.backend", d.Display.Backend)
	v.SetDefault("display.width", d.Display.Width)
	v.SetDefault("display.height", d.Display.Height)
	v.SetDefault("display.brightness", d.Display.Brightness)
	v.SetDefault("display.opc_addr", d.Display.OPCAddr)
	v.SetDefault("layout.filler", d.Layout.Filler)
	v.SetDefault("layout.bars", d.Layout.Bars)
	v.SetDefault("layout.sparkle_color", d.Layout.SparkleColor)
	v.SetDefault("sampling.interval", d.Sampling.Interval)
	v.SetDefault("sampling.ping_host", d.Sampling.PingHost)
	v.SetDefault("sampling.ping_timeout", d.Sampling.PingTimeout)
	v.SetDefault("run.time_limit", d.Run.TimeLimit)
	v.SetDefault("run.update_rate", d.Run.UpdateRate)
	v.SetDefault("run.seed", d.Run.Seed)
	v.SetDefault("telemetry.addr", d.Telemetry.Addr)
}

// Load resolves the configuration held by v: defaults, then PIXELBAR_*
// environment variables, then any flags bound to it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid configuration value",
			"Check your PIXELBAR_* environment variables and flags")
	}
	return cfg, nil
}

// durationKeys are the YAML keys that hold a time.Duration.
var durationKeys = map[string]bool{
	"interval":     true,
	"ping_timeout": true,
	"time_limit":   true,
	"update_rate":  true,
}

// Marshal renders cfg as YAML, durations written the way they are typed
// ("5s") rather than as nanoseconds.
func Marshal(cfg *Config) ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, err
	}
	humanizeDurations(&doc)
	return yaml.Marshal(&doc)
}

func humanizeDurations(n *yaml.Node) {
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, val := n.Content[i], n.Content[i+1]
			if durationKeys[k.Value] && val.Kind == yaml.ScalarNode {
				if ns, err := strconv.ParseInt(val.Value, 10, 64); err == nil {
					val.Value = time.Duration(ns).String()
					val.Tag = "!!str"
					val.Style = 0
				}
			}
		}
	}
	for _, c := range n.Content {
		humanizeDurations(c)
	}
}
