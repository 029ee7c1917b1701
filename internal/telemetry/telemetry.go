// Package telemetry exposes the sampled metrics and frame counters in the
// Prometheus text format.
package telemetry

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/frame"
	"github.com/rileyhilliard/pixelbar/internal/logger"
	"github.com/rileyhilliard/pixelbar/internal/metric"
)

const (
	namespace       = "pixelbar"
	shutdownTimeout = 2 * time.Second
)

// Exporter serves a private registry; nothing is added to the global one.
type Exporter struct {
	registry *prometheus.Registry
	log      logger.Logger
}

// Frames is the part of the shared frame buffer the exporter reads.
type Frames interface {
	Presents() uint64
	Snapshot() []frame.Color
}

// New registers the gauges for every slot in hub and the frame counters
// read from frames.
func New(hub *metric.Hub, frames Frames, log logger.Logger) *Exporter {
	registry := prometheus.NewRegistry()

	for _, kind := range hub.Kinds() {
		slot, err := hub.Slot(kind)
		if err != nil {
			continue
		}
		registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      string(kind),
			Help:      fmt.Sprintf("Last sampled %s value.", kind),
		}, slot.Value))
		registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      string(kind) + "_updated_timestamp_seconds",
			Help:      fmt.Sprintf("Unix time of the last %s sample, 0 before the first.", kind),
		}, func() float64 {
			at := slot.Updated()
			if at.IsZero() {
				return 0
			}
			return float64(at.UnixNano()) / 1e9
		}))
	}

	running := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sampler_running",
		Help:      "1 if a routine started the sampler for this metric.",
	}, []string{"kind"})
	registry.MustRegister(&samplerCollector{hub: hub, running: running})

	registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_presented_total",
		Help:      "Frames pushed to the display.",
	}, func() float64 { return float64(frames.Presents()) }))
	registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "lit_pixels",
		Help:      "Pixels that are not black in the last presented frame.",
	}, func() float64 {
		lit := 0
		for _, c := range frames.Snapshot() {
			if c.IsLit() {
				lit++
			}
		}
		return float64(lit)
	}))

	return &Exporter{
		registry: registry,
		log:      logger.WithPrefix(log, "[telemetry]"),
	}
}

// samplerCollector refreshes the running gauge from the hub on each scrape.
type samplerCollector struct {
	hub     *metric.Hub
	running *prometheus.GaugeVec
}

func (c *samplerCollector) Describe(ch chan<- *prometheus.Desc) {
	c.running.Describe(ch)
}

func (c *samplerCollector) Collect(ch chan<- prometheus.Metric) {
	for _, kind := range c.hub.Kinds() {
		v := 0.0
		if c.hub.Running(kind) {
			v = 1
		}
		c.running.WithLabelValues(string(kind)).Set(v)
	}
	c.running.Collect(ch)
}

// Handler serves the registry.
func (e *Exporter) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	return mux
}

// Serve listens on addr until ctx is cancelled.
func (e *Exporter) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't listen on %s for metrics", addr),
			"Pick a free port with --metrics-addr or leave it empty to disable")
	}
	return e.serve(ctx, ln)
}

func (e *Exporter) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           e.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	e.log.Info("metrics at http://%s/metrics", ln.Addr())

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrHardware, "Metrics server stopped", "")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		e.log.Warn("metrics server shutdown: %v", err)
	}
	return nil
}
