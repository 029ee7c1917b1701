// Package metric samples system metrics in the background and publishes
// them to lock-free slots that animation routines read on every tick.
package metric

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/logger"
)

// DefaultPollInterval matches how often the animations refresh their tick.
const DefaultPollInterval = 5 * time.Second

// Spec describes how to sample one metric kind.
type Spec struct {
	Probe    Probe
	Interval time.Duration
	// Default is the slot value before the first sample.
	Default float64
	// Fallback is published when a non-fatal probe fails.
	Fallback float64
	// Fatal makes a probe failure stop the sampler with a PROBE error.
	Fatal bool
}

// DefaultSpecs returns the samplers pixelbar ships with: load (fatal on
// failure, defaults to 1.0) and connectivity (degrades to unreachable).
func DefaultSpecs(pingHost string, pingTimeout, interval time.Duration) map[Kind]Spec {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return map[Kind]Spec{
		KindLoad: {
			Probe:    LoadProbe{},
			Interval: interval,
			Default:  1.0,
			Fatal:    true,
		},
		KindConnectivity: {
			Probe:    NewPingProbe(pingHost, pingTimeout),
			Interval: interval,
			Default:  1,
			Fallback: 0,
		},
	}
}

// Spawner runs a named task until its context is cancelled.
// The supervisor's task group implements it.
type Spawner interface {
	Go(name string, fn func(ctx context.Context) error)
}

// Hub owns one slot per metric kind and at most one sampler per kind.
type Hub struct {
	specs map[Kind]Spec
	slots map[Kind]*Slot
	log   logger.Logger

	mu      sync.Mutex
	started map[Kind]bool
}

// NewHub creates slots for every spec, each holding its default.
func NewHub(specs map[Kind]Spec, log logger.Logger) *Hub {
	if log == nil {
		log = logger.Noop()
	}
	slots := make(map[Kind]*Slot, len(specs))
	for kind, spec := range specs {
		slots[kind] = NewSlot(kind, spec.Default)
	}
	return &Hub{
		specs:   specs,
		slots:   slots,
		log:     logger.WithPrefix(log, "[sampler]"),
		started: make(map[Kind]bool),
	}
}

// Kinds lists the metric kinds this hub can sample, sorted.
func (h *Hub) Kinds() []Kind {
	kinds := make([]Kind, 0, len(h.specs))
	for k := range h.specs {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Slot returns the slot for kind.
func (h *Hub) Slot(kind Kind) (*Slot, error) {
	s, ok := h.slots[kind]
	if !ok {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("No sampler for metric '%s'", kind),
			"This routine needs a metric pixelbar doesn't know how to sample.")
	}
	return s, nil
}

// Start launches the sampler for kind on sp. Starting a kind that is
// already running is a no-op; the return value reports whether a new
// sampler was launched.
func (h *Hub) Start(kind Kind, sp Spawner) (bool, error) {
	slot, err := h.Slot(kind)
	if err != nil {
		return false, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.started[kind] {
		return false, nil
	}
	h.started[kind] = true

	s := &sampler{spec: h.specs[kind], slot: slot, log: h.log}
	sp.Go("sampler/"+string(kind), s.run)
	return true, nil
}

// Running reports whether a sampler for kind has been started.
func (h *Hub) Running(kind Kind) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.started[kind]
}

type sampler struct {
	spec Spec
	slot *Slot
	log  logger.Logger
	// warned is set once a permission failure has been reported.
	warned bool
}

// run polls until ctx is cancelled. Only a fatal probe failure ends it early.
func (s *sampler) run(ctx context.Context) error {
	kind := s.slot.Kind()
	for {
		if err := s.sampleOnce(ctx); err != nil {
			return err
		}

		timer := time.NewTimer(s.spec.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Debug("%s sampler stopped", kind)
			return nil
		case <-timer.C:
		}
	}
}

func (s *sampler) sampleOnce(ctx context.Context) error {
	kind := s.slot.Kind()
	v, err := s.spec.Probe.Sample(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		if s.spec.Fatal {
			return errors.WrapWithCode(err, errors.ErrProbe,
				fmt.Sprintf("Can't sample %s", kind),
				"pixelbar needs this metric to pace its animations.")
		}
		s.logFailure(err)
		s.slot.Store(s.spec.Fallback)
		return nil
	}

	s.slot.Store(v)
	s.log.Debug("%s = %.2f", kind, v)
	return nil
}

// logFailure reports a non-fatal probe failure. A refused socket is a
// setup problem and is reported once; anything else is routine.
func (s *sampler) logFailure(err error) {
	kind := s.slot.Kind()
	var probeErr *ProbeError
	if stderrors.As(err, &probeErr) && probeErr.Reason == ProbeFailPermission {
		if !s.warned {
			s.warned = true
			s.log.Warn("%s probe not permitted, reading as %.2f until it is: %v (allow ICMP via net.ipv4.ping_group_range or CAP_NET_RAW)",
				kind, s.spec.Fallback, err)
			return
		}
	}
	s.log.Debug("%s probe failed, publishing %.2f: %v", kind, s.spec.Fallback, err)
}
