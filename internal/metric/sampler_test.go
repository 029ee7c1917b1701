package metric

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rileyhilliard/pixelbar/internal/errors"
	"github.com/rileyhilliard/pixelbar/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSpawner runs tasks on plain goroutines and collects their errors.
type testSpawner struct {
	ctx   context.Context
	wg    sync.WaitGroup
	mu    sync.Mutex
	names []string
	errs  []error
}

func newTestSpawner(ctx context.Context) *testSpawner {
	return &testSpawner{ctx: ctx}
}

func (s *testSpawner) Go(name string, fn func(ctx context.Context) error) {
	s.mu.Lock()
	s.names = append(s.names, name)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(s.ctx); err != nil {
			s.mu.Lock()
			s.errs = append(s.errs, err)
			s.mu.Unlock()
		}
	}()
}

func (s *testSpawner) wait() []error {
	s.wg.Wait()
	return s.errs
}

func countingProbe(v float64, calls *atomic.Int32) Probe {
	return ProbeFunc(func(ctx context.Context) (float64, error) {
		calls.Add(1)
		return v, nil
	})
}

func TestSlot_DefaultsAndStore(t *testing.T) {
	s := NewSlot(KindLoad, 1.0)

	assert.Equal(t, KindLoad, s.Kind())
	assert.Equal(t, 1.0, s.Value())
	assert.True(t, s.Updated().IsZero(), "default value has no update time")

	before := time.Now()
	s.Store(3.5)
	assert.Equal(t, 3.5, s.Value())
	assert.False(t, s.Updated().Before(before.Add(-time.Millisecond)))

	c := NewSlot(KindConnectivity, 1)
	assert.True(t, c.Bool())
	c.StoreBool(false)
	assert.False(t, c.Bool())
	assert.Equal(t, 0.0, c.Value())
	c.StoreBool(true)
	assert.Equal(t, 1.0, c.Value())
}

func TestSlot_ConcurrentReadersSeeWholeValues(t *testing.T) {
	s := NewSlot(KindLoad, 1.0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ctx.Err() == nil; i++ {
			if i%2 == 0 {
				s.Store(2.25)
			} else {
				s.Store(11.75)
			}
		}
	}()

	for i := 0; i < 10000; i++ {
		v := s.Value()
		require.Contains(t, []float64{1.0, 2.25, 11.75}, v)
	}
	cancel()
	wg.Wait()
}

func TestHub_SlotsHoldDefaultsBeforeStart(t *testing.T) {
	hub := NewHub(DefaultSpecs("", 0, 0), nil)

	load, err := hub.Slot(KindLoad)
	require.NoError(t, err)
	assert.Equal(t, 1.0, load.Value())

	conn, err := hub.Slot(KindConnectivity)
	require.NoError(t, err)
	assert.True(t, conn.Bool())

	assert.Equal(t, []Kind{KindConnectivity, KindLoad}, hub.Kinds())
}

func TestHub_UnknownKind(t *testing.T) {
	hub := NewHub(map[Kind]Spec{}, nil)

	_, err := hub.Slot(KindLoad)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	_, err = hub.Start(KindLoad, newTestSpawner(context.Background()))
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestHub_StartIsIdempotent(t *testing.T) {
	var calls atomic.Int32
	hub := NewHub(map[Kind]Spec{
		KindLoad: {Probe: countingProbe(4, &calls), Interval: time.Hour, Default: 1},
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	sp := newTestSpawner(ctx)

	started, err := hub.Start(KindLoad, sp)
	require.NoError(t, err)
	assert.True(t, started)

	started, err = hub.Start(KindLoad, sp)
	require.NoError(t, err)
	assert.False(t, started, "second start is a no-op")
	assert.True(t, hub.Running(KindLoad))

	slot, _ := hub.Slot(KindLoad)
	require.Eventually(t, func() bool { return slot.Value() == 4 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.Empty(t, sp.wait())
	assert.Equal(t, []string{"sampler/load"}, sp.names)
	assert.Equal(t, int32(1), calls.Load(), "one sampler, one sample before the hour-long sleep")
}

func TestHub_SamplerPollsAtInterval(t *testing.T) {
	var calls atomic.Int32
	hub := NewHub(map[Kind]Spec{
		KindLoad: {Probe: countingProbe(2, &calls), Interval: 10 * time.Millisecond, Default: 1},
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	sp := newTestSpawner(ctx)
	_, err := hub.Start(KindLoad, sp)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.Empty(t, sp.wait())
}

func TestHub_FatalProbeFailureStopsSampler(t *testing.T) {
	hub := NewHub(map[Kind]Spec{
		KindLoad: {
			Probe: ProbeFunc(func(context.Context) (float64, error) {
				return 0, stderrors.New("open /proc/loadavg: no such file or directory")
			}),
			Interval: time.Millisecond,
			Default:  1,
			Fatal:    true,
		},
	}, nil)

	sp := newTestSpawner(context.Background())
	_, err := hub.Start(KindLoad, sp)
	require.NoError(t, err)

	errs := sp.wait()
	require.Len(t, errs, 1)
	assert.True(t, errors.IsCode(errs[0], errors.ErrProbe))
	assert.Contains(t, errs[0].Error(), "loadavg")
}

func TestHub_NonFatalProbeFailurePublishesFallback(t *testing.T) {
	buf := logger.NewBufferLogger()
	var calls atomic.Int32
	hub := NewHub(map[Kind]Spec{
		KindConnectivity: {
			Probe: ProbeFunc(func(context.Context) (float64, error) {
				calls.Add(1)
				return 0, &ProbeError{Target: "8.8.8.8", Reason: ProbeFailPermission}
			}),
			Interval: time.Millisecond,
			Default:  1,
			Fallback: 0,
		},
	}, buf)

	ctx, cancel := context.WithCancel(context.Background())
	sp := newTestSpawner(ctx)
	_, err := hub.Start(KindConnectivity, sp)
	require.NoError(t, err)

	slot, _ := hub.Slot(KindConnectivity)
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	assert.False(t, slot.Bool(), "probe failure reads as unreachable")

	cancel()
	assert.Empty(t, sp.wait(), "non-fatal failures never stop the sampler")

	var warns int
	for _, m := range buf.Snapshot() {
		if m.Level == "warn" {
			warns++
			assert.Contains(t, m.Message, "not permitted")
		}
	}
	assert.Equal(t, 1, warns, "a refused socket is reported once")
	assert.True(t, buf.HasLevel("debug"), "later failures stay at debug")
}

func TestHub_OfflineProbeNeverWarns(t *testing.T) {
	buf := logger.NewBufferLogger()
	var calls atomic.Int32
	hub := NewHub(map[Kind]Spec{
		KindConnectivity: {
			Probe: ProbeFunc(func(context.Context) (float64, error) {
				calls.Add(1)
				return 0, &ProbeError{Target: "8.8.8.8", Reason: ProbeFailOffline}
			}),
			Interval: time.Millisecond,
			Default:  1,
		},
	}, buf)

	ctx, cancel := context.WithCancel(context.Background())
	sp := newTestSpawner(ctx)
	_, err := hub.Start(KindConnectivity, sp)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	sp.wait()
	assert.False(t, buf.HasLevel("warn"))
}
