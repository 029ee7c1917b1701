package supervisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rileyhilliard/pixelbar/internal/logger"
)

// group runs tasks that share one context. The first task error cancels
// the context for everyone; Wait joins every task.
type group struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    logger.Logger

	wg         sync.WaitGroup
	cancelOnce sync.Once

	mu      sync.Mutex
	err     error
	results []TaskResult
}

func newGroup(parent context.Context, log logger.Logger) *group {
	ctx, cancel := context.WithCancel(parent)
	return &group{ctx: ctx, cancel: cancel, log: log}
}

// Go starts fn in its own goroutine. It implements metric.Spawner.
func (g *group) Go(name string, fn func(ctx context.Context) error) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		start := time.Now()
		g.log.Debug("%s started", name)

		err := g.call(fn)

		g.finish(TaskResult{Name: name, Duration: time.Since(start), Err: err})
	}()
}

func (g *group) call(fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(g.ctx)
}

func (g *group) finish(res TaskResult) {
	g.mu.Lock()
	g.results = append(g.results, res)
	first := res.Err != nil && g.err == nil
	if first {
		g.err = res.Err
	}
	g.mu.Unlock()

	if res.Err == nil {
		g.log.Debug("%s stopped after %s", res.Name, res.Duration.Round(time.Millisecond))
		return
	}
	if first {
		g.log.Error("%s failed, stopping: %v", res.Name, res.Err)
	} else {
		g.log.Debug("%s also failed: %v", res.Name, res.Err)
	}
	g.stop()
}

func (g *group) stop() {
	g.cancelOnce.Do(g.cancel)
}

func (g *group) Done() <-chan struct{} {
	return g.ctx.Done()
}

// Wait joins every task and returns the first error.
func (g *group) Wait() error {
	g.wg.Wait()
	g.stop()
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

func (g *group) Results() []TaskResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]TaskResult(nil), g.results...)
}
