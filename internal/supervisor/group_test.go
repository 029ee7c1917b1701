package supervisor

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/pixelbar/internal/logger"
)

func TestGroup_FirstErrorCancelsTheRest(t *testing.T) {
	log := logger.NewBufferLogger()
	g := newGroup(context.Background(), log)
	first := stderrors.New("first")

	g.Go("waiter", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	g.Go("failer", func(ctx context.Context) error {
		return first
	})

	assert.ErrorIs(t, g.Wait(), first)
	assert.Len(t, g.Results(), 2)
	assert.True(t, log.HasLevel("error"))
}

func TestGroup_OnlyFirstErrorKept(t *testing.T) {
	g := newGroup(context.Background(), logger.Noop())
	first := stderrors.New("first")
	release := make(chan struct{})

	g.Go("a", func(ctx context.Context) error { return first })
	g.Go("b", func(ctx context.Context) error {
		<-ctx.Done()
		<-release
		return stderrors.New("second")
	})

	<-g.Done()
	close(release)
	assert.ErrorIs(t, g.Wait(), first)
}

func TestGroup_PanicBecomesError(t *testing.T) {
	g := newGroup(context.Background(), logger.Noop())

	g.Go("boom", func(ctx context.Context) error {
		panic("kaboom")
	})

	err := g.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestGroup_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := newGroup(ctx, logger.Noop())

	g.Go("waiter", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	cancel()

	select {
	case <-g.Done():
	case <-time.After(time.Second):
		t.Fatal("parent cancel did not reach the group")
	}
	assert.NoError(t, g.Wait())
}

func TestResult_Failed(t *testing.T) {
	r := &Result{Tasks: []TaskResult{
		{Name: "ok"},
		{Name: "bad", Err: stderrors.New("x")},
	}}

	failed := r.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "bad", failed[0].Name)
}
