package bounded

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_PassesThroughResult(t *testing.T) {
	got := Run(context.Background(), time.Second, "ok", func(ctx context.Context) ([]string, error) {
		return []string{"a", "b", "c"}, nil
	})
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestRun_NilResultBecomesEmpty(t *testing.T) {
	got := Run(context.Background(), time.Second, "nil", func(ctx context.Context) ([]int, error) {
		return nil, nil
	})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRun_ErrorBecomesEmpty(t *testing.T) {
	got := Run(context.Background(), time.Second, "error", func(ctx context.Context) ([]string, error) {
		return []string{"partial"}, errors.New("element not found")
	})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRun_PanicBecomesEmpty(t *testing.T) {
	got := Run(context.Background(), time.Second, "panic", func(ctx context.Context) ([]string, error) {
		panic("driver crashed")
	})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRun_TimeoutReturnsWithinBound(t *testing.T) {
	const timeout = 100 * time.Millisecond

	start := time.Now()
	got := Run(context.Background(), timeout, "hang", func(ctx context.Context) ([]string, error) {
		// キャンセルを無視するタスク
		time.Sleep(2 * time.Second)
		return []string{"too late"}, nil
	})
	elapsed := time.Since(start)

	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Less(t, elapsed, timeout+500*time.Millisecond, "タイムアウト後すぐに戻るべきです")
}

func TestRun_CancelsTaskContextOnTimeout(t *testing.T) {
	var cancelled atomic.Bool
	observed := make(chan struct{})

	Run(context.Background(), 50*time.Millisecond, "cooperative", func(ctx context.Context) ([]string, error) {
		<-ctx.Done()
		cancelled.Store(true)
		close(observed)
		return nil, ctx.Err()
	})

	select {
	case <-observed:
	case <-time.After(time.Second):
		t.Fatal("タスクのコンテキストがキャンセルされませんでした")
	}
	assert.True(t, cancelled.Load())
}

func TestRun_CancelsTaskContextOnSuccess(t *testing.T) {
	var taskCtx context.Context

	Run(context.Background(), time.Second, "leak check", func(ctx context.Context) ([]string, error) {
		taskCtx = ctx
		return []string{"x"}, nil
	})

	require.NotNil(t, taskCtx)
	assert.ErrorIs(t, taskCtx.Err(), context.Canceled)
}

func TestRun_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := Run(ctx, time.Minute, "parent cancelled", func(ctx context.Context) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	assert.Empty(t, got)
}

func TestRun_NonPositiveTimeoutUsesParentDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	got := Run(ctx, 0, "no timeout", func(ctx context.Context) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	assert.Empty(t, got)
	assert.Less(t, time.Since(start), time.Second)
}
