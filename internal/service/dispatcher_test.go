package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_WaitRunsAllTasks(t *testing.T) {
	d := NewDispatcher(newTestLogger())
	var n atomic.Int32
	for i := 0; i < 10; i++ {
		d.Go("count", func(ctx context.Context) { n.Add(1) })
	}
	d.Wait()
	assert.Equal(t, int32(10), n.Load())
}

func TestDispatcher_PanicIsContained(t *testing.T) {
	d := NewDispatcher(newTestLogger())
	var ran atomic.Bool
	d.Go("boom", func(ctx context.Context) { panic("boom") })
	d.Go("fine", func(ctx context.Context) { ran.Store(true) })

	assert.NotPanics(t, d.Wait)
	assert.True(t, ran.Load())
}

func TestDispatcher_ShutdownCancelsStragglers(t *testing.T) {
	d := NewDispatcher(newTestLogger())
	cancelled := make(chan struct{})
	d.Go("slow", func(ctx context.Context) {
		<-ctx.Done()
		close(cancelled)
	})

	assert.False(t, d.Shutdown(20*time.Millisecond))
	select {
	case <-cancelled:
	default:
		t.Fatal("task did not observe cancellation")
	}
}

func TestDispatcher_ShutdownIdle(t *testing.T) {
	d := NewDispatcher(newTestLogger())
	assert.True(t, d.Shutdown(time.Second))
}
