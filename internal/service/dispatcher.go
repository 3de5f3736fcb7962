package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

// Dispatcher runs fire-and-forget tasks. Each task gets its own panic
// boundary, and all tasks share a context that is cancelled when
// Shutdown gives up waiting.
type Dispatcher struct {
	wg     conc.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{ctx: ctx, cancel: cancel, log: log}
}

// Go starts task in the background.
func (d *Dispatcher) Go(name string, task func(ctx context.Context)) {
	d.wg.Go(func() {
		var pc panics.Catcher
		pc.Try(func() { task(d.ctx) })
		if r := pc.Recovered(); r != nil {
			d.log.Error().
				Str("task", name).
				Err(r.AsError()).
				Msg("background task panicked")
		}
	})
}

// Wait blocks until every started task has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Shutdown waits up to timeout for in-flight tasks, then cancels the rest
// and waits for them to observe the cancellation. It reports whether all
// tasks finished before the deadline.
func (d *Dispatcher) Shutdown(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return true
	case <-time.After(timeout):
		d.log.Warn().Dur("timeout", timeout).Msg("cancelling in-flight webhook deliveries")
		d.cancel()
		<-done
		return false
	}
}
