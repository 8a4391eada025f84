// Package source delivers trigger events to an envelope bank. Each Source
// runs on its own goroutine; sources whose callbacks must not block (audio)
// go through a Dispatcher.
package source

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mrdg/vizzy/event"
)

// Sink receives events. envelope.Bank implements it.
type Sink interface {
	OnEvent(ev event.Event) int
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ev event.Event) int

func (f SinkFunc) OnEvent(ev event.Event) int { return f(ev) }

// Source produces events until ctx is cancelled or its input is exhausted.
type Source interface {
	Name() string
	Run(ctx context.Context, sink Sink) error
}

// RunAll runs every source concurrently and waits for all of them. The first
// error cancels the remaining sources and is returned. A source finishing
// without error does not stop the others.
func RunAll(ctx context.Context, log *slog.Logger, sink Sink, sources ...Source) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for _, src := range sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			log.Info("source started", "source", src.Name())
			err := src.Run(ctx, sink)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("source failed", "source", src.Name(), "error", err)
				once.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			log.Info("source stopped", "source", src.Name())
		}(src)
	}
	wg.Wait()
	return firstErr
}

// Dispatcher moves events from real-time callbacks to a Sink. Push never
// blocks; a goroutine started by Run drains the queue and calls the sink.
type Dispatcher struct {
	buf      *eventBuffer
	interval time.Duration
	dropped  atomic.Uint64
}

// NewDispatcher returns a dispatcher with room for size queued events. size
// must be a power of 2.
func NewDispatcher(size int) *Dispatcher {
	return &Dispatcher{
		buf:      newEventBuffer(size),
		interval: time.Millisecond,
	}
}

// Push queues ev. It returns false and counts a drop when the queue is full.
// Only one goroutine may push.
func (d *Dispatcher) Push(ev event.Event) bool {
	if d.buf.tryPush(ev) {
		return true
	}
	d.dropped.Add(1)
	return false
}

// Dropped returns how many events were discarded because the queue was full.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

// Flush delivers every queued event to sink and returns how many there were.
func (d *Dispatcher) Flush(sink Sink) int {
	return d.buf.drain(func(ev event.Event) { sink.OnEvent(ev) })
}

// Run delivers queued events to sink until ctx is done.
func (d *Dispatcher) Run(ctx context.Context, sink Sink) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			d.Flush(sink)
			return
		case <-ticker.C:
			d.Flush(sink)
		}
	}
}
