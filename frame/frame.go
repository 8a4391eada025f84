// Package frame samples an envelope bank at a fixed rate and hands the
// values to consumers, the way a render loop binds them to shader uniforms.
package frame

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Sampler is implemented by envelope.Bank.
type Sampler interface {
	SampleInto(now time.Time, values map[string]float64)
}

// Frame is the state handed to consumers once per tick. Values is reused
// between frames and must not be retained.
type Frame struct {
	Index   uint64
	Time    time.Time
	Elapsed time.Duration // since the loop started
	Values  map[string]float64
}

// Consumer receives every frame on the loop goroutine.
type Consumer interface {
	Consume(f Frame) error
}

// Func adapts a function to a Consumer.
type Func func(f Frame) error

func (fn Func) Consume(f Frame) error { return fn(f) }

// ErrStop can be returned by a consumer to end the loop without error.
var ErrStop = errors.New("stop frame loop")

type Loop struct {
	Bank      Sampler
	Consumers []Consumer
	FPS       int
	Clock     func() time.Time
	Log       *slog.Logger
}

// Run samples the bank FPS times per second until ctx is done or a consumer
// fails. Ticks missed because a frame took too long are skipped.
func (l *Loop) Run(ctx context.Context) error {
	if l.FPS <= 0 {
		return errors.New("frame rate must be positive")
	}
	clock := l.Clock
	if clock == nil {
		clock = time.Now
	}
	log := l.Log
	if log == nil {
		log = slog.Default()
	}

	ticker := time.NewTicker(time.Second / time.Duration(l.FPS))
	defer ticker.Stop()

	values := make(map[string]float64)
	start := clock()
	f := Frame{Values: values}
	for {
		f.Time = clock()
		f.Elapsed = f.Time.Sub(start)
		l.Bank.SampleInto(f.Time, values)
		for _, c := range l.Consumers {
			if err := c.Consume(f); err != nil {
				if errors.Is(err, ErrStop) {
					log.Debug("frame loop stopped by consumer", "frame", f.Index)
					return nil
				}
				return err
			}
		}
		f.Index++

		select {
		case <-ctx.Done():
			log.Debug("frame loop done", "frames", f.Index)
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
