package envelope

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mrdg/vizzy/event"
)

var ErrDuplicateName = errors.New("duplicate envelope name")

// Bank is the set of envelopes shared between the event delivery goroutine
// and the frame goroutine. One mutex guards every envelope and is held for a
// whole batch: all envelopes for one event, or all envelopes for one frame.
type Bank struct {
	mu        sync.Mutex
	envelopes []*Envelope
	now       func() time.Time
	log       *slog.Logger
}

type Option func(*Bank)

// WithClock sets the clock used to timestamp triggers.
func WithClock(now func() time.Time) Option {
	return func(b *Bank) { b.now = now }
}

// WithLogger sets the logger used for trigger diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(b *Bank) { b.log = log }
}

// NewBank takes ownership of envelopes. Names must be unique.
func NewBank(envelopes []*Envelope, opts ...Option) (*Bank, error) {
	seen := make(map[string]bool, len(envelopes))
	for _, env := range envelopes {
		if seen[env.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, env.Name)
		}
		seen[env.Name] = true
	}
	b := &Bank{
		envelopes: envelopes,
		now:       time.Now,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Len returns the number of envelopes.
func (b *Bank) Len() int { return len(b.envelopes) }

// Names returns the envelope names in bank order.
func (b *Bank) Names() []string {
	names := make([]string, len(b.envelopes))
	for i, env := range b.envelopes {
		names[i] = env.Name
	}
	return names
}

// OnEvent offers ev to every envelope and returns how many were triggered.
// It is safe to call from any goroutine.
func (b *Bank) OnEvent(ev event.Event) int {
	debug := b.log.Enabled(context.Background(), slog.LevelDebug)
	var (
		n         int
		triggered []string
	)

	b.mu.Lock()
	now := b.now()
	for _, env := range b.envelopes {
		if !env.Trigger(ev, now) {
			continue
		}
		n++
		if debug {
			triggered = append(triggered, env.Name)
		}
	}
	b.mu.Unlock()

	if debug {
		b.log.Debug("event", "event", ev.String(), "triggered", triggered)
	}
	return n
}

// SampleAll updates every envelope at now and returns name -> amplitude.
// All envelopes are updated before any value is read.
func (b *Bank) SampleAll(now time.Time) map[string]float64 {
	values := make(map[string]float64, len(b.envelopes))
	b.SampleInto(now, values)
	return values
}

// SampleInto is SampleAll writing into an existing map, for callers that
// reuse one map per frame.
func (b *Bank) SampleInto(now time.Time, values map[string]float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, env := range b.envelopes {
		env.Update(now)
	}
	for _, env := range b.envelopes {
		values[env.Name] = env.current
	}
}

// Status is a point-in-time copy of an envelope's state.
type Status struct {
	Name       string
	Segments   []Segment
	Triggered  time.Time
	TriggerAmp float64
	Current    float64
	Segment    int // index of the active segment, -1 when idle
}

// Snapshot returns a consistent copy of every envelope's state at now
// without updating them.
func (b *Bank) Snapshot(now time.Time) []Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Status, len(b.envelopes))
	for i, env := range b.envelopes {
		idx, _ := env.State(now)
		out[i] = Status{
			Name:       env.Name,
			Segments:   env.segments,
			Triggered:  env.trigger,
			TriggerAmp: env.triggerAmp,
			Current:    env.current,
			Segment:    idx,
		}
	}
	return out
}
