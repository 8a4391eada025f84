// Package envelope turns discrete trigger events into continuous amplitude
// curves that are sampled once per rendered frame.
//
// An Envelope is compiled from a list of stages into absolute-time segments.
// Trigger restarts it from the current amplitude; Update samples it at a
// wall-clock instant. Envelopes are not safe for concurrent use on their own;
// Bank serialises access between the event and frame goroutines.
package envelope

import (
	"errors"
	"fmt"
	"time"

	"github.com/mrdg/vizzy/event"
)

var (
	ErrEmptyName = errors.New("envelope name is empty")
	ErrNoPattern = errors.New("envelope has no pattern")
)

type Envelope struct {
	Name    string
	Pattern event.Pattern

	segments []Segment

	trigger    time.Time // zero until the first matching event
	triggerAmp float64
	current    float64
}

// New builds an envelope from stages. Malformed stages are rejected with a
// *StageError.
func New(name string, pattern event.Pattern, stages []Stage) (*Envelope, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if pattern == nil {
		return nil, fmt.Errorf("envelope %s: %w", name, ErrNoPattern)
	}
	if err := Validate(stages); err != nil {
		return nil, fmt.Errorf("envelope %s: %w", name, err)
	}
	return &Envelope{
		Name:     name,
		Pattern:  pattern,
		segments: ToSegments(stages),
	}, nil
}

// Segments returns the compiled segments. They must not be modified.
func (e *Envelope) Segments() []Segment { return e.segments }

// Trigger restarts the envelope at now if ev matches its pattern. The
// amplitude at the moment of the trigger becomes the starting point of the
// first segment.
func (e *Envelope) Trigger(ev event.Event, now time.Time) bool {
	if !e.Pattern(ev) {
		return false
	}
	e.triggerAmp = e.current
	e.trigger = now
	return true
}

// Update samples the envelope at now and stores the result as the current
// amplitude. Envelopes without segments keep their previous value.
func (e *Envelope) Update(now time.Time) float64 {
	if amp, ok := Sample(e.segments, e.trigger, e.triggerAmp, now); ok {
		e.current = amp
	}
	return e.current
}

// Current returns the amplitude computed by the last Update.
func (e *Envelope) Current() float64 { return e.current }

// Triggered returns the time of the last trigger and whether there was one.
func (e *Envelope) Triggered() (time.Time, bool) {
	return e.trigger, !e.trigger.IsZero()
}

// State returns the index of the segment active at now, or active == false
// when the envelope is idle.
func (e *Envelope) State(now time.Time) (index int, active bool) {
	if e.trigger.IsZero() {
		return -1, false
	}
	i := find(e.segments, now.Sub(e.trigger))
	return i, i >= 0
}

func (e *Envelope) String() string {
	return fmt.Sprintf("{name=%s segments=%v trigger=%v trigger_amp=%g current=%g}",
		e.Name, e.segments, e.trigger, e.triggerAmp, e.current)
}
