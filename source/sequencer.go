package source

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/mrdg/vizzy/dub"
	"github.com/mrdg/vizzy/event"
)

// TimeSig is a time signature such as 4/4 or 7/8.
type TimeSig struct {
	Num   int
	Denom int
}

func (t TimeSig) String() string { return fmt.Sprintf("%d/%d", t.Num, t.Denom) }

// ParseTimeSig parses "num/denom".
func ParseTimeSig(s string) (TimeSig, error) {
	var t TimeSig
	if _, err := fmt.Sscanf(s, "%d/%d", &t.Num, &t.Denom); err != nil {
		return t, fmt.Errorf("not a valid time signature: %s", s)
	}
	if t.Num <= 0 || t.Denom <= 0 || t.Denom&(t.Denom-1) != 0 {
		return t, fmt.Errorf("not a valid time signature: %s", s)
	}
	return t, nil
}

// Sequencer emits an event on every step selected by a rhythm expression.
// The rhythm, bpm and mute state are properties and can be changed while it
// runs.
type Sequencer struct {
	*Props
	label    string
	sig      TimeSig
	stepSize int
	ev       event.Event

	bpm    *atomic.Value // float64, quarter notes per minute
	rhythm *atomic.Value // []int, one entry per step
	mute   *atomic.Value // bool
	step   int
}

// NewSequencer returns a sequencer named name. stepSize is the note value of
// one step: 16 for sixteenth notes.
func NewSequencer(name string, sig TimeSig, stepSize int, bpm float64, rhythm dub.MatchExpr, ev event.Event) (*Sequencer, error) {
	if _, err := dub.EvalMatchExpr(rhythm, sig.Num, sig.Denom, stepSize); err != nil {
		return nil, fmt.Errorf("sequencer %s: %w", name, err)
	}
	props := NewProps()
	s := &Sequencer{
		Props:    props,
		label:    name,
		sig:      sig,
		stepSize: stepSize,
		ev:       ev,
	}
	var err error
	if s.bpm, err = props.Register("bpm", setFloat64(1, 500), bpm); err != nil {
		return nil, fmt.Errorf("sequencer %s: %w", name, err)
	}
	s.rhythm = props.MustRegister("rhythm", s.setRhythm, rhythm)
	s.mute = props.MustRegister("mute", setBool, false)
	return s, nil
}

func (s *Sequencer) Name() string { return s.label }

// Steps returns the current step pattern: 1 where an event fires.
func (s *Sequencer) Steps() []int {
	return s.rhythm.Load().([]int)
}

// StepDuration returns the length of one step at the current tempo.
func (s *Sequencer) StepDuration() time.Duration {
	bpm := s.bpm.Load().(float64)
	// bpm counts quarter notes regardless of the time signature
	return time.Duration(float64(time.Minute) * 4 / (bpm * float64(s.stepSize)))
}

func (s *Sequencer) setRhythm(v interface{}, dest *atomic.Value) error {
	expr, ok := v.(dub.MatchExpr)
	if !ok {
		return fmt.Errorf("value is not a rhythm expression: %v", v)
	}
	steps, err := dub.EvalMatchExpr(expr, s.sig.Num, s.sig.Denom, s.stepSize)
	if err != nil {
		return err
	}
	dest.Store(steps)
	return nil
}

// advance plays the current step and moves to the next one.
func (s *Sequencer) advance(sink Sink) bool {
	steps := s.Steps()
	if s.step >= len(steps) {
		s.step = 0
	}
	fire := steps[s.step] != 0 && !s.mute.Load().(bool)
	s.step++
	if fire {
		ev := s.ev
		ev.Source = s.label
		sink.OnEvent(ev)
	}
	return fire
}

func (s *Sequencer) Run(ctx context.Context, sink Sink) error {
	next := time.Now()
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
		s.advance(sink)
		next = next.Add(s.StepDuration())
		timer.Reset(time.Until(next))
	}
}
