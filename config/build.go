package config

import (
	"errors"
	"fmt"

	"github.com/mrdg/vizzy/dub"
	"github.com/mrdg/vizzy/envelope"
	"github.com/mrdg/vizzy/event"
	"github.com/mrdg/vizzy/source"
)

// Compile returns the envelope's explicit stages, or the stages of its shape.
// Curve applies to every stage that doesn't set its own.
func (e Envelope) Compile() ([]envelope.Stage, error) {
	if len(e.Stages) > 0 && e.Shape != "" {
		return nil, errors.New("shape and stages are mutually exclusive")
	}
	curve, err := envelope.ParseCurve(e.Curve)
	if err != nil {
		return nil, err
	}

	if len(e.Stages) == 0 {
		shape := e.Shape
		if shape == "" {
			shape = "ar"
		}
		stages, err := envelope.Preset(shape, envelope.Params{
			Attack:  e.Attack.Std(),
			Decay:   e.Decay.Std(),
			Hold:    e.Hold.Std(),
			Sustain: e.Sustain.Std(),
			Release: e.Release.Std(),
			Level:   e.Level,
		})
		if err != nil {
			return nil, err
		}
		for i := range stages {
			stages[i].Curve = curve
		}
		return stages, nil
	}

	stages := make([]envelope.Stage, len(e.Stages))
	for i, s := range e.Stages {
		c := curve
		if s.Curve != "" {
			if c, err = envelope.ParseCurve(s.Curve); err != nil {
				return nil, fmt.Errorf("stage %d: %w", i, err)
			}
		}
		stages[i] = envelope.Stage{Duration: s.Duration.Std(), Target: s.Target, Curve: c}
	}
	return stages, nil
}

// Build compiles the envelope.
func (e Envelope) Build() (*envelope.Envelope, error) {
	if e.Match == "" {
		return nil, fmt.Errorf("envelope %q: match is required", e.Name)
	}
	pattern, err := event.ParsePattern(e.Match)
	if err != nil {
		return nil, fmt.Errorf("envelope %q: %w", e.Name, err)
	}
	stages, err := e.Compile()
	if err != nil {
		return nil, fmt.Errorf("envelope %q: %w", e.Name, err)
	}
	return envelope.New(e.Name, pattern, stages)
}

// BuildBank compiles every envelope into a bank.
func (c *Config) BuildBank(opts ...envelope.Option) (*envelope.Bank, error) {
	envs := make([]*envelope.Envelope, 0, len(c.Envelopes))
	for _, e := range c.Envelopes {
		env, err := e.Build()
		if err != nil {
			return nil, err
		}
		envs = append(envs, env)
	}
	return envelope.NewBank(envs, opts...)
}

// Build returns the sequencer the section describes. Missing fields default
// to 120 bpm, 4/4 and sixteenth note steps.
func (s Sequence) Build() (*source.Sequencer, error) {
	if s.Name == "" {
		return nil, errors.New("sequence name is required")
	}
	bpm := s.BPM
	if bpm == 0 {
		bpm = 120
	}
	sig := source.TimeSig{Num: 4, Denom: 4}
	if s.TimeSignature != "" {
		var err error
		if sig, err = source.ParseTimeSig(s.TimeSignature); err != nil {
			return nil, fmt.Errorf("sequence %q: %w", s.Name, err)
		}
	}
	stepSize := s.StepSize
	if stepSize == 0 {
		stepSize = 16
	}
	rhythm := s.Rhythm
	if rhythm == "" {
		rhythm = "*"
	}
	expr, err := dub.ParseMatchExpr(rhythm)
	if err != nil {
		return nil, fmt.Errorf("sequence %q rhythm: %w", s.Name, err)
	}
	ev, err := event.ParseEvent(s.Event)
	if err != nil {
		return nil, fmt.Errorf("sequence %q event: %w", s.Name, err)
	}
	return source.NewSequencer(s.Name, sig, stepSize, bpm, expr, ev)
}

// BuildSequencers builds every configured sequencer.
func (c *Config) BuildSequencers() ([]*source.Sequencer, error) {
	var out []*source.Sequencer
	for _, s := range c.Sequences {
		seq, err := s.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, seq)
	}
	return out, nil
}
