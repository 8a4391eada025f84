package envelope

import (
	"fmt"
	"math"
	"time"
)

// Stage ramps to Target over Duration, starting from wherever the previous
// stage left off (0 for the first stage).
type Stage struct {
	Duration time.Duration
	Target   float64
	Curve    Curve
}

func (s Stage) String() string {
	return fmt.Sprintf("{duration=%v target=%g curve=%v}", s.Duration, s.Target, s.Curve)
}

// StageError describes a malformed stage.
type StageError struct {
	Index  int
	Stage  Stage
	Reason string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %d %v: %s", e.Index, e.Stage, e.Reason)
}

// Validate rejects stages that would compile into segments the sampler can't
// evaluate: negative durations and non-finite targets. Zero durations are
// allowed; they compile into zero-width segments that are never sampled.
func Validate(stages []Stage) error {
	for n, s := range stages {
		switch {
		case s.Duration < 0:
			return &StageError{Index: n, Stage: s, Reason: "negative duration"}
		case math.IsNaN(s.Target) || math.IsInf(s.Target, 0):
			return &StageError{Index: n, Stage: s, Reason: "target is not a finite number"}
		case s.Curve < Linear || s.Curve > Logarithmic:
			return &StageError{Index: n, Stage: s, Reason: "unknown curve"}
		}
	}
	return nil
}
