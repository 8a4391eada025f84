package envelope

import "time"

// Sample computes the amplitude of an envelope at now. The first segment
// starts from triggerAmp rather than its own StartAmp so that retriggering
// mid-flight continues from the current value. When no segment is active
// (never triggered, finished, or now before trigger) the result is the idle
// value segments[0].StartAmp. ok is false only when there are no segments.
func Sample(segments []Segment, trigger time.Time, triggerAmp float64, now time.Time) (amp float64, ok bool) {
	if len(segments) == 0 {
		return 0, false
	}
	idle := segments[0].StartAmp
	if trigger.IsZero() {
		return idle, true
	}

	elapsed := now.Sub(trigger)
	i := find(segments, elapsed)
	if i < 0 {
		return idle, true
	}
	s := segments[i]

	t := float64(elapsed-s.Start) / float64(s.Width())
	from := s.StartAmp
	if i == 0 {
		from = triggerAmp
	}
	return Lerp(from, s.EndAmp, s.Curve.Apply(t)), true
}

// find returns the index of the segment containing elapsed, or -1.
func find(segments []Segment, elapsed time.Duration) int {
	for i, s := range segments {
		if s.contains(elapsed) {
			return i
		}
	}
	return -1
}
