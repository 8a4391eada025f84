package envelope

import (
	"fmt"
	"time"
)

// Segment is a compiled stage addressed by offsets from the envelope's
// trigger instant.
type Segment struct {
	Start    time.Duration
	End      time.Duration
	StartAmp float64
	EndAmp   float64
	Curve    Curve
}

func (s Segment) String() string {
	return fmt.Sprintf("{%v-%v %g->%g}", s.Start, s.End, s.StartAmp, s.EndAmp)
}

// Width returns the segment's duration.
func (s Segment) Width() time.Duration { return s.End - s.Start }

// contains reports whether elapsed falls within [Start, End).
func (s Segment) contains(elapsed time.Duration) bool {
	return elapsed >= s.Start && elapsed < s.End
}

// ToSegments compiles stages into contiguous segments. The first segment
// starts at offset 0 and amplitude 0; each following segment starts where the
// previous one ended.
func ToSegments(stages []Stage) []Segment {
	segments := make([]Segment, 0, len(stages))

	var elapsed time.Duration
	var startAmp float64
	for _, stage := range stages {
		segments = append(segments, Segment{
			Start:    elapsed,
			End:      elapsed + stage.Duration,
			StartAmp: startAmp,
			EndAmp:   stage.Target,
			Curve:    stage.Curve,
		})
		elapsed += stage.Duration
		startAmp = stage.Target
	}
	return segments
}

// Duration returns the total length of segments.
func Duration(segments []Segment) time.Duration {
	if len(segments) == 0 {
		return 0
	}
	return segments[len(segments)-1].End
}
