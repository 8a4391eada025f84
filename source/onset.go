package source

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/mrdg/vizzy/event"
)

// OnsetDetector reports an onset when the RMS level of a block rises to the
// threshold, at most once per refractory period. Threshold and refractory are
// properties so they can be changed while audio is running.
type OnsetDetector struct {
	sampleRate float64
	threshold  *atomic.Value // float64, RMS 0-1
	refractory *atomic.Value // float64, milliseconds

	pos       int64 // samples seen
	lastOnset int64
	above     bool
	fired     bool
}

// NewOnsetDetector registers the "threshold" and "refractory" properties on
// props.
func NewOnsetDetector(props *Props, sampleRate int, threshold float64, refractory time.Duration) *OnsetDetector {
	return &OnsetDetector{
		sampleRate: float64(sampleRate),
		threshold:  props.MustRegister("threshold", setFloat64(0, 1), threshold),
		refractory: props.MustRegister("refractory", setFloat64(0, 10000), float64(refractory)/float64(time.Millisecond)),
	}
}

// Process analyzes one block of mono samples. It returns the onset level
// scaled to 0-127 and true when the block starts a new onset.
func (d *OnsetDetector) Process(block []float32) (int, bool) {
	if len(block) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range block {
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(len(block)))

	start := d.pos
	d.pos += int64(len(block))

	threshold := d.threshold.Load().(float64)
	wasAbove := d.above
	d.above = rms >= threshold
	if !d.above || wasAbove {
		return 0, false
	}
	refractory := int64(d.refractory.Load().(float64) / 1000 * d.sampleRate)
	if d.fired && start-d.lastOnset < refractory {
		return 0, false
	}
	d.fired = true
	d.lastOnset = start
	return level(rms), true
}

func level(rms float64) int {
	return int(math.Round(math.Min(rms, 1) * 127))
}

// Onsets runs a detector over a whole signal in blocks of blockSize and
// returns the schedule of detected onsets.
func Onsets(samples []float32, sampleRate, blockSize int, d *OnsetDetector) []Scheduled {
	var out []Scheduled
	for i := 0; i < len(samples); i += blockSize {
		end := i + blockSize
		if end > len(samples) {
			end = len(samples)
		}
		if lvl, ok := d.Process(samples[i:end]); ok {
			at := time.Duration(i) * time.Second / time.Duration(sampleRate)
			out = append(out, Scheduled{At: at, Event: event.Onset(lvl)})
		}
	}
	return out
}
