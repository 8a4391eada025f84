package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	wav "github.com/youpy/go-wav"

	"github.com/mrdg/vizzy/event"
)

type wavInput interface {
	io.Reader
	io.ReaderAt
}

// DecodeWAV returns the signal mixed down to mono and its sample rate.
func DecodeWAV(in wavInput) ([]float32, int, error) {
	r := wav.NewReader(in)
	format, err := r.Format()
	if err != nil {
		return nil, 0, err
	}
	channels := uint(format.NumChannels)
	if channels == 0 || format.SampleRate == 0 || format.BitsPerSample == 0 {
		return nil, 0, fmt.Errorf("invalid wav format: %d channels at %d Hz", channels, format.SampleRate)
	}
	// full scale is 2^(bits-1) for signed PCM
	scale := math.Pow(2, float64(format.BitsPerSample-1))

	var out []float32
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		for _, sample := range samples {
			var v float64
			for ch := uint(0); ch < channels; ch++ {
				v += float64(r.IntValue(sample, ch)) / scale
			}
			out = append(out, float32(v/float64(channels)))
		}
	}
	return out, int(format.SampleRate), nil
}

// WAV detects onsets in an audio file and replays them in real time.
type WAV struct {
	Path      string
	Loop      bool
	BlockSize int
	Detector  func(sampleRate int) *OnsetDetector
	Log       *slog.Logger
}

func (w *WAV) Name() string { return "wav" }

func (w *WAV) Run(ctx context.Context, sink Sink) error {
	f, err := os.Open(w.Path)
	if err != nil {
		return err
	}
	samples, rate, err := DecodeWAV(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", w.Path, err)
	}
	blockSize := w.BlockSize
	if blockSize <= 0 {
		blockSize = 512
	}
	events := Onsets(samples, rate, blockSize, w.Detector(rate))
	length := time.Duration(len(samples)) * time.Second / time.Duration(rate)
	w.Log.Info("playing wav onsets", "path", w.Path, "onsets", len(events), "length", length, "loop", w.Loop)

	p := &Playback{Label: w.Name(), Events: events, Loop: w.Loop, Length: length}
	return p.Run(ctx, sink)
}

func onset(level int, source string) event.Event {
	ev := event.Onset(level)
	ev.Source = source
	return ev
}
