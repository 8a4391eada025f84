package source

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"
)

// Audio detects onsets on the default input device.
type Audio struct {
	SampleRate int
	BufferSize int
	Detector   *OnsetDetector
	Log        *slog.Logger
}

func (a *Audio) Name() string { return "audio" }

// Run opens a mono input stream. The stream callback runs the detector and
// queues onsets on a Dispatcher, which delivers them to sink.
func (a *Audio) Run(ctx context.Context, sink Sink) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize audio: %w", err)
	}
	defer portaudio.Terminate()

	d := NewDispatcher(256)
	process := func(in []float32) {
		if lvl, ok := a.Detector.Process(in); ok {
			ev := onset(lvl, a.Name())
			d.Push(ev)
		}
	}
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(a.SampleRate), a.BufferSize, process)
	if err != nil {
		return fmt.Errorf("open audio input: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start audio input: %w", err)
	}
	a.Log.Info("audio input started", "sample_rate", a.SampleRate, "buffer", a.BufferSize)
	d.Run(ctx, sink)

	if err := stream.Stop(); err != nil {
		a.Log.Warn("stop audio input", "error", err)
	}
	if n := d.Dropped(); n > 0 {
		a.Log.Warn("onsets dropped", "count", n)
	}
	return ctx.Err()
}
