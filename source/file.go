package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/mrdg/vizzy/event"
)

// Scheduled is an event at an offset from the start of playback.
type Scheduled struct {
	At    time.Duration
	Event event.Event
}

// LoadSMF reads a standard MIDI file and returns its channel messages in time
// order, with tempo changes applied.
func LoadSMF(r io.Reader) ([]Scheduled, error) {
	var out []Scheduled
	err := smf.ReadTracksFrom(r).Do(func(te smf.TrackEvent) {
		if !te.Message.IsPlayable() {
			return
		}
		ev, ok := FromMIDI(midi.Message(te.Message))
		if !ok {
			return
		}
		out = append(out, Scheduled{
			At:    time.Duration(te.AbsMicroSeconds) * time.Microsecond,
			Event: ev,
		})
	}).Error()
	if err != nil {
		return nil, fmt.Errorf("read midi file: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out, nil
}

// Playback replays a schedule in real time.
type Playback struct {
	Label  string
	Events []Scheduled
	Loop   bool
	// Length of one loop iteration. Defaults to the offset of the last event.
	Length time.Duration
}

func (p *Playback) Name() string { return p.Label }

func (p *Playback) Run(ctx context.Context, sink Sink) error {
	if len(p.Events) == 0 {
		return nil
	}
	length := p.Length
	if length <= 0 {
		length = p.Events[len(p.Events)-1].At
	}
	if p.Loop && length <= 0 {
		return fmt.Errorf("%s: cannot loop a schedule of zero length", p.Label)
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	start := time.Now()
	for {
		for _, s := range p.Events {
			wait := time.Until(start.Add(s.At))
			if wait > 0 {
				timer.Reset(wait)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-timer.C:
				}
			} else if err := ctx.Err(); err != nil {
				return err
			}
			ev := s.Event
			ev.Source = p.Label
			sink.OnEvent(ev)
		}
		if !p.Loop {
			return nil
		}
		start = start.Add(length)
	}
}

// File plays a standard MIDI file.
type File struct {
	Path string
	Loop bool
	Log  *slog.Logger
}

func (f *File) Name() string { return "file" }

func (f *File) Run(ctx context.Context, sink Sink) error {
	r, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	events, err := LoadSMF(r)
	r.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", f.Path, err)
	}
	f.Log.Info("playing midi file", "path", f.Path, "events", len(events), "loop", f.Loop)
	p := &Playback{Label: f.Name(), Events: events, Loop: f.Loop}
	return p.Run(ctx, sink)
}
