package source

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"gitlab.com/gomidi/midi/v2"

	"github.com/mrdg/vizzy/event"
)

// FromMIDI converts a channel message to an Event. gomidi channels are
// 0-based, Event channels 1-based. Messages without a trigger meaning
// (clock, sysex, pitch bend) return false.
func FromMIDI(msg midi.Message) (event.Event, bool) {
	var ch, key, val uint8
	switch {
	case msg.GetNoteStart(&ch, &key, &val):
		return event.NoteOn(int(ch)+1, int(key), int(val)), true
	case msg.GetNoteEnd(&ch, &key):
		return event.NoteOff(int(ch)+1, int(key)), true
	case msg.GetControlChange(&ch, &key, &val):
		return event.ControlChange(int(ch)+1, int(key), int(val)), true
	case msg.GetProgramChange(&ch, &key):
		return event.Event{Kind: event.KindProgramChange, Channel: int(ch) + 1, Key: int(key)}, true
	}
	return event.Event{}, false
}

// Port describes a MIDI input port.
type Port struct {
	Number int
	Name   string
}

func (p Port) String() string { return fmt.Sprintf("%d: %s", p.Number, p.Name) }

// Ports lists the MIDI input ports of the registered driver.
func Ports() []Port {
	var ports []Port
	for _, in := range midi.GetInPorts() {
		ports = append(ports, Port{Number: in.Number(), Name: in.String()})
	}
	return ports
}

// SelectPort picks a port by number, by case-insensitive name substring, or
// the first port when want is empty.
func SelectPort(ports []Port, want string) (Port, error) {
	if len(ports) == 0 {
		return Port{}, fmt.Errorf("no MIDI input ports")
	}
	if want == "" {
		return ports[0], nil
	}
	if n, err := strconv.Atoi(want); err == nil {
		for _, p := range ports {
			if p.Number == n {
				return p, nil
			}
		}
		return Port{}, fmt.Errorf("no MIDI input port number %d", n)
	}
	var matches []Port
	for _, p := range ports {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(want)) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return Port{}, fmt.Errorf("no MIDI input port matching %q", want)
	case 1:
		return matches[0], nil
	default:
		return Port{}, fmt.Errorf("MIDI port %q is ambiguous: %d ports match", want, len(matches))
	}
}

// MIDI listens on a live input port.
type MIDI struct {
	Port string
	Log  *slog.Logger
}

func (m *MIDI) Name() string { return "midi" }

// Run opens the port and forwards every channel message to sink until ctx is
// done. gomidi invokes the callback on its own goroutine.
func (m *MIDI) Run(ctx context.Context, sink Sink) error {
	port, err := SelectPort(Ports(), m.Port)
	if err != nil {
		return err
	}
	in, err := midi.InPort(port.Number)
	if err != nil {
		return fmt.Errorf("find MIDI port %s: %w", port, err)
	}
	if err := in.Open(); err != nil {
		return fmt.Errorf("open MIDI port %s: %w", port, err)
	}
	defer in.Close()

	listenErr := make(chan error, 1)
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		ev, ok := FromMIDI(msg)
		if !ok {
			return
		}
		ev.Source = m.Name()
		sink.OnEvent(ev)
	}, midi.HandleError(func(err error) {
		select {
		case listenErr <- err:
		default:
		}
	}))
	if err != nil {
		return fmt.Errorf("listen on MIDI port %s: %w", port, err)
	}
	defer stop()
	m.Log.Info("MIDI input connected", "port", port.Name)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-listenErr:
		return fmt.Errorf("MIDI port %s: %w", port, err)
	}
}
