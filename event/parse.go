package event

import (
	"fmt"

	"github.com/mrdg/vizzy/dub"
)

// ParseEvent parses a single concrete event:
//
//	noteon 10 36 100
//	noteoff 10 36
//	cc 1 74 64
//	program 1 5
//	onset 90
func ParseEvent(input string) (Event, error) {
	cmd, err := dub.Parse(input)
	if err != nil {
		return Event{}, err
	}
	return FromCommand(string(cmd.Name), cmd.Args)
}

// FromCommand builds an event from an already parsed kind and arguments.
func FromCommand(name string, args []dub.Node) (Event, error) {
	kind, err := ParseKind(name)
	if err != nil {
		return Event{}, err
	}

	var slots []string
	switch kind {
	case KindNoteOn, KindControlChange:
		slots = []string{"channel", "key", "value"}
	case KindNoteOff, KindProgramChange:
		slots = []string{"channel", "key"}
	case KindOnset:
		slots = []string{"value"}
	}
	if len(args) != len(slots) {
		return Event{}, fmt.Errorf("%s: wrong number of arguments: want %d, got %d", name, len(slots), len(args))
	}

	ev := Event{Kind: kind}
	for n, arg := range args {
		v, ok := arg.(dub.Int)
		if !ok {
			return Event{}, fmt.Errorf("%s %s: expected an integer, got %v", name, slots[n], arg)
		}
		switch slots[n] {
		case "channel":
			if v < 1 || v > 16 {
				return Event{}, fmt.Errorf("%s channel: out of range 1-16: %d", name, v)
			}
			ev.Channel = int(v)
		case "key":
			if v < 0 || v > 127 {
				return Event{}, fmt.Errorf("%s key: out of range 0-127: %d", name, v)
			}
			ev.Key = int(v)
		case "value":
			if v < 0 || v > 127 {
				return Event{}, fmt.Errorf("%s value: out of range 0-127: %d", name, v)
			}
			ev.Value = int(v)
		}
	}
	return ev, nil
}
