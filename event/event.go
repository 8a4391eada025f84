// Package event defines the trigger events delivered to envelopes and the
// patterns envelopes use to select them.
package event

import "fmt"

// Kind classifies an Event.
type Kind int

const (
	KindUnknown Kind = iota
	KindNoteOn
	KindNoteOff
	KindControlChange
	KindProgramChange
	KindOnset // amplitude onset detected in an audio signal
)

var kindNames = map[Kind]string{
	KindUnknown:       "unknown",
	KindNoteOn:        "noteon",
	KindNoteOff:       "noteoff",
	KindControlChange: "cc",
	KindProgramChange: "program",
	KindOnset:         "onset",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind returns the Kind named s.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s && k != KindUnknown {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown event kind: %q", s)
}

// Event is a single discrete trigger. Channel is 1-based (1-16) for MIDI
// events and 0 for events without a channel. Key is the note or controller
// number, Value the velocity, controller value or onset level scaled to 0-127.
type Event struct {
	Kind    Kind
	Channel int
	Key     int
	Value   int
	Source  string
}

func (e Event) String() string {
	switch e.Kind {
	case KindOnset:
		return fmt.Sprintf("onset level=%d source=%s", e.Value, e.Source)
	default:
		return fmt.Sprintf("%s ch=%d key=%d value=%d source=%s", e.Kind, e.Channel, e.Key, e.Value, e.Source)
	}
}

// NoteOn returns a note-on event.
func NoteOn(channel, key, velocity int) Event {
	return Event{Kind: KindNoteOn, Channel: channel, Key: key, Value: velocity}
}

// NoteOff returns a note-off event.
func NoteOff(channel, key int) Event {
	return Event{Kind: KindNoteOff, Channel: channel, Key: key}
}

// ControlChange returns a control change event.
func ControlChange(channel, controller, value int) Event {
	return Event{Kind: KindControlChange, Channel: channel, Key: controller, Value: value}
}

// Onset returns an onset event at the given level (0-127).
func Onset(level int) Event {
	return Event{Kind: KindOnset, Value: level}
}
