package event

import (
	"fmt"
	"strings"

	"github.com/mrdg/vizzy/dub"
)

// Pattern reports whether an event should (re)trigger an envelope. Patterns
// must be pure: they are evaluated on the event delivery goroutine while the
// envelope bank is locked.
type Pattern func(Event) bool

// Any matches every event.
func Any(Event) bool { return true }

// Or matches when any of patterns matches.
func Or(patterns ...Pattern) Pattern {
	return func(ev Event) bool {
		for _, p := range patterns {
			if p(ev) {
				return true
			}
		}
		return false
	}
}

// Matcher selects integer values such as channels or note numbers.
// dub.MatchExpr implements it.
type Matcher interface {
	Match(i int) bool
}

// Rule is the common closed set of match rules: an event kind, optional
// channel and key matchers and a minimum value. A nil matcher matches any
// value and KindUnknown matches any kind.
type Rule struct {
	Kind     Kind
	Channel  Matcher
	Key      Matcher
	MinValue int
}

// Match reports whether ev satisfies every part of the rule.
func (r Rule) Match(ev Event) bool {
	if r.Kind != KindUnknown && ev.Kind != r.Kind {
		return false
	}
	if r.Channel != nil && !r.Channel.Match(ev.Channel) {
		return false
	}
	if r.Key != nil && !r.Key.Match(ev.Key) {
		return false
	}
	return ev.Value >= r.MinValue
}

// Pattern returns the rule as a Pattern.
func (r Rule) Pattern() Pattern { return r.Match }

// ParsePattern parses a pattern written in the dub language. Alternatives are
// separated by "|":
//
//	any                      every event
//	noteon                   any note-on
//	noteon 1                 note-on on channel 1
//	noteon '10 '36,38        note-on on channel 10, notes 36 or 38
//	noteon '* '36:47 64      notes 36-47 on any channel, velocity >= 64
//	cc '1 '74                controller 74 on channel 1
//	onset 20                 audio onsets with level >= 20
func ParsePattern(input string) (Pattern, error) {
	alternatives := strings.Split(input, "|")
	var patterns []Pattern
	for _, alt := range alternatives {
		p, err := parseRule(strings.TrimSpace(alt))
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", input, err)
		}
		patterns = append(patterns, p)
	}
	if len(patterns) == 1 {
		return patterns[0], nil
	}
	return Or(patterns...), nil
}

func parseRule(input string) (Pattern, error) {
	cmd, err := dub.Parse(input)
	if err != nil {
		return nil, err
	}
	name := string(cmd.Name)
	if name == "any" {
		if len(cmd.Args) > 0 {
			return nil, fmt.Errorf("any: unexpected arguments %v", cmd.Args)
		}
		return Any, nil
	}
	kind, err := ParseKind(name)
	if err != nil {
		return nil, err
	}

	// onset takes only a minimum level
	slots := []string{"channel", "key", "value"}
	if kind == KindOnset {
		slots = []string{"value"}
	}
	if len(cmd.Args) > len(slots) {
		return nil, fmt.Errorf("%s: too many arguments: want at most %d, got %d", name, len(slots), len(cmd.Args))
	}

	rule := Rule{Kind: kind}
	for n, arg := range cmd.Args {
		switch slots[n] {
		case "channel":
			rule.Channel, err = matcherArg(arg, 1, 16)
		case "key":
			rule.Key, err = matcherArg(arg, 0, 127)
		case "value":
			v, ok := arg.(dub.Int)
			if !ok {
				return nil, fmt.Errorf("%s: minimum value must be an integer, got %v", name, arg)
			}
			if v < 0 || v > 127 {
				return nil, fmt.Errorf("%s: minimum value out of range 0-127: %d", name, v)
			}
			rule.MinValue = int(v)
		}
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", name, slots[n], err)
		}
	}
	return rule.Pattern(), nil
}

func matcherArg(arg dub.Node, min, max int) (Matcher, error) {
	switch v := arg.(type) {
	case dub.Int:
		if int(v) < min || int(v) > max {
			return nil, fmt.Errorf("out of range %d-%d: %d", min, max, v)
		}
		return dub.MatchList(int(v)), nil
	case dub.MatchExpr:
		if v.Levels() != 1 {
			return nil, fmt.Errorf("rhythmic levels are not allowed here: %v", v)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("expected a number or match expression, got %v", arg)
	}
}
