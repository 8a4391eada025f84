package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mrdg/vizzy/dub"
	"github.com/mrdg/vizzy/event"
)

type command struct {
	name  string
	help  string
	run   func(*env, []dub.Node) (string, error)
	arity int // -n means len(args) must be >= n
}

var commands []command

func init() {
	commands = []command{
		{"list", "show every envelope and its state", listCommand, 0},
		{"levels", "print the current value of every envelope", levelsCommand, 0},
		{"send", "deliver an event, e.g. send noteon 10 36 100", sendCommand, -1},
		{"set", "set a device property, e.g. set hats bpm 128", setCommand, 3},
		{"get", "print a device property", getCommand, 2},
		{"props", "list the properties of a device", propsCommand, 1},
		{"help", "list commands", helpCommand, 0},
		{"quit", "leave the console", quitCommand, 0},
	}
}

func listCommand(e *env, args []dub.Node) (string, error) {
	return renderStatus(e.bank.Snapshot(e.now()), e.now()), nil
}

func levelsCommand(e *env, args []dub.Node) (string, error) {
	// the frame loop owns sampling; report what it last computed
	var parts []string
	for _, s := range e.bank.Snapshot(e.now()) {
		parts = append(parts, fmt.Sprintf("%s=%.3f", s.Name, s.Current))
	}
	return strings.Join(parts, " "), nil
}

func sendCommand(e *env, args []dub.Node) (string, error) {
	var kind string
	if err := readArgs(args[:1], &kind); err != nil {
		return "", err
	}
	ev, err := event.FromCommand(kind, args[1:])
	if err != nil {
		return "", err
	}
	ev.Source = "console"
	n := e.bank.OnEvent(ev)
	return fmt.Sprintf("triggered %d", n), nil
}

func setCommand(e *env, args []dub.Node) (string, error) {
	var device, prop string
	if err := readArgs(args[:2], &device, &prop); err != nil {
		return "", err
	}
	props, err := e.device(device)
	if err != nil {
		return "", err
	}
	switch v := args[2].(type) {
	case dub.Int:
		return "", props.Set(prop, int(v))
	case dub.Float:
		return "", props.Set(prop, float64(v))
	case dub.String:
		return "", props.Set(prop, string(v))
	case dub.Identifier:
		return "", props.Set(prop, string(v))
	case dub.MatchExpr:
		return "", props.Set(prop, v)
	default:
		return "", fmt.Errorf("unsupported property type: %v", v)
	}
}

func getCommand(e *env, args []dub.Node) (string, error) {
	var device, prop string
	if err := readArgs(args, &device, &prop); err != nil {
		return "", err
	}
	props, err := e.device(device)
	if err != nil {
		return "", err
	}
	v, err := props.Get(prop)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func propsCommand(e *env, args []dub.Node) (string, error) {
	var device string
	if err := readArgs(args, &device); err != nil {
		return "", err
	}
	props, err := e.device(device)
	if err != nil {
		return "", err
	}
	return strings.Join(props.Keys(), " "), nil
}

func helpCommand(e *env, args []dub.Node) (string, error) {
	var lines []string
	for _, cmd := range commands {
		lines = append(lines, fmt.Sprintf("%-7s %s", cmd.name, cmd.help))
	}
	devices := make([]string, 0, len(e.devices))
	for name := range e.devices {
		devices = append(devices, name)
	}
	sort.Strings(devices)
	if len(devices) > 0 {
		lines = append(lines, "devices: "+strings.Join(devices, ", "))
	}
	return strings.Join(lines, "\n"), nil
}

func quitCommand(e *env, args []dub.Node) (string, error) {
	return "", errQuit
}
