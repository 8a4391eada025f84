package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/mrdg/vizzy/dub"
	"github.com/mrdg/vizzy/envelope"
	"github.com/mrdg/vizzy/source"
)

var errQuit = errors.New("quit")

type env struct {
	bank    *envelope.Bank
	devices map[string]*source.Props
	now     func() time.Time
}

func (e *env) device(name string) (*source.Props, error) {
	props, ok := e.devices[name]
	if !ok {
		return nil, fmt.Errorf("unknown device: %s", name)
	}
	return props, nil
}

func (e *env) eval(input string) (string, error) {
	command, err := dub.Parse(input)
	if err != nil {
		return "", err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if cmd.arity < 0 {
			arity := -cmd.arity
			if len(command.Args) < arity {
				return "", fmt.Errorf("%s: wrong number of arguments: need at least %v, got %v",
					cmd.name, arity, len(command.Args))
			}
		} else if len(command.Args) != cmd.arity {
			return "", fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(command.Args))
		}
		result, err := cmd.run(e, command.Args)
		if err != nil && !errors.Is(err, errQuit) {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, err
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

// repl reads commands until quit, end of input or ctx is done.
func repl(ctx context.Context, e *env, out io.Writer) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	go func() {
		<-ctx.Done()
		rl.Close()
	}()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if done := evalLine(e, line, out); done {
			return nil
		}
	}
}

// runScript evaluates one command per line. Empty lines and lines starting
// with # are skipped. The first failing command stops the script.
func runScript(e *env, r io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result, err := e.eval(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if result != "" {
			fmt.Fprintln(out, result)
		}
	}
	return scanner.Err()
}

func evalLine(e *env, line string, out io.Writer) (quit bool) {
	if len(strings.TrimSpace(line)) == 0 {
		return false
	}
	result, err := e.eval(line)
	switch {
	case errors.Is(err, errQuit):
		return true
	case err != nil:
		fmt.Fprintln(out, err)
	case result != "":
		fmt.Fprintln(out, result)
	}
	return false
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("wrong number of arguments")
	}
	for n, arg := range args {
		switch p := slots[n].(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier, got %v", arg)
			}
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
