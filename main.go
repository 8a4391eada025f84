// Command vizzy turns MIDI and audio events into continuous envelope values
// sampled once per frame.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	midi.CloseDriver()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
