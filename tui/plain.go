package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go-midiauto/midi"
)

var blankLine = "\r" + strings.Repeat(" ", 79)

// PlainLoop prints every event to w, overwriting the previous line. It is
// used when stdout is not a terminal. Cancelling ctx ends the loop without
// an error.
func PlainLoop(ctx context.Context, src Source, w io.Writer) error {
	fmt.Fprintln(w, "Waiting for MIDI events...")
	for {
		msg, err := src.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				fmt.Fprintln(w)
				return nil
			}
			return err
		}
		fmt.Fprintf(w, "%s\r%s", blankLine, midi.Describe(midi.Classify(msg)))
	}
}
