package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-midiauto/midi"
)

const pollInterval = 2 * time.Second

func main() {
	if len(os.Args) < 2 {
		usage(os.Stdout)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts(ctx, midi.ListPorts, os.Stdout)
	case "poll":
		err = pollPorts(ctx, midi.ListPorts, pollInterval, os.Stdout)
	default:
		usage(os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "midiports: %v\n", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "MIDI port tools")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list    - List all MIDI ports")
	fmt.Fprintln(w, "  poll    - Poll for device changes")
}

type listFunc func(context.Context) (ins, outs []string, err error)

func listPorts(ctx context.Context, list listFunc, w io.Writer) error {
	ins, outs, err := list(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "=== MIDI Input Ports ===")
	for i, name := range ins {
		fmt.Fprintf(w, "  %d: %s\n", i, name)
	}
	fmt.Fprintln(w, "\n=== MIDI Output Ports ===")
	for i, name := range outs {
		fmt.Fprintf(w, "  %d: %s\n", i, name)
	}
	return nil
}

// pollPorts prints the port set whenever it changes, until ctx is done
func pollPorts(ctx context.Context, list listFunc, every time.Duration, w io.Writer) error {
	fmt.Fprintf(w, "Polling for device changes every %s. Ctrl+C to exit.\n", every)

	var lastIn, lastOut []string
	first := true
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		ins, outs, err := list(ctx)
		switch {
		case err == nil:
			if first || !slices.Equal(ins, lastIn) || !slices.Equal(outs, lastOut) {
				fmt.Fprintf(w, "\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
				fmt.Fprintf(w, "  Inputs: %s\n", strings.Join(ins, ", "))
				fmt.Fprintf(w, "  Outputs: %s\n", strings.Join(outs, ", "))
				lastIn, lastOut, first = ins, outs, false
			}
		case ctx.Err() != nil:
			return nil
		default:
			fmt.Fprintf(w, "scan failed: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
