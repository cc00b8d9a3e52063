package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestListPorts(t *testing.T) {
	var buf bytes.Buffer
	err := listPorts(context.Background(), func(context.Context) ([]string, []string, error) {
		return []string{"Launchkey MIDI"}, []string{"Launchkey MIDI", "Synth"}, nil
	}, &buf)
	if err != nil {
		t.Fatalf("listPorts: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"=== MIDI Input Ports ===", "  0: Launchkey MIDI", "  1: Synth"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestListPortsError(t *testing.T) {
	boom := errors.New("backend hung")
	err := listPorts(context.Background(), func(context.Context) ([]string, []string, error) {
		return nil, nil, boom
	}, &bytes.Buffer{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected scan error, got %v", err)
	}
}

func TestPollPortsReportsChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scans := [][]string{
		{"A"},
		{"A"},
		{"A", "B"},
	}
	calls := 0
	list := func(context.Context) ([]string, []string, error) {
		if calls >= len(scans) {
			cancel()
			return nil, nil, context.Canceled
		}
		ins := scans[calls]
		calls++
		return ins, nil, nil
	}

	var buf bytes.Buffer
	if err := pollPorts(ctx, list, time.Millisecond, &buf); err != nil {
		t.Fatalf("pollPorts: %v", err)
	}

	out := buf.String()
	if n := strings.Count(out, "Device change detected!"); n != 2 {
		t.Errorf("expected 2 changes, got %d:\n%s", n, out)
	}
	if !strings.Contains(out, "Inputs: A, B") {
		t.Errorf("expected second port set in output:\n%s", out)
	}
}
