package midi

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"go-midiauto/debug"
)

// Input is an open input device. Messages are handed over in the order
// the driver delivers them; Receive blocks until the next one arrives.
type Input struct {
	name string
	msgs chan gomidi.Message
	errs chan error
	done chan struct{}
	stop func()

	closeOnce sync.Once
}

func newInput(name string) *Input {
	return &Input{
		name: name,
		msgs: make(chan gomidi.Message, 256),
		errs: make(chan error, 1),
		done: make(chan struct{}),
	}
}

// Name returns the port name
func (in *Input) Name() string {
	return in.name
}

// deliver runs on the driver's listener goroutine. It blocks when the
// buffer is full rather than dropping, so ordering is preserved.
func (in *Input) deliver(msg gomidi.Message) {
	m := make(gomidi.Message, len(msg))
	copy(m, msg)
	select {
	case in.msgs <- m:
	case <-in.done:
	}
}

// fail records the first connection error; later ones are dropped
func (in *Input) fail(err error) {
	debug.Log("midi", "%s: %v", in.name, err)
	select {
	case in.errs <- err:
	default:
	}
}

// Receive returns the next message. Pending messages are returned before
// a connection error is reported.
func (in *Input) Receive(ctx context.Context) (gomidi.Message, error) {
	select {
	case msg := <-in.msgs:
		return msg, nil
	default:
	}

	select {
	case msg := <-in.msgs:
		return msg, nil
	case err := <-in.errs:
		if !errors.Is(err, ErrDisconnected) {
			err = fmt.Errorf("%w: %v", ErrDisconnected, err)
		}
		return nil, &DeviceError{Device: in.name, Err: err}
	case <-in.done:
		return nil, &DeviceError{Device: in.name, Err: ErrDisconnected}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops listening and releases the port
func (in *Input) Close() error {
	in.closeOnce.Do(func() {
		close(in.done)
		if in.stop != nil {
			in.stop()
		}
	})
	return nil
}

// watch polls the port list and fails the input once its name is gone.
// Scans that error (e.g. a hung backend) are skipped.
func (in *Input) watch(every time.Duration, scan func() ([]string, error)) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-in.done:
			return
		case <-ticker.C:
			names, err := scan()
			if err != nil {
				debug.Log("midi", "scan skipped: %v", err)
				continue
			}
			present := false
			for _, n := range names {
				if n == in.name {
					present = true
					break
				}
			}
			if !present {
				in.fail(ErrDisconnected)
				return
			}
		}
	}
}
