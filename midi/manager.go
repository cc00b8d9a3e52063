package midi

import (
	"context"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

const (
	scanTimeout = 3 * time.Second
	pollRate    = time.Second
)

// Ports is a snapshot of the ports the driver currently exposes
type Ports struct {
	Ins  []drivers.In
	Outs []drivers.Out
}

// InNames returns the input port names
func (p Ports) InNames() []string {
	names := make([]string, 0, len(p.Ins))
	for _, in := range p.Ins {
		names = append(names, in.String())
	}
	return names
}

// OutNames returns the output port names
func (p Ports) OutNames() []string {
	names := make([]string, 0, len(p.Outs))
	for _, out := range p.Outs {
		names = append(names, out.String())
	}
	return names
}

// Scan asks the registered driver for its ports. The call is bounded by a
// timeout since CoreMIDI can hang (fix: sudo killall coreaudiod midiserver).
func Scan(ctx context.Context) (Ports, error) {
	ch := make(chan Ports, 1)
	go func() {
		ch <- Ports{Ins: gomidi.GetInPorts(), Outs: gomidi.GetOutPorts()}
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(scanTimeout):
		return Ports{}, ErrScanTimeout
	case <-ctx.Done():
		return Ports{}, ctx.Err()
	}
}

// ListInputs returns the names of all available input devices
func ListInputs(ctx context.Context) ([]string, error) {
	p, err := Scan(ctx)
	if err != nil {
		return nil, err
	}
	return p.InNames(), nil
}

// Open connects to the input port called name and watches for it to
// disappear. Names must match exactly.
func Open(ctx context.Context, name string) (*Input, error) {
	p, err := Scan(ctx)
	if err != nil {
		return nil, &DeviceError{Device: name, Err: err}
	}

	var found drivers.In
	for _, in := range p.Ins {
		if in.String() == name {
			found = in
			break
		}
	}
	if found == nil {
		return nil, &DeviceError{Device: name, Err: ErrDeviceNotFound}
	}

	in, err := OpenPort(found)
	if err != nil {
		return nil, err
	}
	go in.watch(pollRate, func() ([]string, error) {
		return ListInputs(context.Background())
	})
	return in, nil
}

// OpenPort starts listening on an already resolved port
func OpenPort(port drivers.In) (*Input, error) {
	name := port.String()
	if err := port.Open(); err != nil {
		return nil, &DeviceError{Device: name, Err: err}
	}

	in := newInput(name)
	stop, err := gomidi.ListenTo(port, func(msg gomidi.Message, timestampms int32) {
		in.deliver(msg)
	}, gomidi.HandleError(func(err error) {
		in.fail(err)
	}))
	if err != nil {
		_ = port.Close()
		return nil, &DeviceError{Device: name, Err: err}
	}

	in.stop = func() {
		stop()
		_ = port.Close()
	}
	return in, nil
}

// ListPorts returns input and output port names
func ListPorts(ctx context.Context) (ins, outs []string, err error) {
	p, err := Scan(ctx)
	if err != nil {
		return nil, nil, err
	}
	return p.InNames(), p.OutNames(), nil
}
