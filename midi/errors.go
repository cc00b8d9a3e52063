package midi

import (
	"errors"
	"fmt"
)

var (
	// ErrDeviceNotFound indicates no input port has the requested name.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrDisconnected indicates the open port went away or its listener failed.
	ErrDisconnected = errors.New("device disconnected")

	// ErrScanTimeout indicates the MIDI backend did not answer a port scan.
	ErrScanTimeout = errors.New("port scan timed out")
)

// DeviceError wraps a failure of the named input device
type DeviceError struct {
	Device string
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("midi device %q: %v", e.Device, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}
