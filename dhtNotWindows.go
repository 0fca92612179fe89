//go:build !windows
// +build !windows

package dht

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// HostInit calls periph.io host.Init(). This needs to be done before OpenPin can be used.
func HostInit() error {
	_, err := host.Init()
	return err
}

// OpenPin finds the pin by name and returns it as a Line, set to output high.
func OpenPin(pinName string) (*PinLine, error) {
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("%w: pin %q not found", ErrInvalidArgument, pinName)
	}

	err := pin.Out(gpio.High)
	if err != nil {
		return nil, fmt.Errorf("pin out high error: %w", err)
	}

	return NewPinLine(pin), nil
}
