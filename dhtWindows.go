//go:build windows
// +build windows

package dht

import "errors"

var errNoGPIO = errors.New("dht: gpio not supported on windows")

// HostInit is not supported on windows.
func HostInit() error {
	return errNoGPIO
}

// OpenPin is not supported on windows.
func OpenPin(pinName string) (*PinLine, error) {
	return nil, errNoGPIO
}
