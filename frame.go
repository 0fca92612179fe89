package dht

import (
	"fmt"
	"runtime/debug"

	"periph.io/x/conn/v3/gpio"
)

// waitLevel busy waits while the line is at level, at most budget microseconds.
// Returns the microseconds waited, between 0 and budget.
func (dht *DHT) waitLevel(level gpio.Level, budget int64) (int64, error) {
	var waited int64
	for dht.pin.Level() == level {
		if waited >= budget {
			return waited, errTimeout
		}
		dht.timer.Delay(1)
		waited++
	}
	return waited, nil
}

// readBits does one acquisition and returns the raw frame.
// The checksum is not checked here.
func (dht *DHT) readBits() (data [5]byte, err error) {
	// disable garbage collection during critical timing part
	gcPercent := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(gcPercent)

	// set pin to high so ready for next time
	defer func() {
		parkErr := dht.pin.SetLevel(gpio.High)
		if parkErr == nil {
			parkErr = dht.pin.SetDirection(Output)
		}
		if parkErr != nil {
			dht.log.Debug("pin out high error", "error", parkErr)
		}
	}()

	// send start low
	err = dht.pin.SetDirection(Output)
	if err == nil {
		err = dht.pin.SetLevel(gpio.Low)
	}
	if err != nil {
		return data, fmt.Errorf("%w: pin out low error: %v", ErrFail, err)
	}
	dht.timer.Delay(startLow)

	// send start high, then let go of the line
	err = dht.pin.SetLevel(gpio.High)
	if err != nil {
		return data, fmt.Errorf("%w: pin out high error: %v", ErrFail, err)
	}
	dht.timer.Delay(startHigh)
	err = dht.pin.SetDirection(Input)
	if err != nil {
		return data, fmt.Errorf("%w: pin in error: %v", ErrFail, err)
	}

	// sensor answers low then high
	if _, err = dht.waitLevel(gpio.Low, responseWait); err != nil {
		return data, fmt.Errorf("%w: no response low", ErrFail)
	}
	if _, err = dht.waitLevel(gpio.High, responseWait); err != nil {
		return data, fmt.Errorf("%w: no response high", ErrFail)
	}

	var high int64
	for i := 0; i < frameBits; i++ {
		if _, err = dht.waitLevel(gpio.Low, bitLowWait); err != nil {
			return data, fmt.Errorf("%w: bit %d low level too long", ErrFail, i)
		}
		// bit length is in the high level
		high, err = dht.waitLevel(gpio.High, bitHighWait)
		if err != nil {
			return data, fmt.Errorf("%w: bit %d high level too long", ErrFail, i)
		}
		if high > bitZeroMaxLen {
			data[i/8] |= 1 << (7 - uint(i%8))
		}
	}

	return data, nil
}

// bytesToReading checks the checksum and converts the frame to a Reading
func bytesToReading(data [5]byte) (Reading, error) {
	sum := data[0] + data[1] + data[2] + data[3]
	if sum != data[4] {
		return Reading{}, fmt.Errorf("%w: bad data - check sum fail", ErrFail)
	}
	return Reading{
		Hum:  Value{Integral: int8(data[0]), Decimal: data[1]},
		Temp: Value{Integral: int8(data[2]), Decimal: data[3]},
	}, nil
}
