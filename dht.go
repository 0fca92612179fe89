package dht

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// ParseSensorType returns Type11 for dht11, Type22 for dht22 or am2302.
func ParseSensorType(s string) (SensorType, error) {
	switch strings.ToLower(s) {
	case "dht11":
		return Type11, nil
	case "dht22", "am2302":
		return Type22, nil
	}
	return 0, fmt.Errorf("%w: unknown sensor type %q", ErrInvalidArgument, s)
}

func (t SensorType) String() string {
	switch t {
	case Type11:
		return "DHT11"
	case Type22:
		return "DHT22"
	}
	return fmt.Sprintf("SensorType(%d)", int(t))
}

// NewDHT to create a new DHT struct.
// Both sensor types use the same frame layout and timings.
func NewDHT(config *Config) (*DHT, error) {
	if config == nil || config.Pin == nil {
		return nil, ErrInvalidArgument
	}
	switch config.Type {
	case Type11, Type22:
	default:
		return nil, fmt.Errorf("%w: unknown sensor type %v", ErrInvalidArgument, config.Type)
	}

	dht := &DHT{
		pin:        config.Pin,
		sensorType: config.Type,
		timer:      config.Timer,
		log:        config.Logger,
		// first read is never throttled
		lastRead: -ReadInterval,
	}
	if dht.timer == nil {
		dht.timer = HostTimer{}
	}
	if dht.log == nil {
		dht.log = slog.Default()
	}
	dht.log = dht.log.With("sensor", dht.sensorType.String())

	// set pin to high so ready for first read
	err := dht.pin.SetLevel(gpio.High)
	if err == nil {
		err = dht.pin.SetDirection(Output)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: pin out high error: %v", ErrFail, err)
	}

	return dht, nil
}

// Close releases the pin. The DHT can not be used afterwards.
func (dht *DHT) Close() error {
	if dht == nil || dht.pin == nil {
		return ErrInvalidArgument
	}
	var err error
	if h, ok := dht.pin.(interface{ Halt() error }); ok {
		err = h.Halt()
	}
	dht.pin = nil
	return err
}

// Type returns the sensor type.
func (dht *DHT) Type() SensorType {
	return dht.sensorType
}

// Read reads the sensor, returning the reading or an error.
// Within ReadInterval of the last physical read it returns the cached result
// without touching the pin, a failed read also starts a new interval.
// Read blocks the calling goroutine for about 25 ms when it goes to the sensor,
// and up to PowerOnDelay right after boot.
func (dht *DHT) Read() (Reading, error) {
	if dht == nil || dht.pin == nil {
		return Reading{}, ErrInvalidArgument
	}

	now := dht.timer.Now()
	// sensor needs a second after power on
	if now < PowerOnDelay {
		dht.timer.Delay(PowerOnDelay - now)
		now = dht.timer.Now()
	}

	if now-dht.lastRead < ReadInterval {
		dht.log.Debug("read throttled", "since_last_us", now-dht.lastRead, "cached", dht.hasReading)
		if !dht.hasReading {
			return Reading{}, dht.lastErr
		}
		return dht.lastReading, nil
	}

	// set lastRead first so a failure still waits out the interval
	dht.lastRead = now

	data, err := dht.readBits()
	var reading Reading
	if err == nil {
		reading, err = bytesToReading(data)
	}
	if err != nil {
		dht.lastErr = err
		dht.log.Debug("read failed", "error", err)
		return Reading{}, err
	}

	dht.lastReading = reading
	dht.hasReading = true
	dht.lastErr = nil
	return reading, nil
}

// ReadRetry will call Read until there is no errors or the maxRetries is hit.
// After a failure it waits out the rest of ReadInterval so every try reads the sensor.
func (dht *DHT) ReadRetry(maxRetries int) (reading Reading, err error) {
	if maxRetries < 1 {
		return Reading{}, fmt.Errorf("%w: maxRetries %d", ErrInvalidArgument, maxRetries)
	}
	for i := 0; i < maxRetries; i++ {
		reading, err = dht.Read()
		if err == nil || !errors.Is(err, ErrFail) {
			return
		}
		if i == maxRetries-1 {
			break
		}
		if wait := dht.lastRead + ReadInterval - dht.timer.Now(); wait > 0 {
			dht.timer.Delay(wait)
		}
	}
	return
}

// ReadBackground it means to run in the background, run as a Goroutine.
// sleepDuration is how long it will try to sleep between reads.
// Good reads are sent on readings, read errors are only logged.
// Will continue to read sensor until stop is closed.
// After it has been stopped, the stopped chan will be closed.
// The DHT must not be used by anything else while it runs.
// Pacing follows the DHT's Timer, the same clock Read throttles on.
func (dht *DHT) ReadBackground(sleepDuration time.Duration, readings chan<- Reading, stop chan struct{}, stopped chan struct{}) {
	defer close(stopped)
	interval := sleepDuration.Microseconds()
	startTime := dht.timer.Now() - interval

	for {
		wait := time.Duration(startTime+interval-dht.timer.Now()) * time.Microsecond
		select {
		case <-time.After(wait):
		case <-stop:
			return
		}

		startTime = dht.timer.Now()
		reading, err := dht.Read()
		if err != nil {
			dht.log.Debug("background read failed", "error", err)
			continue
		}

		select {
		case readings <- reading:
		case <-stop:
			return
		}
	}
}
