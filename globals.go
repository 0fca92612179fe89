package dht

import (
	"errors"
	"log/slog"
)

// TemperatureUnit is the temperature unit wanted, either Celsius or Fahrenheit
type TemperatureUnit int

const (
	// Celsius temperature unit
	Celsius TemperatureUnit = iota
	// Fahrenheit temperature unit
	Fahrenheit
)

// SensorType is the sensor variant on the pin.
type SensorType int

const (
	// Type11 is the DHT11
	Type11 SensorType = iota + 1
	// Type22 is the DHT22 / AM2302
	Type22
)

// protocol timings, all in microseconds
const (
	// PowerOnDelay is how long the sensor needs after power on before it answers.
	PowerOnDelay = 1000000
	// ReadInterval is the minimum time between two physical reads.
	ReadInterval = 2000000

	startLow      = 20000
	startHigh     = 40
	responseWait  = 80
	bitLowWait    = 50
	bitHighWait   = 70
	bitZeroMaxLen = 27

	frameBits = 40
)

var (
	// ErrInvalidArgument is returned for a nil config, pin, or handle, or an unknown sensor type.
	ErrInvalidArgument = errors.New("dht: invalid argument")
	// ErrFail is returned when an acquisition fails: no answer, lost edge, or bad checksum.
	// It is expected now and then, retry no sooner than ReadInterval.
	ErrFail = errors.New("dht: read failed")

	errTimeout = errors.New("timeout")
)

// Config is used by NewDHT. It is copied, so it does not need to outlive the call.
type Config struct {
	// Pin is the data line of the sensor. Required.
	Pin Line
	// Type is the sensor variant. Required.
	Type SensorType
	// Timer defaults to HostTimer when nil.
	Timer Timer
	// Logger defaults to slog.Default() when nil.
	Logger *slog.Logger
}

// Value is the integral and decimal part of a measurement as sent by the sensor.
type Value struct {
	Integral int8
	Decimal  uint8
}

// Reading is one decoded frame.
type Reading struct {
	Temp Value
	Hum  Value
}

// DHT struct to interface with the sensor.
// Call NewDHT to create a new one.
// A DHT is not safe for concurrent use.
type DHT struct {
	pin        Line
	sensorType SensorType
	timer      Timer
	log        *slog.Logger

	lastRead    int64
	lastReading Reading
	hasReading  bool
	lastErr     error
}
