package dht

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Direction of a Line.
type Direction int

const (
	// Input releases the line so the sensor can drive it.
	Input Direction = iota
	// Output drives the line from the host.
	Output
)

// Line is the single data pin the sensor is wired to.
type Line interface {
	SetDirection(d Direction) error
	SetLevel(l gpio.Level) error
	Level() gpio.Level
}

// Timer is a monotonic microsecond clock with a blocking delay.
type Timer interface {
	// Now returns microseconds since boot.
	Now() int64
	// Delay blocks for us microseconds.
	Delay(us int64)
}

// PinLine adapts a periph.io gpio.PinIO to Line.
// Input uses the pull up, the sensor bus idles high.
type PinLine struct {
	pin    gpio.PinIO
	level  gpio.Level
	output bool
}

// NewPinLine returns a Line over pin. The line starts as output high.
func NewPinLine(pin gpio.PinIO) *PinLine {
	return &PinLine{pin: pin, level: gpio.High}
}

// SetDirection switches the pin between input and output.
// Switching to output drives the last level set.
func (p *PinLine) SetDirection(d Direction) error {
	if d == Output {
		p.output = true
		return p.pin.Out(p.level)
	}
	p.output = false
	return p.pin.In(gpio.PullUp, gpio.NoEdge)
}

// SetLevel sets the output level. When the pin is an input the level is kept
// for the next switch to output.
func (p *PinLine) SetLevel(l gpio.Level) error {
	p.level = l
	if !p.output {
		return nil
	}
	return p.pin.Out(l)
}

// Level reads the pin.
func (p *PinLine) Level() gpio.Level {
	return p.pin.Read()
}

// Halt stops the pin.
func (p *PinLine) Halt() error {
	return p.pin.Halt()
}

// HostTimer is the Timer of the running process.
// Boot is the time the package was loaded.
type HostTimer struct{}

var bootTime = time.Now()

// spinLimit is the longest delay done by spinning, anything longer sleeps.
const spinLimit = time.Millisecond

// Now returns microseconds since the process started.
func (HostTimer) Now() int64 {
	return time.Since(bootTime).Microseconds()
}

// Delay blocks for us microseconds.
func (HostTimer) Delay(us int64) {
	if us <= 0 {
		return
	}
	d := time.Duration(us) * time.Microsecond
	if d > spinLimit {
		time.Sleep(d)
		return
	}
	// busy read the monotonic clock, a sleep can not resolve single microseconds
	for start := time.Now(); time.Since(start) < d; {
	}
}
