package dht

import (
	"io"
	"log/slog"
	"testing"

	"periph.io/x/conn/v3/gpio"
)

// fakeTimer only moves when Delay is called.
type fakeTimer struct {
	now int64
}

func (t *fakeTimer) Now() int64     { return t.now }
func (t *fakeTimer) Delay(us int64) { t.now += us }

// leapTimer jumps step microseconds on every Now.
type leapTimer struct {
	*fakeTimer
	step int64
}

func (t *leapTimer) Now() int64 {
	t.now += t.step
	return t.now
}

type segment struct {
	level gpio.Level
	us    int64
}

type event struct {
	level gpio.Level
	at    int64
}

// fakeLine plays back a waveform from the moment it is switched to input.
// Each switch to input starts the next wave, the last one repeats.
type fakeLine struct {
	timer *fakeTimer
	waves [][]segment

	output  bool
	level   gpio.Level
	inputAt int64
	wave    []segment
	next    int

	calls  int
	events []event
	halted bool
	dirErr error
}

func (l *fakeLine) SetDirection(d Direction) error {
	l.calls++
	if l.dirErr != nil {
		return l.dirErr
	}
	l.output = d == Output
	if l.output {
		l.events = append(l.events, event{l.level, l.timer.now})
		return nil
	}
	l.inputAt = l.timer.now
	if len(l.waves) > 0 {
		l.wave = l.waves[l.next]
		if l.next < len(l.waves)-1 {
			l.next++
		}
	}
	return nil
}

func (l *fakeLine) SetLevel(v gpio.Level) error {
	l.calls++
	l.level = v
	if l.output {
		l.events = append(l.events, event{v, l.timer.now})
	}
	return nil
}

func (l *fakeLine) Level() gpio.Level {
	l.calls++
	if l.output {
		return l.level
	}
	t := l.timer.now - l.inputAt
	for _, s := range l.wave {
		if t < s.us {
			return s.level
		}
		t -= s.us
	}
	// bus idles high
	return gpio.High
}

func (l *fakeLine) Halt() error {
	l.halted = true
	return nil
}

type bitTiming struct {
	low  int64
	high int64
}

// frameTimings returns the pulse lengths a sensor would send for data.
func frameTimings(data [5]byte) [frameBits]bitTiming {
	var bits [frameBits]bitTiming
	for i := range bits {
		bits[i] = bitTiming{low: 48, high: 24}
		if data[i/8]&(1<<(7-uint(i%8))) != 0 {
			bits[i].high = 70
		}
	}
	return bits
}

func bitsWave(bits [frameBits]bitTiming) []segment {
	w := []segment{{gpio.Low, 75}, {gpio.High, 75}}
	for _, b := range bits {
		w = append(w, segment{gpio.Low, b.low}, segment{gpio.High, b.high})
	}
	return append(w, segment{gpio.Low, 50})
}

func frameWave(data [5]byte) []segment {
	return bitsWave(frameTimings(data))
}

// noResponse is a sensor that never pulls the line low.
var noResponse = []segment{}

func newTestDHT(t *testing.T, now int64, waves ...[]segment) (*DHT, *fakeLine, *fakeTimer) {
	t.Helper()
	timer := &fakeTimer{now: now}
	line := &fakeLine{timer: timer, waves: waves}
	dht, err := NewDHT(&Config{
		Pin:    line,
		Type:   Type11,
		Timer:  timer,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewDHT: %v", err)
	}
	line.calls = 0
	line.events = nil
	return dht, line, timer
}
