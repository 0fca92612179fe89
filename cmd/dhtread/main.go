// Command dhtread reads a DHT11 or DHT22 sensor wired to a GPIO pin.
//
//	dhtread -pin GPIO4 -type dht22
//	dhtread -pin GPIO4 -interval 10s
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	dht "github.com/MichaelS11/go-dht/v2"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	pinName := flag.String("pin", envOr("DHT_PIN", "GPIO4"), "GPIO pin name, env DHT_PIN")
	typeName := flag.String("type", envOr("DHT_TYPE", "dht22"), "sensor type dht11 or dht22, env DHT_TYPE")
	fahrenheit := flag.Bool("f", false, "print temperature in Fahrenheit")
	retries := flag.Int("retries", 11, "reads to try before giving up")
	interval := flag.Duration("interval", 0, "keep reading at this interval, 0 reads once")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(logger, *pinName, *typeName, *fahrenheit, *retries, *interval); err != nil {
		logger.Error("dhtread failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, pinName, typeName string, fahrenheit bool, retries int, interval time.Duration) error {
	sensorType, err := dht.ParseSensorType(typeName)
	if err != nil {
		return err
	}
	if err = dht.HostInit(); err != nil {
		return fmt.Errorf("host init: %w", err)
	}
	pin, err := dht.OpenPin(pinName)
	if err != nil {
		return err
	}

	sensor, err := dht.NewDHT(&dht.Config{Pin: pin, Type: sensorType, Logger: logger})
	if err != nil {
		return err
	}
	defer sensor.Close()

	unit, suffix := dht.Celsius, "C"
	if fahrenheit {
		unit, suffix = dht.Fahrenheit, "F"
	}
	show := func(r dht.Reading) {
		fmt.Printf("temperature %.1f%s humidity %.1f%%\n", r.Temperature(unit), suffix, r.Humidity())
	}

	if interval <= 0 {
		reading, err := sensor.ReadRetry(retries)
		if err != nil {
			return err
		}
		show(reading)
		return nil
	}

	logger.Info("reading in background", "pin", pinName, "type", sensorType, "interval", interval)
	readings := make(chan dht.Reading)
	stop := make(chan struct{})
	stopped := make(chan struct{})
	go sensor.ReadBackground(interval, readings, stop, stopped)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	for {
		select {
		case r := <-readings:
			show(r)
		case <-sig:
			close(stop)
			<-stopped
			return nil
		}
	}
}
