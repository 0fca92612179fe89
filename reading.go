package dht

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// deci returns the value in tenths. The decimal part carries the sign of the integral part.
func (v Value) deci() int {
	if v.Integral < 0 {
		return int(v.Integral)*10 - int(v.Decimal)
	}
	return int(v.Integral)*10 + int(v.Decimal)
}

// Temperature returns the temperature in the wanted unit.
func (r Reading) Temperature(unit TemperatureUnit) float64 {
	c := float64(r.Temp.deci()) / 10.0
	if unit == Fahrenheit {
		return c*9.0/5.0 + 32.0
	}
	return c
}

// Humidity returns the relative humidity in percent.
func (r Reading) Humidity() float64 {
	return float64(r.Hum.deci()) / 10.0
}

// Env fills a periph.io physic.Env with the reading.
func (r Reading) Env() physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(r.Temp.deci())*100*physic.MilliCelsius,
		Humidity:    physic.RelativeHumidity(r.Hum.deci()) * physic.PercentRH / 10,
	}
}

func (r Reading) String() string {
	return fmt.Sprintf("%.1f°C %.1f%%rH", r.Temperature(Celsius), r.Humidity())
}
