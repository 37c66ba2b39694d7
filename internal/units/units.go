// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package units converts the kelvin temperatures of a weather report into other scales.
package units

import (
	"fmt"
	"strings"
)

// System is a unit system a temperature can be presented in.
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
	Standard System = "standard"
)

const absoluteZeroCelsius = 273.15

// KelvinToFahrenheit converts a kelvin temperature to degrees fahrenheit.
func KelvinToFahrenheit(k float64) float64 {
	return k*9/5 - 459.67
}

// FahrenheitToKelvin converts degrees fahrenheit to kelvin.
func FahrenheitToKelvin(f float64) float64 {
	return (f + 459.67) * 5 / 9
}

// CelsiusToKelvin converts degrees celsius to kelvin.
func CelsiusToKelvin(c float64) float64 {
	return c + absoluteZeroCelsius
}

// KelvinToCelsius converts a kelvin temperature to degrees celsius.
func KelvinToCelsius(k float64) float64 {
	return k - absoluteZeroCelsius
}

// ParseSystem returns the System named by s.
func ParseSystem(s string) (System, error) {
	switch sys := System(strings.ToLower(s)); sys {
	case Metric, Imperial, Standard:
		return sys, nil
	default:
		return "", fmt.Errorf("unsupported unit system: %q", s)
	}
}

// Temperature converts the kelvin value k into the unit system. Unknown systems return k.
func (s System) Temperature(k float64) float64 {
	switch s {
	case Metric:
		return KelvinToCelsius(k)
	case Imperial:
		return KelvinToFahrenheit(k)
	default:
		return k
	}
}

// TemperatureSymbol returns the temperature unit symbol of the system.
func (s System) TemperatureSymbol() string {
	switch s {
	case Metric:
		return "°C"
	case Imperial:
		return "°F"
	default:
		return "K"
	}
}

// TemperatureName returns the spelled out temperature unit of the system.
func (s System) TemperatureName() string {
	switch s {
	case Metric:
		return "Celsius"
	case Imperial:
		return "Fahrenheit"
	default:
		return "Kelvin"
	}
}
