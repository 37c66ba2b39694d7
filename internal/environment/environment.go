// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package environment derives scene lighting and sky state from a weather snapshot.
package environment

import (
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/cityweather/internal/units"
	"github.com/wneessen/cityweather/internal/weather"
)

// Temperature range in fahrenheit that is mapped onto the light intensity range.
const (
	FloorFahrenheit   = 32.0
	CeilingFahrenheit = 100.0
)

// ErrUnparseableTimestamp is the kind of TimestampError.
var ErrUnparseableTimestamp = errors.New("unparseable timestamp")

// TimestampError is returned when the sunrise or sunset of a snapshot cannot be used.
type TimestampError struct {
	Field string
	Raw   string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("%s: %s %q", ErrUnparseableTimestamp, e.Field, e.Raw)
}

func (e *TimestampError) Is(target error) bool {
	return target == ErrUnparseableTimestamp
}

// Light selects the light color of the scene.
type Light int

const (
	LightDay Light = iota
	LightNight
)

func (l Light) String() string {
	if l == LightNight {
		return "night"
	}
	return "day"
}

// Sky is the condition category that selects the sky of the scene.
type Sky int

const (
	SkyClear Sky = iota
	SkyCloudy
	SkyRainy
	SkySnowy
)

func (s Sky) String() string {
	switch s {
	case SkyCloudy:
		return "cloudy"
	case SkyRainy:
		return "rainy"
	case SkySnowy:
		return "snowy"
	default:
		return "clear"
	}
}

// State is the presentation state derived from a snapshot at a point in time.
type State struct {
	Light     Light
	Intensity float64
	Sky       Sky
}

// IsDay reports whether the state is lit by daylight.
func (s State) IsDay() bool {
	return s.Light == LightDay
}

// Deriver derives a State with light intensities between Min and Max.
type Deriver struct {
	Min float64
	Max float64
}

// NewDeriver returns a Deriver for the given intensity range.
func NewDeriver(minIntensity, maxIntensity float64) Deriver {
	return Deriver{Min: minIntensity, Max: maxIntensity}
}

// Derive computes the State of snap at now. It fails if the sunrise or sunset of snap has no
// parsable timestamp.
func (d Deriver) Derive(snap *weather.Snapshot, now time.Time) (State, error) {
	day, err := IsDay(snap, now)
	if err != nil {
		return State{}, err
	}
	state := State{
		Light:     LightNight,
		Intensity: d.Intensity(snap.Temperature),
		Sky:       SkyFromIcon(snap),
	}
	if day {
		state.Light = LightDay
	}
	return state, nil
}

// Intensity maps a kelvin temperature onto the intensity range of the Deriver.
func (d Deriver) Intensity(kelvin float64) float64 {
	return d.IntensityFahrenheit(units.KelvinToFahrenheit(kelvin))
}

// IntensityFahrenheit maps a fahrenheit temperature between FloorFahrenheit and CeilingFahrenheit
// linearly onto [Min, Max]. Temperatures outside that range are clamped.
func (d Deriver) IntensityFahrenheit(fahrenheit float64) float64 {
	norm := (fahrenheit - FloorFahrenheit) / (CeilingFahrenheit - FloorFahrenheit)
	norm = min(max(norm, 0), 1)
	return d.Min + (d.Max-d.Min)*norm
}

// IsDay reports whether now, shifted by the time zone offset of snap, lies between the sunrise
// and sunset of snap. Only the time of day is compared, so a snapshot keeps working on later days.
// Both boundaries count as day. If sunset is earlier in the day than sunrise, the daylight window
// spans midnight.
func IsDay(snap *weather.Snapshot, now time.Time) (bool, error) {
	rise, ok := snap.Sunrise.Time()
	if !ok {
		return false, &TimestampError{Field: "sunrise", Raw: snap.Sunrise.Raw}
	}
	set, ok := snap.Sunset.Time()
	if !ok {
		return false, &TimestampError{Field: "sunset", Raw: snap.Sunset.Raw}
	}

	local := timeOfDay(now.UTC().Add(snap.Timezone.Duration()))
	riseAt, setAt := timeOfDay(rise), timeOfDay(set)
	if riseAt <= setAt {
		return riseAt <= local && local <= setAt, nil
	}
	return local >= riseAt || local <= setAt, nil
}

// SkyFromIcon classifies the condition icon of snap by its family. Unknown or short codes are
// clear.
func SkyFromIcon(snap *weather.Snapshot) Sky {
	switch snap.IconFamily() {
	case "02", "03", "04":
		return SkyCloudy
	case "09", "10", "11", "50":
		return SkyRainy
	case "13":
		return SkySnowy
	default:
		return SkyClear
	}
}

func timeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second + time.Duration(t.Nanosecond())
}
