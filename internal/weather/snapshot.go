// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package weather models a parsed current-conditions weather report and caches one per location.
package weather

import (
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/cityweather/internal/vartype"
)

// TimeLayout is the layout of the timestamps in a weather report. Timestamps are in UTC.
const TimeLayout = "2006-01-02T15:04:05"

// Snapshot is one parsed weather report for one location. A Snapshot is created by Parse and
// must not be modified afterwards; it is shared between all readers of the cache.
//
// Temperatures are in kelvin. All string fields are empty when the report does not carry them.
type Snapshot struct {
	CityID      string
	CityName    string
	CountryCode string
	Latitude    string
	Longitude   string

	Timezone   Offset
	Sunrise    Timestamp
	Sunset     Timestamp
	LastUpdate Timestamp

	Temperature    float64
	MinTemperature float64
	MaxTemperature float64
	FeelsLike      float64

	Humidity     string
	HumidityUnit string
	Pressure     string
	PressureUnit string

	WindSpeed         string
	WindSpeedUnit     string
	WindSpeedName     string
	WindGusts         string
	WindDirection     string
	WindDirectionCode string
	WindDirectionName string

	Clouds            string
	CloudsName        string
	Visibility        string
	Precipitation     string
	PrecipitationMode string
	PrecipitationUnit string

	ConditionCode vartype.VarInt
	Condition     string
	Icon          string
}

// Timestamp is a report timestamp. Raw always holds the text of the report, the parsed time is
// only available when Raw matches TimeLayout.
type Timestamp struct {
	Raw  string
	time vartype.VarTime
}

// NewTimestamp parses raw as UTC timestamp in TimeLayout.
func NewTimestamp(raw string) Timestamp {
	ts := Timestamp{Raw: raw}
	if parsed, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(raw), time.UTC); err == nil {
		ts.time.Set(parsed)
	}
	return ts
}

// Time returns the parsed timestamp and whether parsing succeeded.
func (t Timestamp) Time() (time.Time, bool) {
	return t.time.Get()
}

func (t Timestamp) String() string {
	return t.Raw
}

// Offset is the time zone offset of a location in seconds east of UTC.
type Offset struct {
	Raw     string
	seconds vartype.VarInt
}

// NewOffset parses raw as a number of seconds.
func NewOffset(raw string) Offset {
	off := Offset{Raw: raw}
	if secs, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		off.seconds.Set(secs)
	}
	return off
}

// Seconds returns the offset in seconds and whether it could be parsed.
func (o Offset) Seconds() (int, bool) {
	return o.seconds.Get()
}

// Duration returns the offset as duration. An unparsable offset counts as UTC.
func (o Offset) Duration() time.Duration {
	return time.Duration(o.seconds.Value()) * time.Second
}

func (o Offset) String() string {
	return o.Raw
}

// IconFamily returns the first two characters of the icon code, which name the condition
// family, or an empty string for shorter codes.
func (s *Snapshot) IconFamily() string {
	if len(s.Icon) < 2 {
		return ""
	}
	return s.Icon[:2]
}
