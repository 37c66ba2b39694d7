// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter turns snapshots and derived environment states into the text shown to the user.
package presenter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"
	"github.com/vorlif/spreak"
	"github.com/wneessen/go-moonphase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wneessen/cityweather/internal/environment"
	"github.com/wneessen/cityweather/internal/http"
	"github.com/wneessen/cityweather/internal/i18n"
	"github.com/wneessen/cityweather/internal/location"
	"github.com/wneessen/cityweather/internal/units"
	"github.com/wneessen/cityweather/internal/weather"
)

// NoDataMessage is shown while the active location has no snapshot.
const NoDataMessage = "No weather data available!\nPress f to get weather data."

// Error messages, translated through the localizer
const (
	msgNetworkProblem  = "network problem: %s"
	msgResponseError   = "response error: %d"
	msgMissingField    = "weather report is missing field %q"
	msgUnusableSunTime = "weather report has no usable %s time"
)

const timestampLayout = "2006-01-02 15:04:05 MST"

// Report line labels in display order. They are the source texts of the translations.
const (
	LabelCityID         = "City ID"
	LabelCityName       = "City Name"
	LabelCountryCode    = "Country Code"
	LabelTimezone       = "Timezone"
	LabelSunrise        = "Sunrise"
	LabelSunset         = "Sunset"
	LabelTemperature    = "Temperature"
	LabelMinTemperature = "Min Temperature"
	LabelMaxTemperature = "Max Temperature"
	LabelFeelsLike      = "Feels Like"
	LabelHumidity       = "Humidity"
	LabelPressure       = "Pressure"
	LabelClouds         = "Clouds"
	LabelVisibility     = "Visibility"
	LabelPrecipitation  = "Precipitation"
	LabelWeather        = "Weather"
	LabelLastUpdate     = "Last Update"
)

// Line is one labeled value of a report.
type Line struct {
	Label string
	Value string
}

func (l Line) String() string {
	return l.Label + ": " + l.Value
}

// StatusContext is the data available to the status templates.
type StatusContext struct {
	Location    string
	CityName    string
	CountryCode string
	Index       int
	Count       int

	Temperature    float64
	MinTemperature float64
	MaxTemperature float64
	FeelsLike      float64
	TempUnit       string
	Humidity       string
	Pressure       string
	PressureUnit   string

	Condition     string
	ConditionIcon string
	IconCode      string
	Sky           string
	Light         string
	Intensity     float64
	IsDaytime     bool

	SunriseTime   time.Time
	SunsetTime    time.Time
	UpdateTime    time.Time
	MoonPhase     string
	MoonPhaseIcon string

	Report string
}

// Presenter renders snapshots in a fixed unit system and language.
type Presenter struct {
	system    units.System
	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
	text      *template.Template
	tooltip   *template.Template
}

// New returns a Presenter for the unit system with the given status templates. Texts are
// translated with loc.
func New(system units.System, loc *spreak.Localizer, textTpl, tooltipTpl string) (*Presenter, error) {
	humanizer, err := i18n.NewHumanizer(loc)
	if err != nil {
		return nil, err
	}
	p := &Presenter{system: system, localizer: loc, humanizer: humanizer}

	tpl, err := template.New("text").Funcs(p.templateFuncMap()).Parse(textTpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	p.text = tpl

	tpl, err = template.New("tooltip").Funcs(p.templateFuncMap()).Parse(tooltipTpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tooltip template: %w", err)
	}
	p.tooltip = tpl

	return p, nil
}

// Lines returns the report lines of snap in display order. Temperatures are converted into the
// unit system of the Presenter. Values the report does not carry are empty.
func (p *Presenter) Lines(snap *weather.Snapshot) []Line {
	return []Line{
		{p.localizer.Get(LabelCityID), snap.CityID},
		{p.localizer.Get(LabelCityName), snap.CityName},
		{p.localizer.Get(LabelCountryCode), snap.CountryCode},
		{p.localizer.Get(LabelTimezone), formatOffset(snap.Timezone)},
		{p.localizer.Get(LabelSunrise), formatTimestamp(snap.Sunrise)},
		{p.localizer.Get(LabelSunset), formatTimestamp(snap.Sunset)},
		{p.localizer.Get(LabelTemperature), p.temperature(snap.Temperature)},
		{p.localizer.Get(LabelMinTemperature), p.temperature(snap.MinTemperature)},
		{p.localizer.Get(LabelMaxTemperature), p.temperature(snap.MaxTemperature)},
		{p.localizer.Get(LabelFeelsLike), p.temperature(snap.FeelsLike)},
		{p.localizer.Get(LabelHumidity), joinNonEmpty(snap.Humidity, snap.HumidityUnit)},
		{p.localizer.Get(LabelPressure), joinNonEmpty(snap.Pressure, snap.PressureUnit)},
		{p.localizer.Get(LabelClouds), withDetail(joinNonEmpty(snap.Clouds, unitIf(snap.Clouds, "%")), snap.CloudsName)},
		{p.localizer.Get(LabelVisibility), joinNonEmpty(snap.Visibility, unitIf(snap.Visibility, "m"))},
		{p.localizer.Get(LabelPrecipitation), withDetail(joinNonEmpty(snap.Precipitation, snap.PrecipitationMode),
			snap.PrecipitationUnit)},
		{p.localizer.Get(LabelWeather), titleCase(snap.Condition)},
		{p.localizer.Get(LabelLastUpdate), formatTimestamp(snap.LastUpdate)},
	}
}

// Report returns the report lines of snap with their values aligned.
func (p *Presenter) Report(snap *weather.Snapshot) string {
	lines := p.Lines(snap)
	width := 0
	for _, line := range lines {
		width = max(width, runewidth.StringWidth(line.Label))
	}

	rows := make([]string, len(lines))
	for i, line := range lines {
		rows[i] = strings.TrimRight(runewidth.FillRight(line.Label+":", width+2)+line.Value, " ")
	}
	return strings.Join(rows, "\n")
}

// NoData returns the message shown while no snapshot is available.
func (p *Presenter) NoData() string {
	return p.localizer.Get(NoDataMessage)
}

// Error returns the message shown for a failed fetch, parse or derivation.
func (p *Presenter) Error(err error) string {
	var fetchErr *http.FetchError
	var parseErr *weather.ParseError
	var tsErr *environment.TimestampError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fetchErr):
		if errors.Is(fetchErr.Kind, http.ErrProtocol) {
			return p.localizer.Getf(msgResponseError, fetchErr.StatusCode)
		}
		return p.localizer.Getf(msgNetworkProblem, fetchErr.Err)
	case errors.As(err, &parseErr):
		if parseErr.Field != "" {
			return p.localizer.Getf(msgMissingField, parseErr.Field)
		}
		return p.localizer.Get(parseErr.Kind.Error())
	case errors.As(err, &tsErr):
		return p.localizer.Getf(msgUnusableSunTime, p.localizer.Get(tsErr.Field))
	default:
		return err.Error()
	}
}

// BuildContext assembles the template data for the snapshot of loc.
func (p *Presenter) BuildContext(loc location.Location, index, count int, snap *weather.Snapshot,
	state environment.State, now time.Time,
) StatusContext {
	moon := moonphase.New(now)
	moonName := moon.PhaseName()
	ctx := StatusContext{
		Location:       loc.String(),
		CityName:       snap.CityName,
		CountryCode:    snap.CountryCode,
		Index:          index + 1,
		Count:          count,
		Temperature:    p.system.Temperature(snap.Temperature),
		MinTemperature: p.system.Temperature(snap.MinTemperature),
		MaxTemperature: p.system.Temperature(snap.MaxTemperature),
		FeelsLike:      p.system.Temperature(snap.FeelsLike),
		TempUnit:       p.system.TemperatureSymbol(),
		Humidity:       snap.Humidity,
		Pressure:       snap.Pressure,
		PressureUnit:   snap.PressureUnit,
		Condition:      titleCase(snap.Condition),
		ConditionIcon:  SkyIcon(state.Sky, state.Light),
		IconCode:       snap.Icon,
		Sky:            state.Sky.String(),
		Light:          state.Light.String(),
		Intensity:      state.Intensity,
		IsDaytime:      state.IsDay(),
		MoonPhase:      p.localizer.Get(moonName),
		MoonPhaseIcon:  MoonPhaseIcon[moonName],
		Report:         p.Report(snap),
	}
	ctx.SunriseTime, _ = snap.Sunrise.Time()
	ctx.SunsetTime, _ = snap.Sunset.Time()
	ctx.UpdateTime, _ = snap.LastUpdate.Time()
	return ctx
}

// Text renders the text template.
func (p *Presenter) Text(ctx StatusContext) (string, error) {
	return render(p.text, ctx)
}

// Tooltip renders the tooltip template.
func (p *Presenter) Tooltip(ctx StatusContext) (string, error) {
	return render(p.tooltip, ctx)
}

func render(tpl *template.Template, ctx StatusContext) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := tpl.Execute(buf, ctx); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}

func (p *Presenter) temperature(kelvin float64) string {
	return fmt.Sprintf("%.2f %s", p.system.Temperature(kelvin), p.localizer.Get(p.system.TemperatureName()))
}

// titleCase upper-cases the first letter of each word. A Caser must not be shared between
// goroutines, so each call gets its own.
func titleCase(val string) string {
	return cases.Title(language.English).String(val)
}

func formatTimestamp(ts weather.Timestamp) string {
	if parsed, ok := ts.Time(); ok {
		return parsed.Format(timestampLayout)
	}
	return ts.Raw
}

func formatOffset(off weather.Offset) string {
	secs, ok := off.Seconds()
	if !ok {
		return off.Raw
	}
	sign := '+'
	if secs < 0 {
		sign = '-'
		secs = -secs
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, secs/3600, secs%3600/60)
}

func joinNonEmpty(vals ...string) string {
	parts := make([]string, 0, len(vals))
	for _, val := range vals {
		if val != "" {
			parts = append(parts, val)
		}
	}
	return strings.Join(parts, " ")
}

func unitIf(val, unit string) string {
	if val == "" {
		return ""
	}
	return unit
}

func withDetail(val, detail string) string {
	switch {
	case detail == "":
		return val
	case val == "":
		return detail
	default:
		return val + " (" + detail + ")"
	}
}
