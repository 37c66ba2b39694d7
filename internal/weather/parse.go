// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/wneessen/cityweather/internal/units"
)

// Report element names
const (
	elemRoot          = "current"
	elemCity          = "city"
	elemTemperature   = "temperature"
	elemFeelsLike     = "feels_like"
	elemWeather       = "weather"
	elemHumidity      = "humidity"
	elemPressure      = "pressure"
	elemWind          = "wind"
	elemClouds        = "clouds"
	elemVisibility    = "visibility"
	elemPrecipitation = "precipitation"
	elemLastUpdate    = "lastupdate"
)

// Required temperature fields as reported in ParseError.Field
const (
	FieldTemperature    = "temperature"
	FieldMinTemperature = "temperature.min"
	FieldMaxTemperature = "temperature.max"
	FieldFeelsLike      = "feels_like"
)

var errNotNumeric = errors.New("value is not a finite number")

// Parse decodes an XML current-conditions report into a Snapshot.
//
// The report needs a "current" root with city, temperature, feels_like and weather elements, and
// numeric temperature values. Everything else is optional and resolves to an empty string when
// the element, the attribute or its value is missing. Temperatures reported in celsius or
// fahrenheit are converted to kelvin.
func Parse(raw string) (*Snapshot, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return nil, malformed(err)
	}
	root := doc.FindElement("/" + elemRoot)
	if root == nil {
		return nil, malformed(nil)
	}

	city := root.SelectElement(elemCity)
	if city == nil {
		return nil, missingField(elemCity, nil)
	}
	temp := root.SelectElement(elemTemperature)
	if temp == nil {
		return nil, missingField(FieldTemperature, nil)
	}
	feelsLike := root.SelectElement(elemFeelsLike)
	if feelsLike == nil {
		return nil, missingField(FieldFeelsLike, nil)
	}
	cond := root.SelectElement(elemWeather)
	if cond == nil {
		return nil, missingField(elemWeather, nil)
	}

	snap := &Snapshot{
		CityID:      attr(city, "id"),
		CityName:    attr(city, "name"),
		CountryCode: text(city, "country"),
		Latitude:    attrAt(city, "coord", "lat"),
		Longitude:   attrAt(city, "coord", "lon"),
		Timezone:    NewOffset(text(city, "timezone")),
		Sunrise:     NewTimestamp(attrAt(city, "sun", "rise")),
		Sunset:      NewTimestamp(attrAt(city, "sun", "set")),
		LastUpdate:  NewTimestamp(attrAt(root, elemLastUpdate, "value")),

		Humidity:     attrAt(root, elemHumidity, "value"),
		HumidityUnit: attrAt(root, elemHumidity, "unit"),
		Pressure:     attrAt(root, elemPressure, "value"),
		PressureUnit: attrAt(root, elemPressure, "unit"),

		WindSpeed:         attrAt(root, elemWind+"/speed", "value"),
		WindSpeedUnit:     attrAt(root, elemWind+"/speed", "unit"),
		WindSpeedName:     attrAt(root, elemWind+"/speed", "name"),
		WindGusts:         attrAt(root, elemWind+"/gusts", "value"),
		WindDirection:     attrAt(root, elemWind+"/direction", "value"),
		WindDirectionCode: attrAt(root, elemWind+"/direction", "code"),
		WindDirectionName: attrAt(root, elemWind+"/direction", "name"),

		Clouds:            attrAt(root, elemClouds, "value"),
		CloudsName:        attrAt(root, elemClouds, "name"),
		Visibility:        attrAt(root, elemVisibility, "value"),
		Precipitation:     attrAt(root, elemPrecipitation, "value"),
		PrecipitationMode: attrAt(root, elemPrecipitation, "mode"),
		PrecipitationUnit: attrAt(root, elemPrecipitation, "unit"),

		Condition: attr(cond, "value"),
		Icon:      attr(cond, "icon"),
	}
	if code, err := strconv.Atoi(strings.TrimSpace(attr(cond, "number"))); err == nil {
		snap.ConditionCode.Set(code)
	}

	toKelvin := kelvinConverter(attr(temp, "unit"))
	var err error
	if snap.Temperature, err = requiredFloat(temp, "value", FieldTemperature, toKelvin); err != nil {
		return nil, err
	}
	if snap.MinTemperature, err = requiredFloat(temp, "min", FieldMinTemperature, toKelvin); err != nil {
		return nil, err
	}
	if snap.MaxTemperature, err = requiredFloat(temp, "max", FieldMaxTemperature, toKelvin); err != nil {
		return nil, err
	}
	feelsToKelvin := kelvinConverter(attr(feelsLike, "unit"))
	if snap.FeelsLike, err = requiredFloat(feelsLike, "value", FieldFeelsLike, feelsToKelvin); err != nil {
		return nil, err
	}

	return snap, nil
}

// attr returns the value of the named attribute of el or an empty string.
func attr(el *etree.Element, name string) string {
	return el.SelectAttrValue(name, "")
}

// attrAt returns the named attribute of the element at path below el or an empty string.
func attrAt(el *etree.Element, path, name string) string {
	found := el.FindElement(path)
	if found == nil {
		return ""
	}
	return attr(found, name)
}

// text returns the trimmed character data of the element at path below el or an empty string.
func text(el *etree.Element, path string) string {
	found := el.FindElement(path)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(found.Text())
}

func requiredFloat(el *etree.Element, name, field string, toKelvin func(float64) float64) (float64, error) {
	raw := strings.TrimSpace(attr(el, name))
	if raw == "" {
		return 0, missingField(field, nil)
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, missingField(field, err)
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, missingField(field, errNotNumeric)
	}
	return toKelvin(val), nil
}

func kelvinConverter(unit string) func(float64) float64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "celsius", "metric":
		return units.CelsiusToKelvin
	case "fahrenheit", "imperial":
		return units.FahrenheitToKelvin
	default:
		return func(k float64) float64 { return k }
	}
}
