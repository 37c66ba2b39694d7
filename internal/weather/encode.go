// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// Encode serializes the snapshot back into the report format understood by Parse. Empty string
// fields are left out, temperatures are written in kelvin.
func (s *Snapshot) Encode() (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement(elemRoot)

	city := root.CreateElement(elemCity)
	setAttrs(city, "id", s.CityID, "name", s.CityName)
	if s.Latitude != "" || s.Longitude != "" {
		setAttrs(city.CreateElement("coord"), "lon", s.Longitude, "lat", s.Latitude)
	}
	setText(city, "country", s.CountryCode)
	setText(city, "timezone", s.Timezone.Raw)
	if s.Sunrise.Raw != "" || s.Sunset.Raw != "" {
		setAttrs(city.CreateElement("sun"), "rise", s.Sunrise.Raw, "set", s.Sunset.Raw)
	}

	setAttrs(root.CreateElement(elemTemperature), "value", formatFloat(s.Temperature),
		"min", formatFloat(s.MinTemperature), "max", formatFloat(s.MaxTemperature), "unit", "kelvin")
	setAttrs(root.CreateElement(elemFeelsLike), "value", formatFloat(s.FeelsLike), "unit", "kelvin")
	optionalElement(root, elemHumidity, "value", s.Humidity, "unit", s.HumidityUnit)
	optionalElement(root, elemPressure, "value", s.Pressure, "unit", s.PressureUnit)

	wind := root.CreateElement(elemWind)
	optionalElement(wind, "speed", "value", s.WindSpeed, "unit", s.WindSpeedUnit, "name", s.WindSpeedName)
	optionalElement(wind, "gusts", "value", s.WindGusts)
	optionalElement(wind, "direction", "value", s.WindDirection, "code", s.WindDirectionCode,
		"name", s.WindDirectionName)

	optionalElement(root, elemClouds, "value", s.Clouds, "name", s.CloudsName)
	optionalElement(root, elemVisibility, "value", s.Visibility)
	optionalElement(root, elemPrecipitation, "value", s.Precipitation, "mode", s.PrecipitationMode,
		"unit", s.PrecipitationUnit)
	setAttrs(root.CreateElement(elemWeather), "number", s.ConditionCode.String(), "value", s.Condition,
		"icon", s.Icon)
	optionalElement(root, elemLastUpdate, "value", s.LastUpdate.Raw)

	doc.Indent(2)
	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to encode weather report: %w", err)
	}
	return out, nil
}

// setAttrs sets the given name/value pairs on el, skipping empty values.
func setAttrs(el *etree.Element, pairs ...string) {
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		el.CreateAttr(pairs[i], pairs[i+1])
	}
}

// optionalElement creates the element only if at least one of the attribute values is non-empty.
func optionalElement(parent *etree.Element, name string, pairs ...string) {
	for i := 1; i < len(pairs); i += 2 {
		if pairs[i] != "" {
			setAttrs(parent.CreateElement(name), pairs...)
			return
		}
	}
}

func setText(parent *etree.Element, name, val string) {
	if val == "" {
		return
	}
	parent.CreateElement(name).SetText(val)
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
