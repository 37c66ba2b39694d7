// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"github.com/vorlif/spreak/localize"

	"github.com/wneessen/cityweather/internal/environment"
)

// MoonPhaseIcon is a map where moon phase names are keys and their corresponding emoji representations are values.
var MoonPhaseIcon = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

// skyIcons maps a sky category to its emoji for day and night
var skyIcons = map[environment.Sky]map[environment.Light]string{
	environment.SkyClear: {
		environment.LightDay:   "☀️",
		environment.LightNight: "🌙",
	},
	environment.SkyCloudy: {
		environment.LightDay:   "⛅",
		environment.LightNight: "☁️",
	},
	environment.SkyRainy: {
		environment.LightDay:   "🌦️",
		environment.LightNight: "🌧️",
	},
	environment.SkySnowy: {
		environment.LightDay:   "🌨️",
		environment.LightNight: "🌨️",
	},
}

// SkyIcon returns the emoji for a sky category in the given light.
func SkyIcon(sky environment.Sky, light environment.Light) string {
	return skyIcons[sky][light]
}

// i18nVars maps the terms usable with the loc template function to their source texts
var i18nVars = map[string]localize.MsgID{
	"location":    "Location",
	"temperature": "Temperature",
	"feelslike":   "Feels Like",
	"humidity":    "Humidity",
	"pressure":    "Pressure",
	"weather":     "Weather",
	"sunrise":     "Sunrise",
	"sunset":      "Sunset",
	"lastupdate":  "Last Update",
	"moonphase":   "Moonphase",
	"clear":       "Clear",
	"cloudy":      "Cloudy",
	"rainy":       "Rainy",
	"snowy":       "Snowy",
	"day":         "Day",
	"night":       "Night",
}
