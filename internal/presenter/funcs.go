// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"
)

func (p *Presenter) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"timeFormat":    timeFormat,
		"localizedTime": p.localizedTime,
		"floatFormat":   floatFormat,
		"withSpace":     withSpace,
		"loc":           p.loc,
		"title":         titleCase,
		"lc":            strings.ToLower,
		"uc":            strings.ToUpper,
	}
}

// loc translates one of the known template terms. Unknown terms are returned lower-cased.
func (p *Presenter) loc(val string) string {
	val = strings.ToLower(val)
	if raw, ok := i18nVars[val]; ok {
		return p.localizer.Get(raw)
	}
	return val
}

func (p *Presenter) localizedTime(val time.Time) string {
	if val.IsZero() {
		return ""
	}
	return p.humanizer.FormatTime(val, humanize.TimeFormat)
}

func timeFormat(val time.Time, fmt string) string {
	if val.IsZero() {
		return ""
	}
	return val.Format(fmt)
}

func floatFormat(val float64, precision int) string {
	pow := math.Pow(10, float64(precision))
	return fmt.Sprintf("%.*f", precision, math.Round(val*pow)/pow)
}

// withSpace pads an icon so that it takes up its display width plus one column.
func withSpace(icon string) string {
	if icon == "" {
		return ""
	}
	width := runewidth.StringWidth(icon)
	return icon + strings.Repeat(" ", max(2-width, 0)+1)
}
