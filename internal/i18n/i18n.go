// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package i18n provides the localizer and humanizer for user-facing texts. English is the source
// language; translations are embedded gettext catalogs.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/Xuanwo/go-locale"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/humanize/locale/it"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"
)

//go:embed locale/*
var locales embed.FS

// New returns a Localizer for the language tag loc. An empty loc is detected from the
// environment and falls back to English.
func New(loc string) (*spreak.Localizer, error) {
	tag := language.Make(loc)
	var err error
	if loc == "" {
		tag, err = locale.Detect()
		if err != nil {
			tag = language.English // Unable to detect locale, fallback to English
		}
	}

	localeFS, err := fs.Sub(locales, "locale")
	if err != nil {
		return nil, fmt.Errorf("failed to load locales: %w", err)
	}

	bundle, err := spreak.NewBundle(
		spreak.WithSourceLanguage(language.English),
		spreak.WithFallbackLanguage(language.English),
		spreak.WithDomainFs("", localeFS),
		spreak.WithLanguage(tag),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create i18n bundle: %w", err)
	}
	return spreak.NewLocalizer(bundle, tag), nil
}

// NewHumanizer returns a Humanizer for the language of loc.
func NewHumanizer(loc *spreak.Localizer) (*humanize.Humanizer, error) {
	if loc == nil {
		return nil, fmt.Errorf("localizer is required")
	}
	collection, err := humanize.New(humanize.WithLocale(de.New(), it.New()))
	if err != nil {
		return nil, fmt.Errorf("failed to create humanizer: %w", err)
	}
	return collection.CreateHumanizer(loc.Language()), nil
}
