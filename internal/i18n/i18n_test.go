// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestNew(t *testing.T) {
	t.Run("new i18n provider with empty locale string succeeds", func(t *testing.T) {
		provider, err := New("")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		if provider == nil {
			t.Fatal("expected i18n provider to be non-nil")
		}
	})
	t.Run("english texts are returned as is", func(t *testing.T) {
		provider, err := New("en")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		if got := provider.Get("Temperature"); got != "Temperature" {
			t.Errorf("expected source text, got %q", got)
		}
	})
	t.Run("german texts are translated", func(t *testing.T) {
		provider, err := New("de")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		if got := provider.Get("Temperature"); got != "Temperatur" {
			t.Errorf("expected german translation, got %q", got)
		}
		if got := provider.Getf("response error: %d", 404); got != "Antwortfehler: 404" {
			t.Errorf("expected german translation, got %q", got)
		}
	})
}

func TestNewHumanizer(t *testing.T) {
	t.Run("a humanizer follows the localizer language", func(t *testing.T) {
		provider, err := New("de")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		if provider.Language() != language.German {
			t.Fatalf("expected german localizer, got %s", provider.Language())
		}
		humanizer, err := NewHumanizer(provider)
		if err != nil {
			t.Fatalf("failed to create humanizer: %s", err)
		}
		if humanizer == nil {
			t.Fatal("expected humanizer to be non-nil")
		}
	})
	t.Run("a humanizer requires a localizer", func(t *testing.T) {
		if _, err := NewHumanizer(nil); err == nil {
			t.Error("expected humanizer creation to fail")
		}
	})
}
