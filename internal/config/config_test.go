// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/wneessen/cityweather/internal/location"
	"github.com/wneessen/cityweather/internal/units"
)

func TestNew(t *testing.T) {
	const (
		expectDefaultUnits   = "imperial"
		expectLogLevel       = slog.LevelInfo
		expectIntervalOutput = time.Second * 30
		expectMinIntensity   = 0.5
		expectMaxIntensity   = 1.5
	)
	t.Run("new config with all defaults set", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", t.TempDir())
		conf, err := New()
		if err != nil {
			t.Errorf("failed to load config: %s", err)
		}
		if conf.Units != expectDefaultUnits {
			t.Errorf("expected units to be: %s, got %s", expectDefaultUnits, conf.Units)
		}
		if conf.UnitSystem() != units.Imperial {
			t.Errorf("expected unit system to be imperial, got %s", conf.UnitSystem())
		}
		if conf.LogLevel != expectLogLevel {
			t.Errorf("expected log level to be: %s, got %s", expectLogLevel, conf.LogLevel)
		}
		if conf.Intervals.Output != expectIntervalOutput {
			t.Errorf("expected output interval to be: %s, got %s", expectIntervalOutput, conf.Intervals.Output)
		}
		if conf.Intervals.Rotate != 0 {
			t.Errorf("expected automatic rotation to be disabled, got %s", conf.Intervals.Rotate)
		}
		if conf.Light.MinIntensity != expectMinIntensity || conf.Light.MaxIntensity != expectMaxIntensity {
			t.Errorf("expected intensity range %g to %g, got %g to %g", expectMinIntensity, expectMaxIntensity,
				conf.Light.MinIntensity, conf.Light.MaxIntensity)
		}
		if conf.Templates.Text != DefaultTextTpl {
			t.Errorf("expected default text template, got %q", conf.Templates.Text)
		}
		if conf.Templates.Tooltip != DefaultTooltipTpl {
			t.Errorf("expected default tooltip template, got %q", conf.Templates.Tooltip)
		}
		if conf.Assets.Dir == "" {
			t.Error("expected asset directory to default to the user cache")
		}
		if len(conf.LocationSet()) != 0 {
			t.Errorf("expected no locations, got %d", len(conf.LocationSet()))
		}
	})
	t.Run("values from env override the defaults", func(t *testing.T) {
		t.Setenv("CITYWEATHER_UNITS", "metric")
		t.Setenv("CITYWEATHER_WEATHER_APIKEY", "secret")
		t.Setenv("CITYWEATHER_INTERVALS_ROTATE", "5m")
		t.Setenv("CITYWEATHER_ASSETS_DISABLE", "true")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.UnitSystem() != units.Metric {
			t.Errorf("expected metric units, got %s", conf.Units)
		}
		if conf.Weather.APIKey != "secret" {
			t.Errorf("expected api key from env, got %q", conf.Weather.APIKey)
		}
		if conf.Intervals.Rotate != 5*time.Minute {
			t.Errorf("expected rotate interval of 5m, got %s", conf.Intervals.Rotate)
		}
		if conf.Assets.Dir != "" {
			t.Errorf("expected no asset directory when assets are disabled, got %q", conf.Assets.Dir)
		}
	})
	t.Run("new config with invalid values from env", func(t *testing.T) {
		t.Setenv("CITYWEATHER_LOGLEVEL", "invalid")
		_, err := New()
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})

	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"config validate units", "CITYWEATHER_UNITS", "invalid"},
		{"config validate output interval", "CITYWEATHER_INTERVALS_OUTPUT", "-1s"},
		{"config validate rotate interval", "CITYWEATHER_INTERVALS_ROTATE", "-1m"},
		{"config validate negative intensity", "CITYWEATHER_LIGHT_MIN_INTENSITY", "-0.1"},
		{"config validate inverted intensity range", "CITYWEATHER_LIGHT_MAX_INTENSITY", "0.2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("CITYWEATHER_ASSETS_DISABLE", "true")
			t.Setenv(tc.key, tc.value)
			if _, err := New(); err == nil {
				t.Error("expected config to fail, but didn't")
			}
		})
	}
}

func TestConfig_defaults(t *testing.T) {
	t.Run("a zero output interval falls back to the default", func(t *testing.T) {
		t.Setenv("CITYWEATHER_ASSETS_DISABLE", "true")
		t.Setenv("CITYWEATHER_INTERVALS_OUTPUT", "0s")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Intervals.Output != time.Second*30 {
			t.Errorf("expected default output interval, got %s", conf.Intervals.Output)
		}
	})
	t.Run("the locale is read from LC_MESSAGES", func(t *testing.T) {
		t.Setenv("CITYWEATHER_ASSETS_DISABLE", "true")
		t.Setenv("LC_MESSAGES", "de_DE.UTF-8")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Locale != "de-DE" {
			t.Errorf("expected locale de-DE, got %q", conf.Locale)
		}
	})
	t.Run("a configured locale wins over LC_MESSAGES", func(t *testing.T) {
		t.Setenv("CITYWEATHER_ASSETS_DISABLE", "true")
		t.Setenv("CITYWEATHER_LOCALE", "it")
		t.Setenv("LC_MESSAGES", "de_DE.UTF-8")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Locale != "it" {
			t.Errorf("expected locale it, got %q", conf.Locale)
		}
	})
}

func TestNewFromFile(t *testing.T) {
	t.Run("reading config from valid file succeeds", func(t *testing.T) {
		conf, err := NewFromFile("../../etc", "config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.UnitSystem() != units.Imperial {
			t.Errorf("expected imperial units, got %s", conf.Units)
		}
		if !conf.FetchOnStart {
			t.Error("expected fetch on start to be enabled")
		}
		if conf.Weather.IconURL != "https://openweathermap.org/img/wn/{icon}@2x.png" {
			t.Errorf("unexpected icon url: %s", conf.Weather.IconURL)
		}
		want := []location.Location{
			{Name: "Zocca", Country: "IT"},
			{Name: "Cologne", Country: "DE"},
			{Name: "Honolulu", Country: "US"},
		}
		if diff := cmp.Diff(want, conf.LocationSet()); diff != "" {
			t.Errorf("unexpected locations (-want +got):\n%s", diff)
		}
	})
	t.Run("reading config from non-existent file fails", func(t *testing.T) {
		_, err := NewFromFile("../../etc", "non-existent.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("reading invalid config file fails", func(t *testing.T) {
		_, err := NewFromFile("../../testdata", "invalid.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
	t.Run("a location without name fails", func(t *testing.T) {
		_, err := NewFromFile("../../testdata", "unnamed-location.toml")
		if err == nil {
			t.Error("expected config to fail, but didn't")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("a missing env file is ignored", func(t *testing.T) {
		if err := LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
			t.Errorf("expected missing env file to be ignored, got %s", err)
		}
	})
	t.Run("values from the env file are loaded", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(file, []byte("CITYWEATHER_WEATHER_APIKEY=from-dotenv\n"), 0o600); err != nil {
			t.Fatalf("failed to write env file: %s", err)
		}
		t.Setenv("CITYWEATHER_WEATHER_APIKEY", "")
		if err := os.Unsetenv("CITYWEATHER_WEATHER_APIKEY"); err != nil {
			t.Fatalf("failed to unset env: %s", err)
		}
		if err := LoadEnvFile(file); err != nil {
			t.Fatalf("failed to load env file: %s", err)
		}
		t.Setenv("CITYWEATHER_ASSETS_DISABLE", "true")
		conf, err := New()
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Weather.APIKey != "from-dotenv" {
			t.Errorf("expected api key from env file, got %q", conf.Weather.APIKey)
		}
	})
}
