// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kkyr/fig"

	"github.com/wneessen/cityweather/internal/location"
	"github.com/wneessen/cityweather/internal/units"
)

const (
	configEnv         = "CITYWEATHER"
	DefaultTextTpl    = "{{withSpace .ConditionIcon}}{{floatFormat .Temperature 0}}{{.TempUnit}}"
	DefaultTooltipTpl = "{{.Location}} ({{.Index}}/{{.Count}})\n\n{{.Report}}\n\n" +
		"{{loc \"moonphase\"}}: {{.MoonPhaseIcon}} {{.MoonPhase}}"
)

// Location is a configured location entry.
type Location struct {
	Name    string `fig:"name"`
	Country string `fig:"country"`
}

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial, standard
	Units        string     `fig:"units" default:"imperial"`
	LogLevel     slog.Level `fig:"loglevel" default:"0"`
	// Language tag for user-facing texts, e.g. "de". Empty uses LC_MESSAGES or the system locale
	Locale       string     `fig:"locale"`
	FetchOnStart bool       `fig:"fetch_on_start"`

	Weather struct {
		APIKey   string `fig:"apikey"`
		Endpoint string `fig:"endpoint"`
		IconURL  string `fig:"icon_url"`
	} `fig:"weather"`

	Intervals struct {
		// Zero falls back to the default
		Output time.Duration `fig:"output" default:"30s"`
		// Zero disables the automatic rotation of the active location
		Rotate time.Duration `fig:"rotate"`
	} `fig:"intervals"`

	Light struct {
		MinIntensity float64 `fig:"min_intensity" default:"0.5"`
		MaxIntensity float64 `fig:"max_intensity" default:"1.5"`
	} `fig:"light"`

	Templates struct {
		Text    string `fig:"text"`
		Tooltip string `fig:"tooltip"`
	} `fig:"templates"`

	Assets struct {
		Dir     string `fig:"dir"`
		Disable bool   `fig:"disable"`
	} `fig:"assets"`

	Metrics struct {
		// Empty disables the metrics endpoint
		Listen string `fig:"listen"`
	} `fig:"metrics"`

	Locations []Location `fig:"locations"`
}

// LoadEnvFile loads environment variables from the given dotenv files, or from .env in the working
// directory if none are given. Missing files are ignored.
func LoadEnvFile(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}
	return nil
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if _, err := units.ParseSystem(c.Units); err != nil {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	if c.Intervals.Output <= 0 {
		return fmt.Errorf("invalid output interval: %s", c.Intervals.Output)
	}
	if c.Intervals.Rotate < 0 {
		return fmt.Errorf("invalid rotate interval: %s", c.Intervals.Rotate)
	}
	if c.Light.MinIntensity < 0 || c.Light.MaxIntensity < c.Light.MinIntensity {
		return fmt.Errorf("invalid light intensity range: %g to %g", c.Light.MinIntensity, c.Light.MaxIntensity)
	}
	for i, loc := range c.Locations {
		if strings.TrimSpace(loc.Name) == "" {
			return fmt.Errorf("location %d has no name", i+1)
		}
	}
	if c.Templates.Text == "" {
		c.Templates.Text = DefaultTextTpl
	}
	if c.Templates.Tooltip == "" {
		c.Templates.Tooltip = DefaultTooltipTpl
	}
	if c.Assets.Dir == "" && !c.Assets.Disable {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("failed to determine cache directory for assets: %w", err)
		}
		c.Assets.Dir = filepath.Join(cacheDir, "cityweather", "icons")
	}

	return nil
}

// UnitSystem returns the configured unit system.
func (c *Config) UnitSystem() units.System {
	system, err := units.ParseSystem(c.Units)
	if err != nil {
		return units.Imperial
	}
	return system
}

// LocationSet returns the configured locations in order.
func (c *Config) LocationSet() []location.Location {
	locs := make([]location.Location, 0, len(c.Locations))
	for _, loc := range c.Locations {
		locs = append(locs, location.New(loc.Name, loc.Country))
	}
	return locs
}

// getLocale returns the language tag of LC_MESSAGES, e.g. "de-DE" for "de_DE.UTF-8".
func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		locale = locale[:idx]
	}
	return strings.ReplaceAll(locale, "_", "-")
}
