// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/wneessen/cityweather/internal/asset"
	"github.com/wneessen/cityweather/internal/cache"
	"github.com/wneessen/cityweather/internal/config"
	"github.com/wneessen/cityweather/internal/environment"
	"github.com/wneessen/cityweather/internal/i18n"
	"github.com/wneessen/cityweather/internal/location"
	"github.com/wneessen/cityweather/internal/logger"
	"github.com/wneessen/cityweather/internal/metrics"
	"github.com/wneessen/cityweather/internal/presenter"
	"github.com/wneessen/cityweather/internal/weather"
)

const OutputClass = "cityweather"

// Output classes for states without a renderable snapshot
const (
	ClassNoData = "nodata"
	ClassError  = "error"
)

type outputData struct {
	Text      string   `json:"text"`
	Tooltip   string   `json:"tooltip"`
	Class     []string `json:"class"`
	Location  string   `json:"location"`
	Light     string   `json:"light,omitempty"`
	Intensity *float64 `json:"intensity,omitempty"`
	Icon      string   `json:"icon,omitempty"`
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock used to derive the environment state.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithFetcher replaces the weather provider selected from the config.
func WithFetcher(fetcher weather.Fetcher) Option {
	return func(s *Service) {
		s.fetcher = fetcher
	}
}

// WithInput sets the reader commands are read from.
func WithInput(input io.Reader) Option {
	return func(s *Service) {
		s.input = input
	}
}

// WithOutput sets the writer the JSON status lines are written to.
func WithOutput(output io.Writer) Option {
	return func(s *Service) {
		s.output = output
	}
}

// Service renders the weather of the active location of a rotating location set and reacts to
// commands and signals.
type Service struct {
	config    *config.Config
	logger    *logger.Logger
	rotator   *location.Rotator
	cache     *weather.Cache
	fetcher   weather.Fetcher
	assets    *asset.Store
	presenter *presenter.Presenter
	deriver   environment.Deriver
	metrics   *metrics.Metrics
	scheduler gocron.Scheduler
	clock     func() time.Time
	input     io.Reader
	SignalSrc signalSource

	outputLock sync.Mutex
	output     io.Writer

	errLock sync.RWMutex
	lastErr map[location.Location]error

	quit     context.CancelFunc
	quitLock sync.Mutex

	fetchLock sync.Mutex
	fetches   sync.WaitGroup
}

// New returns a Service for conf. The weather provider and the asset store are created from conf
// unless replaced by options. No background work starts before Run.
func New(conf *config.Config, log *logger.Logger, opts ...Option) (*Service, error) {
	if conf == nil {
		return nil, fmt.Errorf("config is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}

	rotator, err := location.NewRotator(conf.LocationSet())
	if err != nil {
		return nil, fmt.Errorf("failed to create location rotator: %w", err)
	}

	localizer, err := i18n.New(conf.Locale)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize localizer: %w", err)
	}
	pres, err := presenter.New(conf.UnitSystem(), localizer, conf.Templates.Text, conf.Templates.Tooltip)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	m := metrics.New()
	service := &Service{
		config:    conf,
		logger:    log,
		rotator:   rotator,
		cache:     weather.NewCache(cache.WithObserver(m)),
		presenter: pres,
		deriver:   environment.NewDeriver(conf.Light.MinIntensity, conf.Light.MaxIntensity),
		metrics:   m,
		clock:     time.Now,
		output:    os.Stdout,
		SignalSrc: stdLibSignalSource{},
		lastErr:   make(map[location.Location]error),
	}
	for _, opt := range opts {
		opt(service)
	}

	if service.fetcher == nil {
		if service.fetcher, err = service.selectWeatherProvider(); err != nil {
			return nil, fmt.Errorf("failed to create weather provider: %w", err)
		}
	}
	if !conf.Assets.Disable {
		if service.assets, err = service.createAssetStore(); err != nil {
			return nil, fmt.Errorf("failed to create asset store: %w", err)
		}
	}

	return service, nil
}

// Run starts the scheduled jobs, the command and signal handlers and blocks until ctx is done or
// a quit command was received.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.quitLock.Lock()
	s.quit = cancel
	s.quitLock.Unlock()

	// Start scheduled jobs
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	s.scheduler = scheduler
	if err = s.createScheduledJobs(ctx); err != nil {
		if shutdownErr := s.scheduler.Shutdown(); shutdownErr != nil {
			s.logger.Error("failed to shut down scheduler", logger.Err(shutdownErr))
		}
		return err
	}
	s.scheduler.Start()

	if s.config.Metrics.Listen != "" {
		go s.serveMetrics(ctx, s.config.Metrics.Listen)
	}

	sigChan := make(chan os.Signal, 1)
	s.SignalSrc.Notify(sigChan, syscall.SIGUSR1, syscall.SIGUSR2)
	defer s.SignalSrc.Stop(sigChan)
	go s.HandleSignals(ctx, sigChan)

	if s.config.FetchOnStart {
		s.startFetch(ctx, s.rotator.Current())
	}
	s.printWeather(ctx)

	if s.input != nil {
		go s.HandleCommands(ctx, s.input)
	}

	// Wait for the context to cancel
	<-ctx.Done()
	s.waitForFetches()
	return s.scheduler.Shutdown()
}

func (s *Service) createScheduledJobs(ctx context.Context) error {
	if err := s.createScheduledJob(ctx, s.config.Intervals.Output, s.printWeather,
		"weather_output_job"); err != nil {
		return err
	}
	if s.config.Intervals.Rotate > 0 {
		return s.createScheduledJob(ctx, s.config.Intervals.Rotate, s.rotateNext, "location_rotate_job")
	}
	return nil
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// printWeather writes the status of the active location as JSON line to the output.
func (s *Service) printWeather(context.Context) {
	output := s.status(s.rotator.Current())

	s.outputLock.Lock()
	defer s.outputLock.Unlock()
	if err := json.NewEncoder(s.output).Encode(output); err != nil {
		s.logger.Error("failed to encode weather data", logger.Err(err))
	}
}

// status renders the status of loc. Without a snapshot it shows the last fetch error for loc or
// the prompt to fetch.
func (s *Service) status(loc location.Location) outputData {
	output := outputData{Location: loc.String(), Tooltip: loc.String()}

	snap, ok := s.cache.Peek(loc)
	if !ok {
		if err := s.lastError(loc); err != nil {
			output.Text = s.presenter.Error(err)
			output.Class = []string{OutputClass, ClassError}
			return output
		}
		output.Text = s.presenter.NoData()
		output.Class = []string{OutputClass, ClassNoData}
		return output
	}

	state, err := s.deriver.Derive(snap, s.clock())
	if err != nil {
		s.logger.Error("failed to derive environment state", logger.Err(err), slog.String("location", loc.String()))
		output.Text = s.presenter.Error(err)
		output.Tooltip = s.presenter.Report(snap)
		output.Class = []string{OutputClass, ClassError}
		return output
	}

	ctx := s.presenter.BuildContext(loc, s.rotator.Index(), s.rotator.Len(), snap, state, s.clock())
	if output.Text, err = s.presenter.Text(ctx); err != nil {
		s.logger.Error("failed to render text template", logger.Err(err))
	}
	if output.Tooltip, err = s.presenter.Tooltip(ctx); err != nil {
		s.logger.Error("failed to render tooltip template", logger.Err(err))
	}
	output.Class = []string{OutputClass, state.Sky.String(), state.Light.String()}
	output.Light = state.Light.String()
	output.Intensity = &state.Intensity
	if s.assets != nil {
		if img, ok := s.assets.Peek(s.assets.IconURL(snap.Icon)); ok {
			output.Icon = img.Path
		}
	}
	return output
}

func (s *Service) lastError(loc location.Location) error {
	s.errLock.RLock()
	defer s.errLock.RUnlock()
	return s.lastErr[loc]
}

func (s *Service) setLastError(loc location.Location, err error) {
	s.errLock.Lock()
	defer s.errLock.Unlock()
	if err == nil {
		delete(s.lastErr, loc)
		return
	}
	s.lastErr[loc] = err
}

// shutdown stops a running service.
func (s *Service) shutdown() {
	s.quitLock.Lock()
	defer s.quitLock.Unlock()
	if s.quit != nil {
		s.quit()
	}
}
