// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

//go:build linux

// Package main implements the cityweather service.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/wneessen/cityweather/internal/config"
	"github.com/wneessen/cityweather/internal/logger"
	"github.com/wneessen/cityweather/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	// Read flags
	confPath := flag.String("config", "", "path to the config file")
	envFile := flag.String("env", "", "path to a dotenv file")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	if err := config.LoadEnvFile(envFiles...); err != nil {
		log.Error("failed to load env file", logger.Err(err))
		os.Exit(1)
	}

	// Read the config file given on the command line, the one in the default location or the
	// environment only
	var conf *config.Config
	var err error
	switch path, file := findConfigFile(); {
	case *confPath != "":
		conf, err = config.NewFromFile(filepath.Dir(*confPath), filepath.Base(*confPath))
	case path != "" && file != "":
		conf, err = config.NewFromFile(path, file)
	default:
		conf, err = config.New()
	}
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}

	log = logger.New(conf.LogLevel)

	// Initialize the service
	serv, err := service.New(conf, log, service.WithInput(os.Stdin))
	if err != nil {
		log.Error("failed to initialize cityweather service", logger.Err(err))
		os.Exit(1)
	}

	// Start the service loop
	log.Info("starting cityweather service", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = serv.Run(ctx); err != nil {
		log.Error("failed to run cityweather service", logger.Err(err))
		os.Exit(1)
	}
	log.Info("shutting down cityweather service")
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "cityweather", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
