// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/wneessen/cityweather/internal/location"
	"github.com/wneessen/cityweather/internal/logger"
)

// Command is an action requested on the command input or by a signal.
type Command int

const (
	CommandNone Command = iota
	CommandFetch
	CommandPrevious
	CommandNext
	CommandQuit
)

func (c Command) String() string {
	switch c {
	case CommandFetch:
		return "fetch"
	case CommandPrevious:
		return "previous"
	case CommandNext:
		return "next"
	case CommandQuit:
		return "quit"
	default:
		return "none"
	}
}

// ParseCommand maps an input line to a Command. A line consisting of spaces only is a fetch.
func ParseCommand(line string) Command {
	if line != "" && strings.Trim(line, " ") == "" {
		return CommandFetch
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "f", "fetch", "space":
		return CommandFetch
	case "a", "left", "p", "prev", "previous":
		return CommandPrevious
	case "d", "right", "n", "next":
		return CommandNext
	case "q", "quit", "exit":
		return CommandQuit
	default:
		return CommandNone
	}
}

// HandleCommands executes the commands read line by line from input until ctx is done or input
// is exhausted.
func (s *Service) HandleCommands(ctx context.Context, input io.Reader) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.logger.Error("failed to read commands", logger.Err(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				s.logger.Debug("command input closed")
				return
			}
			cmd := ParseCommand(line)
			if cmd == CommandNone {
				s.logger.Debug("ignoring unknown command", slog.String("input", line))
				continue
			}
			s.execute(ctx, cmd)
		}
	}
}

func (s *Service) execute(ctx context.Context, cmd Command) {
	s.logger.Debug("executing command", slog.String("command", cmd.String()))
	s.metrics.Command(cmd.String())
	switch cmd {
	case CommandFetch:
		s.startFetch(ctx, s.rotator.Current())
	case CommandNext:
		s.switchLocation(ctx, s.rotator.Next)
	case CommandPrevious:
		s.switchLocation(ctx, s.rotator.Previous)
	case CommandQuit:
		s.shutdown()
	}
}

// rotateNext is the task of the automatic rotation job.
func (s *Service) rotateNext(ctx context.Context) {
	s.switchLocation(ctx, s.rotator.Next)
}

func (s *Service) switchLocation(ctx context.Context, move func() location.Location) {
	loc := move()
	s.metrics.Rotated()
	s.logger.Debug("switched location", slog.String("location", loc.String()),
		slog.Int("index", s.rotator.Index()))
	s.printWeather(ctx)
}
