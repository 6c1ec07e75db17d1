// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log renders import progress on the console. Both import sides
// report through the same Logger, so every method holds the mutex.
package log

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/cardimport/pkg/status"
	"github.com/walteh/cardimport/pkg/transfer"
)

// 🎯 Logger handles console output mirrored to zerolog
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	mu        sync.Mutex
	formatter status.ProgressFormatter
	showFiles bool
	sides     map[string]transfer.Kind
}

// 🔧 Option configures a Logger
type Option func(*Logger)

// WithFiles prints one line per file in addition to the progress lines
func WithFiles(show bool) Option {
	return func(l *Logger) { l.showFiles = show }
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger, opts ...Option) *Logger {
	l := &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultProgressFormatter(),
		sides:     map[string]transfer.Kind{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// 📞 Callbacks wires one import side to this logger. prefix labels every
// line the side prints.
func (l *Logger) Callbacks(kind transfer.Kind, prefix string) transfer.Callbacks {
	l.mu.Lock()
	l.sides[prefix] = kind
	l.mu.Unlock()

	return transfer.Callbacks{
		OnStart: func(total int) { l.StartTransfer(prefix, total) },
		OnProgress: func(ev transfer.ProgressEvent) {
			l.Progress(prefix, ev.CurrentIndex, ev.TotalCount, ev.Rate())
		},
		OnStatusChange: func(s status.Status) { l.Status(prefix, s) },
		OnFile:         func(ev transfer.FileEvent) { l.LogFile(prefix, ev) },
	}
}

// 📝 StartTransfer prints the header for one side
func (l *Logger) StartTransfer(prefix string, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	event := l.zlog.Info()
	if kind, ok := l.sides[prefix]; ok {
		event = event.Str("kind", kind.String())
	}

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(prefix),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d files", total))

	event.Str("side", prefix).Int("total", total).Msg("starting transfer")
}

// 📝 Progress prints a progress line
func (l *Logger) Progress(prefix string, current, total int, rate string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatter.FormatProgress(prefix, current, total, rate))
	l.zlog.Debug().Str("side", prefix).Int("current", current).Int("total", total).Str("rate", rate).Msg("progress")
}

// 📝 Status prints a status change, colored by how bad it is
func (l *Logger) Status(prefix string, s status.Status) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := l.formatter.FormatStatus(prefix, s)
	switch {
	case s.IsAlarming():
		fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(line))
		l.zlog.Error().Str("side", prefix).Str("status", s.String()).Msg("status")
	case s.IsEarlyExit():
		fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(line))
		l.zlog.Warn().Str("side", prefix).Str("status", s.String()).Msg("status")
	case s == status.StatusDone:
		fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(line))
		l.zlog.Info().Str("side", prefix).Str("status", s.String()).Msg("status")
	default:
		fmt.Fprintln(l.console, line)
		l.zlog.Info().Str("side", prefix).Str("status", s.String()).Msg("status")
	}
}

// 📝 LogFile prints a file result. Failures are always shown, successes only
// with WithFiles.
func (l *Logger) LogFile(prefix string, ev transfer.FileEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	destName := ""
	if ev.DestPath != "" {
		destName = filepath.Base(ev.DestPath)
	}

	if l.showFiles || ev.Err != nil {
		fmt.Fprintln(l.console, status.FormatFileOperation(ev.Name, destName, ev.Action, ev.Rate))
	}

	event := l.zlog.Debug()
	if ev.Err != nil {
		event = l.zlog.Warn().Err(ev.Err)
	}
	event.
		Str("side", prefix).
		Str("file", ev.Name).
		Str("dest", ev.DestPath).
		Str("action", ev.Action.String()).
		Str("size", humanize.IBytes(uint64(ev.Bytes))).
		Msg("file operation")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("cardimport")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 🩺 ReportResult points out what went wrong on one side once it is done.
// A clean side prints nothing.
func (l *Logger) ReportResult(res *transfer.Result) {
	if res.Fatal != nil {
		l.Errorf("%s: import stopped: %v", res.Label, res.Fatal)
	}
	if res.HardFailCount > 0 {
		l.Warningf("%s: %d of %d files failed to import", res.Label, res.HardFailCount, res.Total)
	}
	if res.DeleteFailCount > 0 {
		l.Warningf("%s: %d originals copied but still on the card", res.Label, res.DeleteFailCount)
	}
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
