// Package logger provides opinionated logging capabilities for planora
// services and CLI commands. All loggers are *slog.Logger values so that
// components only ever depend on the standard logging facade.
package logger

import (
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
)

// ComponentKey is the attribute naming the planora component behind a record.
const ComponentKey = "component"

type config struct {
	level     slog.Level
	pretty    bool
	json      bool
	component string
	writers   []io.Writer
}

// New creates a *slog.Logger from the given options. The default is an
// Info level text logger writing to os.Stdout.
func New(opts ...Option) *slog.Logger {
	c := &config{
		level:   slog.LevelInfo,
		writers: []io.Writer{os.Stdout},
	}
	for _, opt := range opts {
		opt(c)
	}

	var w io.Writer
	switch len(c.writers) {
	case 0:
		w = os.Stdout
	case 1:
		w = c.writers[0]
	default:
		w = io.MultiWriter(c.writers...)
	}

	var h slog.Handler
	switch {
	case c.json:
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.level})
	case c.pretty:
		h = charmlog.NewWithOptions(w, charmlog.Options{
			ReportTimestamp: true,
			Level:           charmlog.Level(c.level),
		})
	default:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.level})
	}

	l := slog.New(h)
	if c.component != "" {
		l = Component(l, c.component)
	}
	return l
}

// Component returns a child of l whose records carry the component name.
func Component(l *slog.Logger, name string) *slog.Logger {
	return l.With(ComponentKey, name)
}

// Nop returns a logger that discards everything.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
