package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/starstrike/internal/audio"
	starcore "github.com/vovakirdan/starstrike/internal/games/starstrike/core"
	"github.com/vovakirdan/starstrike/internal/registry"
	"github.com/vovakirdan/starstrike/internal/storage"
)

// newLogger returns a logger for the current command. TUI commands log
// nowhere unless --log-file is set, since stderr shares the screen.
func newLogger(tui bool) (*log.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closeFn := func() {}

	switch {
	case flagLogFile != "":
		if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	case tui:
		w = io.Discard
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "starstrike",
		Level:           level,
	})
	return logger, closeFn, nil
}

// mustLogger is newLogger for Run functions.
func mustLogger(tui bool) (*log.Logger, func()) {
	logger, closeFn, err := newLogger(tui)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return logger, closeFn
}

// openStore opens the database, or returns nil so play can continue
// without saving.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database", "path", flagDBPath, "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		return nil
	}
	if v, err := store.SchemaVersion(); err == nil {
		logger.Debug("database ready", "path", flagDBPath, "schema", v)
	}
	return store
}

// openAudio returns the sound sink for local play.
func openAudio(logger *log.Logger) (starcore.AudioSink, func()) {
	return audio.Open(flagMute, logger)
}

// equip hands the sound sink and logger to games that accept them.
func equip(g registry.Game, sink starcore.AudioSink, logger *log.Logger) {
	if a, ok := g.(interface{ SetAudio(starcore.AudioSink) }); ok {
		a.SetAudio(sink)
	}
	if l, ok := g.(interface{ SetLogger(*log.Logger) }); ok {
		l.SetLogger(logger)
	}
}
