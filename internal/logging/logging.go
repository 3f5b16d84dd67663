// Package logging configures the zerolog logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// Options selects level and outputs.
type Options struct {
	// Level is a zerolog level name; Verbose and Quiet override it.
	Level   string
	Verbose bool
	Quiet   bool
	// File is the rotated log path. Empty disables file logging.
	File string
	// Console overrides the stderr writer, mainly for tests.
	Console io.Writer
}

var (
	mu         sync.Mutex
	fileWriter io.WriteCloser
)

// Init builds the logger, installs it as the global zerolog logger and
// returns it. A log file that cannot be opened is reported on the returned
// logger and otherwise ignored.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	closeLocked()

	console := opts.Console
	if console == nil {
		console = selectOutput()
	}

	writer := console
	var fileErr error
	if opts.File != "" {
		fw, err := openFile(opts.File)
		if err != nil {
			fileErr = err
		} else {
			fileWriter = fw
			writer = zerolog.MultiLevelWriter(console, fw)
		}
	}

	logger := zerolog.New(writer).Level(selectLevel(opts)).With().Timestamp().Logger()
	log.Logger = logger

	if fileErr != nil {
		logger.Warn().Err(fileErr).Msg("continuing without log file")
	}
	return logger
}

// Close flushes and closes the log file, if any.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeLocked()
}

func closeLocked() {
	if fileWriter != nil {
		_ = fileWriter.Close()
		fileWriter = nil
	}
}

func selectLevel(opts Options) zerolog.Level {
	switch {
	case opts.Verbose:
		return zerolog.DebugLevel
	case opts.Quiet:
		return zerolog.WarnLevel
	}
	if opts.Level == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// selectOutput uses the console writer on a color-capable terminal and JSON
// on stderr otherwise.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

func openFile(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}, nil
}
