package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"smartstitch/internal/stitcher"
)

var (
	log       = newConsoleLogger(os.Stderr, zerolog.InfoLevel)
	logCloser io.Closer
)

func newConsoleLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()
}

// setupLogging builds the command logger from --log-level and --log-file
// and hands a child of it to the engine.
func setupLogging() error {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("parse --log-level: %w", err)
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		log = zerolog.New(f).Level(level).With().Timestamp().Logger()
		logCloser = f
	} else {
		log = newConsoleLogger(os.Stderr, level)
	}

	stitcher.SetLogger(engineLogger())
	return nil
}

func engineLogger() zerolog.Logger {
	return log.With().Str("component", "stitcher").Logger()
}

func closeLogging() {
	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
}
