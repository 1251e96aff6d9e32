// Package logger builds the diagnostic logger used across cgpa.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr at the given level. Verbose forces
// debug level. Interactive terminals get the console writer.
func New(level string, verbose bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, level, verbose, isTerminal(os.Stderr))
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string, verbose, console bool) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	logger := zerolog.New(w).With().Timestamp().Logger()

	if verbose {
		return logger.Level(zerolog.DebugLevel)
	}
	return logger.Level(ParseLevel(level))
}

// ParseLevel maps a config level name to a zerolog level, defaulting to warn.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.WarnLevel
	}
	return lvl
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
