// Package logx configures the process-wide logger.
package logx

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// ParseLevel converts debug|info|warn|error to a log level. Unknown values map to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Setup points the default logger at stderr, leaving stdout for results.
// JSON output is used when stderr is not a terminal.
func Setup(level string) {
	SetupWriter(level, os.Stderr, !log.IsTerminal(os.Stderr.Fd()))
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(level string, w io.Writer, jsonOutput bool) {
	logger := log.Logger{
		Level:      ParseLevel(level),
		TimeFormat: "2006-01-02 15:04:05",
	}
	if jsonOutput {
		logger.Writer = &log.IOWriter{Writer: w}
	} else {
		logger.Writer = &log.ConsoleWriter{Writer: w, ColorOutput: false, QuoteString: true}
	}
	log.DefaultLogger = logger
}
