// Package logging configures the process-wide phuslu logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/phuslu/log"
)

// Setup installs the default logger used by log.Info() and friends.
// format is "console" (default) or "json".
func Setup(level, format string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}

	var writer log.Writer
	if strings.EqualFold(format, "json") {
		writer = &log.IOWriter{Writer: w}
	} else {
		writer = &log.ConsoleWriter{
			Writer:         w,
			QuoteString:    true,
			EndWithMessage: true,
		}
	}

	log.DefaultLogger = log.Logger{
		Level:      ParseLevel(level),
		TimeFormat: "15:04:05.000",
		Writer:     writer,
	}
}

// ParseLevel maps a config/flag string onto a log level, defaulting to info.
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

// KnownLevel reports whether s names a level ParseLevel understands
// without falling back to info.
func KnownLevel(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
