// Package logging builds the console logger used outside the TUI loop.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseLevel maps a config string to a log level. Unknown names mean info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

func New(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		Prefix:          "milestone",
	})
}
