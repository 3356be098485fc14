// Package logging builds the process logger shared by echo and the relay components.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

const header = `${time_rfc3339} ${level} ${prefix}`

// New returns a logger writing to stdout at the named level
// ("debug", "info", "warn", "error" or "off"). Unknown names fall back to info.
func New(level string) *log.Logger {
	l := log.New("filerelay")
	l.SetHeader(header)
	l.SetOutput(os.Stdout)
	l.SetLevel(ParseLevel(level))
	return l
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}

// ParseLevel maps a level name onto a gommon level.
func ParseLevel(level string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off", "none":
		return log.OFF
	default:
		return log.INFO
	}
}
