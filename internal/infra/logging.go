package infra

import (
	"os"

	"github.com/phuslu/log"
)

// SetupLogging configures the global logger. format is "console" for
// colored human-readable output or "json" for structured stderr lines.
func SetupLogging(level, format string) {
	logger := log.Logger{
		Level:      log.ParseLevel(level),
		TimeFormat: "15:04:05",
	}
	if format != "json" {
		logger.Writer = &log.ConsoleWriter{
			ColorOutput:    true,
			EndWithMessage: true,
			Writer:         os.Stderr,
		}
	} else {
		logger.Writer = &log.IOWriter{Writer: os.Stderr}
	}
	log.DefaultLogger = logger
}
