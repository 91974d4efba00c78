package main

import (
	"os"

	"github.com/charmbracelet/log"
)

// setupLogger builds the root logger. A debug flag overrides whatever
// level the config file asked for.
func setupLogger(level string, debug bool) *log.Logger {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	if debug {
		parsed = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           parsed,
	})
}
