package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// setupLog redirects logging to a file when TUTOR_LOGFILE is set, and
// silences it otherwise. The TUI owns the terminal while running.
func setupLog() (func() error, error) {
	if path := os.Getenv("TUTOR_LOGFILE"); path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600) //nolint:gosec
		if err != nil {
			return nil, err
		}
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		return f.Close, nil
	}
	log.SetOutput(io.Discard)
	return func() error { return nil }, nil
}
