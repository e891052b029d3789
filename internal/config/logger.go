package config

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger described by ls. When ls.File is set
// the log goes to that file, since the game owns the terminal; otherwise it
// goes to stderr. The returned close func is never nil.
func NewLogger(ls LogSettings) (*log.Logger, func() error, error) {
	var (
		out     io.Writer = os.Stderr
		closeFn           = func() error { return nil }
	)
	if ls.File != "" {
		f, err := os.OpenFile(ls.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open log file: %w", err)
		}
		out, closeFn = f, f.Close
	}

	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: true})
	level, err := log.ParseLevel(ls.Level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", ls.Level)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger, closeFn, nil
}
