// Package cli implements the orngkit command-line interface.
//
// # Commands
//
//   - translate analyse: learn a domain translation from a tab file
//   - translate apply: encode data with a saved translation (CSV or libsvm)
//   - translate describe: show the columns of a saved translation
//   - translate decode: map learner predictions back to class values
//   - cluster: cluster examples or attributes and draw a dendrogram
//   - render: draw a dendrogram from a saved tree
//   - cache: manage the tree and artifact cache
//   - completion: shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs per-stage timings and cache activity.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond, e.g.
// "Learned translation of 12 attributes (4ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
