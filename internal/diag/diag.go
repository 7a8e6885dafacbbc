// Package diag collects recoverable problems encountered during a run.
// Stages report through an explicit Collector instead of ambient state, so
// each stage stays independently testable and the run can summarize what it
// skipped.
package diag

import (
	"log/slog"
	"strings"
)

// Collector records warnings and forwards them to a structured logger.
// Warnings never abort a run; fatal conditions travel as ordinary errors.
type Collector struct {
	logger  *slog.Logger
	entries []string
}

// New returns a Collector that logs through logger.
func New(logger *slog.Logger) *Collector {
	return &Collector{logger: logger}
}

// Warn logs msg with attrs at warning level and records it for the run
// report.
func (c *Collector) Warn(msg string, attrs ...slog.Attr) {
	parts := make([]string, 0, len(attrs)+1)
	parts = append(parts, msg)
	args := make([]any, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.String())
		args = append(args, a)
	}
	c.entries = append(c.entries, strings.Join(parts, " "))
	c.logger.Warn(msg, args...)
}

// Warnings returns the recorded problems in the order they occurred.
func (c *Collector) Warnings() []string {
	return c.entries
}

// Count returns the number of recorded warnings.
func (c *Collector) Count() int {
	return len(c.entries)
}
