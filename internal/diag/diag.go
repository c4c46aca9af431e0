// Package diag collects the remarks, warnings and errors a run reports to
// the user, in the same shape a build system shows plugin diagnostics.
package diag

import (
	"log/slog"
	"sync"
)

// Severity of a diagnostic.
type Severity string

const (
	SeverityRemark  Severity = "remark"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Entry is a single diagnostic.
type Entry struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Diagnostics logs each diagnostic and keeps a copy for reporting.
type Diagnostics struct {
	logger *slog.Logger

	mu      sync.Mutex
	entries []Entry
}

// New creates Diagnostics that log through logger.
func New(logger *slog.Logger) *Diagnostics {
	return &Diagnostics{logger: logger}
}

func (d *Diagnostics) Remark(msg string) {
	d.add(SeverityRemark, msg)
	d.logger.Info(msg)
}

func (d *Diagnostics) Warning(msg string, args ...any) {
	d.add(SeverityWarning, msg)
	d.logger.Warn(msg, args...)
}

func (d *Diagnostics) Error(msg string, args ...any) {
	d.add(SeverityError, msg)
	d.logger.Error(msg, args...)
}

func (d *Diagnostics) add(s Severity, msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, Entry{Severity: s, Message: msg})
}

// Entries returns the diagnostics recorded since the last Reset.
func (d *Diagnostics) Entries() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Count returns how many diagnostics of severity s were recorded.
func (d *Diagnostics) Count(s Severity) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, e := range d.entries {
		if e.Severity == s {
			n++
		}
	}
	return n
}

// Reset discards recorded entries. Watch mode calls it between runs.
func (d *Diagnostics) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = nil
}
