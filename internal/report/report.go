// Package report renders the outcome of a lint or format run.
package report

import (
	"io"
	"time"

	"github.com/andyballingall/swift-format-plugin/internal/diag"
	"github.com/andyballingall/swift-format-plugin/internal/swiftformat"
)

// RunReport collects everything a run produced.
type RunReport struct {
	Mode         swiftformat.Mode
	ConfigPath   string
	ConfigSource string
	StartTime    time.Time
	EndTime      time.Time
	Results      []swiftformat.Result
	Diagnostics  []diag.Entry
}

// Failed returns the number of invocations that did not succeed.
func (r *RunReport) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Success() {
			n++
		}
	}
	return n
}

// Reporter writes a RunReport.
type Reporter interface {
	Write(w io.Writer, r *RunReport) error
}

// Format selects a Reporter.
type Format string

const (
	FormatNone Format = "none"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// New returns the Reporter for f, or nil for FormatNone.
func New(f Format, useColour bool) Reporter {
	switch f {
	case FormatJSON:
		return &JSONReporter{}
	case FormatText:
		return &TextReporter{UseColour: useColour}
	default:
		return nil
	}
}
