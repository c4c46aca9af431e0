package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/andyballingall/swift-format-plugin/internal/diag"
)

// TextReporter implements Reporter for plain text output.
type TextReporter struct {
	UseColour bool
}

// paint returns a Sprint function for attrs that honours UseColour
// regardless of whether the output is a terminal.
func (tr *TextReporter) paint(attrs ...color.Attribute) func(a ...any) string {
	c := color.New(attrs...)
	if tr.UseColour {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func (tr *TextReporter) Write(w io.Writer, r *RunReport) error {
	var (
		grey      = tr.paint(color.FgHiBlack)
		white     = tr.paint(color.FgWhite)
		boldWhite = tr.paint(color.FgWhite, color.Bold)
		green     = tr.paint(color.FgGreen)
		red       = tr.paint(color.FgRed)
		yellow    = tr.paint(color.FgYellow)
		boldGreen = tr.paint(color.FgGreen, color.Bold)
		boldRed   = tr.paint(color.FgRed, color.Bold)
	)
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(w, "%s\n", divider)
	fmt.Fprint(w, boldWhite(fmt.Sprintf("SWIFT-FORMAT %s REPORT\n\n", strings.ToUpper(string(r.Mode)))))
	fmt.Fprintf(w, "%s %s\n", grey("Configuration:"), white(fmt.Sprintf("%s (%s)", r.ConfigPath, r.ConfigSource)))
	fmt.Fprintf(w, "%s %s\n", grey("Started:      "), white(r.StartTime.Format("15:04:05")))
	fmt.Fprintf(w, "%s %s\n", grey("Duration:     "), white(r.EndTime.Sub(r.StartTime).String()))
	fmt.Fprintf(w, "%s\n", divider)

	for _, res := range r.Results {
		var status string
		switch {
		case res.DryRun:
			status = yellow("[DRY ]")
		case res.Success():
			status = green("[PASS]")
		default:
			status = red("[FAIL]")
		}

		fmt.Fprintf(w, "%s %s", status, res.Invocation.DisplayName())
		if !res.Success() {
			fmt.Fprintf(w, " %s", red(fmt.Sprintf("(status %d)", res.ExitCode)))
		}
		fmt.Fprintln(w)
	}

	for _, d := range r.Diagnostics {
		if d.Severity == diag.SeverityRemark {
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", yellow(string(d.Severity)+":"), grey(d.Message))
	}

	failed := r.Failed()
	fmt.Fprintf(w, "%s\n", divider)
	summary := fmt.Sprintf("%d succeeded, %d failed", len(r.Results)-failed, failed)
	statsColour := boldGreen
	if failed > 0 {
		statsColour = boldRed
	}
	fmt.Fprintf(w, "%s%s\n", boldWhite("Summary: "), statsColour(summary))
	fmt.Fprintf(w, "%s\n", divider)

	return nil
}
