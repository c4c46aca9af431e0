package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andyballingall/swift-format-plugin/internal/report"
	"github.com/andyballingall/swift-format-plugin/internal/swiftformat"
)

// reportValue implements pflag.Value to provide a custom type name in help text
// and validation for report formats.
type reportValue string

func (r *reportValue) String() string {
	return string(*r)
}

func (r *reportValue) Set(v string) error {
	switch report.Format(v) {
	case report.FormatNone, report.FormatText, report.FormatJSON:
	default:
		return fmt.Errorf("must be 'none', 'text' or 'json'")
	}
	*r = reportValue(v)
	return nil
}

func (r *reportValue) Type() string {
	return "<report>"
}

// pathValue implements pflag.Value to provide a custom type name in help text.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}

// runFlags are the flags shared by lint and format.
type runFlags struct {
	targets []string
	strict  bool
	dryRun  bool
	watch   bool
	since   string
	report  reportValue
}

func (f *runFlags) bind(cmd *cobra.Command) {
	f.report = reportValue(report.FormatNone)
	cmd.Flags().StringArrayVarP(&f.targets, "target", "t", nil,
		"Only run for this package target (repeatable)")
	cmd.Flags().BoolVar(&f.strict, "strict", false,
		"Exit non-zero if any swift-format invocation fails")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false,
		"Print the swift-format command lines without running them")
	cmd.Flags().Var(&f.report, "report", "Summary report after the run (none, text, json)")
	cmd.Flags().BoolVar(&f.watch, "watch", false, "Watch for changes and re-run until interrupted")
	cmd.Flags().StringVar(&f.since, "since", "",
		"Only process Swift files changed since this git revision, including uncommitted work")
}

func (f *runFlags) options() RunOptions {
	return RunOptions{
		Targets: f.targets,
		Strict:  f.strict,
		DryRun:  f.dryRun,
		Report:  report.Format(f.report),
		Since:   f.since,
	}
}

func (f *runFlags) run(ctx context.Context, p Plugin, mode swiftformat.Mode) error {
	if f.watch {
		return p.Watch(ctx, mode, f.options(), nil)
	}
	return p.Run(ctx, mode, f.options())
}
