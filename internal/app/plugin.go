package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/andyballingall/swift-format-plugin/internal/config"
	"github.com/andyballingall/swift-format-plugin/internal/diag"
	"github.com/andyballingall/swift-format-plugin/internal/formatconfig"
	"github.com/andyballingall/swift-format-plugin/internal/project"
	"github.com/andyballingall/swift-format-plugin/internal/repo"
	"github.com/andyballingall/swift-format-plugin/internal/report"
	"github.com/andyballingall/swift-format-plugin/internal/swiftformat"
	"github.com/andyballingall/swift-format-plugin/internal/validator"
)

// RunOptions are the per-command choices shared by lint and format.
type RunOptions struct {
	Targets []string
	Strict  bool
	DryRun  bool
	Report  report.Format
	// Since limits the run to Swift files changed since this git revision.
	Since string
}

// Plugin defines the operations behind the CLI commands.
type Plugin interface {
	Run(ctx context.Context, mode swiftformat.Mode, opts RunOptions) error
	Watch(ctx context.Context, mode swiftformat.Mode, opts RunOptions, readyChan chan<- struct{}) error
	ConfigPath() (formatconfig.Resolution, error)
	ShowConfig(key string) (string, error)
	ValidateConfig(path string) (string, error)
	InitConfig() (string, error)
	InitSettings() (string, error)
	Targets(ctx context.Context) ([]project.Target, error)
	Layout() *project.Layout
	Close() error
}

// Ensure the interface is satisfied.
var _ Plugin = (*LazyPlugin)(nil)

// LazyPlugin stands in for the real Plugin until PersistentPreRunE has
// built its dependencies.
type LazyPlugin struct {
	inner Plugin
}

func (l *LazyPlugin) SetInner(p Plugin) {
	l.inner = p
}

// HasInner returns true if the inner plugin has been set.
// PersistentPreRunE uses it to skip initialisation when already configured (e.g. in tests).
func (l *LazyPlugin) HasInner() bool {
	return l.inner != nil
}

func (l *LazyPlugin) check() Plugin {
	if l.inner == nil {
		panic("LazyPlugin accessed before initialisation; check command wiring.")
	}
	return l.inner
}

func (l *LazyPlugin) Run(ctx context.Context, mode swiftformat.Mode, opts RunOptions) error {
	return l.check().Run(ctx, mode, opts)
}

func (l *LazyPlugin) Watch(ctx context.Context, mode swiftformat.Mode, opts RunOptions,
	readyChan chan<- struct{},
) error {
	return l.check().Watch(ctx, mode, opts, readyChan)
}

func (l *LazyPlugin) ConfigPath() (formatconfig.Resolution, error) {
	return l.check().ConfigPath()
}

func (l *LazyPlugin) ShowConfig(key string) (string, error) {
	return l.check().ShowConfig(key)
}

func (l *LazyPlugin) ValidateConfig(path string) (string, error) {
	return l.check().ValidateConfig(path)
}

func (l *LazyPlugin) InitConfig() (string, error) {
	return l.check().InitConfig()
}

func (l *LazyPlugin) InitSettings() (string, error) {
	return l.check().InitSettings()
}

func (l *LazyPlugin) Targets(ctx context.Context) ([]project.Target, error) {
	return l.check().Targets(ctx)
}

func (l *LazyPlugin) Layout() *project.Layout {
	return l.check().Layout()
}

// Close releases the inner plugin, if one was ever built.
func (l *LazyPlugin) Close() error {
	if l.inner == nil {
		return nil
	}
	return l.inner.Close()
}

// Ensure the interface is satisfied.
var _ Plugin = (*CLIPlugin)(nil)

// CLIPlugin is the concrete implementation of the Plugin interface.
type CLIPlugin struct {
	logger    *slog.Logger
	diag      *diag.Diagnostics
	layout    *project.Layout
	settings  *config.Settings
	workDir   string
	resolver  *formatconfig.Resolver
	validator validator.Validator
	tool      swiftformat.Tool
	runner    swiftformat.Runner
	gitter    repo.Gitter

	reportWriter io.Writer
	useColour    bool
	logFile      *deferredLog
}

// PluginDeps groups what NewCLIPlugin needs.
type PluginDeps struct {
	Logger      *slog.Logger
	Diagnostics *diag.Diagnostics
	Layout      *project.Layout
	Settings    *config.Settings
	WorkDir     string
	Resolver    *formatconfig.Resolver
	Validator   validator.Validator
	Tool        swiftformat.Tool
	Runner      swiftformat.Runner
	Gitter      repo.Gitter
	Out         io.Writer
	UseColour   bool
	LogFile     *deferredLog
}

func NewCLIPlugin(d PluginDeps) *CLIPlugin {
	settings := d.Settings
	if settings == nil {
		settings = config.Default()
	}
	return &CLIPlugin{
		logger:       d.Logger,
		diag:         d.Diagnostics,
		layout:       d.Layout,
		settings:     settings,
		workDir:      d.WorkDir,
		resolver:     d.Resolver,
		validator:    d.Validator,
		tool:         d.Tool,
		runner:       d.Runner,
		gitter:       d.Gitter,
		reportWriter: d.Out,
		useColour:    d.UseColour,
		logFile:      d.LogFile,
	}
}

func (p *CLIPlugin) Layout() *project.Layout {
	return p.layout
}

func (p *CLIPlugin) Close() error {
	if p.logFile == nil {
		return nil
	}
	return p.logFile.Close()
}

// keepLog starts writing the log file for commands that run swift-format
// or write into the project.
func (p *CLIPlugin) keepLog() {
	if p.logFile == nil {
		return
	}
	if err := p.logFile.Open(); err != nil {
		p.logger.Warn("logging to file disabled", "error", err)
	}
}

// Run resolves the configuration, runs swift-format once per target (or
// once for the whole project) and reports the outcome. Formatter failures
// are diagnostics; they only fail the run in strict mode.
func (p *CLIPlugin) Run(ctx context.Context, mode swiftformat.Mode, opts RunOptions) error {
	p.logger.Debug("running swift-format", "mode", mode, "targets", opts.Targets, "strict", opts.Strict,
		"dryRun", opts.DryRun, "report", opts.Report, "since", opts.Since)

	if !opts.DryRun {
		p.keepLog()
	}
	p.diag.Reset()
	rep := &report.RunReport{Mode: mode, StartTime: time.Now()}

	res, err := p.resolver.Resolve(p.layout.Root, p.workDir)
	if err != nil {
		return err
	}
	rep.ConfigPath = res.Path
	rep.ConfigSource = string(res.Source)
	p.checkDocument(res.Path)

	invocations, err := p.invocations(ctx, mode, res.Path, opts)
	if err != nil {
		return err
	}

	runner := p.runner
	if opts.DryRun {
		runner = &swiftformat.DryRunner{Out: p.reportWriter}
	}

	for _, inv := range invocations {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.logger.Debug("invoking", "name", inv.DisplayName(), "command", inv.String())
		result, err := runner.Run(ctx, inv)
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rep.Results = append(rep.Results, result)
		p.diagnose(result)
	}

	rep.EndTime = time.Now()
	rep.Diagnostics = p.diag.Entries()

	if reporter := report.New(opts.Report, p.useColour); reporter != nil {
		if err := reporter.Write(p.reportWriter, rep); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if failed := rep.Failed(); failed > 0 && (opts.Strict || p.settings.Strict) {
		return &InvocationFailedError{Mode: mode, Failed: failed, Total: len(rep.Results)}
	}
	return nil
}

// invocations builds the command lines for a run. A package gets one per
// source target with Swift files; any other project gets a single recursive
// run, or one over the changed files when opts.Since is set.
func (p *CLIPlugin) invocations(ctx context.Context, mode swiftformat.Mode, configPath string,
	opts RunOptions,
) ([]swiftformat.Invocation, error) {
	names := opts.Targets
	var changed map[string]bool
	if opts.Since != "" {
		var err error
		if changed, err = p.changedFiles(ctx, opts.Since); err != nil {
			return nil, err
		}
	}

	if p.layout.Kind != project.KindPackage {
		if len(names) > 0 {
			return nil, &project.NotAPackageError{Root: p.layout.Root}
		}
		subject := swiftformat.Subject{Name: p.layout.Name, IsProject: true}
		paths := swiftformat.Recursive(p.layout.Root)
		if changed != nil {
			if len(changed) == 0 {
				p.diag.Remark(fmt.Sprintf("No Swift files changed since %s.", opts.Since))
				return nil, nil
			}
			paths = swiftformat.Files(slices.Sorted(maps.Keys(changed))...)
		}
		return []swiftformat.Invocation{p.tool.Invocation(mode, configPath, paths, subject)}, nil
	}

	all, err := p.layout.Targets(ctx)
	if err != nil {
		return nil, err
	}
	targets, err := project.SelectTargets(all, names)
	if err != nil {
		return nil, err
	}

	invocations := make([]swiftformat.Invocation, 0, len(targets))
	for _, t := range targets {
		// The build step stays quiet about targets it cannot lint.
		switch {
		case !t.IsSource():
			if mode == swiftformat.ModeFormat {
				p.diag.Remark(fmt.Sprintf("Skipping target %q because it is not a source module.", t.Name))
			}
			p.logger.Debug("skipping target", "target", t.Name, "reason", "not a source module")
			continue
		case len(t.Files) == 0:
			if mode == swiftformat.ModeFormat {
				p.diag.Remark(fmt.Sprintf("Skipping target %q because it has no Swift source files.", t.Name))
			}
			p.logger.Debug("skipping target", "target", t.Name, "reason", "no Swift source files")
			continue
		}
		files := t.Files
		if changed != nil {
			files = slices.DeleteFunc(slices.Clone(files), func(f string) bool { return !changed[f] })
			if len(files) == 0 {
				p.logger.Debug("skipping target", "target", t.Name, "reason", "no changes since "+opts.Since)
				continue
			}
		}
		subject := swiftformat.Subject{Name: t.Name}
		invocations = append(invocations,
			p.tool.Invocation(mode, configPath, swiftformat.Files(files...), subject))
	}
	if changed != nil && len(invocations) == 0 {
		p.diag.Remark(fmt.Sprintf("No Swift files changed since %s.", opts.Since))
	}
	return invocations, nil
}

// changedFiles returns the Swift files below the project root that differ from since.
func (p *CLIPlugin) changedFiles(ctx context.Context, since string) (map[string]bool, error) {
	if p.gitter == nil {
		return nil, errors.New("changed-file detection is not available")
	}
	changes, err := p.gitter.Changes(ctx, repo.Revision(since), p.layout.Root, ".swift")
	if err != nil {
		return nil, fmt.Errorf("failed to list changes since %s: %w", since, err)
	}
	changed := make(map[string]bool, len(changes))
	for _, c := range changes {
		changed[c.Path] = true
	}
	return changed, nil
}

func (p *CLIPlugin) diagnose(r swiftformat.Result) {
	inv := r.Invocation
	switch {
	case r.DryRun:
		return
	case !r.Success():
		p.diag.Error(fmt.Sprintf("swift-format %s failed for %s (status %d).", inv.Mode, inv.Subject, r.ExitCode))
	case inv.Mode == swiftformat.ModeLint:
		p.diag.Remark(fmt.Sprintf("Linted Swift source files in %s.", inv.Subject))
	default:
		p.diag.Remark(fmt.Sprintf("Formatted Swift source files in %s.", inv.Subject))
	}
}

// checkDocument warns when the configuration does not look like something
// swift-format understands. swift-format has the final say, so this never fails a run.
func (p *CLIPlugin) checkDocument(path string) {
	if p.validator == nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		p.diag.Warning(fmt.Sprintf("Could not read configuration %s.", path), "error", err)
		return
	}
	if err := p.validator.Validate(data); err != nil {
		p.diag.Warning(fmt.Sprintf("Configuration %s may not be understood by swift-format.", path), "error", err)
	}
}

// Watch runs once, then re-runs the affected targets whenever Swift sources
// or the .swift-format file change, until ctx is cancelled.
// If you want to know when the watcher is listening, pass a non-nil readyChan.
func (p *CLIPlugin) Watch(ctx context.Context, mode swiftformat.Mode, opts RunOptions,
	readyChan chan<- struct{},
) error {
	p.logger.Debug("watching", "mode", mode, "targets", opts.Targets)

	if err := p.Run(ctx, mode, opts); err != nil && !isInvocationFailure(err) {
		return err
	}

	watcher := project.NewWatcher(p.layout, p.logger, formatconfig.ProjectConfigFile)

	callback := func(event project.WatchEvent) {
		runOpts := opts
		if !event.All() {
			runOpts.Targets = event.Targets
			if len(opts.Targets) > 0 {
				runOpts.Targets = intersect(event.Targets, opts.Targets)
				if len(runOpts.Targets) == 0 {
					return
				}
			}
		}

		if event.ConfigChanged {
			p.logger.Info("Configuration changed; re-running all targets")
		} else {
			p.logger.Info("Sources changed:", "targets", event.Targets)
		}

		if err := p.Run(ctx, mode, runOpts); err != nil && !errors.Is(err, context.Canceled) {
			p.logger.Error("Run failed", "error", err)
		}
	}

	// Forward watcher Ready signal if caller wants notification
	if readyChan != nil {
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-watcher.Ready:
				select {
				case readyChan <- struct{}{}:
				case <-done:
				}
			case <-done:
			}
		}()
	}

	err := watcher.Watch(ctx, callback)
	if errors.Is(err, context.Canceled) {
		p.logger.Info("Interrupted by user")
		return nil
	}
	return err
}

func isInvocationFailure(err error) bool {
	var failed *InvocationFailedError
	return errors.As(err, &failed)
}

func intersect(a, b []string) []string {
	var out []string
	for _, s := range a {
		if slices.Contains(b, s) {
			out = append(out, s)
		}
	}
	return out
}

// ConfigPath resolves the configuration without running swift-format.
func (p *CLIPlugin) ConfigPath() (formatconfig.Resolution, error) {
	return p.resolver.Resolve(p.layout.Root, p.workDir)
}

// ShowConfig returns the resolved document, or the value at key when key is set.
func (p *CLIPlugin) ShowConfig(key string) (string, error) {
	res, err := p.ConfigPath()
	if err != nil {
		return "", err
	}
	if key == "" {
		data, err := formatconfig.Read(res.Path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return formatconfig.Lookup(res.Path, key)
}

// ValidateConfig checks path, or the resolved configuration when path is
// empty, against the known swift-format options. It returns the path checked.
func (p *CLIPlugin) ValidateConfig(path string) (string, error) {
	if path == "" {
		res, err := p.ConfigPath()
		if err != nil {
			return "", err
		}
		path = res.Path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return path, err
	}
	if err := p.validator.Validate(data); err != nil {
		return path, fmt.Errorf("%s: %w", path, err)
	}
	return path, nil
}

func (p *CLIPlugin) InitConfig() (string, error) {
	p.keepLog()
	return formatconfig.Init(p.layout.Root)
}

// InitSettings writes a commented settings file with the defaults.
func (p *CLIPlugin) InitSettings() (string, error) {
	p.keepLog()
	return config.WriteDefault(p.layout.Root)
}

func (p *CLIPlugin) Targets(ctx context.Context) ([]project.Target, error) {
	if p.layout.Kind != project.KindPackage {
		return nil, &project.NotAPackageError{Root: p.layout.Root}
	}
	return p.layout.Targets(ctx)
}
