package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/swift-format-plugin/internal/config"
	"github.com/andyballingall/swift-format-plugin/internal/diag"
	"github.com/andyballingall/swift-format-plugin/internal/formatconfig"
	"github.com/andyballingall/swift-format-plugin/internal/fsh"
	"github.com/andyballingall/swift-format-plugin/internal/project"
	"github.com/andyballingall/swift-format-plugin/internal/repo"
	"github.com/andyballingall/swift-format-plugin/internal/swiftformat"
	"github.com/andyballingall/swift-format-plugin/internal/validator"
)

type mockEnvProvider struct {
	values map[string]string
}

func (m *mockEnvProvider) Get(key string) string {
	if m.values == nil {
		return ""
	}
	return m.values[key]
}

type MockPlugin struct {
	mock.Mock
	layout *project.Layout
}

func (m *MockPlugin) Run(ctx context.Context, mode swiftformat.Mode, opts RunOptions) error {
	args := m.Called(ctx, mode, opts)
	return args.Error(0)
}

func (m *MockPlugin) Watch(ctx context.Context, mode swiftformat.Mode, opts RunOptions,
	readyChan chan<- struct{},
) error {
	args := m.Called(ctx, mode, opts, readyChan)
	return args.Error(0)
}

func (m *MockPlugin) ConfigPath() (formatconfig.Resolution, error) {
	args := m.Called()
	res, _ := args.Get(0).(formatconfig.Resolution)
	return res, args.Error(1)
}

func (m *MockPlugin) ShowConfig(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockPlugin) ValidateConfig(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

func (m *MockPlugin) InitConfig() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockPlugin) InitSettings() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockPlugin) Targets(ctx context.Context) ([]project.Target, error) {
	args := m.Called(ctx)
	targets, _ := args.Get(0).([]project.Target)
	return targets, args.Error(1)
}

func (m *MockPlugin) Layout() *project.Layout {
	return m.layout
}

func (m *MockPlugin) Close() error {
	return nil
}

// executeWithMock runs the root command against a MockPlugin and returns stdout.
func executeWithMock(t *testing.T, p *MockPlugin, args ...string) (string, error) {
	t.Helper()
	lazy := &LazyPlugin{inner: p}
	var stdout, stderr bytes.Buffer
	rootCmd := NewRootCmd(lazy, &slog.LevelVar{}, &stdout, &stderr, &mockEnvProvider{})
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

// recordingRunner records invocations and answers with a per-target exit code.
type recordingRunner struct {
	mu        sync.Mutex
	calls     []swiftformat.Invocation
	exitCodes map[string]int
	err       error
}

func (r *recordingRunner) Run(_ context.Context, inv swiftformat.Invocation) (swiftformat.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, inv)
	if r.err != nil {
		return swiftformat.Result{Invocation: inv}, r.err
	}
	return swiftformat.Result{Invocation: inv, ExitCode: r.exitCodes[inv.Subject.Name]}, nil
}

func (r *recordingRunner) Calls() []swiftformat.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]swiftformat.Invocation(nil), r.calls...)
}

func (r *recordingRunner) Subjects() []string {
	var names []string
	for _, c := range r.Calls() {
		names = append(names, c.Subject.Name)
	}
	return names
}

// fakeGitter reports a fixed set of changed paths, relative to the directory asked about.
type fakeGitter struct {
	changed []string
	err     error
	since   repo.Revision
}

func (g *fakeGitter) Changes(_ context.Context, since repo.Revision, dir, _ string) ([]repo.Change, error) {
	g.since = since
	if g.err != nil {
		return nil, g.err
	}
	changes := make([]repo.Change, 0, len(g.changed))
	for _, c := range g.changed {
		changes = append(changes, repo.Change{Path: filepath.Join(dir, filepath.FromSlash(c))})
	}
	return changes, nil
}

// writeTree creates each path below root; paths ending in "/" become directories.
func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if p[len(p)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("// "+p+"\n"), 0o600))
	}
}

func setupTestPackage(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root,
		"Package.swift",
		"Sources/App/main.swift",
		"Sources/Core/Model.swift",
		"Sources/Core/View.swift",
		"Sources/Resources/",
		"Sources/Vendor.xcframework/Info.plist",
		"Tests/CoreTests/ModelTests.swift",
	)
	return root
}

type testPlugin struct {
	*CLIPlugin
	rec   *recordingRunner
	git   *fakeGitter
	out   *bytes.Buffer
	logs  *bytes.Buffer
	diags *diag.Diagnostics
}

// newTestPlugin builds a CLIPlugin over root with a recording runner.
func newTestPlugin(t *testing.T, root string, settings *config.Settings) *testPlugin {
	t.Helper()
	if settings == nil {
		settings = config.Default()
	}
	layout, err := project.Detect(root, settings.Excludes)
	require.NoError(t, err)

	v, err := validator.NewSanthoshValidator()
	require.NoError(t, err)

	var out, logs bytes.Buffer
	ll := &slog.LevelVar{}
	logger := slog.New(&consoleHandler{w: &logs, level: ll})
	d := diag.New(logger)
	runner := &recordingRunner{exitCodes: map[string]int{}}
	git := &fakeGitter{}

	p := NewCLIPlugin(PluginDeps{
		Logger:      logger,
		Diagnostics: d,
		Layout:      layout,
		Settings:    settings,
		WorkDir:     filepath.Join(t.TempDir(), "work"),
		Resolver:    formatconfig.NewResolver(fsh.NewPathResolver(), d),
		Validator:   v,
		Tool:        swiftformat.NewTool("linux", "", settings.ParallelEnabled()),
		Runner:      runner,
		Gitter:      git,
		Out:         &out,
	})
	return &testPlugin{CLIPlugin: p, rec: runner, git: git, out: &out, logs: &logs, diags: d}
}
