package app

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/swift-format-plugin/internal/formatconfig"
	"github.com/andyballingall/swift-format-plugin/internal/project"
	"github.com/andyballingall/swift-format-plugin/internal/report"
	"github.com/andyballingall/swift-format-plugin/internal/swiftformat"
)

func TestLintAndFormatCmds(t *testing.T) {
	t.Parallel()

	t.Run("lint passes options through", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{}
		want := RunOptions{Targets: []string{"App"}, Strict: true, Report: report.FormatText}
		m.On("Run", mock.Anything, swiftformat.ModeLint, want).Return(nil)

		_, err := executeWithMock(t, m, "lint", "-t", "App", "--strict", "--report", "text")
		require.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("format dry run", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{}
		want := RunOptions{DryRun: true, Report: report.FormatNone}
		m.On("Run", mock.Anything, swiftformat.ModeFormat, want).Return(nil)

		_, err := executeWithMock(t, m, "format", "--dry-run")
		require.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("lint since revision", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{}
		m.On("Run", mock.Anything, swiftformat.ModeLint, RunOptions{Since: "origin/main", Report: report.FormatNone}).
			Return(nil)

		_, err := executeWithMock(t, m, "lint", "--since", "origin/main")
		require.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("format watch", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{}
		m.On("Watch", mock.Anything, swiftformat.ModeFormat, RunOptions{Report: report.FormatNone},
			(chan<- struct{})(nil)).Return(nil)

		_, err := executeWithMock(t, m, "format", "--watch")
		require.NoError(t, err)
		m.AssertExpectations(t)
	})

	t.Run("error propagates", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{}
		m.On("Run", mock.Anything, swiftformat.ModeLint, mock.Anything).
			Return(&InvocationFailedError{Mode: swiftformat.ModeLint, Failed: 1, Total: 1})

		_, err := executeWithMock(t, m, "lint", "--strict")
		var failed *InvocationFailedError
		require.ErrorAs(t, err, &failed)
	})

	t.Run("error - positional args rejected", func(t *testing.T) {
		t.Parallel()
		_, err := executeWithMock(t, &MockPlugin{}, "lint", "Sources/App")
		require.Error(t, err)
	})
}

func TestConfigCmd(t *testing.T) {
	t.Parallel()

	t.Run("path", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{}
		m.On("ConfigPath").Return(formatconfig.Resolution{Path: "/p/.swift-format", Source: formatconfig.SourceProject}, nil)

		out, err := executeWithMock(t, m, "config", "path")
		require.NoError(t, err)
		assert.Equal(t, "/p/.swift-format\n", out)
	})

	t.Run("show key", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{}
		m.On("ShowConfig", "lineLength").Return("120", nil)

		out, err := executeWithMock(t, m, "config", "show", "lineLength")
		require.NoError(t, err)
		assert.Equal(t, "120\n", out)
	})

	t.Run("show document", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{}
		m.On("ShowConfig", "").Return(`{"version": 1}`, nil)

		out, err := executeWithMock(t, m, "config", "show")
		require.NoError(t, err)
		assert.Equal(t, "{\"version\": 1}\n", out)
	})

	t.Run("validate", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{}
		m.On("ValidateConfig", "custom.json").Return("custom.json", nil)

		out, err := executeWithMock(t, m, "config", "validate", "custom.json")
		require.NoError(t, err)
		assert.Equal(t, "custom.json is a valid swift-format configuration.\n", out)
	})

	t.Run("validate failure", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{}
		m.On("ValidateConfig", "").Return("/w/fallback.json", errors.New("bad"))

		_, err := executeWithMock(t, m, "config", "validate")
		require.EqualError(t, err, "bad")
	})

	t.Run("init", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{}
		m.On("InitConfig").Return("/p/.swift-format", nil)

		out, err := executeWithMock(t, m, "config", "init")
		require.NoError(t, err)
		assert.Equal(t, "Created /p/.swift-format\n", out)
		m.AssertNotCalled(t, "InitSettings")
	})

	t.Run("init with settings", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{}
		m.On("InitConfig").Return("/p/.swift-format", nil)
		m.On("InitSettings").Return("/p/.swift-format-plugin.yml", nil)

		out, err := executeWithMock(t, m, "config", "init", "--settings")
		require.NoError(t, err)
		assert.Equal(t, "Created /p/.swift-format\nCreated /p/.swift-format-plugin.yml\n", out)
	})

	t.Run("init refuses to overwrite", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{}
		m.On("InitConfig").Return("", &formatconfig.ConfigExistsError{Path: "/p/.swift-format"})

		_, err := executeWithMock(t, m, "config", "init")
		var exists *formatconfig.ConfigExistsError
		require.ErrorAs(t, err, &exists)
	})
}

func TestTargetsCmd(t *testing.T) {
	t.Parallel()

	t.Run("package", func(t *testing.T) {
		t.Parallel()
		root := filepath.FromSlash("/src/pkg")
		m := &MockPlugin{layout: &project.Layout{Root: root, Kind: project.KindPackage, Name: "pkg"}}
		m.On("Targets", mock.Anything).Return([]project.Target{
			{Name: "App", Dir: filepath.Join(root, "Sources", "App"), Kind: project.TargetSource,
				Files: []string{"a.swift", "b.swift"}},
			{Name: "Vendor", Dir: filepath.Join(root, "Sources", "Vendor.xcframework"), Kind: project.TargetBinary},
		}, nil)

		out, err := executeWithMock(t, m, "targets")
		require.NoError(t, err)
		assert.Equal(t, "TARGET  KIND    FILES  DIRECTORY\n"+
			"App     source  2      Sources/App\n"+
			"Vendor  binary  0      Sources/Vendor.xcframework\n", out)
	})

	t.Run("empty package", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{layout: &project.Layout{Root: "/src/pkg", Kind: project.KindPackage, Name: "pkg"}}
		m.On("Targets", mock.Anything).Return([]project.Target{}, nil)

		out, err := executeWithMock(t, m, "targets")
		require.NoError(t, err)
		assert.Equal(t, "No targets found\n", out)
	})

	t.Run("xcode project", func(t *testing.T) {
		t.Parallel()
		m := &MockPlugin{layout: &project.Layout{Root: "/src/MyApp", Kind: project.KindProject, Name: "MyApp"}}

		out, err := executeWithMock(t, m, "targets")
		require.NoError(t, err)
		assert.Contains(t, out, "MyApp is an Xcode-style project")
		m.AssertNotCalled(t, "Targets", mock.Anything)
	})
}
