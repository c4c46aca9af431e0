package app

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/andyballingall/swift-format-plugin/internal/config"
	"github.com/andyballingall/swift-format-plugin/internal/diag"
	"github.com/andyballingall/swift-format-plugin/internal/formatconfig"
	"github.com/andyballingall/swift-format-plugin/internal/fsh"
	"github.com/andyballingall/swift-format-plugin/internal/project"
	"github.com/andyballingall/swift-format-plugin/internal/repo"
	"github.com/andyballingall/swift-format-plugin/internal/swiftformat"
	"github.com/andyballingall/swift-format-plugin/internal/validator"
)

// Version is the current version of swift-format-plugin, set at build time.
var Version = "dev"

const (
	ProjectDirEnvVar = "SWIFT_FORMAT_PLUGIN_PROJECT_DIR"
	WorkDirEnvVar    = "SWIFT_FORMAT_PLUGIN_WORK_DIR"

	// DefaultWorkDir is relative to the project root.
	DefaultWorkDir = ".build/swift-format-plugin"
)

var LongDescription = `
swift-format-plugin runs swift-format over a Swift package or Xcode project the
way a build tool plugin would: it picks the configuration (the project's own
.swift-format, or a bundled default), builds the command line, runs the
formatter and reports the outcome.
`

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	projectDir pathValue
	workDir    pathValue
	executable string
	debug      bool
	noColour   bool
}

// NewRootCmd creates the root command and wires up dependencies.
func NewRootCmd(lazy *LazyPlugin, ll *slog.LevelVar, stdout, stderr io.Writer,
	envProvider fsh.EnvProvider,
) *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:           "swift-format-plugin",
		Short:         "Lint and format Swift code with swift-format",
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Long:          LongDescription,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if g.debug {
				ll.Set(slog.LevelDebug)
			}
			// Skip initialisation for help, completion and the bare root command
			if cmd.Name() == "help" || isCompletionCommand(cmd) || cmd == cmd.Root() {
				return nil
			}
			// Skip if already initialised (e.g., in tests)
			if lazy.HasInner() {
				return nil
			}

			p, err := buildPlugin(&g, ll, stdout, stderr, envProvider)
			if err != nil {
				return err
			}
			lazy.SetInner(p)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.VarP(&g.projectDir, "project", "p",
		"Project root (default: $"+ProjectDirEnvVar+", else the current directory)")
	pf.VarP(&g.workDir, "work-dir", "w",
		"Directory for generated files (default: $"+WorkDirEnvVar+", else <project>/"+DefaultWorkDir+")")
	pf.StringVarP(&g.executable, "executable", "e", "", "swift-format executable (overrides settings file)")
	pf.BoolVarP(&g.debug, "debug", "d", false, "Enable debug logging")

	pf.BoolVarP(&g.noColour, "nocolour", "c", false, "Disable colour in output")
	// Support alternate spellings
	pf.BoolVar(&g.noColour, "nocolor", false, "")
	pf.BoolVar(&g.noColour, "noColor", false, "")
	pf.BoolVar(&g.noColour, "noColour", false, "")
	_ = pf.MarkHidden("nocolor")
	_ = pf.MarkHidden("noColor")
	_ = pf.MarkHidden("noColour")

	// Subcommands
	rootCmd.AddCommand(NewLintCmd(lazy))
	rootCmd.AddCommand(NewFormatCmd(lazy))
	rootCmd.AddCommand(NewConfigCmd(lazy))
	rootCmd.AddCommand(NewTargetsCmd(lazy))

	return rootCmd
}

// buildPlugin resolves the project, loads settings and builds the CLIPlugin.
func buildPlugin(g *globalFlags, ll *slog.LevelVar, stdout, stderr io.Writer,
	env fsh.EnvProvider,
) (*CLIPlugin, error) {
	paths := fsh.NewPathResolver()

	root, err := paths.Abs(firstNonEmpty(string(g.projectDir), env.Get(ProjectDirEnvVar), "."))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	settings, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	layout, err := project.Detect(root, settings.Excludes)
	if err != nil {
		return nil, err
	}

	workDir, err := paths.Abs(firstNonEmpty(string(g.workDir), env.Get(WorkDirEnvVar),
		filepath.Join(root, DefaultWorkDir)))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve work directory: %w", err)
	}

	useColour := !g.noColour && !color.NoColor

	// An explicit log file is always written; the default one only once a
	// command changes something in the project.
	logOverride := env.Get(LogEnvVar)
	logger, logFile, err := setupLogger(stderr, ll, logPath(logOverride, workDir), useColour, logOverride != "")
	if err != nil {
		logger.Warn("logging to file disabled", "error", err)
	}
	logger.Debug("project detected", "root", layout.Root, "kind", layout.Kind, "name", layout.Name,
		"settings", settings.Path, "workDir", workDir)

	v, err := validator.NewSanthoshValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to initialise configuration validator: %w", err)
	}

	diagnostics := diag.New(logger)

	return NewCLIPlugin(PluginDeps{
		Logger:      logger,
		Diagnostics: diagnostics,
		Layout:      layout,
		Settings:    settings,
		WorkDir:     workDir,
		Resolver:    formatconfig.NewResolver(paths, diagnostics),
		Validator:   v,
		Tool: swiftformat.NewTool(runtime.GOOS, firstNonEmpty(g.executable, settings.Executable),
			settings.ParallelEnabled()),
		Runner:    swiftformat.NewExecRunner(root, stdout, stderr),
		Gitter:    repo.NewCLIGitter(),
		Out:       stdout,
		UseColour: useColour,
		LogFile:   logFile,
	}), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// isCompletionCommand returns true if the command or any of its parents is the "completion" command.
func isCompletionCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "completion" {
			return true
		}
	}
	return false
}
