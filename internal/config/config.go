// Package config loads the optional plugin settings file from a project root.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	SettingsFileYAML = ".swift-format-plugin.yml"
	SettingsFileTOML = ".swift-format-plugin.toml"
)

// SettingsFiles lists the settings file names in lookup order.
var SettingsFiles = []string{SettingsFileYAML, SettingsFileTOML}

const DefaultSettingsContent = `# swift-format plugin settings

# EXECUTABLE
#
# Leave empty to use the platform default: "xcrun swift-format" on macOS and
# "/usr/bin/env swift-format" elsewhere. Set to a path (or a name on $PATH) to
# run a specific swift-format build instead.
executable: ""

# PARALLEL
#
# Pass --parallel to "swift-format format".
parallel: true

# STRICT
#
# Exit non-zero when any swift-format invocation fails. When false, failures
# are reported as diagnostics only.
strict: false

# EXCLUDES
#
# Glob patterns (path.Match syntax) matched against paths relative to the
# project root. A matching directory is skipped entirely.
excludes: []
`

// Settings holds the plugin's own options. It is distinct from the
// swift-format configuration document, which belongs to the formatter.
type Settings struct {
	Executable string   `yaml:"executable" toml:"executable"`
	Parallel   *bool    `yaml:"parallel"   toml:"parallel"`
	Strict     bool     `yaml:"strict"     toml:"strict"`
	Excludes   []string `yaml:"excludes"   toml:"excludes"`

	// Path is the file the settings were read from; empty when defaults are in use.
	Path string `yaml:"-" toml:"-"`
}

// Default returns the settings used when the project has no settings file.
func Default() *Settings {
	return &Settings{}
}

// ParallelEnabled reports whether format runs should pass --parallel.
func (s *Settings) ParallelEnabled() bool {
	return s.Parallel == nil || *s.Parallel
}

// Load reads the settings file from projectRoot. A missing file is not an
// error; the defaults are returned instead.
func Load(projectRoot string) (*Settings, error) {
	var found []string
	for _, name := range SettingsFiles {
		p := filepath.Join(projectRoot, name)
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		}
	}

	switch len(found) {
	case 0:
		return Default(), nil
	case 1:
	default:
		return nil, &AmbiguousSettingsError{Paths: found}
	}

	path := found[0]
	var (
		s   *Settings
		err error
	)
	if strings.HasSuffix(path, ".toml") {
		s, err = loadTOML(path)
	} else {
		s, err = loadYAML(path)
	}
	if err != nil {
		return nil, err
	}

	if vErr := s.Validate(); vErr != nil {
		return nil, vErr
	}
	s.Path = path
	return s, nil
}

func loadYAML(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	return &s, nil
}

func loadTOML(path string) (*Settings, error) {
	var s Settings
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		return nil, &InvalidTOMLError{Path: path, Wrapped: err}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, &UnknownKeysError{Path: path, Keys: keys}
	}
	return &s, nil
}

// Validate checks property values that cannot be expressed by the decoders.
func (s *Settings) Validate() error {
	if s.Executable != "" && strings.TrimSpace(s.Executable) == "" {
		return &InvalidSettingsError{
			Property: "executable",
			Value:    s.Executable,
			Wrapped:  errors.New("must not be blank"),
		}
	}

	for i, pattern := range s.Excludes {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return &InvalidSettingsError{
				Property: fmt.Sprintf("excludes[%d]", i),
				Value:    pattern,
				Wrapped:  err,
			}
		}
	}
	return nil
}

// WriteDefault writes DefaultSettingsContent to the YAML settings file in
// projectRoot. It refuses to run when any settings file already exists.
func WriteDefault(projectRoot string) (string, error) {
	for _, name := range SettingsFiles {
		p := filepath.Join(projectRoot, name)
		if _, err := os.Stat(p); err == nil {
			return "", &SettingsExistError{Path: p}
		}
	}

	path := filepath.Join(projectRoot, SettingsFileYAML)
	if err := os.WriteFile(path, []byte(DefaultSettingsContent), 0o644); err != nil {
		return "", fmt.Errorf("failed to write settings file: %w", err)
	}
	return path, nil
}
