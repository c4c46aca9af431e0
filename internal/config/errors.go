package config

import (
	"fmt"
)

type InvalidYAMLError struct {
	Path    string
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

type InvalidTOMLError struct {
	Path    string
	Wrapped error
}

func (e *InvalidTOMLError) Error() string {
	return fmt.Sprintf("%s is not a valid toml document: %v", e.Path, e.Wrapped)
}

type UnknownKeysError struct {
	Path string
	Keys []string
}

func (e *UnknownKeysError) Error() string {
	return fmt.Sprintf("%s contains unknown keys: %v", e.Path, e.Keys)
}

type AmbiguousSettingsError struct {
	Paths []string
}

func (e *AmbiguousSettingsError) Error() string {
	return fmt.Sprintf("found more than one settings file, keep only one of: %v", e.Paths)
}

type InvalidSettingsError struct {
	Wrapped  error
	Property string
	Value    string
}

func (e *InvalidSettingsError) Error() string {
	return fmt.Sprintf("settings property %s has invalid value '%s': %v", e.Property, e.Value, e.Wrapped)
}

func (e *InvalidSettingsError) Unwrap() error {
	return e.Wrapped
}

type SettingsExistError struct {
	Path string
}

func (e *SettingsExistError) Error() string {
	return fmt.Sprintf("settings file already exists: %s", e.Path)
}
