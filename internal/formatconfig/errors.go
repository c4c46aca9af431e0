package formatconfig

import (
	"fmt"
)

// FallbackWriteError is returned when the bundled configuration cannot be
// written to the work directory.
type FallbackWriteError struct {
	Path    string
	Wrapped error
}

func (e *FallbackWriteError) Error() string {
	return fmt.Sprintf("failed to write fallback configuration to %s: %v", e.Path, e.Wrapped)
}

func (e *FallbackWriteError) Unwrap() error {
	return e.Wrapped
}

type ConfigExistsError struct {
	Path string
}

func (e *ConfigExistsError) Error() string {
	return fmt.Sprintf("configuration already exists: %s", e.Path)
}

type InvalidJSONError struct {
	Path string
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("%s is not a valid JSON document", e.Path)
}

type KeyNotFoundError struct {
	Path string
	Key  string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key '%s' is not set in %s", e.Key, e.Path)
}
