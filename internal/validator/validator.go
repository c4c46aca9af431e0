// Package validator checks swift-format configuration documents before they
// are handed to the formatter.
//
// The formatter remains the authority on its own configuration format, so the
// embedded schema only describes the keys this plugin knows about and allows
// anything else through.
package validator

import (
	"fmt"
)

// SchemaID is the $id of the embedded swift-format configuration schema.
const SchemaID = "https://swift-format-plugin.local/swift-format.schema.json"

// Validator checks a raw configuration document.
type Validator interface {
	// Validate returns nil when data is a JSON document that satisfies the schema.
	Validate(data []byte) error
}

// InvalidJSONError is returned when a document cannot be parsed as JSON at all.
type InvalidJSONError struct {
	Wrapped error
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("configuration is not a valid JSON document: %v", e.Wrapped)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Wrapped
}

// SchemaViolationError is returned when a document parses but breaks the schema.
type SchemaViolationError struct {
	Wrapped error
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("configuration does not match the swift-format schema: %v", e.Wrapped)
}

func (e *SchemaViolationError) Unwrap() error {
	return e.Wrapped
}
