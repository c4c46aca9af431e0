package validator

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed swift_format.schema.json
var schemaJSON []byte

// NewSanthoshValidator compiles the embedded schema using the
// santhosh-tekuri/jsonschema/v6 package.
func NewSanthoshValidator() (Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("embedded schema is not valid JSON: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(SchemaID, doc); err != nil {
		return nil, fmt.Errorf("failed to add embedded schema: %w", err)
	}

	s, err := c.Compile(SchemaID)
	if err != nil {
		return nil, fmt.Errorf("failed to compile embedded schema: %w", err)
	}
	return &santhoshValidator{s: s}, nil
}

// santhoshValidator wraps jsonschema.Schema to implement Validator.
type santhoshValidator struct {
	mu sync.Mutex
	s  *jsonschema.Schema
}

func (v *santhoshValidator) Validate(data []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &InvalidJSONError{Wrapped: err}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.s.Validate(inst); err != nil {
		return &SchemaViolationError{Wrapped: err}
	}
	return nil
}
