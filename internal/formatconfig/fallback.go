// Package formatconfig decides which swift-format configuration document a
// run uses and gives read access to its contents.
package formatconfig

import (
	_ "embed"
)

const (
	// ProjectConfigFile is looked up in the project root.
	ProjectConfigFile = ".swift-format"
	// FallbackConfigFile is written to the work directory when the project has no configuration.
	FallbackConfigFile = "swift-format-fallback.json"
)

// FallbackJSON is the default swift-format configuration shipped with the
// plugin. Projects override it by placing their own .swift-format in the root.
//
//go:embed fallback.json
var FallbackJSON string
