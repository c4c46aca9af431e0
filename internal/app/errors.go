package app

import (
	"fmt"

	"github.com/andyballingall/swift-format-plugin/internal/swiftformat"
)

// InvocationFailedError is returned in strict mode when at least one
// swift-format invocation exited non-zero.
type InvocationFailedError struct {
	Mode   swiftformat.Mode
	Failed int
	Total  int
}

func (e *InvocationFailedError) Error() string {
	return fmt.Sprintf("swift-format %s failed for %d of %d invocation(s)", e.Mode, e.Failed, e.Total)
}
