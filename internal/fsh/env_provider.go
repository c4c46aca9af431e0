// Package fsh wraps the filesystem and environment lookups used by the plugin
// behind small interfaces so commands can be tested without touching the host.
package fsh

import "os"

// EnvProvider looks up environment variables such as the project, work
// directory and log file overrides.
type EnvProvider interface {
	// Get returns the value of key, or "" when it is unset.
	Get(key string) string
}

// OSEnvProvider reads the process environment.
type OSEnvProvider struct{}

func NewEnvProvider() *OSEnvProvider {
	return &OSEnvProvider{}
}

func (OSEnvProvider) Get(key string) string {
	return os.Getenv(key)
}
