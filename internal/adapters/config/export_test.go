package config

import "go.trai.ch/modroll/internal/core/ports"

// NewLoaderWithEnv creates a Loader reading environment variables and the working
// directory from the given functions.
func NewLoaderWithEnv(logger ports.Logger, getenv func(string) string, getwd func() (string, error)) *Loader {
	l := NewLoader(logger)
	l.getenv = getenv
	l.getwd = getwd
	return l
}
