package domain

import "go.trai.ch/zerr"

var (
	// ErrMalformedDependency is returned when a registry dependency entry is not name:versionSpec:targetFramework.
	ErrMalformedDependency = zerr.New("malformed dependency entry")

	// ErrUnsatisfiableDependencies is returned when layering stalls because no remaining package
	// has all of its managed dependencies in an earlier layer.
	ErrUnsatisfiableDependencies = zerr.New("unsatisfiable dependencies")

	// ErrFoundationNotFound is returned when the foundation package cannot be found in the registry.
	ErrFoundationNotFound = zerr.New("foundation package not found in registry")

	// ErrAmbiguousCatalogEntry is returned when a registry search yields more than one exact title match.
	ErrAmbiguousCatalogEntry = zerr.New("ambiguous registry entry")

	// ErrImportFailed is returned when an install job reaches a failed terminal state.
	ErrImportFailed = zerr.New("module import failed")

	// ErrImportUnconfirmed marks an install job that was abandoned before it reached a terminal state.
	ErrImportUnconfirmed = zerr.New("module import not confirmed")

	// ErrRedirectResolutionFailure is returned when the content location cannot be resolved
	// within the configured number of redirects.
	ErrRedirectResolutionFailure = zerr.New("failed to resolve package content location")

	// ErrRegistryRequestFailed is returned when a request to the package registry fails.
	ErrRegistryRequestFailed = zerr.New("registry request failed")

	// ErrRegistryParseFailed is returned when a registry response cannot be decoded.
	ErrRegistryParseFailed = zerr.New("failed to parse registry response")

	// ErrAccountRequestFailed is returned when a request to the automation account fails.
	ErrAccountRequestFailed = zerr.New("automation account request failed")

	// ErrAccountParseFailed is returned when an automation account response cannot be decoded.
	ErrAccountParseFailed = zerr.New("failed to parse automation account response")

	// ErrMissingCredentials is returned when no access token is available for the automation account.
	ErrMissingCredentials = zerr.New("missing automation account credentials")

	// ErrConfigNotFound is returned when no configuration file is found.
	ErrConfigNotFound = zerr.New("configuration file not found")

	// ErrConfigReadFailed is returned when the configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read configuration file")

	// ErrConfigParseFailed is returned when the configuration file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse configuration file")

	// ErrInvalidConfig is returned when the configuration fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrInvalidConcurrency is returned when the concurrency cap is not a positive integer.
	ErrInvalidConcurrency = zerr.New("concurrency cap must be a positive integer")

	// ErrInvalidOverride is returned when a forced version override cannot be parsed.
	ErrInvalidOverride = zerr.New("invalid version override")

	// ErrRolloutFailed marks a run that terminated because of a fatal error.
	ErrRolloutFailed = zerr.New("rollout failed")
)
