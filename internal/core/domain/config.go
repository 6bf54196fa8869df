package domain

import (
	"maps"
	"slices"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultConfigFile is the configuration file read when no path is given.
	DefaultConfigFile = "modroll.yaml"
	// DefaultFoundation is the package every Az module depends on.
	DefaultFoundation = "Az.Accounts"
	// DefaultConcurrency is the default cap on install jobs in flight.
	DefaultConcurrency = 10
	// DefaultPollInterval is the wait between two status polls of a running job.
	DefaultPollInterval = 30 * time.Second
	// DefaultSettleDelay is the wait after a batch is submitted before polling starts.
	DefaultSettleDelay = 10 * time.Second
	// DefaultMaxRedirects bounds the content location redirect walk.
	DefaultMaxRedirects = 10
	// DefaultRegistryURL is the PowerShell Gallery v2 feed.
	DefaultRegistryURL = "https://www.powershellgallery.com/api/v2"
	// DefaultRegistryTimeout bounds a single registry request.
	DefaultRegistryTimeout = 30 * time.Second
	// DefaultAccountEndpoint is the Azure Resource Manager endpoint.
	DefaultAccountEndpoint = "https://management.azure.com"
	// DefaultAccountAPIVersion is the automation API version used for module calls.
	DefaultAccountAPIVersion = "2019-06-01"
	// DefaultTokenEnv names the environment variable holding the bearer token.
	DefaultTokenEnv = "AZURE_ACCESS_TOKEN"
)

// Config is the validated configuration of a run.
type Config struct {
	Account  AccountConfig
	Registry RegistryConfig
	Rollout  RolloutConfig
	LogLevel LogLevel
}

// AccountConfig locates the managed automation account.
type AccountConfig struct {
	Endpoint      string
	Subscription  string
	ResourceGroup string
	Name          string
	APIVersion    string
	// Token is the bearer token used for every account request.
	Token string
}

// RegistryConfig locates the package registry.
type RegistryConfig struct {
	URL          string
	MaxRedirects int
	Timeout      time.Duration
}

// RolloutConfig holds the settings consumed by the layering and rollout engine.
type RolloutConfig struct {
	// Foundation is the package that always forms the first layer.
	Foundation string
	// Concurrency caps the number of install jobs awaiting a terminal state.
	Concurrency int
	// Filter selects the managed set.
	Filter NameFilter
	// Overrides maps package names to forced versions that replace "latest".
	Overrides Overrides
	// PollInterval is the wait between status polls of a non-terminal job.
	PollInterval time.Duration
	// SettleDelay is the wait between submitting a batch and polling it.
	SettleDelay time.Duration
	// CreatedPolicy decides how the ambiguous Created state is treated.
	CreatedPolicy CreatedPolicy
}

// Overrides maps package names to forced versions. Names compare case-insensitively.
type Overrides map[string]string

// Version returns the forced version for name, if any. An exact key wins; among keys that
// differ only in case the lexically smallest one is used.
func (o Overrides) Version(name string) (string, bool) {
	if v, ok := o[name]; ok {
		return v, true
	}
	keys := slices.Sorted(maps.Keys(o))
	for _, k := range keys {
		if SameName(k, name) {
			return o[k], true
		}
	}
	return "", false
}

// Set forces version for name, replacing any entry that names the same package.
func (o Overrides) Set(name, version string) {
	for k := range o {
		if SameName(k, name) {
			delete(o, k)
		}
	}
	o[name] = version
}

// ParseOverride splits a "name=version" override.
func ParseOverride(s string) (name, version string, err error) {
	name, version, ok := strings.Cut(s, "=")
	name, version = strings.TrimSpace(name), strings.TrimSpace(version)
	if !ok || name == "" || version == "" {
		return "", "", zerr.With(ErrInvalidOverride, "override", s)
	}
	return name, version, nil
}
