package config

import "time"

// Modfile represents the structure of the modroll.yaml configuration file.
type Modfile struct {
	Version  string      `yaml:"version"`
	Account  AccountDTO  `yaml:"account"`
	Registry RegistryDTO `yaml:"registry"`
	Rollout  RolloutDTO  `yaml:"rollout"`
	Log      LogDTO      `yaml:"log"`
}

// AccountDTO locates the automation account.
type AccountDTO struct {
	Endpoint      string `yaml:"endpoint"`
	Subscription  string `yaml:"subscription"`
	ResourceGroup string `yaml:"resourceGroup"`
	Name          string `yaml:"name"`
	APIVersion    string `yaml:"apiVersion"`
	// TokenEnv names the environment variable holding the bearer token.
	TokenEnv string `yaml:"tokenEnv"`
}

// RegistryDTO locates the package gallery.
type RegistryDTO struct {
	URL          string        `yaml:"url"`
	MaxRedirects *int          `yaml:"maxRedirects"`
	Timeout      time.Duration `yaml:"timeout"`
}

// RolloutDTO configures layering and rollout.
type RolloutDTO struct {
	Foundation   string            `yaml:"foundation"`
	Concurrency  *int              `yaml:"concurrency"`
	Include      []string          `yaml:"include"`
	Exclude      []string          `yaml:"exclude"`
	Overrides    map[string]string `yaml:"overrides"`
	PollInterval *time.Duration    `yaml:"pollInterval"`
	SettleDelay  *time.Duration    `yaml:"settleDelay"`
	CreatedState string            `yaml:"createdState"`
}

// LogDTO configures logging.
type LogDTO struct {
	Level string `yaml:"level"`
}
