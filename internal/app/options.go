package app

import (
	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/zerr"
)

// RunOptions carries the command line settings of an invocation.
// Zero values keep the configuration file's settings.
type RunOptions struct {
	// ConfigPath is the configuration file. Empty searches the working directory and its parents.
	ConfigPath string
	// Concurrency replaces the configured concurrency cap when non-zero.
	Concurrency int
	// Overrides are "name=version" pairs forcing a version. They replace configured overrides
	// of the same package regardless of letter case.
	Overrides []string
	// Include replaces the configured include patterns when non-empty.
	Include []string
	// Exclude replaces the configured exclude patterns when non-empty.
	Exclude []string
	// Verbose forces debug logging.
	Verbose bool
}

func (o RunOptions) apply(cfg *domain.Config) error {
	if o.Concurrency < 0 {
		return zerr.With(domain.ErrInvalidConcurrency, "concurrency", o.Concurrency)
	}
	if o.Concurrency > 0 {
		cfg.Rollout.Concurrency = o.Concurrency
	}

	for _, raw := range o.Overrides {
		name, version, err := domain.ParseOverride(raw)
		if err != nil {
			return err
		}
		if cfg.Rollout.Overrides == nil {
			cfg.Rollout.Overrides = make(domain.Overrides)
		}
		cfg.Rollout.Overrides.Set(name, version)
	}

	if len(o.Include) > 0 {
		cfg.Rollout.Filter.Include = o.Include
	}
	if len(o.Exclude) > 0 {
		cfg.Rollout.Filter.Exclude = o.Exclude
	}
	if err := cfg.Rollout.Filter.Validate(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "field", "filter")
	}

	if o.Verbose {
		cfg.LogLevel = domain.LogLevelDebug
	}
	return nil
}
