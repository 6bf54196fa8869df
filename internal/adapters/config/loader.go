// Package config provides the configuration loader for modroll.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const supportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger

	getenv func(string) string
	getwd  func() (string, error)
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		Logger: logger,
		getenv: os.Getenv,
		getwd:  os.Getwd,
	}
}

// Load reads and validates the configuration file at path. When path is empty the loader
// looks for modroll.yaml in the working directory and then in each parent directory.
func (l *Loader) Load(path string) (*domain.Config, error) {
	if path == "" {
		found, err := l.findConfiguration()
		if err != nil {
			return nil, err
		}
		path = found
	}

	var modfile Modfile
	if err := readAndUnmarshalYAML(path, &modfile); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	cfg, err := l.toDomain(&modfile)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	l.Logger.Debug("configuration loaded", "path", path)
	return cfg, nil
}

func (l *Loader) findConfiguration() (string, error) {
	cwd, err := l.getwd()
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrConfigNotFound.Error())
	}

	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) toDomain(m *Modfile) (*domain.Config, error) {
	if m.Version != "" && m.Version != supportedVersion {
		return nil, zerr.With(domain.ErrInvalidConfig, "version", m.Version)
	}

	rollout, err := rolloutConfig(&m.Rollout)
	if err != nil {
		return nil, err
	}

	registry, err := registryConfig(&m.Registry)
	if err != nil {
		return nil, err
	}

	level := domain.LogLevelInfo
	if m.Log.Level != "" {
		parsed, ok := domain.ParseLogLevel(m.Log.Level)
		if !ok {
			return nil, zerr.With(domain.ErrInvalidConfig, "log.level", m.Log.Level)
		}
		level = parsed
	}

	return &domain.Config{
		Account:  l.accountConfig(&m.Account),
		Registry: registry,
		Rollout:  rollout,
		LogLevel: level,
	}, nil
}

// accountConfig fills in the account defaults. Missing fields are reported by the account
// adapter so that commands which never reach the account can run without them.
func (l *Loader) accountConfig(dto *AccountDTO) domain.AccountConfig {
	tokenEnv := withDefault(dto.TokenEnv, domain.DefaultTokenEnv)
	return domain.AccountConfig{
		Endpoint:      withDefault(dto.Endpoint, domain.DefaultAccountEndpoint),
		Subscription:  dto.Subscription,
		ResourceGroup: dto.ResourceGroup,
		Name:          dto.Name,
		APIVersion:    withDefault(dto.APIVersion, domain.DefaultAccountAPIVersion),
		Token:         strings.TrimSpace(l.getenv(tokenEnv)),
	}
}

func registryConfig(dto *RegistryDTO) (domain.RegistryConfig, error) {
	cfg := domain.RegistryConfig{
		URL:          withDefault(dto.URL, domain.DefaultRegistryURL),
		MaxRedirects: domain.DefaultMaxRedirects,
		Timeout:      domain.DefaultRegistryTimeout,
	}
	if dto.MaxRedirects != nil {
		if *dto.MaxRedirects < 1 {
			return cfg, zerr.With(domain.ErrInvalidConfig, "registry.maxRedirects", *dto.MaxRedirects)
		}
		cfg.MaxRedirects = *dto.MaxRedirects
	}
	if dto.Timeout < 0 {
		return cfg, zerr.With(domain.ErrInvalidConfig, "registry.timeout", dto.Timeout.String())
	}
	if dto.Timeout > 0 {
		cfg.Timeout = dto.Timeout
	}
	return cfg, nil
}

func rolloutConfig(dto *RolloutDTO) (domain.RolloutConfig, error) {
	cfg := domain.RolloutConfig{
		Foundation:    withDefault(dto.Foundation, domain.DefaultFoundation),
		Concurrency:   domain.DefaultConcurrency,
		Filter:        domain.NameFilter{Include: dto.Include, Exclude: dto.Exclude},
		Overrides:     make(domain.Overrides, len(dto.Overrides)),
		PollInterval:  domain.DefaultPollInterval,
		SettleDelay:   domain.DefaultSettleDelay,
		CreatedPolicy: domain.CreatedAccept,
	}

	if dto.Concurrency != nil {
		if *dto.Concurrency < 1 {
			return cfg, zerr.With(domain.ErrInvalidConcurrency, "rollout.concurrency", *dto.Concurrency)
		}
		cfg.Concurrency = *dto.Concurrency
	}

	if err := cfg.Filter.Validate(); err != nil {
		return cfg, zerr.With(zerr.Wrap(err, domain.ErrInvalidConfig.Error()), "field", "rollout.include/exclude")
	}

	for name, version := range dto.Overrides {
		name, version = strings.TrimSpace(name), strings.TrimSpace(version)
		if name == "" || version == "" {
			return cfg, zerr.With(domain.ErrInvalidOverride, "override", name+"="+version)
		}
		if _, dup := cfg.Overrides.Version(name); dup {
			return cfg, zerr.With(domain.ErrInvalidOverride, "duplicate", name)
		}
		cfg.Overrides.Set(name, version)
	}

	if dto.PollInterval != nil {
		if *dto.PollInterval <= 0 {
			return cfg, zerr.With(domain.ErrInvalidConfig, "rollout.pollInterval", dto.PollInterval.String())
		}
		cfg.PollInterval = *dto.PollInterval
	}
	if dto.SettleDelay != nil {
		if *dto.SettleDelay < 0 {
			return cfg, zerr.With(domain.ErrInvalidConfig, "rollout.settleDelay", dto.SettleDelay.String())
		}
		cfg.SettleDelay = *dto.SettleDelay
	}

	switch policy := domain.CreatedPolicy(strings.ToLower(dto.CreatedState)); policy {
	case "":
	case domain.CreatedAccept, domain.CreatedReject:
		cfg.CreatedPolicy = policy
	default:
		return cfg, zerr.With(domain.ErrInvalidConfig, "rollout.createdState", dto.CreatedState)
	}
	return cfg, nil
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath comes from the command line or discovery
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

func withDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
