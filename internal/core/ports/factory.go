package ports

import "go.trai.ch/modroll/internal/core/domain"

// RegistryFactory builds a Registry from configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=factory.go -destination=mocks/mock_factory.go -package=mocks
type RegistryFactory interface {
	NewRegistry(cfg domain.RegistryConfig) (Registry, error)
}

// AccountFactory builds an Account from configuration.
type AccountFactory interface {
	NewAccount(cfg domain.AccountConfig) (Account, error)
}
