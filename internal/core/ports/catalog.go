package ports

import (
	"context"

	"go.trai.ch/modroll/internal/core/domain"
)

// Catalog resolves package names to the release the rollout should install.
//
//go:generate go run go.uber.org/mock/mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type Catalog interface {
	// Resolve returns the latest (or override-forced) release of name.
	// Returns nil, nil if the registry does not know the package.
	Resolve(ctx context.Context, name string) (*domain.Release, error)
}
