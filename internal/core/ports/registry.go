package ports

import (
	"context"

	"go.trai.ch/modroll/internal/core/domain"
)

// Registry is the remote package gallery.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type Registry interface {
	// Search looks packages up by name. filter is a registry filter expression such as
	// "IsLatestVersion" or "Version eq '1.2.3'".
	Search(ctx context.Context, name, filter string) ([]domain.SearchHit, error)

	// FetchDetail retrieves the authoritative release record behind a search hit.
	FetchDetail(ctx context.Context, detailURL string) (domain.Release, error)

	// ResolveContentLocation returns the archive URL for the given package version.
	// An empty version resolves the latest archive.
	ResolveContentLocation(ctx context.Context, name, version string) (string, error)
}
