// Package catalog resolves package names to the registry release a rollout installs.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/core/ports"
	"go.trai.ch/zerr"
)

const latestFilter = "IsLatestVersion"

var _ ports.Catalog = (*Client)(nil)

// Client implements ports.Catalog on top of a ports.Registry.
// Lookups are memoised: a package resolves to the same release for the lifetime of the Client.
type Client struct {
	registry  ports.Registry
	overrides domain.Overrides

	mu    sync.Mutex
	cache map[string]*domain.Release
}

// NewClient creates a Client. overrides maps package names to forced versions.
func NewClient(registry ports.Registry, overrides domain.Overrides) *Client {
	return &Client{
		registry:  registry,
		overrides: overrides,
		cache:     make(map[string]*domain.Release),
	}
}

// Resolve returns the release of name the rollout should install.
// Returns nil, nil if the registry has no entry for the name.
func (c *Client) Resolve(ctx context.Context, name string) (*domain.Release, error) {
	key := domain.NameKey(name)

	c.mu.Lock()
	cached, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return cached, nil
	}

	release, err := c.lookup(ctx, name)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[key] = release
	c.mu.Unlock()
	return release, nil
}

func (c *Client) lookup(ctx context.Context, name string) (*domain.Release, error) {
	hits, err := c.registry.Search(ctx, name, c.filterFor(name))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "registry search failed"), "package", name)
	}

	if len(hits) != 1 {
		hits = exactMatches(hits, name)
	}

	switch len(hits) {
	case 0:
		return nil, nil
	case 1:
	default:
		err := zerr.With(domain.ErrAmbiguousCatalogEntry, "package", name)
		return nil, zerr.With(err, "matches", len(hits))
	}

	release, err := c.registry.FetchDetail(ctx, hits[0].DetailURL)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "registry detail fetch failed"), "package", name)
	}
	if release.Name == "" {
		release.Name = name
	}
	return &release, nil
}

// filterFor returns the registry filter: an exact version when overridden, the latest otherwise.
func (c *Client) filterFor(name string) string {
	if version, ok := c.overrides.Version(name); ok && version != "" {
		return fmt.Sprintf("Version eq '%s'", version)
	}
	return latestFilter
}

func exactMatches(hits []domain.SearchHit, name string) []domain.SearchHit {
	var out []domain.SearchHit
	for _, h := range hits {
		if domain.SameName(h.Title, name) {
			out = append(out, h)
		}
	}
	return out
}
