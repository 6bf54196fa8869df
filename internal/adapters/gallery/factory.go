package gallery

import (
	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/core/ports"
)

// Factory implements ports.RegistryFactory.
type Factory struct{}

// NewRegistry creates a gallery Client for cfg.
func (Factory) NewRegistry(cfg domain.RegistryConfig) (ports.Registry, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}
