package automation

import (
	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/core/ports"
)

// Factory implements ports.AccountFactory.
type Factory struct{}

// NewAccount creates an automation Client for cfg.
func (Factory) NewAccount(cfg domain.AccountConfig) (ports.Account, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}
