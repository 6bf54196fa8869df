// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/modroll/internal/core/domain"
)

// Account is the managed automation account whose modules are updated.
//
//go:generate go run go.uber.org/mock/mockgen -source=account.go -destination=mocks/mock_account.go -package=mocks
type Account interface {
	// ListInstalled returns the installed modules selected by filter.
	// Only Name and InstalledVersion are populated.
	ListInstalled(ctx context.Context, filter domain.NameFilter) ([]domain.PackageDescriptor, error)

	// SubmitInstall starts an asynchronous import of the module archive at contentURL.
	// It returns a handle that identifies the job for PollStatus.
	SubmitInstall(ctx context.Context, name, contentURL string) (handle string, err error)

	// PollStatus returns the current state of the job identified by handle.
	PollStatus(ctx context.Context, handle string) (domain.JobState, error)
}
