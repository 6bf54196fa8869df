package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/modroll/internal/adapters/telemetry"
	"go.trai.ch/modroll/internal/app"
	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newComponents(ctrl *gomock.Controller, loader *mocks.MockConfigLoader, logger *mocks.MockLogger) *app.Components {
	application := app.New(
		loader,
		logger,
		telemetry.NewNoOp(),
		mocks.NewMockRegistryFactory(ctrl),
		mocks.NewMockAccountFactory(ctrl),
	)
	return &app.Components{App: application, Logger: logger}
}

// TestRun_Success verifies that run returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	components := newComponents(ctrl, mocks.NewMockConfigLoader(ctrl), mocks.NewMockLogger(ctrl))

	provider := func(_ context.Context) (*app.Components, error) {
		return components, nil
	}

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provider)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "modroll version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, error) {
		return nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_RolloutFailure verifies that a failed rollout exits 1 without logging the error twice.
func TestRun_RolloutFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	loader.EXPECT().Load("").Return(nil, domain.ErrConfigNotFound)
	logger.EXPECT().Error(gomock.Any(), gomock.Any()).Times(1)
	logger.EXPECT().Info("rollout finished", gomock.Any()).Times(1)

	components := newComponents(ctrl, loader, logger)
	provider := func(_ context.Context) (*app.Components, error) {
		return components, nil
	}

	exitCode := run(context.Background(), []string{"run"}, new(bytes.Buffer), new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}

// TestRun_CommandError verifies that other command failures are logged and exit 1.
func TestRun_CommandError(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)

	loader.EXPECT().Load("custom.yaml").Return(nil, domain.ErrConfigNotFound)
	logger.EXPECT().Error(gomock.Any(), gomock.Any()).Times(1)

	components := newComponents(ctrl, loader, logger)
	provider := func(_ context.Context) (*app.Components, error) {
		return components, nil
	}

	exitCode := run(context.Background(), []string{"plan", "-c", "custom.yaml"}, new(bytes.Buffer), new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}
