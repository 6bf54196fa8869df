package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/modroll/internal/adapters/telemetry"
	"go.trai.ch/modroll/internal/app"
	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/core/ports"
	"go.trai.ch/modroll/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// gallery maps package names to their published release.
var gallery = map[string]domain.Release{
	"Az.Accounts": {Name: "Az.Accounts", Version: "2.0.0"},
	"Az.Storage":  {Name: "Az.Storage", Version: "3.0.0", RawDependencies: "Az.Accounts:[2.0.0, ):"},
	"Az.Compute":  {Name: "Az.Compute", Version: "1.1.0", RawDependencies: "Az.Accounts:[2.0.0, ):"},
}

var installed = []domain.PackageDescriptor{
	{Name: "Az.Accounts", InstalledVersion: "1.0.0"},
	{Name: "Az.Storage", InstalledVersion: "3.0.0"},
	{Name: "Az.Compute", InstalledVersion: "1.0.0"},
	{Name: "Private.Tools", InstalledVersion: "0.1.0"},
}

func newConfig() *domain.Config {
	return &domain.Config{
		Registry: domain.RegistryConfig{URL: "https://gallery.test/api/v2", MaxRedirects: 10},
		Account:  domain.AccountConfig{Name: "automation", Token: "token"},
		Rollout: domain.RolloutConfig{
			Foundation:    "Az.Accounts",
			Concurrency:   2,
			PollInterval:  30 * time.Second,
			SettleDelay:   10 * time.Second,
			CreatedPolicy: domain.CreatedAccept,
		},
		LogLevel: domain.LogLevelInfo,
	}
}

type fixture struct {
	loader   *mocks.MockConfigLoader
	logger   *mocks.MockLogger
	registry *mocks.MockRegistry
	account  *mocks.MockAccount
	app      *app.App
}

func newFixture(t *testing.T, tel ports.Telemetry) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		loader:   mocks.NewMockConfigLoader(ctrl),
		logger:   mocks.NewMockLogger(ctrl),
		registry: mocks.NewMockRegistry(ctrl),
		account:  mocks.NewMockAccount(ctrl),
	}
	registries := mocks.NewMockRegistryFactory(ctrl)
	accounts := mocks.NewMockAccountFactory(ctrl)

	f.loader.EXPECT().Load("").DoAndReturn(func(string) (*domain.Config, error) {
		return newConfig(), nil
	}).AnyTimes()
	registries.EXPECT().NewRegistry(gomock.Any()).Return(f.registry, nil).AnyTimes()
	accounts.EXPECT().NewAccount(gomock.Any()).Return(f.account, nil).AnyTimes()

	f.logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	f.logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()

	f.registry.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, name, _ string) ([]domain.SearchHit, error) {
			if _, ok := gallery[name]; !ok {
				return nil, nil
			}
			return []domain.SearchHit{{Title: name, DetailURL: "detail/" + name}}, nil
		}).AnyTimes()
	f.registry.EXPECT().FetchDetail(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, url string) (domain.Release, error) {
			return gallery[strings.TrimPrefix(url, "detail/")], nil
		}).AnyTimes()
	f.registry.EXPECT().ResolveContentLocation(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, name, version string) (string, error) {
			return "https://cdn.test/" + name + "." + version + ".nupkg", nil
		}).AnyTimes()
	f.account.EXPECT().ListInstalled(gomock.Any(), gomock.Any()).Return(installed, nil).AnyTimes()

	f.app = app.New(f.loader, f.logger, tel, registries, accounts)
	return f
}

// expectSession expects the logger to be raised to level and restored afterwards.
func (f *fixture) expectSession(level domain.LogLevel) {
	gomock.InOrder(
		f.logger.EXPECT().SetLevel(level).Return(domain.LogLevelWarn),
		f.logger.EXPECT().SetLevel(domain.LogLevelWarn).Return(level),
	)
}

// expectInstalls accepts submissions and reports the given terminal state per package.
func (f *fixture) expectInstalls(states map[string]domain.JobState) {
	f.account.EXPECT().SubmitInstall(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, name, _ string) (string, error) {
			return "job/" + name, nil
		}).AnyTimes()
	f.account.EXPECT().PollStatus(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, handle string) (domain.JobState, error) {
			if s, ok := states[strings.TrimPrefix(handle, "job/")]; ok {
				return s, nil
			}
			return domain.JobStateSucceeded, nil
		}).AnyTimes()
}

func TestApp_Run(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, telemetry.NewNoOp())
		f.expectSession(domain.LogLevelInfo)
		f.expectInstalls(nil)

		summary, err := f.app.Run(t.Context(), app.RunOptions{})
		require.NoError(t, err)

		assert.Equal(t, 2, summary.Updated)
		assert.Equal(t, 1, summary.Skipped)
		assert.Equal(t, 1, summary.Excluded)
		assert.Equal(t, 20*time.Second, summary.Duration, "one settle delay per layer")
		assert.NotEmpty(t, summary.Fingerprint)
	})
}

func TestApp_Run_FailureJoinsRolloutFailed(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := newFixture(t, telemetry.NewNoOp())
		f.expectSession(domain.LogLevelInfo)
		f.expectInstalls(map[string]domain.JobState{"Az.Compute": domain.JobStateFailed})
		f.logger.EXPECT().Error(gomock.Any(), gomock.Any())

		summary, err := f.app.Run(t.Context(), app.RunOptions{})
		require.Error(t, err)
		require.ErrorIs(t, err, domain.ErrRolloutFailed)
		assert.ErrorContains(t, err, domain.ErrImportFailed.Error())
		assert.Equal(t, 1, summary.Updated)
		assert.Equal(t, 20*time.Second, summary.Duration)
	})
}

func TestApp_Run_ConfigLoadFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load("missing.yaml").Return(nil, domain.ErrConfigNotFound)
	logger := mocks.NewMockLogger(ctrl)
	gomock.InOrder(
		logger.EXPECT().Error(gomock.Any(), gomock.Any()),
		logger.EXPECT().Info("rollout finished", gomock.Any()),
	)

	a := app.New(loader, logger, telemetry.NewNoOp(),
		mocks.NewMockRegistryFactory(ctrl), mocks.NewMockAccountFactory(ctrl))

	_, err := a.Run(context.Background(), app.RunOptions{ConfigPath: "missing.yaml"})
	require.ErrorIs(t, err, domain.ErrRolloutFailed)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}

func TestApp_Run_AppliesOptions(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		loader := mocks.NewMockConfigLoader(ctrl)
		logger := mocks.NewMockLogger(ctrl)
		registries := mocks.NewMockRegistryFactory(ctrl)
		accounts := mocks.NewMockAccountFactory(ctrl)
		registry := mocks.NewMockRegistry(ctrl)
		account := mocks.NewMockAccount(ctrl)

		cfg := newConfig()
		cfg.Rollout.Overrides = domain.Overrides{"Az.Accounts": "1.0.0"}
		loader.EXPECT().Load("").Return(cfg, nil)
		registries.EXPECT().NewRegistry(gomock.Any()).Return(registry, nil)
		accounts.EXPECT().NewAccount(gomock.Any()).Return(account, nil)
		logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
		logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
		gomock.InOrder(
			logger.EXPECT().SetLevel(domain.LogLevelDebug).Return(domain.LogLevelInfo),
			logger.EXPECT().SetLevel(domain.LogLevelInfo).Return(domain.LogLevelDebug),
		)

		account.EXPECT().ListInstalled(gomock.Any(), domain.NameFilter{Include: []string{"Az.*"}}).
			Return([]domain.PackageDescriptor{{Name: "Az.Accounts", InstalledVersion: "1.0.0"}}, nil)
		registry.EXPECT().Search(gomock.Any(), "Az.Accounts", "Version eq '1.5.0'").
			Return([]domain.SearchHit{{Title: "Az.Accounts", DetailURL: "detail"}}, nil)
		registry.EXPECT().FetchDetail(gomock.Any(), "detail").
			Return(domain.Release{Name: "Az.Accounts", Version: "1.5.0"}, nil)
		registry.EXPECT().ResolveContentLocation(gomock.Any(), "Az.Accounts", "1.5.0").
			Return("https://cdn.test/az.accounts.1.5.0.nupkg", nil)
		account.EXPECT().SubmitInstall(gomock.Any(), "Az.Accounts", "https://cdn.test/az.accounts.1.5.0.nupkg").
			Return("job", nil)
		account.EXPECT().PollStatus(gomock.Any(), "job").Return(domain.JobStateSucceeded, nil)

		a := app.New(loader, logger, telemetry.NewNoOp(), registries, accounts)
		summary, err := a.Run(t.Context(), app.RunOptions{
			Overrides: []string{"az.accounts=1.5.0"},
			Include:   []string{"Az.*"},
			Verbose:   true,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Updated)
		assert.Equal(t, domain.Overrides{"az.accounts": "1.5.0"}, cfg.Rollout.Overrides,
			"the flag replaces the configured override of the same module")
	})
}

func TestApp_Run_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts app.RunOptions
		want error
	}{
		{"Override", app.RunOptions{Overrides: []string{"Az.Accounts"}}, domain.ErrInvalidOverride},
		{"Concurrency", app.RunOptions{Concurrency: -1}, domain.ErrInvalidConcurrency},
		{"Pattern", app.RunOptions{Exclude: []string{"Az.["}}, domain.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			loader := mocks.NewMockConfigLoader(ctrl)
			loader.EXPECT().Load("").Return(newConfig(), nil)
			logger := mocks.NewMockLogger(ctrl)
			logger.EXPECT().Error(gomock.Any(), gomock.Any())
			logger.EXPECT().Info("rollout finished", gomock.Any())

			a := app.New(loader, logger, telemetry.NewNoOp(),
				mocks.NewMockRegistryFactory(ctrl), mocks.NewMockAccountFactory(ctrl))

			_, err := a.Run(context.Background(), tt.opts)
			require.ErrorIs(t, err, domain.ErrRolloutFailed)
			assert.ErrorContains(t, err, tt.want.Error())
		})
	}
}

func TestApp_Run_RecordsSessionVertex(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		tel := mocks.NewMockTelemetry(ctrl)
		runVertex := mocks.NewMockVertex(ctrl)

		tel.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, name string) (context.Context, ports.Vertex) {
				if name == "modroll run" {
					return ports.ContextWithVertex(ctx, runVertex), runVertex
				}
				return ctx, telemetry.NoOpVertex{}
			}).AnyTimes()
		runVertex.EXPECT().Complete(nil)
		tel.EXPECT().Close().Return(nil)

		f := newFixture(t, tel)
		f.expectSession(domain.LogLevelInfo)
		f.expectInstalls(nil)

		_, err := f.app.Run(t.Context(), app.RunOptions{})
		require.NoError(t, err)
	})
}

func TestApp_Plan(t *testing.T) {
	f := newFixture(t, telemetry.NewNoOp())
	f.expectSession(domain.LogLevelInfo)

	plan, err := f.app.Plan(context.Background(), app.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, []domain.Layer{{"Az.Accounts"}, {"Az.Storage", "Az.Compute"}}, plan.Layers)
	assert.Equal(t, []string{"Private.Tools"}, plan.Excluded)

	outdated := plan.Outdated()
	require.Len(t, outdated, 2)
	assert.Equal(t, "Az.Accounts", outdated[0].Name)
	assert.Equal(t, "Az.Compute", outdated[1].Name)
}

func TestApp_Outdated(t *testing.T) {
	f := newFixture(t, telemetry.NewNoOp())
	f.expectSession(domain.LogLevelInfo)

	out, err := f.app.Outdated(context.Background(), app.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, []domain.PackageDescriptor{
		{Name: "Az.Accounts", InstalledVersion: "1.0.0", LatestVersion: "2.0.0"},
		{
			Name:             "Az.Compute",
			InstalledVersion: "1.0.0",
			LatestVersion:    "1.1.0",
			RawDependencies:  "Az.Accounts:[2.0.0, ):",
		},
	}, out)
}

func TestApp_Outdated_RegistryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	registries := mocks.NewMockRegistryFactory(ctrl)
	accounts := mocks.NewMockAccountFactory(ctrl)
	registry := mocks.NewMockRegistry(ctrl)
	account := mocks.NewMockAccount(ctrl)

	loader.EXPECT().Load("").Return(newConfig(), nil)
	registries.EXPECT().NewRegistry(gomock.Any()).Return(registry, nil)
	accounts.EXPECT().NewAccount(gomock.Any()).Return(account, nil)
	logger.EXPECT().SetLevel(gomock.Any()).Return(domain.LogLevelInfo).Times(2)
	account.EXPECT().ListInstalled(gomock.Any(), gomock.Any()).Return(installed, nil)
	registry.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("gallery unavailable")).AnyTimes()

	a := app.New(loader, logger, telemetry.NewNoOp(), registries, accounts)
	_, err := a.Outdated(context.Background(), app.RunOptions{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "gallery unavailable")
}
