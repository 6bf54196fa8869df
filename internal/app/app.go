// Package app implements the application layer for modroll.
package app

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/modroll/internal/adapters/telemetry"
	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/core/ports"
	"go.trai.ch/modroll/internal/engine/catalog"
	"go.trai.ch/modroll/internal/engine/layering"
	"go.trai.ch/modroll/internal/engine/rollout"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	telemetry    ports.Telemetry
	registries   ports.RegistryFactory
	accounts     ports.AccountFactory
	now          func() time.Time
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	tel ports.Telemetry,
	registries ports.RegistryFactory,
	accounts ports.AccountFactory,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		telemetry:    tel,
		registries:   registries,
		accounts:     accounts,
		now:          time.Now,
	}
}

// Summary describes the outcome of a rollout.
type Summary struct {
	Updated     int
	Skipped     int
	Excluded    int
	Duration    time.Duration
	Fingerprint string
}

// env holds the adapters of a single invocation, built from the loaded configuration.
type env struct {
	cfg      *domain.Config
	registry ports.Registry
	account  ports.Account
	catalog  *catalog.Client
}

func (a *App) prepare(opts RunOptions) (*env, error) {
	cfg, err := a.configLoader.Load(opts.ConfigPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if err := opts.apply(cfg); err != nil {
		return nil, err
	}

	registry, err := a.registries.NewRegistry(cfg.Registry)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create registry client")
	}
	account, err := a.accounts.NewAccount(cfg.Account)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create account client")
	}

	return &env{
		cfg:      cfg,
		registry: registry,
		account:  account,
		catalog:  catalog.NewClient(registry, cfg.Rollout.Overrides),
	}, nil
}

// plan lists the managed set and orders it into layers.
func (a *App) plan(ctx context.Context, e *env) (*domain.Plan, error) {
	installed, err := e.account.ListInstalled(ctx, e.cfg.Rollout.Filter)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list installed modules")
	}
	a.logger.Debug("installed modules listed", "count", len(installed))

	plan, err := layering.NewBuilder(e.catalog, a.logger).Build(ctx, installed, e.cfg.Rollout.Foundation)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build rollout plan")
	}
	a.logger.Info("rollout plan built",
		"layers", len(plan.Layers),
		"packages", plan.PackageCount(),
		"outdated", len(plan.Outdated()),
		"excluded", len(plan.Excluded),
		"fingerprint", plan.Fingerprint(),
	)
	return plan, nil
}

// Run updates every outdated module of the account in dependency order.
// Fatal errors are logged, followed by the summary line, and returned joined with
// domain.ErrRolloutFailed.
func (a *App) Run(ctx context.Context, opts RunOptions) (Summary, error) {
	start := a.now()

	e, err := a.prepare(opts)
	if err != nil {
		a.logger.Error(err)
		summary := Summary{Duration: a.now().Sub(start)}
		a.logSummary(summary)
		return summary, errors.Join(domain.ErrRolloutFailed, err)
	}

	s := a.openSession(ctx, e.cfg.LogLevel, a.telemetry, "modroll run")
	summary, err := a.run(s.ctx, e)
	summary.Duration = a.now().Sub(start)
	if err != nil {
		a.logger.Error(err)
	}
	a.logSummary(summary)
	s.close(err)

	if err != nil {
		return summary, errors.Join(domain.ErrRolloutFailed, err)
	}
	return summary, nil
}

func (a *App) logSummary(s Summary) {
	a.logger.Info("rollout finished",
		"updated", s.Updated,
		"skipped", s.Skipped,
		"excluded", s.Excluded,
		"duration", s.Duration.String(),
	)
}

func (a *App) run(ctx context.Context, e *env) (Summary, error) {
	plan, err := a.plan(ctx, e)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Skipped:     plan.PackageCount() - len(plan.Outdated()),
		Excluded:    len(plan.Excluded),
		Fingerprint: plan.Fingerprint(),
	}

	driver := rollout.NewDriver(e.account, e.registry, a.telemetry, a.logger, e.cfg.Rollout)
	summary.Updated, err = driver.Run(ctx, plan, e.cfg.Rollout.Concurrency)
	return summary, err
}

// Plan builds the rollout plan without submitting any install job.
func (a *App) Plan(ctx context.Context, opts RunOptions) (*domain.Plan, error) {
	e, err := a.prepare(opts)
	if err != nil {
		return nil, err
	}

	s := a.openSession(ctx, e.cfg.LogLevel, telemetry.NewNoOp(), "modroll plan")
	plan, err := a.plan(s.ctx, e)
	s.close(err)
	return plan, err
}

// Outdated returns the installed modules whose resolved registry version differs from the
// installed one, in listing order. Registry lookups run concurrently, bounded by the
// configured concurrency.
func (a *App) Outdated(ctx context.Context, opts RunOptions) ([]domain.PackageDescriptor, error) {
	e, err := a.prepare(opts)
	if err != nil {
		return nil, err
	}

	s := a.openSession(ctx, e.cfg.LogLevel, telemetry.NewNoOp(), "modroll outdated")
	out, err := a.outdated(s.ctx, e)
	s.close(err)
	return out, err
}

func (a *App) outdated(ctx context.Context, e *env) ([]domain.PackageDescriptor, error) {
	installed, err := e.account.ListInstalled(ctx, e.cfg.Rollout.Filter)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list installed modules")
	}

	releases := make([]*domain.Release, len(installed))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Rollout.Concurrency)
	for i, pkg := range installed {
		g.Go(func() error {
			release, err := e.catalog.Resolve(gctx, pkg.Name)
			if err != nil {
				return err
			}
			releases[i] = release
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, zerr.Wrap(err, "failed to resolve installed modules")
	}

	var out []domain.PackageDescriptor
	for i, pkg := range installed {
		if releases[i] == nil {
			a.logger.Warn("module not found in registry", "package", pkg.Name)
			continue
		}
		if d := pkg.WithRelease(*releases[i]); !d.UpToDate() {
			out = append(out, d)
		}
	}
	return out, nil
}
