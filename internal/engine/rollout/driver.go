// Package rollout submits the layered install jobs and waits for them in bounded batches.
package rollout

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/core/ports"
	"go.trai.ch/zerr"
)

// Driver walks a plan layer by layer and installs every outdated package.
type Driver struct {
	account     ports.Account
	registry    ports.Registry
	telemetry   ports.Telemetry
	logger      ports.Logger
	poller      *Poller
	settleDelay time.Duration
}

// NewDriver creates a new Driver configured from cfg.
func NewDriver(
	account ports.Account,
	registry ports.Registry,
	telemetry ports.Telemetry,
	logger ports.Logger,
	cfg domain.RolloutConfig,
) *Driver {
	return &Driver{
		account:     account,
		registry:    registry,
		telemetry:   telemetry,
		logger:      logger,
		poller:      NewPoller(account, logger, cfg.PollInterval, cfg.CreatedPolicy),
		settleDelay: cfg.SettleDelay,
	}
}

// batch is the set of jobs submitted but not yet confirmed terminal.
type batch struct {
	jobs     []*domain.InstallJob
	vertices []ports.Vertex
}

func (b *batch) add(job *domain.InstallJob, v ports.Vertex) {
	b.jobs = append(b.jobs, job)
	b.vertices = append(b.vertices, v)
}

func (b *batch) reset() {
	b.jobs = b.jobs[:0]
	b.vertices = b.vertices[:0]
}

// Run installs the outdated packages of plan and returns how many were imported.
//
// At most concurrency jobs are submitted before the driver waits for all of them, and a
// layer is fully drained before the next one starts. The first failure aborts the run;
// the returned count still reflects the packages imported before it.
func (d *Driver) Run(ctx context.Context, plan *domain.Plan, concurrency int) (int, error) {
	if concurrency < 1 {
		return 0, zerr.With(domain.ErrInvalidConcurrency, "concurrency", concurrency)
	}

	updated := 0
	for i, layer := range plan.Layers {
		n, err := d.runLayer(ctx, plan, i, layer, concurrency)
		updated += n
		if err != nil {
			return updated, zerr.With(err, "layer", i)
		}
	}
	return updated, nil
}

func (d *Driver) runLayer(
	ctx context.Context,
	plan *domain.Plan,
	index int,
	layer domain.Layer,
	concurrency int,
) (updated int, err error) {
	ctx, vertex := d.telemetry.Record(ctx, fmt.Sprintf("layer %d", index))
	defer func() { vertex.Complete(err) }()

	var pending batch
	for _, name := range layer {
		pkg, ok := plan.Package(name)
		if !ok {
			d.logger.Warn("package missing from plan, skipping it", "package", name)
			continue
		}

		if pkg.UpToDate() {
			d.skip(ctx, pkg)
			continue
		}

		job, v, err := d.submit(ctx, pkg)
		if err != nil {
			pending.fail(err)
			return updated, err
		}
		pending.add(job, v)

		if len(pending.jobs) >= concurrency {
			n, err := d.drain(ctx, &pending)
			updated += n
			if err != nil {
				return updated, err
			}
		}
	}

	n, err := d.drain(ctx, &pending)
	return updated + n, err
}

func (d *Driver) skip(ctx context.Context, pkg domain.PackageDescriptor) {
	_, v := d.telemetry.Record(ctx, "install "+pkg.Name)
	v.Cached()
	d.logger.Info("module is up to date", "package", pkg.Name, "version", pkg.InstalledVersion)
}

func (d *Driver) submit(ctx context.Context, pkg domain.PackageDescriptor) (*domain.InstallJob, ports.Vertex, error) {
	_, v := d.telemetry.Record(ctx, "install "+pkg.Name)

	contentURL, err := d.registry.ResolveContentLocation(ctx, pkg.Name, pkg.LatestVersion)
	if err != nil {
		err = zerr.With(err, "package", pkg.Name)
		v.Complete(err)
		return nil, nil, err
	}

	handle, err := d.account.SubmitInstall(ctx, pkg.Name, contentURL)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, "failed to submit install job"), "package", pkg.Name)
		v.Complete(err)
		return nil, nil, err
	}

	from := pkg.InstalledVersion
	if from == "" {
		from = "none"
	}
	d.logger.Info("install submitted", "package", pkg.Name, "from", from, "to", pkg.LatestVersion)
	v.Log(domain.LogLevelInfo, fmt.Sprintf("installing %s from %s", pkg.LatestVersion, contentURL))

	return domain.NewInstallJob(pkg, contentURL, handle, time.Now()), v, nil
}

// drain waits for the submissions to settle, then for every job of b to terminate.
// It returns the number of jobs that were imported.
func (d *Driver) drain(ctx context.Context, b *batch) (int, error) {
	if len(b.jobs) == 0 {
		return 0, nil
	}
	defer b.reset()

	d.logger.Debug("waiting for submissions to settle", "jobs", len(b.jobs), "delay", d.settleDelay.String())
	if err := sleep(ctx, d.settleDelay); err != nil {
		b.fail(err)
		return 0, err
	}

	err := d.poller.Await(ctx, b.jobs)

	imported := 0
	for i, job := range b.jobs {
		switch {
		case d.poller.Accepts(job):
			imported++
			b.vertices[i].Complete(nil)
		case job.State.IsTerminal():
			b.vertices[i].Complete(err)
		default:
			// Never observed terminal: the import may still be running in the account.
			unconfirmed := zerr.With(domain.ErrImportUnconfirmed, "package", job.Package)
			b.vertices[i].Complete(zerr.With(unconfirmed, "state", string(job.State)))
		}
	}
	return imported, err
}

// fail completes every vertex of b with err.
func (b *batch) fail(err error) {
	for _, v := range b.vertices {
		v.Complete(err)
	}
	b.reset()
}
