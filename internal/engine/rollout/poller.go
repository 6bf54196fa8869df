package rollout

import (
	"context"
	"time"

	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/core/ports"
	"go.trai.ch/zerr"
)

// Poller waits for submitted install jobs to reach a terminal state.
type Poller struct {
	account  ports.Account
	logger   ports.Logger
	interval time.Duration
	policy   domain.CreatedPolicy
}

// NewPoller creates a new Poller that re-polls unfinished jobs every interval.
func NewPoller(
	account ports.Account,
	logger ports.Logger,
	interval time.Duration,
	policy domain.CreatedPolicy,
) *Poller {
	return &Poller{
		account:  account,
		logger:   logger,
		interval: interval,
		policy:   policy,
	}
}

// Await blocks until every job is terminal, polling them one after the other.
// It returns ErrImportFailed for the first job whose terminal state is not accepted,
// without looking at the jobs after it. There is no timeout: a job that never
// finishes blocks until ctx is cancelled.
func (p *Poller) Await(ctx context.Context, jobs []*domain.InstallJob) error {
	for _, job := range jobs {
		if err := p.await(ctx, job); err != nil {
			return err
		}
	}
	return nil
}

// Accepts reports whether job ended in a state counted as imported.
func (p *Poller) Accepts(job *domain.InstallJob) bool {
	return p.policy.Accepts(job.State)
}

func (p *Poller) await(ctx context.Context, job *domain.InstallJob) error {
	for {
		state, err := p.account.PollStatus(ctx, job.Handle)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to poll install job"), "package", job.Package)
		}
		job.State = state
		if state.IsTerminal() {
			break
		}

		p.logger.Debug("install job still running", "package", job.Package, "state", string(state))
		if err := sleep(ctx, p.interval); err != nil {
			return err
		}
	}

	if !p.Accepts(job) {
		err := zerr.With(domain.ErrImportFailed, "package", job.Package)
		return zerr.With(err, "state", string(job.State))
	}
	if job.State == domain.JobStateCreated {
		p.logger.Warn("install job ended without an import result, treating it as imported", "package", job.Package)
	}

	p.logger.Info("module imported",
		"package", job.Package,
		"version", job.Version,
		"elapsed", time.Since(job.SubmittedAt).Round(time.Second).String(),
	)
	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
