package rollout_test

import (
	"context"
	"io"
	"strings"
	"sync"

	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/core/ports"
	"go.trai.ch/modroll/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakeAccount records submissions and polls and tracks how many jobs await a terminal state.
type fakeAccount struct {
	mu sync.Mutex

	// outcomes holds the states returned by successive polls per package; the last one repeats.
	// Packages without an entry succeed on the first poll.
	outcomes map[string][]domain.JobState

	polls       map[string]int
	inFlight    map[string]struct{}
	maxInFlight int
	events      []string
}

func newFakeAccount(outcomes map[string][]domain.JobState) *fakeAccount {
	if outcomes == nil {
		outcomes = make(map[string][]domain.JobState)
	}
	return &fakeAccount{
		outcomes: outcomes,
		polls:    make(map[string]int),
		inFlight: make(map[string]struct{}),
	}
}

func (a *fakeAccount) ListInstalled(context.Context, domain.NameFilter) ([]domain.PackageDescriptor, error) {
	return nil, nil
}

func (a *fakeAccount) SubmitInstall(_ context.Context, name, _ string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.events = append(a.events, "submit "+name)
	a.inFlight[name] = struct{}{}
	a.maxInFlight = max(a.maxInFlight, len(a.inFlight))
	return "job/" + name, nil
}

func (a *fakeAccount) PollStatus(_ context.Context, handle string) (domain.JobState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	name := strings.TrimPrefix(handle, "job/")
	state := domain.JobStateSucceeded
	if seq := a.outcomes[name]; len(seq) > 0 {
		state = seq[min(a.polls[name], len(seq)-1)]
	}
	a.polls[name]++

	if state.IsTerminal() {
		if _, ok := a.inFlight[name]; ok {
			delete(a.inFlight, name)
			a.events = append(a.events, "done "+name)
		}
	}
	return state, nil
}

func (a *fakeAccount) submitted() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []string
	for _, e := range a.events {
		if name, ok := strings.CutPrefix(e, "submit "); ok {
			out = append(out, name)
		}
	}
	return out
}

var _ ports.Account = (*fakeAccount)(nil)

// quietLogger returns a logger mock that accepts any message.
func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	return logger
}

// quietTelemetry returns a telemetry mock whose vertices accept any call.
func quietTelemetry(ctrl *gomock.Controller) *mocks.MockTelemetry {
	vertex := mocks.NewMockVertex(ctrl)
	vertex.EXPECT().Complete(gomock.Any()).AnyTimes()
	vertex.EXPECT().Cached().AnyTimes()
	vertex.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()

	telemetry := mocks.NewMockTelemetry(ctrl)
	telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ports.ContextWithVertex(ctx, vertex), vertex
		}).AnyTimes()
	return telemetry
}

// recordingTelemetry keeps every vertex by name so tests can inspect how it completed.
type recordingTelemetry struct {
	mu       sync.Mutex
	vertices map[string]*recordingVertex
}

func newRecordingTelemetry() *recordingTelemetry {
	return &recordingTelemetry{vertices: make(map[string]*recordingVertex)}
}

func (r *recordingTelemetry) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := &recordingVertex{}
	r.vertices[name] = v
	return ports.ContextWithVertex(ctx, v), v
}

func (r *recordingTelemetry) Close() error { return nil }

func (r *recordingTelemetry) vertex(name string) *recordingVertex {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.vertices[name]
}

type recordingVertex struct {
	mu        sync.Mutex
	completed bool
	err       error
}

func (v *recordingVertex) Stdout() io.Writer { return io.Discard }

func (v *recordingVertex) Log(domain.LogLevel, string) {}

func (v *recordingVertex) Cached() {}

func (v *recordingVertex) Complete(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.completed = true
	v.err = err
}

func (v *recordingVertex) result() (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.completed, v.err
}

func outdated(name string) domain.PackageDescriptor {
	return domain.PackageDescriptor{Name: name, InstalledVersion: "1.0.0", LatestVersion: "2.0.0"}
}

func current(name string) domain.PackageDescriptor {
	return domain.PackageDescriptor{Name: name, InstalledVersion: "2.0.0", LatestVersion: "2.0.0"}
}

// planOf builds a plan from layers of descriptors.
func planOf(layers ...[]domain.PackageDescriptor) *domain.Plan {
	plan := domain.NewPlan()
	for _, l := range layers {
		var layer domain.Layer
		for _, p := range l {
			layer = append(layer, p.Name)
			plan.Packages[domain.NameKey(p.Name)] = p
		}
		plan.Layers = append(plan.Layers, layer)
	}
	return plan
}
