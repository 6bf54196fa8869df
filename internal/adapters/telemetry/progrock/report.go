package progrock

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/vito/progrock"
	"go.trai.ch/modroll/internal/ui/style"
)

const (
	statusRunning   = "running"
	statusCompleted = "completed"
	statusFailed    = "failed"
	statusCached    = "cached"
)

// VertexState is the latest known state of a recorded vertex.
type VertexState struct {
	ID       string
	Name     string
	Status   string
	Error    string
	Duration time.Duration
}

// Report is a progrock.Writer that tracks the state of every vertex and renders a
// summary of the run when closed.
type Report struct {
	out io.Writer

	mu       sync.Mutex
	vertices []VertexState
	closed   bool
}

// NewReport creates a Report that renders to out. A nil out renders nothing.
func NewReport(out io.Writer) *Report {
	return &Report{out: out}
}

// WriteStatus processes a status update from the recorder.
func (r *Report) WriteStatus(update *progrock.StatusUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range update.Vertexes {
		r.updateOrAddVertex(v)
	}
	return nil
}

// updateOrAddVertex updates an existing vertex or adds a new one.
func (r *Report) updateOrAddVertex(v *progrock.Vertex) {
	for i := range r.vertices {
		if r.vertices[i].ID == v.Id {
			r.vertices[i] = stateOf(v)
			return
		}
	}
	r.vertices = append(r.vertices, stateOf(v))
}

func stateOf(v *progrock.Vertex) VertexState {
	s := VertexState{ID: v.Id, Name: v.Name, Status: statusRunning}
	switch {
	case v.Cached:
		s.Status = statusCached
	case v.Completed != nil && v.Error != nil:
		s.Status = statusFailed
		s.Error = *v.Error
	case v.Completed != nil:
		s.Status = statusCompleted
	}
	if v.Started != nil && v.Completed != nil {
		s.Duration = v.Completed.AsTime().Sub(v.Started.AsTime())
	}
	return s
}

// Vertices returns a snapshot of the recorded vertices in recording order.
func (r *Report) Vertices() []VertexState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]VertexState(nil), r.vertices...)
}

// Render formats the recorded vertices, one per line.
func (r *Report) Render() string {
	var s strings.Builder
	for _, v := range r.Vertices() {
		var icon string
		switch v.Status {
		case statusCompleted:
			icon = style.Success.Render(style.Check)
		case statusFailed:
			icon = style.Failure.Render(style.Cross)
		case statusCached:
			icon = style.Muted.Render(style.Circle)
		default:
			icon = style.Pending.Render(style.Dot)
		}

		line := fmt.Sprintf("%s %s", icon, v.Name)
		if v.Duration > 0 {
			line += " " + style.Muted.Render(v.Duration.Round(time.Second).String())
		}
		if v.Error != "" {
			line += " " + style.Failure.Render(v.Error)
		}
		s.WriteString(line + "\n")
	}
	return s.String()
}

// Close renders the report once.
func (r *Report) Close() error {
	r.mu.Lock()
	if r.closed || r.out == nil || len(r.vertices) == 0 {
		r.closed = true
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	_, err := io.WriteString(r.out, r.Render())
	return err
}
