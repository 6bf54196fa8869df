package app

import (
	"context"

	"go.trai.ch/modroll/internal/core/domain"
	"go.trai.ch/modroll/internal/core/ports"
)

// session is the verbosity and telemetry scope of one invocation.
// It raises the logger to the configured level and restores the previous level on close.
type session struct {
	ctx       context.Context
	logger    ports.Logger
	previous  domain.LogLevel
	telemetry ports.Telemetry
	vertex    ports.Vertex
}

func (a *App) openSession(ctx context.Context, level domain.LogLevel, tel ports.Telemetry, name string) *session {
	previous := a.logger.SetLevel(level)
	ctx, vertex := tel.Record(ctx, name)
	return &session{
		ctx:       ctx,
		logger:    a.logger,
		previous:  previous,
		telemetry: tel,
		vertex:    vertex,
	}
}

// close completes the session vertex with err and releases the session.
func (s *session) close(err error) {
	s.vertex.Complete(err)
	if cerr := s.telemetry.Close(); cerr != nil {
		s.logger.Warn("failed to close telemetry", "error", cerr.Error())
	}
	s.logger.SetLevel(s.previous)
}
