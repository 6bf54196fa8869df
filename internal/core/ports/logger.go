package ports

import "go.trai.ch/modroll/internal/core/domain"

// Logger defines the interface for structured logging.
// args are alternating key/value pairs, as in log/slog.
//
//go:generate go run go.uber.org/mock/mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(err error, args ...any)

	// SetLevel changes the minimum level logged and returns the previous one.
	SetLevel(level domain.LogLevel) domain.LogLevel
}
