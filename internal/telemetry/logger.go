package telemetry

import (
	"log/slog"
	"os"
)

// InitLogger installs the global slog logger: JSON records on stderr with the
// service name attached to every line.
func InitLogger(service string) {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := slog.New(handler).With(slog.String("service", service))
	slog.SetDefault(logger)
}
