package log

import (
	"io"
	"log/slog"
	"os"
)

// Options configures the process logger
type Options struct {
	Service string
	Env     string
	Version string
	Level   slog.Level
	Writer  io.Writer
}

// New constructs a JSON slog.Logger preconfigured at info level
func New(service, env, version string) *slog.Logger {
	return NewWithLevel(service, env, version, slog.LevelInfo)
}

// NewWithLevel constructs a JSON slog.Logger at the provided level
func NewWithLevel(service, env, version string, lvl slog.Level) *slog.Logger {
	return NewWithOptions(Options{
		Service: service,
		Env:     env,
		Version: version,
		Level:   lvl,
	})
}

// NewWithOptions constructs a JSON slog.Logger from the full option
// set. A nil Writer logs to stdout
func NewWithOptions(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: opts.Level,
	})

	return slog.New(handler).With(
		slog.String("service", opts.Service),
		slog.String("env", opts.Env),
		slog.String("version", opts.Version))
}
