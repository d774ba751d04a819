// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package log

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
)

type ctxKey string

const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelDebug

	debug = "debug"
	warn  = "warn"
	info  = "info"
	errL  = "error"

	formatText = "text"
)

type contextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the context-aware behavior on derived handlers.
func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the context-aware behavior on derived handlers.
func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx adds an slog attribute to the provided context so that it will be
// included in any Record created with such context
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		// copy so sibling contexts never share a backing array
		attrs := make([]slog.Attr, 0, len(v)+1)
		attrs = append(attrs, v...)
		attrs = append(attrs, attr)
		return context.WithValue(parent, slogFields, attrs)
	}

	return context.WithValue(parent, slogFields, []slog.Attr{attr})
}

// NewHandler builds the context-aware handler used by every binary.
// format is "json" (default) or "text".
func NewHandler(w io.Writer, format string, opts *slog.HandlerOptions) slog.Handler {
	if format == formatText {
		return contextHandler{slog.NewTextHandler(w, opts)}
	}
	return contextHandler{slog.NewJSONHandler(w, opts)}
}

// Config is the logging setup read from the environment.
type Config struct {
	Level     slog.Level
	AddSource bool
	Format    string
}

// configFromEnv reads LOG_LEVEL, LOG_ADD_SOURCE and LOG_FORMAT. Unknown
// levels fall back to debug; LOG_ADD_SOURCE must be exactly "true" to apply.
func configFromEnv(getenv func(string) string) Config {
	config := Config{
		Level:     logLevelDefault,
		AddSource: getenv("LOG_ADD_SOURCE") == "true",
		Format:    getenv("LOG_FORMAT"),
	}

	switch getenv("LOG_LEVEL") {
	case debug:
		config.Level = slog.LevelDebug
	case info:
		config.Level = slog.LevelInfo
	case warn:
		config.Level = slog.LevelWarn
	case errL:
		config.Level = slog.LevelError
	}
	return config
}

// InitStructureLogConfig sets the structured log behavior
func InitStructureLogConfig() {
	config := configFromEnv(os.Getenv)

	log.SetFlags(log.Llongfile)
	slog.SetDefault(slog.New(NewHandler(os.Stdout, config.Format, &slog.HandlerOptions{
		Level:     config.Level,
		AddSource: config.AddSource,
	})))

	slog.Debug("log config",
		"level", config.Level.String(),
		"add_source", config.AddSource,
		"format", config.Format,
	)
}
