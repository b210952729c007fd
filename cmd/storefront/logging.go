package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jaolave/ml-challenge-frontend/internal/logsink"
)

// fanout duplicates records to every handler, keeping stdout authoritative
// even with blob or OTLP export on.
type fanout struct {
	handlers []slog.Handler
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &fanout{handlers: next}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return &fanout{handlers: next}
}

// setupLogging installs the process-wide logger: JSON on stdout, plus the
// blob sink and the OTLP bridge when configured.
func setupLogging(ctx context.Context, sinkCfg logsink.Config, otelHandler slog.Handler) (func(), error) {
	handlers := []slog.Handler{slog.NewJSONHandler(os.Stdout, nil)}
	closeSink := func() {}

	if sinkCfg.Enabled() {
		sink, err := logsink.New(ctx, sinkCfg)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, sink)
		closeSink = func() {
			if err := sink.Close(); err != nil {
				slog.Error("log sink close error", "error", err)
			}
		}
	}
	if otelHandler != nil {
		handlers = append(handlers, otelHandler)
	}

	if len(handlers) == 1 {
		slog.SetDefault(slog.New(handlers[0]))
	} else {
		slog.SetDefault(slog.New(&fanout{handlers: handlers}))
	}
	return closeSink, nil
}
