package pivotsplit

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/pivotsplit/internal/resource"
	"github.com/hupe1980/pivotsplit/traverse"
)

// Logger wraps slog.Logger with pivotsplit-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRun adds a run ID field to the logger.
func (l *Logger) WithRun(id string) *Logger {
	if id == "" {
		return l
	}
	return &Logger{
		Logger: l.Logger.With("run", id),
	}
}

// WithStage adds a stage field to the logger.
func (l *Logger) WithStage(stage Stage) *Logger {
	return &Logger{
		Logger: l.Logger.With("stage", string(stage)),
	}
}

// WithK adds the k-mer length to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// LogLoad logs a store snapshot load.
func (l *Logger) LogLoad(ctx context.Context, path string, entries int64, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"path", path,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot loaded",
			"path", path,
			"entries", humanize.Comma(entries),
			"elapsed", elapsed.Round(time.Millisecond),
		)
	}
}

// LogBuild logs the outcome of component building.
func (l *Logger) LogBuild(ctx context.Context, stats traverse.Stats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build interrupted",
			"components", humanize.Comma(stats.Components),
			"error", err,
		)
		return
	}
	if stats.Components == 0 {
		l.WarnContext(ctx, "no components were extracted",
			"seeds", stats.Seeds,
			"skipped_seeds", stats.SkippedSeeds,
		)
		return
	}
	l.InfoContext(ctx, "components found",
		"components", humanize.Comma(stats.Components),
		"kmers", humanize.Comma(stats.Kmers),
		"elapsed", stats.Elapsed.Round(time.Millisecond),
	)
}

// LogWrite logs an artifact write.
func (l *Logger) LogWrite(ctx context.Context, path string, components int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed",
			"path", path,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "artifact written",
			"path", path,
			"components", humanize.Comma(int64(components)),
		)
	}
}

// LogPublish logs an artifact upload.
func (l *Logger) LogPublish(ctx context.Context, name string, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "publish failed",
			"blob", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "artifact published",
			"blob", name,
			"size", humanize.IBytes(uint64(size)),
		)
	}
}

// LogMemory logs heap usage, peak RSS and the store reservations held by rc.
func (l *Logger) LogMemory(ctx context.Context, rc *resource.Controller) {
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	attrs := []any{
		"heap", humanize.IBytes(ms.HeapAlloc),
		"sys", humanize.IBytes(ms.Sys),
		"reserved", humanize.IBytes(uint64(rc.MemoryUsage())),
		"reserved_peak", humanize.IBytes(uint64(rc.MemoryPeak())),
	}
	if rss, ok := peakRSS(); ok {
		attrs = append(attrs, "peak_rss", humanize.IBytes(uint64(rss)))
	}
	l.DebugContext(ctx, "memory used", attrs...)
}
