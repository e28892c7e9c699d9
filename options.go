package pivotsplit

import (
	"context"
	"log/slog"

	"github.com/hupe1980/pivotsplit/blobstore"
	"github.com/hupe1980/pivotsplit/internal/fs"
	"github.com/hupe1980/pivotsplit/internal/resource"
)

// Guard serializes publishers of the same target.
// *s3.PublishGuard implements it on DynamoDB.
type Guard interface {
	Claim(ctx context.Context, target string) error
	Release(ctx context.Context, target string) error
}

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	fs               fs.FileSystem
	blobs            blobstore.Store
	guard            Guard
	rc               *resource.Controller
}

// Option configures Run.
type Option func(*options)

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := pivotsplit.NewJSONLogger(slog.LevelInfo)
//	res, _ := pivotsplit.Run(ctx, cfg, pivotsplit.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithFileSystem replaces the local file system used for snapshots and
// artifacts.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithBlobStore publishes artifacts to s instead of the store named by
// Config.PublishURL.
func WithBlobStore(s blobstore.Store) Option {
	return func(o *options) {
		o.blobs = s
	}
}

// WithGuard claims the publish target through g instead of the DynamoDB
// guard named by Config.PublishLockTable.
func WithGuard(g Guard) Option {
	return func(o *options) {
		o.guard = g
	}
}

// WithResourceController shares rc with the run instead of creating one from
// the Config limits.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

func applyOptions(optFns []Option) options {
	o := options{}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.fs == nil {
		o.fs = fs.Default
	}
	return o
}
