package store

import (
	"fmt"

	"github.com/hupe1980/pivotsplit/internal/fs"
	"github.com/hupe1980/pivotsplit/internal/resource"
)

const (
	defaultLogShards      = 4
	defaultLogShardCap    = 10
	defaultMaxLogShardCap = 30

	// maxLogShards bounds the shard directory to 2^30 tables.
	maxLogShards = 30
	// maxLogShardCap bounds a single table to 2^40 slots.
	maxLogShardCap = 40

	// presizeLogShardCap is the per-shard size picked by NewForCapacity
	// (1M slots per table).
	presizeLogShardCap = 20
)

type options struct {
	logShards      uint8
	logShardCap    uint8
	maxLogShardCap uint8
	rc             *resource.Controller
	fs             fs.FileSystem
}

// Option configures map construction and loading.
type Option func(*options)

// WithLogShards sets the number of shards to 2^n.
func WithLogShards(n int) Option {
	return func(o *options) {
		o.logShards = uint8(n)
	}
}

// WithLogShardCapacity sets the initial slot count of every shard to 2^n.
func WithLogShardCapacity(n int) Option {
	return func(o *options) {
		o.logShardCap = uint8(n)
	}
}

// WithMaxLogShardCapacity bounds shard growth to 2^n slots.
func WithMaxLogShardCapacity(n int) Option {
	return func(o *options) {
		o.maxLogShardCap = uint8(n)
	}
}

// WithResource charges shard allocations to rc's memory budget.
func WithResource(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithFileSystem sets the file system used by LoadFile and
// LoadBitSetMapFile. Defaults to the local disk.
func WithFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

func applyOptions(opts []Option) (options, error) {
	o := options{
		logShards:      defaultLogShards,
		logShardCap:    defaultLogShardCap,
		maxLogShardCap: defaultMaxLogShardCap,
		fs:             fs.Default,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.fs == nil {
		o.fs = fs.Default
	}

	if o.logShards > maxLogShards {
		return o, fmt.Errorf("%w: log shard count %d > %d", ErrInvalidOption, o.logShards, maxLogShards)
	}
	if o.maxLogShardCap > maxLogShardCap {
		return o, fmt.Errorf("%w: max log shard capacity %d > %d", ErrInvalidOption, o.maxLogShardCap, maxLogShardCap)
	}
	if o.logShardCap < 1 {
		o.logShardCap = 1
	}
	if o.logShardCap > o.maxLogShardCap {
		return o, fmt.Errorf("%w: log shard capacity %d > bound %d", ErrInvalidOption, o.logShardCap, o.maxLogShardCap)
	}
	return o, nil
}

// capacityOptions returns the shard layout for roughly capacity entries.
func capacityOptions(capacity int64) []Option {
	perShard := int64(1) << presizeLogShardCap * maxLoadNum / maxLoadDen
	shards := (capacity + perShard - 1) / perShard

	logShards := 0
	for int64(1)<<logShards < shards && logShards < maxLogShards {
		logShards++
	}
	return []Option{
		WithLogShards(logShards),
		WithLogShardCapacity(presizeLogShardCap),
	}
}
