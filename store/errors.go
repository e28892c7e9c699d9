package store

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is returned when a shard would have to grow beyond its bound.
	ErrCapacityExceeded = errors.New("store: capacity exceeded")

	// ErrInvalidShardCount is returned when a shard count is not a power of two.
	ErrInvalidShardCount = errors.New("store: shard count is not a power of two")

	// ErrInvalidFormat is returned when a snapshot has an unknown magic, version or compression.
	ErrInvalidFormat = errors.New("store: invalid snapshot format")

	// ErrCorrupted is returned when a snapshot is truncated or fails its checksum.
	ErrCorrupted = errors.New("store: snapshot corrupted")

	// ErrInvalidOption is returned for out-of-range construction options.
	ErrInvalidOption = errors.New("store: invalid option")

	// ErrInvalidKey is returned for keys that collide with the empty-slot sentinel.
	ErrInvalidKey = errors.New("store: invalid key")
)

// CapacityError describes a refused shard growth.
//
// It satisfies errors.Is(err, ErrCapacityExceeded). The original underlying
// error (if any) can be accessed via errors.Unwrap.
type CapacityError struct {
	Shard     int
	LogCap    uint8
	MaxLogCap uint8
	cause     error
}

func (e *CapacityError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("store: cannot grow shard %d beyond 2^%d slots: %v", e.Shard, e.LogCap, e.cause)
	}
	return fmt.Sprintf("store: shard %d reached its bound of 2^%d slots", e.Shard, e.MaxLogCap)
}

func (e *CapacityError) Is(target error) bool { return target == ErrCapacityExceeded }

func (e *CapacityError) Unwrap() error { return e.cause }
