// Package store provides sharded, memory-compact hash maps keyed by k-mers.
//
// The key space is partitioned into 2^m shards by a bit-mixing hash of the
// key. Each shard is an independent open-addressing table with linear probing,
// so no single allocation grows with the total entry count and shards can be
// (re)allocated independently.
//
// # Maps
//
//   - Map associates a k-mer with a tagged Value: an unvisited frequency, a
//     visited frequency, or zero (absent). Visiting is an in-place transition
//     on the stored value, no separate visited set is allocated.
//   - BitSetMap associates a k-mer with a small bitset.
//
// # Capacity
//
// Shards double on demand up to a configured bound. Growing beyond it, or
// beyond the memory budget of the attached resource.Controller, fails with
// ErrCapacityExceeded. Callers are expected to presize:
//
//	m, err := store.NewForCapacity(1_000_000_000, store.WithResource(rc))
//
// # Position Indexing
//
// Freeze converts a map into a read-only view that assigns every slot a dense
// position spanning shard boundaries:
//
//	fz := m.Freeze() // m must not be used afterwards
//	pos := fz.Position(key)
//	key, _ := fz.KeyAt(pos)
//	live := fz.Survivors()
//	m = fz.Thaw()
//
// # Persistence
//
// Save writes a header, the shard count and every shard's entries, optionally
// compressed with LZ4 or Zstandard and protected by a CRC32C checksum. Load
// rejects shard counts that are not a power of two.
//
// # Thread Safety
//
// Maps are not safe for concurrent mutation. Iterating a map while mutating it
// is undefined.
package store
