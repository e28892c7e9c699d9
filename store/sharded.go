package store

import (
	"iter"

	"github.com/hupe1980/pivotsplit/internal/hash"
	"github.com/hupe1980/pivotsplit/kmer"
)

// sharded is the shard directory shared by Map and BitSetMap.
type sharded[V any] struct {
	shards []*table[V]
	mask   uint64
	acct   account
}

func newSharded[V any](o options, entryBytes int64) (sharded[V], error) {
	s := sharded[V]{
		shards: make([]*table[V], 1<<o.logShards),
		mask:   1<<o.logShards - 1,
		acct:   account{rc: o.rc, entryBytes: entryBytes},
	}
	for i := range s.shards {
		t, err := newTable[V](i, o.logShardCap, o.maxLogShardCap, s.acct)
		if err != nil {
			s.close()
			return sharded[V]{}, err
		}
		s.shards[i] = t
	}
	return s, nil
}

func (s *sharded[V]) index(key uint64) int {
	return int(hash.Mix64(key) & s.mask)
}

func (s *sharded[V]) put(key uint64, v V) error {
	if key == emptyKey {
		return ErrInvalidKey
	}
	n := s.index(key)
	return s.shards[n].put(n, key, v, s.acct)
}

func (s *sharded[V]) lookup(key uint64) (V, bool) {
	return s.shards[s.index(key)].get(key)
}

// Contains reports whether key has an entry (of any value).
func (s *sharded[V]) Contains(key kmer.Kmer) bool {
	_, ok := s.lookup(uint64(key))
	return ok
}

// Len returns the number of entries.
func (s *sharded[V]) Len() int64 {
	var n int64
	for _, t := range s.shards {
		n += int64(t.size)
	}
	return n
}

// Capacity returns the total number of slots.
func (s *sharded[V]) Capacity() int64 {
	var n int64
	for _, t := range s.shards {
		n += int64(len(t.keys))
	}
	return n
}

// Shards returns the number of shards.
func (s *sharded[V]) Shards() int {
	return len(s.shards)
}

// all yields entries shard by shard, in slot order.
func (s *sharded[V]) all() iter.Seq2[kmer.Kmer, V] {
	return func(yield func(kmer.Kmer, V) bool) {
		for _, t := range s.shards {
			for i, k := range t.keys {
				if k == emptyKey {
					continue
				}
				if !yield(kmer.Kmer(k), t.vals[i]) {
					return
				}
			}
		}
	}
}

// close returns every shard's reservation to the resource controller.
func (s *sharded[V]) close() {
	for i, t := range s.shards {
		if t == nil {
			continue
		}
		s.acct.release(len(t.keys))
		s.shards[i] = nil
	}
}
