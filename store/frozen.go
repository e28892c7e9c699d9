package store

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/pivotsplit/kmer"
)

// frozen assigns every slot of a sharded map a global position.
// Shard n owns positions [off[n], off[n]+cap(n)).
type frozen[V any] struct {
	s   sharded[V]
	off []int64
}

func freeze[V any](s *sharded[V]) frozen[V] {
	off := make([]int64, len(s.shards))
	for i := 1; i < len(s.shards); i++ {
		off[i] = off[i-1] + int64(len(s.shards[i-1].keys))
	}
	f := frozen[V]{s: *s, off: off}
	s.shards = nil
	return f
}

func (f *frozen[V]) thaw() sharded[V] {
	s := f.s
	f.s.shards = nil
	f.off = nil
	return s
}

// Position returns the position of key, or -1 if absent.
func (f *frozen[V]) Position(key kmer.Kmer) int64 {
	n := f.s.index(uint64(key))
	i, ok := f.s.shards[n].find(uint64(key))
	if !ok {
		return -1
	}
	return f.off[n] + int64(i)
}

// MaxPosition returns the largest valid position.
func (f *frozen[V]) MaxPosition() int64 {
	last := len(f.s.shards) - 1
	if last < 0 {
		return -1
	}
	return f.off[last] + int64(len(f.s.shards[last].keys)) - 1
}

func (f *frozen[V]) locate(pos int64) (*table[V], int, bool) {
	if pos < 0 || pos > f.MaxPosition() {
		return nil, 0, false
	}
	n := sort.Search(len(f.off), func(i int) bool { return f.off[i] > pos }) - 1
	return f.s.shards[n], int(pos - f.off[n]), true
}

// ContainsAt reports whether the slot at pos holds an entry.
func (f *frozen[V]) ContainsAt(pos int64) bool {
	t, i, ok := f.locate(pos)
	return ok && t.keys[i] != emptyKey
}

// KeyAt returns the key stored at pos.
func (f *frozen[V]) KeyAt(pos int64) (kmer.Kmer, bool) {
	t, i, ok := f.locate(pos)
	if !ok || t.keys[i] == emptyKey {
		return 0, false
	}
	return kmer.Kmer(t.keys[i]), true
}

// ValueAt returns the value stored at pos.
func (f *frozen[V]) ValueAt(pos int64) (V, bool) {
	t, i, ok := f.locate(pos)
	if !ok || t.keys[i] == emptyKey {
		var zero V
		return zero, false
	}
	return t.vals[i], true
}

// Len returns the number of entries.
func (f *frozen[V]) Len() int64 { return f.s.Len() }

// Frozen is the read-only, position-indexed form of a Map.
type Frozen struct {
	frozen[Value]
}

// Freeze converts m into its position-indexed form. m must not be used
// afterwards; Thaw converts back.
func (m *Map) Freeze() *Frozen {
	return &Frozen{frozen: freeze(&m.sharded)}
}

// Thaw converts f back into a mutable Map. f must not be used afterwards.
func (f *Frozen) Thaw() *Map {
	return &Map{sharded: f.thaw()}
}

// Get returns the value for key, or the zero Value if absent.
func (f *Frozen) Get(key kmer.Kmer) Value {
	v, _ := f.s.lookup(uint64(key))
	return v
}

// Survivors returns the positions of all unvisited entries.
func (f *Frozen) Survivors() *roaring64.Bitmap {
	rb := roaring64.New()
	for n, t := range f.s.shards {
		for i, k := range t.keys {
			if k != emptyKey && t.vals[i].IsUnvisited() {
				rb.Add(uint64(f.off[n] + int64(i)))
			}
		}
	}
	return rb
}

// Compact builds a new Map holding only the unvisited entries of f, sized for
// them. opts override the computed layout.
func (f *Frozen) Compact(opts ...Option) (*Map, error) {
	survivors := f.Survivors()
	m, err := NewForCapacity(int64(survivors.GetCardinality()), opts...)
	if err != nil {
		return nil, err
	}
	it := survivors.Iterator()
	for it.HasNext() {
		pos := int64(it.Next())
		t, i, _ := f.locate(pos)
		if err := m.Put(kmer.Kmer(t.keys[i]), t.vals[i]); err != nil {
			_ = m.Close()
			return nil, err
		}
	}
	return m, nil
}

// FrozenBitSet is the read-only, position-indexed form of a BitSetMap.
type FrozenBitSet struct {
	frozen[*bitset.BitSet]
	bits uint
}

// Freeze converts m into its position-indexed form. m must not be used
// afterwards; Thaw converts back.
func (m *BitSetMap) Freeze() *FrozenBitSet {
	return &FrozenBitSet{frozen: freeze(&m.sharded), bits: m.bits}
}

// Thaw converts f back into a mutable BitSetMap. f must not be used afterwards.
func (f *FrozenBitSet) Thaw() *BitSetMap {
	return &BitSetMap{sharded: f.thaw(), bits: f.bits}
}

// Get returns key's bitset, or nil if absent.
func (f *FrozenBitSet) Get(key kmer.Kmer) *bitset.BitSet {
	b, _ := f.s.lookup(uint64(key))
	return b
}
