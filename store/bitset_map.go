package store

import (
	"iter"
	"unsafe"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/pivotsplit/kmer"
)

var bitsetEntryBytes = int64(unsafe.Sizeof(uint64(0)) + unsafe.Sizeof(uintptr(0)))

// BitSetMap is a sharded k-mer -> bitset map, used to tag k-mers with a small
// set of flags (for example the input files a k-mer was observed in).
type BitSetMap struct {
	sharded[*bitset.BitSet]
	bits uint
}

// NewBitSetMap creates an empty BitSetMap whose bitsets are pre-sized to bits.
func NewBitSetMap(bits uint, opts ...Option) (*BitSetMap, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	s, err := newSharded[*bitset.BitSet](o, bitsetEntryBytes)
	if err != nil {
		return nil, err
	}
	return &BitSetMap{sharded: s, bits: bits}, nil
}

// Set sets bit i of key's bitset, inserting an empty bitset first if needed.
func (m *BitSetMap) Set(key kmer.Kmer, i uint) error {
	if b, ok := m.lookup(uint64(key)); ok && b != nil {
		b.Set(i)
		return nil
	}
	b := bitset.New(m.bits)
	b.Set(i)
	return m.put(uint64(key), b)
}

// Test reports whether bit i of key's bitset is set.
func (m *BitSetMap) Test(key kmer.Kmer, i uint) bool {
	b, ok := m.lookup(uint64(key))
	return ok && b != nil && b.Test(i)
}

// Get returns key's bitset, or nil if absent. The bitset is shared with the map.
func (m *BitSetMap) Get(key kmer.Kmer) *bitset.BitSet {
	b, _ := m.lookup(uint64(key))
	return b
}

// GetOrEmpty returns key's bitset, or a fresh empty bitset if absent.
func (m *BitSetMap) GetOrEmpty(key kmer.Kmer) *bitset.BitSet {
	if b := m.Get(key); b != nil {
		return b
	}
	return bitset.New(m.bits)
}

// All iterates over all entries, shard by shard.
func (m *BitSetMap) All() iter.Seq2[kmer.Kmer, *bitset.BitSet] {
	return m.all()
}

// ResetValues clears every bitset, keeping the keys.
func (m *BitSetMap) ResetValues() {
	for _, b := range m.all() {
		if b != nil {
			b.ClearAll()
		}
	}
}

// Reset removes all entries, keeping the allocated shards.
func (m *BitSetMap) Reset() {
	for _, t := range m.shards {
		t.reset()
	}
}

// Close releases the map's memory reservation. The map must not be used afterwards.
func (m *BitSetMap) Close() error {
	m.close()
	return nil
}
