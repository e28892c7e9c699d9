package store

import (
	"iter"
	"unsafe"

	"github.com/hupe1980/pivotsplit/kmer"
)

var valueEntryBytes = int64(unsafe.Sizeof(uint64(0)) + unsafe.Sizeof(Value(0)))

// Map is a sharded k-mer -> Value map.
type Map struct {
	sharded[Value]
}

// New creates an empty Map.
func New(opts ...Option) (*Map, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	s, err := newSharded[Value](o, valueEntryBytes)
	if err != nil {
		return nil, err
	}
	return &Map{sharded: s}, nil
}

// NewForCapacity creates a Map laid out for roughly capacity entries, with
// 1M-slot shards. opts are applied after the computed layout.
func NewForCapacity(capacity int64, opts ...Option) (*Map, error) {
	return New(append(capacityOptions(capacity), opts...)...)
}

// Get returns the value for key, or the zero Value if absent.
func (m *Map) Get(key kmer.Kmer) Value {
	v, _ := m.lookup(uint64(key))
	return v
}

// Put stores v for key, overwriting any previous value.
func (m *Map) Put(key kmer.Kmer, v Value) error {
	return m.put(uint64(key), v)
}

// Add increments the frequency of an unvisited entry by delta, inserting it
// if absent. The result saturates at MaxFreq.
func (m *Map) Add(key kmer.Kmer, delta int) error {
	cur := m.Get(key)
	return m.Put(key, Unvisited(cur.Freq()+delta))
}

// Visit marks an unvisited entry as visited in place and returns its prior
// value. The second result is false if key was absent or already visited.
func (m *Map) Visit(key kmer.Kmer) (Value, bool) {
	p := m.shards[m.index(uint64(key))].ref(uint64(key))
	if p == nil || !p.IsUnvisited() {
		return 0, false
	}
	prev := *p
	*p = prev.Visit()
	return prev, true
}

// Restore marks a visited entry as unvisited again. It reports whether the
// entry changed.
func (m *Map) Restore(key kmer.Kmer) bool {
	p := m.shards[m.index(uint64(key))].ref(uint64(key))
	if p == nil || !p.IsVisited() {
		return false
	}
	*p = p.Restore()
	return true
}

// All iterates over all entries, shard by shard. Mutating values of existing
// keys during iteration is allowed; inserting keys is not.
func (m *Map) All() iter.Seq2[kmer.Kmer, Value] {
	return m.all()
}

// Counts returns the number of unvisited and visited entries.
func (m *Map) Counts() (unvisited, visited int64) {
	for _, v := range m.all() {
		switch {
		case v.IsUnvisited():
			unvisited++
		case v.IsVisited():
			visited++
		}
	}
	return unvisited, visited
}

// RestoreAll marks every visited entry unvisited.
func (m *Map) RestoreAll() {
	for _, t := range m.shards {
		for i := range t.vals {
			t.vals[i] = t.vals[i].Restore()
		}
	}
}

// Reset removes all entries, keeping the allocated shards.
func (m *Map) Reset() {
	for _, t := range m.shards {
		t.reset()
	}
}

// Close releases the map's memory reservation. The map must not be used afterwards.
func (m *Map) Close() error {
	m.close()
	return nil
}
