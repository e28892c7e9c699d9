package store

import (
	"github.com/hupe1980/pivotsplit/internal/hash"
	"github.com/hupe1980/pivotsplit/internal/resource"
)

// emptyKey marks a free slot. K-mers use at most 62 bits and never collide with it.
const emptyKey = ^uint64(0)

// Tables grow once they are more than 3/4 full.
const (
	maxLoadNum = 3
	maxLoadDen = 4
)

// account charges slot allocations to a resource controller.
type account struct {
	rc         *resource.Controller
	entryBytes int64
}

func (a account) acquire(slots int) error {
	return a.rc.AcquireMemory(int64(slots) * a.entryBytes)
}

func (a account) release(slots int) {
	a.rc.ReleaseMemory(int64(slots) * a.entryBytes)
}

// table is a single open-addressing shard with linear probing.
type table[V any] struct {
	keys      []uint64
	vals      []V
	size      int
	logCap    uint8
	maxLogCap uint8
}

func newTable[V any](id int, logCap, maxLogCap uint8, acct account) (*table[V], error) {
	slots := 1 << logCap
	if err := acct.acquire(slots); err != nil {
		return nil, &CapacityError{Shard: id, LogCap: logCap, MaxLogCap: maxLogCap, cause: err}
	}
	return &table[V]{
		keys:      newKeys(slots),
		vals:      make([]V, slots),
		logCap:    logCap,
		maxLogCap: maxLogCap,
	}, nil
}

func newKeys(slots int) []uint64 {
	keys := make([]uint64, slots)
	for i := range keys {
		keys[i] = emptyKey
	}
	return keys
}

// find returns the slot holding key, or the free slot where it would go.
func (t *table[V]) find(key uint64) (int, bool) {
	mask := len(t.keys) - 1
	i := int(hash.Mix64(key)>>(64-t.logCap)) & mask
	for {
		switch t.keys[i] {
		case key:
			return i, true
		case emptyKey:
			return i, false
		}
		i = (i + 1) & mask
	}
}

func (t *table[V]) get(key uint64) (V, bool) {
	i, ok := t.find(key)
	if !ok {
		var zero V
		return zero, false
	}
	return t.vals[i], true
}

// ref returns a pointer to the stored value, or nil if key is absent.
// The pointer is invalidated by the next insertion.
func (t *table[V]) ref(key uint64) *V {
	i, ok := t.find(key)
	if !ok {
		return nil
	}
	return &t.vals[i]
}

func (t *table[V]) put(id int, key uint64, v V, acct account) error {
	i, ok := t.find(key)
	if ok {
		t.vals[i] = v
		return nil
	}
	if (t.size+1)*maxLoadDen > len(t.keys)*maxLoadNum {
		if err := t.grow(id, acct); err != nil {
			return err
		}
		i, _ = t.find(key)
	}
	t.keys[i] = key
	t.vals[i] = v
	t.size++
	return nil
}

func (t *table[V]) grow(id int, acct account) error {
	if t.logCap >= t.maxLogCap {
		return &CapacityError{Shard: id, LogCap: t.logCap, MaxLogCap: t.maxLogCap}
	}
	oldKeys, oldVals := t.keys, t.vals
	newLog := t.logCap + 1
	if err := acct.acquire(1 << newLog); err != nil {
		return &CapacityError{Shard: id, LogCap: t.logCap, MaxLogCap: t.maxLogCap, cause: err}
	}

	t.keys = newKeys(1 << newLog)
	t.vals = make([]V, 1<<newLog)
	t.logCap = newLog
	for j, k := range oldKeys {
		if k == emptyKey {
			continue
		}
		i, _ := t.find(k)
		t.keys[i] = k
		t.vals[i] = oldVals[j]
	}
	acct.release(len(oldKeys))
	return nil
}

func (t *table[V]) reset() {
	for i := range t.keys {
		t.keys[i] = emptyKey
	}
	clear(t.vals)
	t.size = 0
}
