package blobstore

import (
	"bytes"
	"context"
	"io"
	"slices"
	"sync"
)

// MemoryStore keeps artifacts in memory. It is meant for tests.
type MemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{artifacts: make(map[string][]byte)}
}

// Put implements Store. r is drained before the artifact is swapped in.
func (m *MemoryStore) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	var buf bytes.Buffer
	n, err := buf.ReadFrom(r)
	if err != nil {
		return n, err
	}
	if err := ctx.Err(); err != nil {
		return n, err
	}

	m.mu.Lock()
	m.artifacts[name] = buf.Bytes()
	m.mu.Unlock()
	return n, nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, name string) (io.ReadCloser, int64, error) {
	m.mu.RLock()
	data, ok := m.artifacts[name]
	m.mu.RUnlock()
	if !ok {
		return nil, 0, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

// Names returns the stored artifact names in order.
func (m *MemoryStore) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.artifacts))
	for name := range m.artifacts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
