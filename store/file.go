package store

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hupe1980/pivotsplit/internal/fs"
)

// SaveFile atomically writes m to path.
func (m *Map) SaveFile(path string, opts ...SaveOption) error {
	return fs.WriteFileAtomic(fs.Default, path, func(w io.Writer) error {
		return m.Save(w, opts...)
	})
}

// LoadFile reads a Map snapshot from path.
func LoadFile(path string, opts ...Option) (*Map, error) {
	var m *Map
	err := readFile(fileSystem(opts), path, func(r io.Reader) (err error) {
		m, err = Load(r, opts...)
		return err
	})
	return m, err
}

// SaveFile atomically writes m to path.
func (m *BitSetMap) SaveFile(path string, opts ...SaveOption) error {
	return fs.WriteFileAtomic(fs.Default, path, func(w io.Writer) error {
		return m.Save(w, opts...)
	})
}

// LoadBitSetMapFile reads a BitSetMap snapshot from path.
func LoadBitSetMapFile(path string, opts ...Option) (*BitSetMap, error) {
	var m *BitSetMap
	err := readFile(fileSystem(opts), path, func(r io.Reader) (err error) {
		m, err = LoadBitSetMap(r, opts...)
		return err
	})
	return m, err
}

func fileSystem(opts []Option) fs.FileSystem {
	o := options{fs: fs.Default}
	for _, fn := range opts {
		fn(&o)
	}
	if o.fs == nil {
		return fs.Default
	}
	return o.fs
}

func readFile(fsys fs.FileSystem, path string, fn func(io.Reader) error) error {
	f, err := fsys.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := fn(bufio.NewReaderSize(f, 1<<20)); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
