package blobstore

import (
	"context"
	"io"
	"path/filepath"

	"github.com/hupe1980/pivotsplit/internal/fs"
)

// LocalStore publishes artifacts into a directory. Slashes in artifact names
// become subdirectories.
type LocalStore struct {
	root string
	fs   fs.FileSystem
}

// NewLocalStore returns a LocalStore rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return NewLocalStoreFS(fs.Default, dir)
}

// NewLocalStoreFS is like NewLocalStore on top of fsys.
func NewLocalStoreFS(fsys fs.FileSystem, dir string) *LocalStore {
	if fsys == nil {
		fsys = fs.Default
	}
	return &LocalStore{root: dir, fs: fsys}
}

// Root returns the store's directory.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Put implements Store with a temp file renamed into place.
func (s *LocalStore) Put(ctx context.Context, name string, r io.Reader) (int64, error) {
	var n int64
	err := fs.WriteFileAtomic(s.fs, s.path(name), func(w io.Writer) error {
		var err error
		n, err = io.Copy(w, r)
		if err != nil {
			return err
		}
		return ctx.Err()
	})
	return n, err
}

// Get implements Store.
func (s *LocalStore) Get(_ context.Context, name string) (io.ReadCloser, int64, error) {
	f, err := s.fs.Open(s.path(name))
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}
