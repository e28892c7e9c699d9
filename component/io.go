package component

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/hupe1980/pivotsplit/internal/fs"
	"github.com/hupe1980/pivotsplit/kmer"
)

// maxPrealloc bounds slice preallocation driven by untrusted size fields.
const maxPrealloc = 1 << 20

// Save writes comps to w in the binary components format, in the given order.
func Save(w io.Writer, comps []*Component) error {
	if len(comps) > math.MaxInt32 {
		return fmt.Errorf("too many components: %d", len(comps))
	}
	bw := bufio.NewWriterSize(w, 1<<16)
	var buf [8]byte

	binary.BigEndian.PutUint32(buf[:4], uint32(len(comps)))
	if _, err := bw.Write(buf[:4]); err != nil {
		return err
	}

	for _, c := range comps {
		if int64(len(c.Kmers)) != c.Size {
			return fmt.Errorf("component has size %d but %d k-mers", c.Size, len(c.Kmers))
		}
		if c.Size > math.MaxInt32 {
			return fmt.Errorf("component too large: %d k-mers", c.Size)
		}
		binary.BigEndian.PutUint32(buf[:4], uint32(c.Size))
		if _, err := bw.Write(buf[:4]); err != nil {
			return err
		}
		binary.BigEndian.PutUint64(buf[:8], uint64(c.Weight))
		if _, err := bw.Write(buf[:8]); err != nil {
			return err
		}
		for _, km := range c.Kmers {
			binary.BigEndian.PutUint64(buf[:8], uint64(km))
			if _, err := bw.Write(buf[:8]); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// SaveFile atomically writes comps to path.
func SaveFile(fsys fs.FileSystem, path string, comps []*Component) error {
	return fs.WriteFileAtomic(fsys, path, func(w io.Writer) error {
		return Save(w, comps)
	})
}

// WriteStatsFile atomically writes the statistics table to path.
func WriteStatsFile(fsys fs.FileSystem, path string, comps []*Component) error {
	return fs.WriteFileAtomic(fsys, path, func(w io.Writer) error {
		return WriteStats(w, comps)
	})
}

// Load reads components written by Save. Components are numbered from 1.
func Load(r io.Reader) ([]*Component, error) {
	comps, err := load(bufio.NewReaderSize(r, 1<<16))
	if err != nil {
		return nil, classify("", err)
	}
	return comps, nil
}

// LoadFile reads a components file. Errors match ErrNotFound, ErrCorrupted
// or ErrUnknownIO.
func LoadFile(fsys fs.FileSystem, path string) ([]*Component, error) {
	if fsys == nil {
		fsys = fs.Default
	}
	f, err := fsys.Open(path)
	if err != nil {
		return nil, classify(path, err)
	}
	defer f.Close()

	comps, err := load(bufio.NewReaderSize(f, 1<<20))
	if err != nil {
		return nil, classify(path, err)
	}
	return comps, nil
}

var errMalformed = errors.New("malformed size field")

func load(r io.Reader) ([]*Component, error) {
	var buf [8]byte

	if _, err := io.ReadFull(r, buf[:4]); err != nil {
		return nil, err
	}
	count := int32(binary.BigEndian.Uint32(buf[:4]))
	if count < 0 {
		return nil, fmt.Errorf("%w: count %d", errMalformed, count)
	}

	comps := make([]*Component, 0, min(int(count), maxPrealloc))
	for i := range int(count) {
		if _, err := io.ReadFull(r, buf[:4]); err != nil {
			return nil, err
		}
		size := int32(binary.BigEndian.Uint32(buf[:4]))
		if size < 0 {
			return nil, fmt.Errorf("%w: component %d has size %d", errMalformed, i+1, size)
		}
		if _, err := io.ReadFull(r, buf[:8]); err != nil {
			return nil, err
		}

		c := &Component{
			Kmers:  make([]kmer.Kmer, 0, min(int(size), maxPrealloc)),
			Size:   int64(size),
			Weight: int64(binary.BigEndian.Uint64(buf[:8])),
			No:     i + 1,
		}
		for range int(size) {
			if _, err := io.ReadFull(r, buf[:8]); err != nil {
				return nil, err
			}
			c.Kmers = append(c.Kmers, kmer.Kmer(binary.BigEndian.Uint64(buf[:8])))
		}
		comps = append(comps, c)
	}
	return comps, nil
}

func classify(path string, err error) error {
	kind := ErrUnknownIO
	switch {
	case errors.Is(err, os.ErrNotExist):
		kind = ErrNotFound
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, errMalformed):
		kind = ErrCorrupted
	}
	return &LoadError{Path: path, Kind: kind, cause: err}
}
