package component

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pivotsplit/internal/fs"
	"github.com/hupe1980/pivotsplit/kmer"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	a := New(0)
	a.Add(kmer.MustParse("AAA"), 5, 1, 0)
	a.Add(kmer.MustParse("AAC"), 3, 0, 1)
	b := New(0)
	b.Add(kmer.MustParse("GGT"), 7, 1, 0)
	empty := New(0)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, []*Component{a, b, empty}))

	got, err := Load(&buf)
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, want := range []*Component{a, b, empty} {
		assert.Equal(t, want.Size, got[i].Size)
		assert.Equal(t, want.Weight, got[i].Weight)
		assert.Equal(t, want.Kmers, got[i].Kmers)
		assert.Zero(t, got[i].PivotCnt)
		assert.Zero(t, got[i].Pivot2Cnt)
		assert.Equal(t, i+1, got[i].No)
	}
}

func TestSave_Layout(t *testing.T) {
	c := New(0)
	c.Add(kmer.Kmer(0x0102), 9, 1, 0)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, []*Component{c}))

	want := []byte{
		0, 0, 0, 1, // count
		0, 0, 0, 1, // size
		0, 0, 0, 0, 0, 0, 0, 9, // weight
		0, 0, 0, 0, 0, 0, 1, 2, // kmer
	}
	assert.Equal(t, want, buf.Bytes())
}

func TestSave_SizeMismatch(t *testing.T) {
	c := New(0)
	c.Size = 2
	assert.Error(t, Save(io.Discard, []*Component{c}))
}

func TestLoad_Errors(t *testing.T) {
	c := New(0)
	c.Add(kmer.Kmer(1), 1, 0, 0)
	c.Add(kmer.Kmer(2), 1, 0, 0)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, []*Component{c}))
	data := buf.Bytes()

	t.Run("truncated", func(t *testing.T) {
		_, err := Load(bytes.NewReader(data[:len(data)-3]))
		assert.ErrorIs(t, err, ErrCorrupted)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Load(bytes.NewReader(nil))
		assert.ErrorIs(t, err, ErrCorrupted)
	})

	t.Run("negative size", func(t *testing.T) {
		bad := bytes.Clone(data)
		binary.BigEndian.PutUint32(bad[4:8], 0xFFFFFFFF)
		_, err := Load(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrCorrupted)
	})

	t.Run("io failure", func(t *testing.T) {
		boom := errors.New("disk on fire")
		_, err := Load(io.MultiReader(bytes.NewReader(data[:6]), errReader{boom}))
		assert.ErrorIs(t, err, ErrUnknownIO)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := LoadFile(fs.Default, filepath.Join(t.TempDir(), "nope.bin"))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, os.ErrNotExist)

		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Contains(t, le.Path, "nope.bin")
	})
}

func TestSaveFile_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "components.bin")
	c := New(0)
	c.Add(kmer.Kmer(3), 4, 1, 0)

	require.NoError(t, SaveFile(fs.Default, path, []*Component{c}))
	got, err := LoadFile(nil, path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, c.Kmers, got[0].Kmers)

	stats := filepath.Join(dir, "components-stat.txt")
	require.NoError(t, WriteStatsFile(fs.Default, stats, []*Component{c}))
	data, err := os.ReadFile(stats)
	require.NoError(t, err)
	assert.Contains(t, string(data), StatsHeader)
}

func TestSaveFile_FailureLeavesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "components.bin")
	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule("components.bin", fs.Fault{FailAfterBytes: 0})

	c := New(0)
	c.Add(kmer.Kmer(3), 4, 1, 0)
	require.Error(t, SaveFile(ffs, path, []*Component{c}))

	_, err := LoadFile(nil, path)
	assert.ErrorIs(t, err, ErrNotFound)
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
