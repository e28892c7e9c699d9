package store

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pivotsplit/internal/fs"
	"github.com/hupe1980/pivotsplit/kmer"
)

func fillMap(t *testing.T, m *Map, n int) {
	t.Helper()
	for i := range n {
		v := Unvisited(i%1000 + 1)
		if i%3 == 0 {
			v = v.Visit()
		}
		require.NoError(t, m.Put(kmer.Kmer(i*13), v))
	}
}

func TestMap_SaveLoad(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			m := newTestMap(t, WithLogShards(3), WithLogShardCapacity(6))
			fillMap(t, m, 5000)

			var buf bytes.Buffer
			require.NoError(t, m.Save(&buf, WithCompression(c)))

			loaded, err := Load(&buf)
			require.NoError(t, err)
			defer loaded.Close()

			assert.Equal(t, m.Shards(), loaded.Shards())
			assert.Equal(t, m.Len(), loaded.Len())
			assert.Equal(t, m.Capacity(), loaded.Capacity())
			for k, v := range m.All() {
				assert.Equal(t, v, loaded.Get(k))
			}
		})
	}
}

func TestMap_SaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.kmap")
	m := newTestMap(t)
	fillMap(t, m, 100)
	require.NoError(t, m.SaveFile(path, WithCompression(CompressionZSTD)))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, m.Len(), loaded.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.kmap"))
	assert.Error(t, err)
}

func TestLoadFile_WithFileSystem(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.kmap")
	m := newTestMap(t)
	fillMap(t, m, 50)
	require.NoError(t, m.SaveFile(path))

	loaded, err := LoadFile(path, WithFileSystem(fs.NewFaultyFS(nil)))
	require.NoError(t, err)
	defer loaded.Close()
	assert.Equal(t, m.Len(), loaded.Len())
}

func TestLoad_InvalidShardCount(t *testing.T) {
	var buf bytes.Buffer
	e := newEncoder(&buf)
	e.u32(magicMap)
	e.u16(version)
	e.u8(uint8(CompressionNone))
	e.u8(0)
	e.u64(0)
	e.u32(3) // not a power of two
	require.NoError(t, e.flush())

	_, err := Load(&buf)
	assert.ErrorIs(t, err, ErrInvalidShardCount)
}

func TestLoad_Errors(t *testing.T) {
	m := newTestMap(t, WithLogShards(1))
	fillMap(t, m, 50)
	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))
	data := buf.Bytes()

	t.Run("bad magic", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[0] ^= 0xFF
		_, err := Load(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("wrong flavour", func(t *testing.T) {
		_, err := LoadBitSetMap(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("unknown compression", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[6] = 9
		_, err := Load(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Load(bytes.NewReader(data[:len(data)-10]))
		assert.ErrorIs(t, err, ErrCorrupted)
	})

	t.Run("misplaced key", func(t *testing.T) {
		bad := newTestMap(t, WithLogShards(1))
		var key uint64 = 1
		for bad.index(key) != 1 {
			key++
		}
		require.NoError(t, bad.shards[0].put(0, key, Unvisited(3), bad.acct))

		var buf bytes.Buffer
		require.NoError(t, bad.Save(&buf))
		_, err := Load(&buf)
		assert.ErrorIs(t, err, ErrCorrupted)
	})

	t.Run("checksum", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[len(bad)-5] ^= 0x01 // last value byte
		_, err := Load(bytes.NewReader(bad))
		assert.ErrorIs(t, err, ErrCorrupted)
	})
}

func TestBitSetMap_SaveLoad(t *testing.T) {
	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			m, err := NewBitSetMap(16, WithLogShards(2))
			require.NoError(t, err)
			for i := range 500 {
				require.NoError(t, m.Set(kmer.Kmer(i), uint(i%16)))
				require.NoError(t, m.Set(kmer.Kmer(i), uint((i*7)%16)))
			}

			var buf bytes.Buffer
			require.NoError(t, m.Save(&buf, WithCompression(c)))

			loaded, err := LoadBitSetMap(&buf)
			require.NoError(t, err)
			assert.Equal(t, m.Len(), loaded.Len())
			for k, b := range m.All() {
				assert.True(t, b.Equal(loaded.Get(k)), "key %d", k)
			}

			// New keys pick up the persisted bitset width.
			require.NoError(t, loaded.Set(100000, 15))
			assert.True(t, loaded.Test(100000, 15))
		})
	}
}

func TestParseCompression(t *testing.T) {
	for _, s := range []string{"none", "lz4", "zstd"} {
		c, err := ParseCompression(s)
		require.NoError(t, err)
		assert.Equal(t, s, c.String())
	}
	_, err := ParseCompression("gzip")
	assert.ErrorIs(t, err, ErrInvalidOption)
}
