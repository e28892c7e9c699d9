package store

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/pivotsplit/internal/hash"
)

const (
	magicMap    = 0x4B4D4150 // "KMAP"
	magicBitSet = 0x4B424954 // "KBIT"
	version     = 1
)

type saveOptions struct {
	compression Compression
}

// SaveOption configures Save.
type SaveOption func(*saveOptions)

// WithCompression compresses the snapshot body.
func WithCompression(c Compression) SaveOption {
	return func(o *saveOptions) {
		o.compression = c
	}
}

// valueCodec encodes the values of one map flavour.
type valueCodec[V any] struct {
	write func(e *encoder, v V)
	read  func(d *decoder) V
}

var valueCodecMap = valueCodec[Value]{
	write: func(e *encoder, v Value) { e.u16(uint16(v)) },
	read:  func(d *decoder) Value { return Value(int16(d.u16())) },
}

var valueCodecBitSet = valueCodec[*bitset.BitSet]{
	write: func(e *encoder, b *bitset.BitSet) {
		if b == nil {
			b = &bitset.BitSet{}
		}
		if _, err := b.WriteTo(e); err != nil && e.err == nil {
			e.err = err
		}
	},
	read: func(d *decoder) *bitset.BitSet {
		b := &bitset.BitSet{}
		if _, err := b.ReadFrom(d); err != nil && d.err == nil {
			d.err = err
		}
		return b
	},
}

// Snapshot layout (little-endian):
//
//	header: magic u32 | version u16 | compression u8 | reserved u8 | meta u64
//	body (compressed as a whole):
//	    shards u32
//	    per shard: logCap u8 | size u64 | size x (key u64 | value)
//	    crc32c u32 (over the preceding body bytes)
func writeSnapshot[V any](w io.Writer, magic uint32, meta uint64, s *sharded[V], codec valueCodec[V], opts []SaveOption) error {
	var o saveOptions
	for _, fn := range opts {
		fn(&o)
	}

	out := newEncoder(w)
	out.u32(magic)
	out.u16(version)
	out.u8(uint8(o.compression))
	out.u8(0)
	out.u64(meta)
	if out.err != nil {
		return out.err
	}

	cw, err := compressWriter(out, o.compression)
	if err != nil {
		return err
	}

	h := hash.NewCRC32C()
	body := newEncoder(io.MultiWriter(cw, h))
	body.u32(uint32(len(s.shards)))
	for _, t := range s.shards {
		body.u8(t.logCap)
		body.u64(uint64(t.size))
		for i, k := range t.keys {
			if k == emptyKey {
				continue
			}
			body.u64(k)
			codec.write(body, t.vals[i])
		}
		if body.err != nil {
			return body.err
		}
	}
	if err := body.flush(); err != nil {
		return err
	}

	var sum [4]byte
	binary.LittleEndian.PutUint32(sum[:], h.Sum32())
	if _, err := cw.Write(sum[:]); err != nil {
		return err
	}
	if err := cw.Close(); err != nil {
		return err
	}
	return out.flush()
}

func readSnapshot[V any](r io.Reader, magic uint32, codec valueCodec[V], o options, entryBytes int64) (s sharded[V], meta uint64, err error) {
	br := bufio.NewReaderSize(r, 1<<16)

	hdr := newDecoder(br)
	gotMagic := hdr.u32()
	gotVersion := hdr.u16()
	comp := Compression(hdr.u8())
	_ = hdr.u8()
	meta = hdr.u64()
	if hdr.err != nil {
		return s, 0, corruption(hdr.err)
	}
	if gotMagic != magic {
		return s, 0, fmt.Errorf("%w: bad magic 0x%08x", ErrInvalidFormat, gotMagic)
	}
	if gotVersion != version {
		return s, 0, fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, gotVersion)
	}

	dr, release, err := decompressReader(br, comp)
	if err != nil {
		return s, 0, err
	}
	defer release()

	h := hash.NewCRC32C()
	body := newDecoder(io.TeeReader(dr, h))

	n := body.u32()
	if body.err != nil {
		return s, 0, corruption(body.err)
	}
	if n == 0 || n&(n-1) != 0 || n > 1<<maxLogShards {
		return s, 0, fmt.Errorf("%w: %d", ErrInvalidShardCount, n)
	}

	s = sharded[V]{
		shards: make([]*table[V], n),
		mask:   uint64(n) - 1,
		acct:   account{rc: o.rc, entryBytes: entryBytes},
	}
	defer func() {
		if err != nil {
			s.close()
			s = sharded[V]{}
		}
	}()

	for i := range s.shards {
		logCap := body.u8()
		size := body.u64()
		if body.err != nil {
			return s, 0, corruption(body.err)
		}
		if logCap < 1 || logCap > maxLogShardCap || size > uint64(1)<<logCap*maxLoadNum/maxLoadDen {
			return s, 0, fmt.Errorf("%w: shard %d has log capacity %d and size %d", ErrCorrupted, i, logCap, size)
		}

		t, err := newTable[V](i, logCap, max(o.maxLogShardCap, logCap), s.acct)
		if err != nil {
			return s, 0, err
		}
		s.shards[i] = t

		for range size {
			k := body.u64()
			v := codec.read(body)
			if body.err != nil {
				return s, 0, corruption(body.err)
			}
			if k == emptyKey {
				return s, 0, fmt.Errorf("%w: empty-slot key in shard %d", ErrCorrupted, i)
			}
			if s.index(k) != i {
				return s, 0, fmt.Errorf("%w: key %d stored in shard %d, belongs to shard %d", ErrCorrupted, k, i, s.index(k))
			}
			if err := t.put(i, k, v, s.acct); err != nil {
				return s, 0, err
			}
		}
	}

	want := h.Sum32()
	var sum [4]byte
	if _, err := io.ReadFull(dr, sum[:]); err != nil {
		return s, 0, corruption(err)
	}
	if got := binary.LittleEndian.Uint32(sum[:]); got != want {
		return s, 0, fmt.Errorf("%w: checksum mismatch (got 0x%08x, want 0x%08x)", ErrCorrupted, got, want)
	}
	return s, meta, nil
}

// Save writes m to w.
func (m *Map) Save(w io.Writer, opts ...SaveOption) error {
	return writeSnapshot(w, magicMap, 0, &m.sharded, valueCodecMap, opts)
}

// Load reads a Map written by Save. Only the WithResource and
// WithMaxLogShardCapacity options apply; the layout comes from the snapshot.
func Load(r io.Reader, opts ...Option) (*Map, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	s, _, err := readSnapshot(r, magicMap, valueCodecMap, o, valueEntryBytes)
	if err != nil {
		return nil, err
	}
	return &Map{sharded: s}, nil
}

// Save writes m to w.
func (m *BitSetMap) Save(w io.Writer, opts ...SaveOption) error {
	return writeSnapshot(w, magicBitSet, uint64(m.bits), &m.sharded, valueCodecBitSet, opts)
}

// LoadBitSetMap reads a BitSetMap written by Save.
func LoadBitSetMap(r io.Reader, opts ...Option) (*BitSetMap, error) {
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	s, bits, err := readSnapshot(r, magicBitSet, valueCodecBitSet, o, bitsetEntryBytes)
	if err != nil {
		return nil, err
	}
	return &BitSetMap{sharded: s, bits: uint(bits)}, nil
}
