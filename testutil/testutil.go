package testutil

import (
	"math/rand"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/pivotsplit/kmer"
	"github.com/hupe1980/pivotsplit/store"
)

// RNG is a seeded, thread-safe random source.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Sequence returns a random nucleotide string of length n.
func (r *RNG) Sequence(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	b := make([]byte, n)
	for i := range b {
		b[i] = kmer.Alphabet[r.rand.Intn(4)]
	}
	return string(b)
}

// Kmers returns n random k-mers.
func (r *RNG) Kmers(n, k int) []kmer.Kmer {
	r.mu.Lock()
	defer r.mu.Unlock()
	mask := kmer.Mask(k)
	out := make([]kmer.Kmer, n)
	for i := range out {
		out[i] = kmer.Kmer(r.rand.Uint64() & mask)
	}
	return out
}

// Graph holds the frequency store and both pivot stores for one test.
type Graph struct {
	tb testing.TB
	K  int

	Freq   *store.Map
	Pivot  *store.Map
	Pivot2 *store.Map
}

// NewGraph creates three empty stores with small shards.
func NewGraph(tb testing.TB, k int, opts ...store.Option) *Graph {
	tb.Helper()
	require.NoError(tb, kmer.ValidateK(k))

	opts = append([]store.Option{store.WithLogShards(2), store.WithLogShardCapacity(4)}, opts...)
	g := &Graph{tb: tb, K: k}
	for _, m := range []**store.Map{&g.Freq, &g.Pivot, &g.Pivot2} {
		s, err := store.New(opts...)
		require.NoError(tb, err)
		*m = s
	}
	return g
}

// Add sets the frequency of a single k-mer.
func (g *Graph) Add(s string, freq int) kmer.Kmer {
	g.tb.Helper()
	km := g.parse(s)
	require.NoError(g.tb, g.Freq.Put(km, store.Unvisited(freq)))
	return km
}

// AddSequence adds freq to every k-mer of seq.
func (g *Graph) AddSequence(seq string, freq int) []kmer.Kmer {
	g.tb.Helper()
	var out []kmer.Kmer
	for i := 0; i+g.K <= len(seq); i++ {
		km := g.parse(seq[i : i+g.K])
		require.NoError(g.tb, g.Freq.Add(km, freq))
		out = append(out, km)
	}
	return out
}

// AddPivot marks s as a class-1 pivot.
func (g *Graph) AddPivot(s string) kmer.Kmer {
	g.tb.Helper()
	km := g.parse(s)
	require.NoError(g.tb, g.Pivot.Put(km, store.Unvisited(1)))
	return km
}

// AddPivot2 marks s as a class-2 pivot.
func (g *Graph) AddPivot2(s string) kmer.Kmer {
	g.tb.Helper()
	km := g.parse(s)
	require.NoError(g.tb, g.Pivot2.Put(km, store.Unvisited(1)))
	return km
}

// String decodes km with the graph's k.
func (g *Graph) String(km kmer.Kmer) string {
	return kmer.String(km, g.K)
}

// Strings decodes kms with the graph's k.
func (g *Graph) Strings(kms []kmer.Kmer) []string {
	out := make([]string, len(kms))
	for i, km := range kms {
		out[i] = g.String(km)
	}
	return out
}

func (g *Graph) parse(s string) kmer.Kmer {
	g.tb.Helper()
	require.Len(g.tb, s, g.K)
	km, err := kmer.Parse(s)
	require.NoError(g.tb, err)
	return km
}

// SaveFiles writes the three stores as snapshots into dir and returns their
// paths.
func (g *Graph) SaveFiles(dir string) (freq, pivot, pivot2 string) {
	g.tb.Helper()
	freq = filepath.Join(dir, "kmers.kmap")
	pivot = filepath.Join(dir, "pivot.kmap")
	pivot2 = filepath.Join(dir, "pivot2.kmap")
	require.NoError(g.tb, g.Freq.SaveFile(freq))
	require.NoError(g.tb, g.Pivot.SaveFile(pivot))
	require.NoError(g.tb, g.Pivot2.SaveFile(pivot2))
	return freq, pivot, pivot2
}

// Snapshot copies every entry of m.
func Snapshot(m *store.Map) map[kmer.Kmer]store.Value {
	out := make(map[kmer.Kmer]store.Value)
	for km, v := range m.All() {
		out[km] = v
	}
	return out
}
