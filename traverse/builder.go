package traverse

import (
	"context"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/hupe1980/pivotsplit/component"
	"github.com/hupe1980/pivotsplit/internal/queue"
	"github.com/hupe1980/pivotsplit/kmer"
	"github.com/hupe1980/pivotsplit/store"
)

// edge is a queued node together with the node it was reached from.
type edge struct {
	node   kmer.Kmer
	parent kmer.Kmer
}

// Stats summarizes a finished run.
type Stats struct {
	Seeds          int64
	SkippedSeeds   int64
	Components     int64
	Kmers          int64
	BranchesWalked int64
	BranchesKept   int64
	RejectedKmers  int64
	Elapsed        time.Duration
}

// Builder grows one component per surviving class-1 pivot.
//
// A Builder holds the stores exclusively for the duration of Run and is not
// safe for concurrent use.
type Builder struct {
	freq   *store.Map
	pivot  *store.Map
	pivot2 *store.Map
	cfg    Config

	resolver *Resolver
	queue    *queue.FIFO[edge]
	log      *slog.Logger
	progress rate.Sometimes
	stats    Stats

	cands [4]kmer.Kmer
}

// NewBuilder validates cfg and returns a Builder over the frequency store
// and the two pivot stores.
func NewBuilder(freq, pivot, pivot2 *store.Map, cfg Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Builder{
		freq:     freq,
		pivot:    pivot,
		pivot2:   pivot2,
		cfg:      cfg,
		resolver: NewResolver(freq, pivot, pivot2, cfg),
		queue:    queue.New[edge](1 << 10),
		log:      cfg.logger(),
		progress: rate.Sometimes{Interval: cfg.progressInterval()},
	}, nil
}

// Stats returns counters of the last Run.
func (b *Builder) Stats() Stats { return b.stats }

// Run scans the pivot store once and returns the components in seed order.
// ctx is checked between seeds; a seed's growth is never interrupted. On
// cancellation the components finished so far are returned with ctx.Err().
func (b *Builder) Run(ctx context.Context) ([]*component.Component, error) {
	start := time.Now()
	b.stats = Stats{}

	var comps []*component.Component
	for seed, v := range b.pivot.All() {
		if !v.IsUnvisited() {
			continue
		}
		if err := ctx.Err(); err != nil {
			b.stats.Elapsed = time.Since(start)
			return comps, err
		}
		// Frequency entries visited before the run (a residual snapshot) stay
		// out of every component.
		if b.freq.Get(seed).IsVisited() {
			b.stats.SkippedSeeds++
			b.pivot.Visit(seed)
			continue
		}

		c := b.grow(seed)
		comps = append(comps, c)
		b.stats.Components++
		b.stats.Kmers += c.Size

		b.progress.Do(func() {
			b.log.Info("building components",
				"components", humanize.Comma(b.stats.Components),
				"kmers", humanize.Comma(b.stats.Kmers),
				"elapsed", time.Since(start).Round(time.Millisecond))
		})
	}

	b.stats.Elapsed = time.Since(start)
	b.log.Info("components built",
		"components", humanize.Comma(b.stats.Components),
		"kmers", humanize.Comma(b.stats.Kmers),
		"skipped_seeds", b.stats.SkippedSeeds,
		"branches_walked", humanize.Comma(b.stats.BranchesWalked),
		"branches_kept", humanize.Comma(b.stats.BranchesKept),
		"elapsed", b.stats.Elapsed.Round(time.Millisecond))
	return comps, nil
}

// grow consumes seed and everything reachable from it under the extension
// rules, breadth-first.
func (b *Builder) grow(seed kmer.Kmer) *component.Component {
	b.stats.Seeds++
	b.queue.Reset()

	c := component.New(b.cfg.UsedFreqThreshold)
	// A seed absent from the frequency store weighs nothing but still grows.
	v, _ := b.freq.Visit(seed)
	b.pivot.Visit(seed)
	c.Add(seed, v.Freq(), 1, b.pivot2.Get(seed).Indicator())

	b.extend(c, seed, kmer.DirForward)
	b.extend(c, seed, kmer.DirBackward)

	for {
		e, ok := b.queue.Pop()
		if !ok {
			break
		}
		dir, ok := kmer.Continuation(e.node, e.parent, b.cfg.K)
		if !ok {
			continue
		}
		b.extend(c, e.node, dir)
	}
	return c
}

// extend applies the zero/one/many rule to the unvisited neighbours of cur
// in direction dir.
func (b *Builder) extend(c *component.Component, cur kmer.Kmer, dir kmer.Direction) {
	cands := b.candidates(cur, dir)
	switch len(cands) {
	case 0:
	case 1:
		b.include(c, cands[0])
		b.queue.Push(edge{node: cands[0], parent: cur})
	default:
		for _, nb := range cands {
			// An earlier branch walk from cur may have consumed nb.
			if !b.freq.Get(nb).IsUnvisited() {
				continue
			}
			b.branch(c, cur, nb)
		}
	}
}

func (b *Builder) branch(c *component.Component, cur, nb kmer.Kmer) {
	b.stats.BranchesWalked++
	br := b.resolver.Walk(nb, cur)
	if !br.Accepted {
		b.stats.RejectedKmers += int64(len(br.Path))
		return
	}
	b.stats.BranchesKept++

	b.include(c, nb)

	// Path nodes take the indicators of nb as they read after nb was consumed.
	pivot := b.pivot.Get(nb).Indicator()
	pivot2 := b.pivot2.Get(nb).Indicator()
	for _, km := range br.Path {
		c.Add(km, b.freq.Get(km).Freq(), pivot, pivot2)
	}

	switch n := len(br.Path); n {
	case 0:
		b.queue.Push(edge{node: nb, parent: cur})
	case 1:
		b.queue.Push(edge{node: br.Path[0], parent: nb})
	default:
		b.queue.Push(edge{node: br.Path[n-1], parent: br.Path[n-2]})
	}
}

// include consumes km and adds it with its own indicators.
func (b *Builder) include(c *component.Component, km kmer.Kmer) {
	v, _ := b.freq.Visit(km)
	c.Add(km, v.Freq(), b.pivot.Get(km).Indicator(), b.pivot2.Get(km).Indicator())
	b.pivot.Visit(km)
}

func (b *Builder) candidates(cur kmer.Kmer, dir kmer.Direction) []kmer.Kmer {
	out := b.cands[:0]
	for _, nb := range kmer.Neighbors(cur, b.cfg.K, dir) {
		if b.freq.Get(nb).IsUnvisited() {
			out = append(out, nb)
		}
	}
	return out
}
