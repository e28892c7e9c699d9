package traverse

import (
	"github.com/hupe1980/pivotsplit/kmer"
	"github.com/hupe1980/pivotsplit/store"
)

// Branch is the outcome of walking one branch candidate.
type Branch struct {
	// Path lists the nodes behind the candidate in walk order. The candidate
	// itself is not part of it.
	Path []kmer.Kmer

	// PivotCnt counts class-1 pivots consumed along Path.
	PivotCnt int

	// Pivot2Cnt counts class-2 pivots seen along Path.
	Pivot2Cnt int

	// Accepted reports whether the branch joins the component.
	Accepted bool
}

// Resolver walks the linear chain behind a branch candidate and decides
// whether it belongs to the growing component.
type Resolver struct {
	freq   *store.Map
	pivot  *store.Map
	pivot2 *store.Map
	cfg    Config

	path     []kmer.Kmer
	consumed []kmer.Kmer
}

// NewResolver creates a Resolver over the three stores.
func NewResolver(freq, pivot, pivot2 *store.Map, cfg Config) *Resolver {
	return &Resolver{freq: freq, pivot: pivot, pivot2: pivot2, cfg: cfg}
}

// Accept reports whether a walk with the given evidence is kept.
func (r *Resolver) Accept(pivotCnt, pivot2Cnt int) bool {
	return float64(pivotCnt)*r.cfg.PivotsQuotient > float64(pivot2Cnt) && pivotCnt >= r.cfg.MinPivots
}

// Walk starts at candidate, reached from prev, and follows single unvisited
// continuation neighbours until a dead end or a branch point. Every node
// stepped onto is marked visited in the frequency store; class-1 pivots on
// the way are consumed as well.
//
// The returned Path aliases an internal buffer and is only valid until the
// next call.
func (r *Resolver) Walk(candidate, prev kmer.Kmer) Branch {
	r.path = r.path[:0]
	r.consumed = r.consumed[:0]

	var b Branch
	cur := candidate
	for {
		next, ok := r.single(cur, prev)
		// A chain closing back onto its own candidate stops there; the
		// candidate is added by the caller.
		if !ok || next == candidate {
			break
		}

		r.freq.Visit(next)
		if _, ok := r.pivot.Visit(next); ok {
			b.PivotCnt++
			r.consumed = append(r.consumed, next)
		}
		if r.pivot2.Get(next).IsUnvisited() {
			b.Pivot2Cnt++
		}
		r.path = append(r.path, next)

		prev, cur = cur, next
	}

	b.Path = r.path
	b.Accepted = r.Accept(b.PivotCnt, b.Pivot2Cnt)
	if !b.Accepted && r.cfg.RestoreOnReject {
		r.restore()
	}
	return b
}

func (r *Resolver) restore() {
	for _, km := range r.path {
		r.freq.Restore(km)
	}
	for _, km := range r.consumed {
		r.pivot.Restore(km)
	}
}

// single returns the only unvisited neighbour of cur in the direction
// pointing away from prev.
func (r *Resolver) single(cur, prev kmer.Kmer) (kmer.Kmer, bool) {
	dir, ok := kmer.Continuation(cur, prev, r.cfg.K)
	if !ok {
		return 0, false
	}

	var (
		found kmer.Kmer
		n     int
	)
	for _, nb := range kmer.Neighbors(cur, r.cfg.K, dir) {
		if r.freq.Get(nb).IsUnvisited() {
			found = nb
			n++
		}
	}
	return found, n == 1
}
