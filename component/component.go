package component

import (
	"cmp"
	"slices"

	"github.com/hupe1980/pivotsplit/kmer"
)

// Component is a set of k-mers grown from one seed pivot.
type Component struct {
	// Kmers lists the members in inclusion order.
	Kmers []kmer.Kmer

	// Size is the number of members.
	Size int64

	// Weight is the sum of the members' original frequencies.
	Weight int64

	// PivotCnt counts members flagged as class-1 pivots when included.
	PivotCnt int

	// Pivot2Cnt counts members flagged as class-2 pivots when included.
	Pivot2Cnt int

	// UsedFreqThreshold is the frequency cutoff the component was built under.
	UsedFreqThreshold int

	// No is the 1-based index assigned on Load. Zero otherwise.
	No int
}

// New returns an empty component built under the given frequency threshold.
func New(usedFreqThreshold int) *Component {
	return &Component{UsedFreqThreshold: usedFreqThreshold}
}

// Add appends a member with its frequency and pivot indicators.
func (c *Component) Add(km kmer.Kmer, freq, pivot, pivot2 int) {
	c.Kmers = append(c.Kmers, km)
	c.Size++
	c.Weight += int64(freq)
	c.PivotCnt += pivot
	c.Pivot2Cnt += pivot2
}

// Compare orders components by UsedFreqThreshold ascending, then Weight
// descending, then Size descending.
func Compare(a, b *Component) int {
	if c := cmp.Compare(a.UsedFreqThreshold, b.UsedFreqThreshold); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
		return c
	}
	return cmp.Compare(b.Size, a.Size)
}

// Sort ranks comps in place. Ties keep their relative order.
func Sort(comps []*Component) {
	slices.SortStableFunc(comps, Compare)
}

// Summary aggregates a result list.
type Summary struct {
	Components int
	Kmers      int64
	Weight     int64
	Largest    int64
	Pivots     int64
	Pivots2    int64
}

// Summarize aggregates comps.
func Summarize(comps []*Component) Summary {
	s := Summary{Components: len(comps)}
	for _, c := range comps {
		s.Kmers += c.Size
		s.Weight += c.Weight
		s.Largest = max(s.Largest, c.Size)
		s.Pivots += int64(c.PivotCnt)
		s.Pivots2 += int64(c.Pivot2Cnt)
	}
	return s
}
