package component

import (
	"fmt"

	"github.com/hupe1980/pivotsplit/store"
)

// Membership tags every k-mer with the result lists it occurs in: bit i of a
// k-mer's bitset is set when some component of lists[i] contains it. It is
// used to compare runs over the same graph with different settings.
func Membership(lists [][]*Component, opts ...store.Option) (*store.BitSetMap, error) {
	m, err := store.NewBitSetMap(uint(len(lists)), opts...)
	if err != nil {
		return nil, err
	}
	for i, comps := range lists {
		for _, c := range comps {
			for _, km := range c.Kmers {
				if err := m.Set(km, uint(i)); err != nil {
					_ = m.Close()
					return nil, fmt.Errorf("membership of list %d: %w", i, err)
				}
			}
		}
	}
	return m, nil
}
