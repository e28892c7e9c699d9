package store

import "math"

// MaxFreq is the largest representable frequency.
const MaxFreq = math.MaxInt16

// Value is a tagged per-k-mer entry: absent, unvisited with a frequency, or
// visited with its original frequency.
//
// It occupies a single int16: unvisited f is stored as +f, visited f as -f and
// absent as 0. The representation is private to this package; callers use
// the constructors and transitions below.
type Value int16

// Unvisited returns an unvisited value. freq is clamped to 1..MaxFreq; a
// non-positive frequency yields the absent value.
func Unvisited(freq int) Value {
	if freq <= 0 {
		return 0
	}
	return Value(min(freq, MaxFreq))
}

// Visited returns a visited value with the given original frequency.
func Visited(freq int) Value {
	return -Unvisited(freq)
}

// Freq returns the frequency regardless of visitation.
func (v Value) Freq() int {
	f := int(v)
	if f < 0 {
		return -f
	}
	return f
}

// IsUnvisited reports whether the entry is present and not yet consumed.
func (v Value) IsUnvisited() bool { return v > 0 }

// IsVisited reports whether the entry has been consumed.
func (v Value) IsVisited() bool { return v < 0 }

// IsZero reports whether the entry is absent from the graph.
func (v Value) IsZero() bool { return v == 0 }

// Visit returns the visited form of v. Absent and visited values are unchanged.
func (v Value) Visit() Value {
	if v > 0 {
		return -v
	}
	return v
}

// Restore returns the unvisited form of v. Absent and unvisited values are unchanged.
func (v Value) Restore() Value {
	if v < 0 {
		return -v
	}
	return v
}

// Indicator is 1 for an unvisited entry and 0 otherwise.
func (v Value) Indicator() int {
	if v > 0 {
		return 1
	}
	return 0
}
