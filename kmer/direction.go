package kmer

// Direction selects one of the two neighbour sets of a k-mer.
type Direction uint8

const (
	// DirForward is the append-one-symbol direction.
	DirForward Direction = iota
	// DirBackward is the prepend-one-symbol direction.
	DirBackward
)

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == DirForward {
		return DirBackward
	}
	return DirForward
}

func (d Direction) String() string {
	if d == DirForward {
		return "forward"
	}
	return "backward"
}

// Continuation returns the direction in which a walk that arrived at km from
// prev continues, i.e. the neighbour set that does not contain prev.
//
// If prev is a forward neighbour of km the walk continues backward; otherwise
// if prev is a backward neighbour it continues forward. Forward membership
// wins when prev is in both sets (self-loops such as AAA -> AAA). The second
// return value is false when prev is not adjacent to km at all.
func Continuation(km, prev Kmer, k int) (Direction, bool) {
	for _, n := range Forward(km, k) {
		if n == prev {
			return DirBackward, true
		}
	}
	for _, n := range Backward(km, k) {
		if n == prev {
			return DirForward, true
		}
	}
	return DirForward, false
}
