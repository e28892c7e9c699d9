package kmer

import (
	"errors"
	"fmt"
	"strings"
)

// MaxK is the largest supported k-mer length.
const MaxK = 31

// Alphabet lists the symbols in code order.
const Alphabet = "ACGT"

var (
	// ErrInvalidLength is returned when k is outside 1..MaxK.
	ErrInvalidLength = errors.New("kmer: invalid length")

	// ErrInvalidSymbol is returned when a string contains a symbol outside the alphabet.
	ErrInvalidSymbol = errors.New("kmer: invalid symbol")
)

// Kmer is a 2-bit packed k-mer. The length is not stored; callers carry k.
type Kmer uint64

// ValidateK reports whether k is a supported k-mer length.
func ValidateK(k int) error {
	if k < 1 || k > MaxK {
		return fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidLength, k, MaxK)
	}
	return nil
}

// Mask returns the bit mask covering 2k bits.
func Mask(k int) uint64 {
	return (uint64(1) << (2 * uint(k))) - 1
}

// Forward returns the k-mers reachable by dropping the first symbol and
// appending one, in symbol order.
func Forward(km Kmer, k int) [4]Kmer {
	base := (uint64(km) << 2) & Mask(k)
	return [4]Kmer{
		Kmer(base),
		Kmer(base | 1),
		Kmer(base | 2),
		Kmer(base | 3),
	}
}

// Backward returns the k-mers reachable by dropping the last symbol and
// prepending one, in symbol order.
func Backward(km Kmer, k int) [4]Kmer {
	base := uint64(km) >> 2
	shift := 2 * uint(k-1)
	return [4]Kmer{
		Kmer(base),
		Kmer(base | 1<<shift),
		Kmer(base | 2<<shift),
		Kmer(base | 3<<shift),
	}
}

// Neighbors returns the neighbours of km in the given direction.
func Neighbors(km Kmer, k int, dir Direction) [4]Kmer {
	if dir == DirForward {
		return Forward(km, k)
	}
	return Backward(km, k)
}

// Parse decodes a nucleotide string. Lower-case symbols are accepted.
func Parse(s string) (Kmer, error) {
	if err := ValidateK(len(s)); err != nil {
		return 0, err
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		c, ok := symbolCode(s[i])
		if !ok {
			return 0, fmt.Errorf("%w: %q at position %d", ErrInvalidSymbol, s[i], i)
		}
		v = v<<2 | c
	}
	return Kmer(v), nil
}

// MustParse is like Parse but panics on error. Intended for tests and fixtures.
func MustParse(s string) Kmer {
	km, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return km
}

// String decodes km as a string of length k.
func String(km Kmer, k int) string {
	var sb strings.Builder
	sb.Grow(k)
	for i := k - 1; i >= 0; i-- {
		sb.WriteByte(Alphabet[(uint64(km)>>(2*uint(i)))&3])
	}
	return sb.String()
}

func symbolCode(c byte) (uint64, bool) {
	switch c {
	case 'A', 'a':
		return 0, true
	case 'C', 'c':
		return 1, true
	case 'G', 'g':
		return 2, true
	case 'T', 't':
		return 3, true
	}
	return 0, false
}
