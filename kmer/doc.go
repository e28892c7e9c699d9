// Package kmer encodes fixed-length nucleotide strings as integers and derives
// their neighbours in the implicit de Bruijn graph.
//
// A k-mer of length k (1 <= k <= 31) occupies the low 2k bits of a uint64,
// two bits per symbol (A=0, C=1, G=2, T=3), first symbol most significant.
//
//	km, _ := kmer.Parse("AAC")   // 0b000001
//	next := kmer.Forward(km, 3)  // AAC -> ACA, ACC, ACG, ACT
//	prev := kmer.Backward(km, 3) // AAC -> AAA, CAA, GAA, TAA
//
// Two k-mers are adjacent when one is obtained from the other by dropping the
// first symbol and appending one (forward edge) or dropping the last symbol and
// prepending one (backward edge).
package kmer
