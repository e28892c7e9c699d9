// Package testutil provides fixtures for tests and benchmarks.
//
// It builds small k-mer graphs in the three stores a traversal runs over.
//
//	rng := testutil.NewRNG(seed)
//	g := testutil.NewGraph(t, 5)
//	g.AddSequence(rng.Sequence(200), 1)
//	g.AddPivot("AACGT")
//
// Snapshot captures a store's contents so tests can compare state before and
// after a run.
package testutil
