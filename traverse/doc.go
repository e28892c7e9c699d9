// Package traverse grows connected components of the implicit de Bruijn
// graph around class-1 pivot k-mers.
//
// A Builder scans the pivot store once and seeds one component per pivot
// that is still unvisited when reached. Growth is breadth-first. A node with
// a single unvisited continuation neighbour is extended directly; at a branch
// point every candidate is handed to a Resolver, which walks the linear chain
// behind it and accepts or rejects the chain from the pivot evidence found on
// it.
//
// The three stores are mutated in place and must not be used concurrently
// while a Builder runs.
package traverse
