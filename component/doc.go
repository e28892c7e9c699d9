// Package component holds the connected components extracted around pivot
// k-mers, together with their ranking and on-disk formats.
//
// # Binary Format
//
// Components files are big-endian:
//
//	int32 count
//	count x { int32 size | int64 weight | size x int64 kmer }
//
// Only sizes, weights and members are persisted; pivot counts are absent
// after Load.
//
// # Statistics
//
// WriteStats emits a tab-separated table, one 1-based row per component:
//
//	# component.no  component.size  component.weight  component.pivotCnt  component.pivotCnt2  usedFreqThreshold
package component
