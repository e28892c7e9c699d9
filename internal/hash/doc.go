// Package hash provides the hashing primitives used by the k-mer store.
//
// # Shard addressing
//
// Mix64 is the MurmurHash3 64-bit finalizer. Consecutive k-mers differ only in
// their low bits, so masking the raw key would place neighbouring k-mers into
// neighbouring shards and cluster sequential patterns. Mixing first spreads
// every input bit across the whole word:
//
//	shard := hash.Mix64(key) & mask
//
// # Integrity
//
// Snapshot bodies are protected with CRC32-Castagnoli (CRC32C), which Go
// computes with hardware instructions when available (SSE4.2, ARM CRC).
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
package hash
