package hash

// Mix64 is the 64-bit finalizer of MurmurHash3 (fmix64).
// It is a bijection on uint64, so distinct keys never collide before masking.
func Mix64(k uint64) uint64 {
	k ^= k >> 33
	k *= 0xff51afd7ed558ccd
	k ^= k >> 33
	k *= 0xc4ceb9fe1a85ec53
	k ^= k >> 33
	return k
}
