package automaton

// Golden ratio bit mixer.
const PHI_C64 = uint64(0x9e3779b97f4a7c15)

func mix(key int) int {
	return mix32(key)
}

// Final 32-bit mixing step of MurmurHash3.
func mix32(v int) int {
	k := uint32(v)
	k = (k ^ (k >> 16)) * 0x85ebca6b
	k = (k ^ (k >> 13)) * 0xc2b2ae35
	return int(k ^ (k >> 16))
}

// mixPhi spreads a hash over the high bits so that masking with a power of two stays uniform.
func mixPhi(h uint64) uint64 {
	h *= PHI_C64
	return h ^ (h >> 32)
}
