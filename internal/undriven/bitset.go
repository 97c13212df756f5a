package undriven

// bitset is a fixed-size word-packed bit vector. Out-of-range indices
// are ignored on set and read back as false, so callers upstream of a
// width mismatch cannot crash the pass.
type bitset struct {
	words []uint64
	size  int
}

func newBitset(size int) bitset {
	return bitset{
		words: make([]uint64, (size+63)/64),
		size:  size,
	}
}

func (b bitset) set(i int) {
	if i < 0 || i >= b.size {
		return
	}
	b.words[i/64] |= 1 << uint(i%64)
}

func (b bitset) get(i int) bool {
	if i < 0 || i >= b.size {
		return false
	}
	return b.words[i/64]>>uint(i%64)&1 == 1
}

// any reports whether at least one bit is set.
func (b bitset) any() bool {
	for _, w := range b.words {
		if w != 0 {
			return true
		}
	}
	return false
}

// all reports whether every bit in [0, size) is set. An empty set is
// vacuously all-set.
func (b bitset) all() bool {
	for i, w := range b.words {
		n := b.size - i*64
		if n >= 64 {
			if w != ^uint64(0) {
				return false
			}
			continue
		}
		if w != 1<<uint(n)-1 {
			return false
		}
	}
	return true
}
