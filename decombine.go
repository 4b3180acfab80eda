package png2sprites

// combineTable is the hardware color-combine table. It maps each composite
// color index to the power-of-two plane values whose OR displays it when
// the planes are drawn with the CC bit chain. Prime values 1, 2, 4 and 8
// have no entry, they always need their own plane.
var combineTable = [MaxColors][]byte{
	3:  {1, 2},
	5:  {1, 4},
	6:  {2, 4},
	7:  {1, 2, 4},
	9:  {1, 8},
	10: {2, 8},
	11: {1, 2, 8},
	13: {1, 4, 8},
	14: {2, 4, 8},
	15: {1, 2, 4, 8},
}

// A lineSet is the set of color indexes present on one 8 pixel half-line.
type lineSet [MaxColors]bool

func (s lineSet) count() (n int) {
	for _, ok := range s {
		if ok {
			n++
		}
	}
	return n
}

// decombine returns the removable indexes of the set: every composite
// index whose full prime decomposition is itself present among the other
// indexes of the set. Such an index is drawn by OR-combining the prime
// planes instead of occupying a plane of its own, so a removal always
// lowers the plane count of the half-line by one.
func decombine(set lineSet) (removable lineSet) {
	for c := 3; c < MaxColors; c++ {
		primes := combineTable[c]
		if !set[c] || primes == nil {
			continue
		}
		ok := true
		for _, p := range primes {
			if !set[p] {
				ok = false
				break
			}
		}
		if ok {
			removable[c] = true
		}
	}
	return removable
}

// encodeHalfLine converts 8 color indexes (index 0 in pix means not drawn)
// into one pattern byte per color index, MSB first. Removable indexes
// contribute their bit to every prime plane of their decomposition and
// flag all primes but the largest with the combine bit.
func encodeHalfLine(pix [8]byte) (pattern [MaxColors]byte, combine lineSet) {
	var set lineSet
	for _, idx := range pix {
		if idx > 0 {
			set[idx] = true
		}
	}
	removable := decombine(set)

	for k, idx := range pix {
		bit := byte(0x80) >> k
		switch {
		case removable[idx]:
			primes := combineTable[idx]
			for _, p := range primes {
				pattern[p] |= bit
			}
			for _, p := range primes[:len(primes)-1] {
				combine[p] = true
			}
		case idx > 0:
			pattern[idx] |= bit
		}
	}
	return pattern, combine
}
