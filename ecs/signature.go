package ecs

import (
	"iter"
	"math/bits"
	"strings"
)

// MaxComponents is the number of distinct component types a registry supports.
const MaxComponents = 128

const signatureWords = MaxComponents / 64

// Signature is a fixed size bitset with one bit per ComponentId.
type Signature [signatureWords]uint64

// Set turns on the bit for id.
func (s *Signature) Set(id ComponentId) {
	s[id/64] |= 1 << (id % 64)
}

// Clear turns off the bit for id.
func (s *Signature) Clear(id ComponentId) {
	s[id/64] &^= 1 << (id % 64)
}

// Reset clears every bit.
func (s *Signature) Reset() {
	*s = Signature{}
}

// Has reports whether the bit for id is set.
func (s Signature) Has(id ComponentId) bool {
	return s[id/64]&(1<<(id%64)) != 0
}

// Contains reports whether every bit of required is also set in s.
func (s Signature) Contains(required Signature) bool {
	for i := range s {
		if s[i]&required[i] != required[i] {
			return false
		}
	}
	return true
}

// IsEmpty reports whether no bit is set.
func (s Signature) IsEmpty() bool {
	for _, w := range s {
		if w != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of set bits.
func (s Signature) Count() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// Ids yields the set component ids in ascending order.
func (s Signature) Ids() iter.Seq[ComponentId] {
	return func(yield func(ComponentId) bool) {
		for i, w := range s {
			for w != 0 {
				bit := bits.TrailingZeros64(w)
				if !yield(ComponentId(i*64 + bit)) {
					return
				}
				w &= w - 1
			}
		}
	}
}

// String renders the signature as a bit string, lowest id first, trimmed to
// the highest set bit.
func (s Signature) String() string {
	high := -1
	for id := range s.Ids() {
		high = int(id)
	}
	var b strings.Builder
	for i := 0; i <= high; i++ {
		if s.Has(ComponentId(i)) {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}
