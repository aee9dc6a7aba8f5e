// Package pattern generates the position layouts the squad uses: the radar
// sweep that tiles the board, and the small spreads used to fire at or scan
// around a target.
package pattern

import "math/rand/v2"

// Rand is the randomness the generators need. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

var _ Rand = (*rand.Rand)(nil)

// NewRand returns a PCG-backed generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x5eed5eed5eed5eed))
}
