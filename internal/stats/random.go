package stats

import "math/rand/v2"

// Source is the random generator injected into arms and policies.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// NewSource returns a PCG-backed generator. Runs that share a seed but use
// different streams produce independent sequences.
func NewSource(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}
