// Package entropy provides the random sources injected into scoring, spawning
// and mission logic. Nothing in the simulation draws from global random state.
// Seeds fall back to crypto/rand when none is configured.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// Source is the minimal random draw interface. *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// New returns a deterministic source for the given seed.
func New(seed int64) *mrand.Rand {
	return mrand.New(mrand.NewSource(seed))
}

// Derive returns a sub-stream for one subsystem so that adding draws in one
// place does not shift the sequence seen by another.
func Derive(seed, offset int64) *mrand.Rand {
	return mrand.New(mrand.NewSource(seed + offset))
}

// RandomInt returns a uniform integer in [lo, hi] inclusive.
func RandomInt(src Source, lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + src.Intn(hi-lo+1)
}

// RandomDouble returns a uniform float in [0, max).
func RandomDouble(src Source, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return src.Float64() * max
}

// Chance returns true with probability p.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// WeightedPick returns an index chosen with probability proportional to its
// weight, or -1 if no weight is positive.
func WeightedPick(src Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}

	r := src.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if r < w {
			return i
		}
		r -= w
	}
	// Float rounding: fall back to the last positive weight.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return -1
}

// CryptoSeed returns a seed from crypto/rand for runs without a fixed seed.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen but keep runs going with a fixed seed.
		return 42
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}
