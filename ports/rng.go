package ports

import (
	"math/rand"
)

// RNG provides seeded random number generation for deterministic simulation.
// The same (name, seed) pair must always yield a generator producing the same
// sequence, so simulated results are reproducible across runs.
type RNG interface {
	// Stream creates a deterministic generator for a named operation
	Stream(name string, seed int64) *rand.Rand
}
