package utils

import (
	"math"

	"golang.org/x/exp/rand"
)

// ArgMax returns the index of the item with the highest score. Items sharing
// the highest score are picked uniformly at random (reservoir sampling), so
// insertion order never biases the choice. Returns -1 for an empty slice.
func ArgMax[T any](items []T, score func(T) float64, rng *rand.Rand) int {
	best := -1
	bestScore := math.Inf(-1)
	numBest := 0
	for i, item := range items {
		s := score(item)
		switch {
		case math.IsNaN(s):
			continue
		case best == -1 || s > bestScore:
			best, bestScore, numBest = i, s, 1
		case s == bestScore:
			numBest++
			if rng.Intn(numBest) == 0 {
				best = i
			}
		}
	}
	if best == -1 && len(items) > 0 {
		return rng.Intn(len(items))
	}
	return best
}

// Sample picks an index with probability proportional to its weight.
// Non-positive total weight falls back to a uniform pick.
func Sample(weights []float64, total float64, rng *rand.Rand) int {
	if len(weights) == 0 {
		return -1
	}
	if !(total > 0) || math.IsInf(total, 1) {
		return rng.Intn(len(weights))
	}
	sampled := rng.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if sampled < cumulative {
			return i
		}
	}
	return len(weights) - 1 // Rounding errors
}
