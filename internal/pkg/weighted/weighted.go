// Package weighted implements proportional weighted-random selection.
// It is used for ore rarity, robbery tier choice and similar draws; each
// label's probability is weight/sum(weights), with no normalization step.
package weighted

import (
	"errors"
	"math/rand"
)

// ErrEmptyPool is returned when no choice carries a positive weight.
var ErrEmptyPool = errors.New("weighted: empty selection pool")

// Choice pairs a label with its positive integer weight.
type Choice[T any] struct {
	Label  T
	Weight int64
}

// Pick draws one label with probability proportional to its weight.
// Choices with non-positive weights are skipped; an effectively empty pool
// yields ErrEmptyPool rather than a zero-total division.
func Pick[T any](rng *rand.Rand, choices []Choice[T]) (T, error) {
	var zero T

	var total int64
	for _, c := range choices {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return zero, ErrEmptyPool
	}

	roll := rng.Int63n(total)
	for _, c := range choices {
		if c.Weight <= 0 {
			continue
		}
		if roll < c.Weight {
			return c.Label, nil
		}
		roll -= c.Weight
	}

	// Unreachable: roll < total and weights sum to total.
	return zero, ErrEmptyPool
}
