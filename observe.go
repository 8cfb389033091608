package qsim

import (
	"fmt"
	"math/rand/v2"
)

// Sample draws a Z-basis outcome from the register without disturbing it.
func (reg *Register) Sample(rng *rand.Rand) int {
	probs := reg.Probabilities()

	var total float64
	for _, p := range probs {
		total += p
	}

	r := rng.Float64() * total
	cumulative := 0.0
	for i, p := range probs {
		cumulative += p
		if r < cumulative {
			return i
		}
	}

	// Rounding left r past the last bucket; fall back to the last outcome
	// that has any weight.
	for i := len(probs) - 1; i >= 0; i-- {
		if probs[i] > 0 {
			return i
		}
	}
	return 0
}

/*
Observe performs a projective Z-basis measurement of the whole register: it
samples an outcome and collapses ρ to |k⟩⟨k|. The caller owns the generator,
so runs seeded the same way observe the same outcomes.
*/
func (reg *Register) Observe(rng *rand.Rand) int {
	outcome := reg.Sample(rng)

	collapsed := make([]complex128, len(reg.data))
	collapsed[outcome*reg.dim+outcome] = 1
	reg.data = collapsed

	return outcome
}

// Shots samples n outcomes and returns how often each basis state came up.
func (reg *Register) Shots(rng *rand.Rand, n int) (map[int]int, error) {
	if n < 1 {
		return nil, fmt.Errorf("shots %d must be positive: %w", n, ErrInvalidParameter)
	}

	counts := make(map[int]int)
	for range n {
		counts[reg.Sample(rng)]++
	}
	return counts, nil
}
