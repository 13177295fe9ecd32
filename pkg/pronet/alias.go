package pronet

import (
	"math/rand"
)

// AliasTable is a Vose alias table over k outcomes.
// Q[i] is the probability of keeping column i, J[i] the outcome used otherwise.
type AliasTable struct {
	J []int
	Q []float64
}

// Len returns the number of outcomes in the table.
func (at AliasTable) Len() int {
	return len(at.Q)
}

// BuildAliasTable builds alias table for O(1) weighted sampling
// This implements the alias method (Vose's variant) over the given distribution.
// The distribution is normalized here, so it only has to be non-negative.
// An empty distribution, or one that does not sum to a positive value, yields an empty table.
func BuildAliasTable(distribution []float64) AliasTable {
	n := len(distribution)
	if n == 0 {
		return AliasTable{}
	}

	sum := 0.0
	for _, p := range distribution {
		if p > 0 {
			sum += p
		}
	}
	if sum <= 0 {
		return AliasTable{}
	}

	at := AliasTable{
		J: make([]int, n),
		Q: make([]float64, n),
	}

	// Scale so that the average column mass is 1
	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, p := range distribution {
		if p < 0 {
			p = 0
		}
		at.Q[i] = p * float64(n) / sum
		at.J[i] = i
		if at.Q[i] < 1.0 {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		l := small[len(small)-1]
		small = small[:len(small)-1]

		g := large[len(large)-1]
		large = large[:len(large)-1]

		at.J[l] = g

		at.Q[g] = at.Q[g] + at.Q[l] - 1.0
		if at.Q[g] < 1.0 {
			small = append(small, g)
		} else {
			large = append(large, g)
		}
	}

	// Handle remaining elements, left over only through rounding
	for _, g := range large {
		at.Q[g] = 1.0
		at.J[g] = g
	}
	for _, l := range small {
		at.Q[l] = 1.0
		at.J[l] = l
	}

	return at
}

// Draw resolves column index of the table: with probability Q[index] it keeps index,
// otherwise it returns the alias J[index].
func (at AliasTable) Draw(rng *rand.Rand, index int) int {
	if rng.Float64() < at.Q[index] {
		return index
	}
	return at.J[index]
}

// Sample performs O(1) weighted random sampling over the whole table.
// It returns -1 for an empty table.
func (at AliasTable) Sample(rng *rand.Rand) int {
	n := len(at.Q)
	if n == 0 {
		return -1
	}
	return at.Draw(rng, rng.Intn(n))
}
