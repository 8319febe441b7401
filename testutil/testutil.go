package testutil

import (
	"math/rand"
	"sync"

	algebra "github.com/diantonioandrea/pacs-second"
)

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// value returns a random scalar with magnitude in [0.5, 2), so generated
// entries always survive the default zero tolerance.
func (r *RNG) value() float64 {
	v := 0.5 + 1.5*r.rand.Float64()
	if r.rand.Intn(2) == 0 {
		return -v
	}
	return v
}

// Entries generates nnz unique random coordinates inside
// [0, first) x [0, second) with values of magnitude in [0.5, 2).
// nnz is capped at first*second.
func (r *RNG) Entries(first, second, nnz int) map[algebra.Coord]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if total := first * second; nnz > total {
		nnz = total
	}

	entries := make(map[algebra.Coord]float64, nnz)
	for len(entries) < nnz {
		c := algebra.Coord{First: r.rand.Intn(first), Second: r.rand.Intn(second)}
		if _, ok := entries[c]; ok {
			continue
		}
		entries[c] = r.value()
	}
	return entries
}

// Vector generates a dense vector of length n with values of magnitude in
// [0.5, 2).
func (r *RNG) Vector(n int) []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]float64, n)
	for i := range out {
		out[i] = r.value()
	}
	return out
}

// Matrix generates a sparse-mode matrix of the given ordering and logical
// shape with nnz random entries.
func (r *RNG) Matrix(o algebra.Ordering, rows, cols, nnz int, opts ...algebra.Option) (*algebra.Matrix[float64], error) {
	first, second := rows, cols
	if o == algebra.ColumnMajor {
		first, second = cols, rows
	}
	return algebra.NewFromCOO(o, first, second, r.Entries(first, second, nnz), opts...)
}
