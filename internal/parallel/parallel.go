// Package parallel provides bounded data-parallel helpers over flat slices.
//
// Every element is processed independently and reductions combine per-chunk
// partial results, so reduction callbacks must be associative and commutative.
// Small inputs and single-worker configurations run sequentially.
package parallel

import "golang.org/x/sync/errgroup"

// minChunk is the smallest slice length worth splitting across goroutines.
const minChunk = 4096

// MapInPlace applies f to every element of xs using at most workers
// goroutines.
func MapInPlace[T any](xs []T, workers int, f func(*T)) {
	if workers <= 1 || len(xs) < 2*minChunk {
		for i := range xs {
			f(&xs[i])
		}
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)

	chunk := chunkSize(len(xs), workers)
	for lo := 0; lo < len(xs); lo += chunk {
		hi := min(lo+chunk, len(xs))
		part := xs[lo:hi]
		g.Go(func() error {
			for i := range part {
				f(&part[i])
			}
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()
}

// SumFloat64 reduces xs to the sum of f over its elements using at most
// workers goroutines.
func SumFloat64[T any](xs []T, workers int, f func(T) float64) float64 {
	if workers <= 1 || len(xs) < 2*minChunk {
		var sum float64
		for _, x := range xs {
			sum += f(x)
		}
		return sum
	}

	var g errgroup.Group
	g.SetLimit(workers)

	chunk := chunkSize(len(xs), workers)
	partials := make([]float64, (len(xs)+chunk-1)/chunk)
	for c := range partials {
		lo := c * chunk
		hi := min(lo+chunk, len(xs))
		part := xs[lo:hi]
		g.Go(func() error {
			var sum float64
			for _, x := range part {
				sum += f(x)
			}
			partials[c] = sum
			return nil
		})
	}
	_ = g.Wait()

	var total float64
	for _, p := range partials {
		total += p
	}
	return total
}

func chunkSize(n, workers int) int {
	chunk := (n + workers - 1) / workers
	return max(chunk, minChunk)
}
