package algebra

import (
	"maps"
	"slices"
	"time"

	"github.com/diantonioandrea/pacs-second/numeric"
)

// Compress transitions the matrix from sparse to compressed storage, dropping
// every entry whose magnitude does not exceed the zero tolerance. The
// coordinate mapping is cleared on completion. It is a no-op on an already
// compressed matrix.
//
// Not safe concurrently with any other access to the same instance.
func (m *Matrix[T]) Compress() {
	if m.compressed {
		return
	}
	start := time.Now()

	// Go maps carry no key order; re-establish the lexicographic (first,
	// second) order the single building pass relies on.
	keys := slices.SortedFunc(maps.Keys(m.elements), compareCoords)

	m.offsets = make([]int, m.first+1)
	m.indices = make([]int, 0, len(keys))
	m.values = make([]T, 0, len(keys))

	dropped := 0
	for _, c := range keys {
		v := m.elements[c]
		if numeric.IsZero(v, m.opts.tolerance) {
			dropped++
			continue
		}
		m.indices = append(m.indices, c.Second)
		m.values = append(m.values, v)
		m.offsets[c.First+1]++
	}
	for j := 1; j <= m.first; j++ {
		m.offsets[j] += m.offsets[j-1]
	}

	m.elements = nil
	m.compressed = true

	m.opts.metrics.RecordCompress(time.Since(start), len(m.values), dropped)
}

// Uncompress transitions the matrix from compressed to sparse storage,
// re-inserting every segment entry into a fresh coordinate mapping and
// clearing the parallel sequences. It is a no-op on a sparse matrix.
//
// Not safe concurrently with any other access to the same instance.
func (m *Matrix[T]) Uncompress() {
	if !m.compressed {
		return
	}

	m.elements = make(map[Coord]T, len(m.values))
	for j := 0; j < m.first; j++ {
		for k := m.offsets[j]; k < m.offsets[j+1]; k++ {
			m.elements[Coord{First: j, Second: m.indices[k]}] = m.values[k]
		}
	}

	m.offsets, m.indices, m.values = nil, nil, nil
	m.compressed = false
}
