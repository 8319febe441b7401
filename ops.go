package algebra

import (
	"time"

	"github.com/diantonioandrea/pacs-second/internal/parallel"
	"github.com/diantonioandrea/pacs-second/numeric"
)

// MulVec returns the matrix-vector product m·x as a dense vector of length
// Rows(). The kernel depends on storage mode and ordering: compressed CSR
// takes per-segment dot products, compressed CSC scatter-accumulates a linear
// combination of columns, and sparse mode makes a single pass over the
// mapping keyed on the index playing the row role.
func (m *Matrix[T]) MulVec(x []T) ([]T, error) {
	if len(x) != m.Columns() {
		return nil, &DimensionMismatchError{Op: "MulVec", Expected: m.Columns(), Actual: len(x)}
	}
	start := time.Now()

	out := make([]T, m.Rows())
	switch {
	case !m.compressed:
		if m.ordering == RowMajor {
			for c, v := range m.elements {
				out[c.First] += v * x[c.Second]
			}
		} else {
			for c, v := range m.elements {
				out[c.Second] += v * x[c.First]
			}
		}
	case m.ordering == RowMajor:
		// Standard product.
		for j := 0; j < m.first; j++ {
			for k := m.offsets[j]; k < m.offsets[j+1]; k++ {
				out[j] += m.values[k] * x[m.indices[k]]
			}
		}
	default:
		// Linear combination of columns.
		for j := 0; j < m.first; j++ {
			for k := m.offsets[j]; k < m.offsets[j+1]; k++ {
				out[m.indices[k]] += m.values[k] * x[j]
			}
		}
	}

	m.opts.metrics.RecordMulVec(time.Since(start), m.Size())
	return out, nil
}

// VecMul returns the vector-matrix product x·m as a dense vector of length
// m.Columns(). It is the structural mirror of MulVec with the row and column
// roles swapped.
func VecMul[T numeric.Scalar](x []T, m *Matrix[T]) ([]T, error) {
	if len(x) != m.Rows() {
		return nil, &DimensionMismatchError{Op: "VecMul", Expected: m.Rows(), Actual: len(x)}
	}
	start := time.Now()

	out := make([]T, m.Columns())
	switch {
	case !m.compressed:
		if m.ordering == ColumnMajor {
			for c, v := range m.elements {
				out[c.First] += x[c.Second] * v
			}
		} else {
			for c, v := range m.elements {
				out[c.Second] += x[c.First] * v
			}
		}
	case m.ordering == ColumnMajor:
		// Standard product along the segment axis.
		for j := 0; j < m.first; j++ {
			for k := m.offsets[j]; k < m.offsets[j+1]; k++ {
				out[j] += x[m.indices[k]] * m.values[k]
			}
		}
	default:
		// Linear combination of rows.
		for j := 0; j < m.first; j++ {
			for k := m.offsets[j]; k < m.offsets[j+1]; k++ {
				out[m.indices[k]] += x[j] * m.values[k]
			}
		}
	}

	m.opts.metrics.RecordMulVec(time.Since(start), m.Size())
	return out, nil
}

// Mul returns the matrix product m·b. Both operands must share the same
// ordering, and m.Columns() must equal b.Rows().
//
// The product walks the primary operand's segments (the left operand under
// RowMajor ordering, the right one under ColumnMajor), densifies each segment
// into a buffer and linearly combines the other operand's segments (when that
// operand is sparse, its mapping is bucketed once by segment). Accumulated
// entries within the zero tolerance are omitted. Each of the four storage
// mode combinations takes this same path with mode-specific segment access,
// and all produce identical results up to tolerance filtering.
//
// The result is always returned in sparse mode, inheriting the receiver's
// options; compression is left to the caller.
func (m *Matrix[T]) Mul(b *Matrix[T]) (*Matrix[T], error) {
	if m.ordering != b.ordering {
		return nil, ErrOrderingMismatch
	}
	if m.Columns() != b.Rows() {
		return nil, &DimensionMismatchError{Op: "Mul", Expected: m.Columns(), Actual: b.Rows()}
	}
	start := time.Now()

	// The primary operand supplies the result segments; the other operand's
	// segments are linearly combined.
	primary, other := m, b
	if m.ordering == ColumnMajor {
		primary, other = b, m
	}

	var primaryBuckets, otherBuckets [][]segEntry[T]
	if !primary.compressed {
		primaryBuckets = primary.bucketBySegment()
	}
	if !other.compressed {
		otherBuckets = other.bucketBySegment()
	}

	elements := make(map[Coord]T)
	seg := make([]T, primary.second)
	product := make([]T, other.second)

	for j := 0; j < primary.first; j++ {
		clear(seg)
		if primary.compressed {
			for k := primary.offsets[j]; k < primary.offsets[j+1]; k++ {
				seg[primary.indices[k]] = primary.values[k]
			}
		} else {
			for _, e := range primaryBuckets[j] {
				seg[e.index] = e.value
			}
		}

		clear(product)
		if other.compressed {
			for k := 0; k < other.first; k++ {
				for h := other.offsets[k]; h < other.offsets[k+1]; h++ {
					product[other.indices[h]] += seg[k] * other.values[h]
				}
			}
		} else {
			for k, bucket := range otherBuckets {
				for _, e := range bucket {
					product[e.index] += seg[k] * e.value
				}
			}
		}

		for h, v := range product {
			if !numeric.IsZero(v, m.opts.tolerance) {
				elements[Coord{First: j, Second: h}] = v
			}
		}
	}

	out := &Matrix[T]{
		first:    primary.first,
		second:   other.second,
		ordering: m.ordering,
		opts:     m.opts,
		elements: elements,
	}

	m.opts.metrics.RecordMul(time.Since(start), out.Size())
	return out, nil
}

// Scale multiplies every stored entry by alpha in place. In compressed mode
// this is one data-parallel pass over the flat value sequence; in sparse mode
// every mapping entry is rewritten, which is asymptotically slower.
func (m *Matrix[T]) Scale(alpha T) {
	if m.compressed {
		parallel.MapInPlace(m.values, m.opts.workers, func(v *T) { *v *= alpha })
		return
	}
	for c, v := range m.elements {
		m.elements[c] = v * alpha
	}
}

// Div divides every stored entry by alpha in place. A zero divisor is
// rejected.
func (m *Matrix[T]) Div(alpha T) error {
	if numeric.Abs(alpha) == 0 {
		return &InvariantViolationError{Reason: "division of a matrix by a zero scalar", cause: ErrZeroDivisor}
	}

	if m.compressed {
		parallel.MapInPlace(m.values, m.opts.workers, func(v *T) { *v /= alpha })
		return nil
	}
	for c, v := range m.elements {
		m.elements[c] = v / alpha
	}
	return nil
}

// Scaled returns a scaled copy of the matrix in the same mode. Scalar-matrix
// and matrix-scalar products are the same operation by commutativity.
func (m *Matrix[T]) Scaled(alpha T) *Matrix[T] {
	out := m.Clone()
	out.Scale(alpha)
	return out
}
