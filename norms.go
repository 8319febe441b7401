package algebra

import (
	"fmt"
	"math"
	"slices"

	"github.com/diantonioandrea/pacs-second/internal/parallel"
	"github.com/diantonioandrea/pacs-second/numeric"
)

// NormKind selects one of the supported matrix norms.
type NormKind int

const (
	NormOne NormKind = iota
	NormInfinity
	NormFrobenius
)

func (k NormKind) String() string {
	switch k {
	case NormOne:
		return "one"
	case NormInfinity:
		return "infinity"
	case NormFrobenius:
		return "frobenius"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Norm dispatches to the requested norm.
func (m *Matrix[T]) Norm(kind NormKind) (float64, error) {
	switch kind {
	case NormOne:
		return m.OneNorm(), nil
	case NormInfinity:
		return m.InfNorm(), nil
	case NormFrobenius:
		return m.FrobeniusNorm(), nil
	default:
		return 0, &InvariantViolationError{Reason: fmt.Sprintf("unknown norm kind %d", int(kind))}
	}
}

// OneNorm returns the maximum column sum of entry magnitudes. Columns are
// the secondary direction under RowMajor ordering and the segment direction
// under ColumnMajor.
func (m *Matrix[T]) OneNorm() float64 {
	if m.ordering == RowMajor {
		return m.maxSecondarySum()
	}
	return m.maxPrimarySum()
}

// InfNorm returns the maximum row sum of entry magnitudes, the symmetric
// counterpart of OneNorm.
func (m *Matrix[T]) InfNorm() float64 {
	if m.ordering == RowMajor {
		return m.maxPrimarySum()
	}
	return m.maxSecondarySum()
}

// FrobeniusNorm returns sqrt of the sum of squared entry magnitudes,
// independent of storage mode. The compressed path reduces the flat value
// sequence, which may run data-parallel.
func (m *Matrix[T]) FrobeniusNorm() float64 {
	var sum float64
	if m.compressed {
		sum = parallel.SumFloat64(m.values, m.opts.workers, func(v T) float64 {
			a := numeric.Abs(v)
			return a * a
		})
	} else {
		for _, v := range m.elements {
			a := numeric.Abs(v)
			sum += a * a
		}
	}
	return math.Sqrt(sum)
}

// maxPrimarySum accumulates magnitude sums along the segment axis and
// returns the maximum. In compressed mode each segment is a contiguous value
// range, reduced independently.
func (m *Matrix[T]) maxPrimarySum() float64 {
	if m.compressed {
		var maxSum float64
		for j := 0; j < m.first; j++ {
			sum := parallel.SumFloat64(m.values[m.offsets[j]:m.offsets[j+1]], m.opts.workers, numeric.Abs[T])
			maxSum = math.Max(maxSum, sum)
		}
		return maxSum
	}

	sums := make([]float64, m.first)
	for c, v := range m.elements {
		sums[c.First] += numeric.Abs(v)
	}
	return slices.Max(sums)
}

// maxSecondarySum accumulates magnitude sums bucketed by secondary index and
// returns the maximum.
func (m *Matrix[T]) maxSecondarySum() float64 {
	sums := make([]float64, m.second)
	if m.compressed {
		for k, idx := range m.indices {
			sums[idx] += numeric.Abs(m.values[k])
		}
	} else {
		for c, v := range m.elements {
			sums[c.Second] += numeric.Abs(v)
		}
	}
	return slices.Max(sums)
}
