package algebra_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	algebra "github.com/diantonioandrea/pacs-second"
	"github.com/diantonioandrea/pacs-second/testutil"
)

// toDense expands a matrix through At for reference computations.
func toDense(t *testing.T, m *algebra.Matrix[float64]) [][]float64 {
	t.Helper()
	dense := make([][]float64, m.Rows())
	for j := range dense {
		dense[j] = make([]float64, m.Columns())
		for k := range dense[j] {
			v, err := m.At(j, k)
			require.NoError(t, err)
			dense[j][k] = v
		}
	}
	return dense
}

func denseMulVec(a [][]float64, x []float64) []float64 {
	out := make([]float64, len(a))
	for j := range a {
		for k := range a[j] {
			out[j] += a[j][k] * x[k]
		}
	}
	return out
}

func denseMul(a, b [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for j := range out {
		out[j] = make([]float64, len(b[0]))
		for k := range a[j] {
			for h := range b[k] {
				out[j][h] += a[j][k] * b[k][h]
			}
		}
	}
	return out
}

func TestMulVecIdentity(t *testing.T) {
	// A 3x3 identity times [1, 2, 3] yields [1, 2, 3] in every storage mode
	// and ordering.
	x := []float64{1, 2, 3}

	for _, o := range []algebra.Ordering{algebra.RowMajor, algebra.ColumnMajor} {
		for _, compressed := range []bool{false, true} {
			m, err := algebra.New[float64](o, 3, 3)
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				require.NoError(t, m.Set(i, i, 1))
			}
			if compressed {
				m.Compress()
			}

			got, err := m.MulVec(x)
			require.NoError(t, err)
			assert.Equal(t, x, got, "ordering %v compressed %v", o, compressed)
		}
	}
}

func TestMulVecModeInvariance(t *testing.T) {
	rng := testutil.NewRNG(99)

	for _, o := range []algebra.Ordering{algebra.RowMajor, algebra.ColumnMajor} {
		t.Run(o.String(), func(t *testing.T) {
			m, err := rng.Matrix(o, 12, 9, 40)
			require.NoError(t, err)
			x := rng.Vector(m.Columns())

			sparse, err := m.MulVec(x)
			require.NoError(t, err)

			want := denseMulVec(toDense(t, m), x)

			m.Compress()
			compressed, err := m.MulVec(x)
			require.NoError(t, err)

			for j := range want {
				assert.InDelta(t, want[j], sparse[j], 1e-10)
				assert.InDelta(t, want[j], compressed[j], 1e-10)
			}
		})
	}
}

func TestMulVecDimensionMismatch(t *testing.T) {
	m, err := algebra.New[float64](algebra.RowMajor, 2, 3)
	require.NoError(t, err)

	_, err = m.MulVec([]float64{1, 2})
	var dm *algebra.DimensionMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 3, dm.Expected)
	assert.Equal(t, 2, dm.Actual)
}

func TestVecMul(t *testing.T) {
	rng := testutil.NewRNG(7)

	for _, o := range []algebra.Ordering{algebra.RowMajor, algebra.ColumnMajor} {
		t.Run(o.String(), func(t *testing.T) {
			m, err := rng.Matrix(o, 8, 11, 30)
			require.NoError(t, err)
			x := rng.Vector(m.Rows())

			// Reference: (x A)_k = sum_j x_j A_{jk}.
			dense := toDense(t, m)
			want := make([]float64, m.Columns())
			for j := range dense {
				for k := range dense[j] {
					want[k] += x[j] * dense[j][k]
				}
			}

			sparse, err := algebra.VecMul(x, m)
			require.NoError(t, err)

			m.Compress()
			compressed, err := algebra.VecMul(x, m)
			require.NoError(t, err)

			for k := range want {
				assert.InDelta(t, want[k], sparse[k], 1e-10)
				assert.InDelta(t, want[k], compressed[k], 1e-10)
			}
		})
	}

	t.Run("DimensionMismatch", func(t *testing.T) {
		m, err := algebra.New[float64](algebra.RowMajor, 2, 3)
		require.NoError(t, err)

		_, err = algebra.VecMul([]float64{1, 2, 3}, m)
		var dm *algebra.DimensionMismatchError
		require.ErrorAs(t, err, &dm)
		assert.Equal(t, 2, dm.Expected)
	})
}

func TestMulAllModeCombinations(t *testing.T) {
	// A 2x3 times a 3x2, checked against the dense reference product for all
	// four storage mode combinations and both orderings.
	rng := testutil.NewRNG(1234)

	for _, o := range []algebra.Ordering{algebra.RowMajor, algebra.ColumnMajor} {
		left, err := rng.Matrix(o, 2, 3, 5)
		require.NoError(t, err)
		right, err := rng.Matrix(o, 3, 2, 5)
		require.NoError(t, err)

		want := denseMul(toDense(t, left), toDense(t, right))

		for _, leftCompressed := range []bool{false, true} {
			for _, rightCompressed := range []bool{false, true} {
				a := left.Clone()
				b := right.Clone()
				if leftCompressed {
					a.Compress()
				}
				if rightCompressed {
					b.Compress()
				}

				got, err := a.Mul(b)
				require.NoError(t, err)

				// The product is always handed back sparse; compression is
				// the caller's call.
				assert.False(t, got.IsCompressed())
				assert.Equal(t, 2, got.Rows())
				assert.Equal(t, 2, got.Columns())

				for j := 0; j < 2; j++ {
					for k := 0; k < 2; k++ {
						v, err := got.At(j, k)
						require.NoError(t, err)
						assert.InDelta(t, want[j][k], v, 1e-10,
							"ordering %v left %v right %v at (%d, %d)",
							o, leftCompressed, rightCompressed, j, k)
					}
				}
			}
		}
	}
}

func TestMulValidation(t *testing.T) {
	rm, err := algebra.New[float64](algebra.RowMajor, 2, 3)
	require.NoError(t, err)
	cm, err := algebra.New[float64](algebra.ColumnMajor, 3, 2)
	require.NoError(t, err)

	_, err = rm.Mul(cm)
	assert.True(t, errors.Is(err, algebra.ErrOrderingMismatch))

	other, err := algebra.New[float64](algebra.RowMajor, 2, 3)
	require.NoError(t, err)

	_, err = rm.Mul(other) // inner dimensions 3 vs 2 disagree
	var dm *algebra.DimensionMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, 3, dm.Expected)
	assert.Equal(t, 2, dm.Actual)
}

func TestMulDropsTinyAccumulations(t *testing.T) {
	// Products that cancel down to the tolerance are omitted from the result.
	a, err := algebra.NewFromCOO(algebra.RowMajor, 1, 2, map[algebra.Coord]float64{
		{First: 0, Second: 0}: 1, {First: 0, Second: 1}: -1,
	})
	require.NoError(t, err)
	b, err := algebra.NewFromCOO(algebra.RowMajor, 2, 1, map[algebra.Coord]float64{
		{First: 0, Second: 0}: 1, {First: 1, Second: 0}: 1,
	})
	require.NoError(t, err)

	got, err := a.Mul(b)
	require.NoError(t, err)
	assert.Zero(t, got.Size())
}

func TestScaleIdentityAndZero(t *testing.T) {
	rng := testutil.NewRNG(5)

	for _, compressed := range []bool{false, true} {
		m, err := rng.Matrix(algebra.RowMajor, 6, 6, 12)
		require.NoError(t, err)
		if compressed {
			m.Compress()
		}
		want := toDense(t, m)

		one := m.Scaled(1)
		assert.Equal(t, want, toDense(t, one), "M*1 == M")

		zero := m.Scaled(0)
		zero.Uncompress()
		zero.Compress()
		assert.Zero(t, zero.Size(), "M*0 compresses to empty")
	}
}

func TestScaleInPlace(t *testing.T) {
	m, err := algebra.NewFromCOO(algebra.RowMajor, 2, 2, map[algebra.Coord]float64{
		{First: 0, Second: 0}: 4, {First: 1, Second: 1}: 3,
	})
	require.NoError(t, err)

	m.Scale(2)
	v, err := m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 8.0, v)

	m.Compress()
	m.Scale(0.5)
	v, err = m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
}

func TestDiv(t *testing.T) {
	m, err := algebra.NewFromCOO(algebra.RowMajor, 2, 2, map[algebra.Coord]float64{
		{First: 0, Second: 0}: 4, {First: 1, Second: 1}: 3,
	})
	require.NoError(t, err)

	require.NoError(t, m.Div(2))
	v, err := m.At(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	m.Compress()
	require.NoError(t, m.Div(2))
	v, err = m.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.75, v)

	err = m.Div(0)
	assert.True(t, errors.Is(err, algebra.ErrZeroDivisor))
}

func TestIntMatrix(t *testing.T) {
	// The engine is generic; integers accumulate exactly.
	m, err := algebra.NewFromCOO(algebra.RowMajor, 2, 2, map[algebra.Coord]int{
		{First: 0, Second: 0}: 2, {First: 0, Second: 1}: -3, {First: 1, Second: 1}: 4,
	})
	require.NoError(t, err)
	m.Compress()

	got, err := m.MulVec([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int{-4, 8}, got)
	assert.InDelta(t, 5.385164807134504, m.FrobeniusNorm(), 1e-12)
}

func TestComplexMatrix(t *testing.T) {
	m, err := algebra.NewFromCOO(algebra.RowMajor, 2, 2, map[algebra.Coord]complex128{
		{First: 0, Second: 0}: 3 + 4i,
	})
	require.NoError(t, err)

	assert.InDelta(t, 5.0, m.FrobeniusNorm(), 1e-12)

	got, err := m.MulVec([]complex128{1i, 0})
	require.NoError(t, err)
	assert.Equal(t, complex(-4, 3), got[0])
}
