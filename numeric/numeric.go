// Package numeric defines the scalar capability contract shared by every
// matrix instantiation: in-place accumulation, in-place scaling and a
// magnitude convertible to a real number.
package numeric

import (
	"math"
	"math/cmplx"
)

// Scalar enumerates the element types a matrix may hold. The terms are exact
// (no approximation elements) so that Abs can dispatch on the dynamic type
// without a reflection fallback.
type Scalar interface {
	int | int8 | int16 | int32 | int64 |
		float32 | float64 |
		complex64 | complex128
}

// Abs returns the magnitude of v as a float64.
func Abs[T Scalar](v T) float64 {
	switch x := any(v).(type) {
	case int:
		return math.Abs(float64(x))
	case int8:
		return math.Abs(float64(x))
	case int16:
		return math.Abs(float64(x))
	case int32:
		return math.Abs(float64(x))
	case int64:
		return math.Abs(float64(x))
	case float32:
		return math.Abs(float64(x))
	case float64:
		return math.Abs(x)
	case complex64:
		return cmplx.Abs(complex128(x))
	case complex128:
		return cmplx.Abs(x)
	default:
		panic("numeric: unreachable scalar type")
	}
}

// IsZero reports whether v is structurally absent under the tolerance tol,
// i.e. whether |v| <= tol.
func IsZero[T Scalar](v T, tol float64) bool {
	return Abs(v) <= tol
}

// FromFloat converts a real number to the scalar type T. Complex types
// receive f as their real part; integer types truncate.
func FromFloat[T Scalar](f float64) T {
	var zero T
	switch any(zero).(type) {
	case int:
		return any(int(f)).(T)
	case int8:
		return any(int8(f)).(T)
	case int16:
		return any(int16(f)).(T)
	case int32:
		return any(int32(f)).(T)
	case int64:
		return any(int64(f)).(T)
	case float32:
		return any(float32(f)).(T)
	case float64:
		return any(f).(T)
	case complex64:
		return any(complex64(complex(f, 0))).(T)
	case complex128:
		return any(complex(f, 0)).(T)
	default:
		panic("numeric: unreachable scalar type")
	}
}
